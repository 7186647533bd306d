package response

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/pkg/logger"
)

// ErrorBody is the single error shape served by every route. FieldErrors
// repeats Errors as a field to message map, first message per field.
type ErrorBody struct {
	Message     string                    `json:"message"`
	Code        string                    `json:"code"`
	Errors      []domainerrors.FieldError `json:"errors"`
	FieldErrors map[string]string         `json:"fieldErrors"`
}

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Message sends a {message} body
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error maps err onto the error body. Server side failures are logged with
// their cause and answered with a generic message.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.From(err)
	if appErr.Status >= 500 {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", appErr.Status),
			zap.Error(err),
		)
	}
	c.JSON(appErr.Status, NewErrorBody(appErr))
}

// Abort writes the error body and stops the handler chain
func Abort(c *gin.Context, appErr *domainerrors.AppError) {
	c.AbortWithStatusJSON(appErr.Status, NewErrorBody(appErr))
}

// NewErrorBody builds the body for appErr. An error without field
// attribution is reported against the general field.
func NewErrorBody(appErr *domainerrors.AppError) ErrorBody {
	fields := appErr.Fields
	if len(fields) == 0 {
		fields = []domainerrors.FieldError{{
			Field:   domainerrors.FieldGeneral,
			Code:    appErr.Code,
			Message: appErr.Message,
		}}
	}

	byField := make(map[string]string, len(fields))
	for _, f := range fields {
		if _, seen := byField[f.Field]; !seen {
			byField[f.Field] = f.Message
		}
	}

	return ErrorBody{
		Message:     appErr.Message,
		Code:        appErr.Code,
		Errors:      fields,
		FieldErrors: byField,
	}
}
