package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/middleware"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/utils"
)

const (
	msgInvalidBody       = "Invalid request body"
	msgNotAuthenticated  = "Authentication failed"
	totalCountHeader     = "X-Total-Count"
	totalPagesHeader     = "X-Total-Pages"
	invalidQueryCode     = "invalid_format"
	msgInvalidPagination = "page and limit must be whole numbers"
)

// bindJSON decodes the body into dst. Malformed JSON and wrong types are
// reported as one 400; rule checks happen in the usecase.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Debug(c.Request.Context(), "Request body rejected", zap.String("path", c.FullPath()), zap.Error(err))
		response.Error(c, domainerrors.BadRequest(msgInvalidBody))
		return false
	}
	return true
}

// actor returns the authenticated caller or answers 401
func actor(c *gin.Context) (entities.Actor, bool) {
	a, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized(msgNotAuthenticated))
	}
	return a, ok
}

// pagination reads page and limit. Both are optional; limit 0 means all.
func pagination(c *gin.Context) (utils.PaginationParams, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.Error(c, domainerrors.FieldInvalid("page", invalidQueryCode, msgInvalidPagination))
		return utils.PaginationParams{}, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		response.Error(c, domainerrors.FieldInvalid("limit", invalidQueryCode, msgInvalidPagination))
		return utils.PaginationParams{}, false
	}
	return utils.GetPaginationParams(page, limit), true
}
