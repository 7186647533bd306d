package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"payportal.backend/internal/domain/entities"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/pkg/utils"
)

// NotificationService is the notification surface used by NotificationHandler
type NotificationService interface {
	Create(ctx context.Context, actor entities.Actor, input *entities.PaymentRecordInput) (*entities.Notification, error)
	ListForUser(ctx context.Context, actor entities.Actor, username string) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, actor entities.Actor, rawID string) error
}

// HistoryService is the transaction history surface used by NotificationHandler
type HistoryService interface {
	Create(ctx context.Context, actor entities.Actor, input *entities.PaymentRecordInput) (*entities.TransactionHistory, error)
	List(ctx context.Context, actor entities.Actor, username string, page utils.PaginationParams) ([]*entities.TransactionHistory, utils.PaginationMeta, error)
}

// NotificationHandler handles notification and transaction history endpoints
type NotificationHandler struct {
	notificationUsecase NotificationService
	historyUsecase      HistoryService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationUsecase NotificationService, historyUsecase HistoryService) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		historyUsecase:      historyUsecase,
	}
}

// CreateNotification logs a notification
// POST /notifications
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}

	var input entities.PaymentRecordInput
	if !bindJSON(c, &input) {
		return
	}

	notification, err := h.notificationUsecase.Create(c.Request.Context(), caller, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, notification)
}

// ListNotifications returns every notification of a customer in insertion order
// GET /notifications/:username
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}

	notifications, err := h.notificationUsecase.ListForUser(c.Request.Context(), caller, c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, notifications)
}

// MarkRead flags one of the caller's notifications as read
// PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}

	if err := h.notificationUsecase.MarkRead(c.Request.Context(), caller, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Notification marked as read")
}

// CreateHistory appends a transaction history entry
// POST /payment/history
func (h *NotificationHandler) CreateHistory(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}

	var input entities.PaymentRecordInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := h.historyUsecase.Create(c.Request.Context(), caller, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, entry)
}

// ListHistory returns history entries as a plain array. Paging details are
// sent in headers so the body shape does not change with page/limit.
// GET /payment/history?username=&page=&limit=
func (h *NotificationHandler) ListHistory(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	page, ok := pagination(c)
	if !ok {
		return
	}

	entries, meta, err := h.historyUsecase.List(c.Request.Context(), caller, c.Query("username"), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header(totalCountHeader, strconv.FormatInt(meta.TotalCount, 10))
	c.Header(totalPagesHeader, strconv.Itoa(meta.TotalPages))
	response.Success(c, http.StatusOK, entries)
}
