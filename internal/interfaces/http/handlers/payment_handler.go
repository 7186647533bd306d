package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"payportal.backend/internal/domain/entities"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/pkg/utils"
)

// PaymentService is the payment surface used by PaymentHandler
type PaymentService interface {
	CreatePayment(ctx context.Context, actor entities.Actor, input *entities.CreatePaymentInput) (*entities.CreatePaymentResponse, error)
	ListPending(ctx context.Context) ([]*entities.Payment, error)
	UpdateStatus(ctx context.Context, reviewer entities.Actor, rawID string, input *entities.UpdatePaymentStatusInput) (*entities.PaymentStatusResponse, error)
	ListResolved(ctx context.Context, actor entities.Actor, username string) ([]*entities.Payment, error)
	GetPayment(ctx context.Context, actor entities.Actor, rawID string) (*entities.Payment, error)
	ListMine(ctx context.Context, actor entities.Actor, page utils.PaginationParams) ([]*entities.Payment, utils.PaginationMeta, error)
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentUsecase PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUsecase PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase}
}

// CreatePayment submits a payment for review
// POST /payment
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}

	var input entities.CreatePaymentInput
	if !bindJSON(c, &input) {
		return
	}

	createResponse, err := h.paymentUsecase.CreatePayment(c.Request.Context(), caller, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, createResponse)
}

// ListPending lists payments awaiting review
// GET /payment/pending
func (h *PaymentHandler) ListPending(c *gin.Context) {
	payments, err := h.paymentUsecase.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, payments)
}

// UpdateStatus records a review decision
// PUT /payment/:id/status
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	reviewer, ok := actor(c)
	if !ok {
		return
	}

	var input entities.UpdatePaymentStatusInput
	if !bindJSON(c, &input) {
		return
	}

	statusResponse, err := h.paymentUsecase.UpdateStatus(c.Request.Context(), reviewer, c.Param("id"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, statusResponse)
}

// ListResolved lists approved and disapproved payments of a customer
// GET /payment/status?username=
func (h *PaymentHandler) ListResolved(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}

	payments, err := h.paymentUsecase.ListResolved(c.Request.Context(), caller, c.Query("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, payments)
}

// GetPayment gets a payment by ID
// GET /payment/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}

	payment, err := h.paymentUsecase.GetPayment(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payment": payment})
}

// ListPayments lists the caller's payments, newest first
// GET /payment
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	page, ok := pagination(c)
	if !ok {
		return
	}

	payments, meta, err := h.paymentUsecase.ListMine(c.Request.Context(), caller, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"payments":   payments,
		"pagination": meta,
	})
}
