package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusApproved    PaymentStatus = "approved"
	PaymentStatusDisapproved PaymentStatus = "disapproved"
)

// Valid reports whether s is a known status
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusDisapproved:
		return true
	}
	return false
}

// Resolved reports whether s is a terminal review outcome
func (s PaymentStatus) Resolved() bool {
	return s == PaymentStatusApproved || s == PaymentStatusDisapproved
}

// ResolvedStatuses lists the statuses shown on the status page
var ResolvedStatuses = []PaymentStatus{PaymentStatusApproved, PaymentStatusDisapproved}

// Payment is an international payment request awaiting or past review.
// Revision counts status transitions; outcome records are keyed on it.
type Payment struct {
	ID                  uuid.UUID       `json:"id"`
	RecipientName       string          `json:"recipientName"`
	RecipientBank       string          `json:"recipientBank"`
	RecipientAccountNo  string          `json:"recipientAccountNo"`
	Amount              decimal.Decimal `json:"amount"`
	SwiftCode           string          `json:"swiftCode"`
	Username            string          `json:"username"`
	Date                string          `json:"date"`
	Currency            string          `json:"currency"`
	Status              PaymentStatus   `json:"status"`
	ReviewedBy          null.String     `json:"reviewedBy"`
	NotificationPending bool            `json:"-"`
	Revision            int             `json:"-"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// CreatePaymentInput is the payment submission form
type CreatePaymentInput struct {
	RecipientName      string          `json:"recipientName" validate:"required,notblank,max=100"`
	RecipientBank      string          `json:"recipientBank" validate:"required,notblank,max=100"`
	RecipientAccountNo string          `json:"recipientAccountNo" validate:"required,account_number"`
	Amount             decimal.Decimal `json:"amount" validate:"gt=0,money"`
	SwiftCode          string          `json:"swiftCode" validate:"required,swift_code"`
	Username           string          `json:"username" validate:"required,username"`
	Date               string          `json:"date" validate:"required,datetime=2006-01-02"`
	Currency           string          `json:"currency" validate:"required,currency_code"`
}

// UpdatePaymentStatusInput is the review decision body
type UpdatePaymentStatusInput struct {
	Status PaymentStatus `json:"status" validate:"required,oneof=approved disapproved pending"`
}

// InsertResult mirrors the insert acknowledgement returned on create
type InsertResult struct {
	InsertedID uuid.UUID `json:"insertedId"`
}

// CreatePaymentResponse is returned by a successful submission
type CreatePaymentResponse struct {
	InsertResult InsertResult `json:"insertResult"`
	Payment      *Payment     `json:"payment"`
}

// PaymentStatusResponse is returned by a successful transition
type PaymentStatusResponse struct {
	Message string   `json:"message"`
	Payment *Payment `json:"payment"`
}
