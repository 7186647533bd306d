package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// Notification tells a customer about a payment outcome
type Notification struct {
	ID            uuid.UUID       `json:"id"`
	PaymentID     null.String     `json:"paymentId"`
	Username      string          `json:"username"`
	RecipientName string          `json:"recipientName"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        PaymentStatus   `json:"status"`
	Date          string          `json:"date"`
	Read          null.Bool       `json:"read"`
	Revision      int             `json:"-"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// TransactionHistory is an append-only record of a payment event
type TransactionHistory struct {
	ID            uuid.UUID       `json:"id"`
	PaymentID     null.String     `json:"paymentId"`
	Username      string          `json:"username"`
	RecipientName string          `json:"recipientName"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        PaymentStatus   `json:"status"`
	Date          string          `json:"date"`
	Revision      int             `json:"-"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// PaymentRecordInput logs a notification or history entry. Links to a
// payment are only made by the review workflow, never from a request body.
type PaymentRecordInput struct {
	Username      string          `json:"username" validate:"required,username"`
	RecipientName string          `json:"recipientName" validate:"required,notblank,max=100"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0,money"`
	Currency      string          `json:"currency" validate:"required,currency_code"`
	Status        PaymentStatus   `json:"status" validate:"required,oneof=approved disapproved pending"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
}

// NotificationFromPayment builds the outcome notification for p
func NotificationFromPayment(p *Payment) *Notification {
	return &Notification{
		PaymentID:     null.StringFrom(p.ID.String()),
		Username:      p.Username,
		RecipientName: p.RecipientName,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
		Date:          p.Date,
		Read:          null.BoolFrom(false),
		Revision:      p.Revision,
	}
}

// HistoryFromPayment builds the history entry for p's current status
func HistoryFromPayment(p *Payment) *TransactionHistory {
	return &TransactionHistory{
		PaymentID:     null.StringFrom(p.ID.String()),
		Username:      p.Username,
		RecipientName: p.RecipientName,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
		Date:          p.Date,
		Revision:      p.Revision,
	}
}
