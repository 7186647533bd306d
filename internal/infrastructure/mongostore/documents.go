package mongostore

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"payportal.backend/internal/domain/entities"
)

type userDoc struct {
	ID            string    `bson:"_id"`
	FirstName     string    `bson:"firstName"`
	LastName      string    `bson:"lastName"`
	Email         string    `bson:"email"`
	Username      string    `bson:"username"`
	PasswordHash  string    `bson:"password"`
	AccountNumber string    `bson:"accountNumber"`
	IDNumber      string    `bson:"idNumber"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

type employeeDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	Role         *string   `bson:"role,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type paymentDoc struct {
	ID                  string               `bson:"_id"`
	RecipientName       string               `bson:"recipientName"`
	RecipientBank       string               `bson:"recipientBank"`
	RecipientAccountNo  string               `bson:"recipientAccountNo"`
	Amount              primitive.Decimal128 `bson:"amount"`
	SwiftCode           string               `bson:"swiftCode"`
	Username            string               `bson:"username"`
	Date                string               `bson:"date"`
	Currency            string               `bson:"currency"`
	Status              string               `bson:"status"`
	ReviewedBy          *string              `bson:"reviewedBy,omitempty"`
	NotificationPending bool                 `bson:"notificationPending"`
	Revision            int                  `bson:"revision"`
	CreatedAt           time.Time            `bson:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt"`
}

// recordDoc backs both notifications and history entries
type recordDoc struct {
	ID            string               `bson:"_id"`
	PaymentID     *string              `bson:"paymentId,omitempty"`
	Username      string               `bson:"username"`
	RecipientName string               `bson:"recipientName"`
	Amount        primitive.Decimal128 `bson:"amount"`
	Currency      string               `bson:"currency"`
	Status        string               `bson:"status"`
	Date          string               `bson:"date"`
	Read          *bool                `bson:"read,omitempty"`
	Revision      int                  `bson:"revision,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("invalid amount %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (d *userDoc) toEntity() *entities.User {
	return &entities.User{
		ID:            parseID(d.ID),
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		Username:      d.Username,
		PasswordHash:  d.PasswordHash,
		AccountNumber: d.AccountNumber,
		IDNumber:      d.IDNumber,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (d *employeeDoc) toEntity() *entities.Employee {
	return &entities.Employee{
		ID:           parseID(d.ID),
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Role:         null.StringFromPtr(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func newPaymentDoc(p *entities.Payment) (*paymentDoc, error) {
	amount, err := toDecimal128(p.Amount)
	if err != nil {
		return nil, err
	}
	return &paymentDoc{
		ID:                  p.ID.String(),
		RecipientName:       p.RecipientName,
		RecipientBank:       p.RecipientBank,
		RecipientAccountNo:  p.RecipientAccountNo,
		Amount:              amount,
		SwiftCode:           p.SwiftCode,
		Username:            p.Username,
		Date:                p.Date,
		Currency:            p.Currency,
		Status:              string(p.Status),
		ReviewedBy:          p.ReviewedBy.Ptr(),
		NotificationPending: p.NotificationPending,
		Revision:            p.Revision,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}, nil
}

func (d *paymentDoc) toEntity() *entities.Payment {
	return &entities.Payment{
		ID:                  parseID(d.ID),
		RecipientName:       d.RecipientName,
		RecipientBank:       d.RecipientBank,
		RecipientAccountNo:  d.RecipientAccountNo,
		Amount:              fromDecimal128(d.Amount),
		SwiftCode:           d.SwiftCode,
		Username:            d.Username,
		Date:                d.Date,
		Currency:            d.Currency,
		Status:              entities.PaymentStatus(d.Status),
		ReviewedBy:          null.StringFromPtr(d.ReviewedBy),
		NotificationPending: d.NotificationPending,
		Revision:            d.Revision,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

func newNotificationDoc(n *entities.Notification) (*recordDoc, error) {
	amount, err := toDecimal128(n.Amount)
	if err != nil {
		return nil, err
	}
	return &recordDoc{
		ID:            n.ID.String(),
		PaymentID:     n.PaymentID.Ptr(),
		Username:      n.Username,
		RecipientName: n.RecipientName,
		Amount:        amount,
		Currency:      n.Currency,
		Status:        string(n.Status),
		Date:          n.Date,
		Read:          n.Read.Ptr(),
		Revision:      n.Revision,
		CreatedAt:     n.CreatedAt,
	}, nil
}

func (d *recordDoc) toNotification() *entities.Notification {
	return &entities.Notification{
		ID:            parseID(d.ID),
		PaymentID:     null.StringFromPtr(d.PaymentID),
		Username:      d.Username,
		RecipientName: d.RecipientName,
		Amount:        fromDecimal128(d.Amount),
		Currency:      d.Currency,
		Status:        entities.PaymentStatus(d.Status),
		Date:          d.Date,
		Read:          null.BoolFromPtr(d.Read),
		Revision:      d.Revision,
		CreatedAt:     d.CreatedAt,
	}
}

func newHistoryDoc(h *entities.TransactionHistory) (*recordDoc, error) {
	amount, err := toDecimal128(h.Amount)
	if err != nil {
		return nil, err
	}
	return &recordDoc{
		ID:            h.ID.String(),
		PaymentID:     h.PaymentID.Ptr(),
		Username:      h.Username,
		RecipientName: h.RecipientName,
		Amount:        amount,
		Currency:      h.Currency,
		Status:        string(h.Status),
		Date:          h.Date,
		Revision:      h.Revision,
		CreatedAt:     h.CreatedAt,
	}, nil
}

func (d *recordDoc) toHistory() *entities.TransactionHistory {
	return &entities.TransactionHistory{
		ID:            parseID(d.ID),
		PaymentID:     null.StringFromPtr(d.PaymentID),
		Username:      d.Username,
		RecipientName: d.RecipientName,
		Amount:        fromDecimal128(d.Amount),
		Currency:      d.Currency,
		Status:        entities.PaymentStatus(d.Status),
		Date:          d.Date,
		Revision:      d.Revision,
		CreatedAt:     d.CreatedAt,
	}
}
