package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RecipientName       string          `gorm:"type:varchar(100);not null"`
	RecipientBank       string          `gorm:"type:varchar(100);not null"`
	RecipientAccountNo  string          `gorm:"type:varchar(10);not null"`
	Amount              decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	SwiftCode           string          `gorm:"type:varchar(7);not null"`
	Username            string          `gorm:"type:varchar(20);not null;index:idx_payments_username_status,priority:1"`
	Date                string          `gorm:"type:varchar(10);not null"`
	Currency            string          `gorm:"type:varchar(3);not null"`
	Status              string          `gorm:"type:varchar(20);not null;default:'pending';index;index:idx_payments_username_status,priority:2"`
	ReviewedBy          *string         `gorm:"type:varchar(20)"`
	NotificationPending bool            `gorm:"not null;default:false;index"`
	Revision            int             `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Notification rows linked to a payment are unique per transition revision
// so the post-review write can be replayed safely.
type Notification struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PaymentID     *string         `gorm:"type:varchar(36);uniqueIndex:idx_notifications_payment_revision,priority:1"`
	Username      string          `gorm:"type:varchar(20);not null;index"`
	RecipientName string          `gorm:"type:varchar(100);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	Status        string          `gorm:"type:varchar(20);not null"`
	Date          string          `gorm:"type:varchar(10);not null"`
	Read          *bool           `gorm:"default:false"`
	Revision      int             `gorm:"not null;default:0;uniqueIndex:idx_notifications_payment_revision,priority:2"`
	CreatedAt     time.Time
}

type TransactionHistory struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PaymentID     *string         `gorm:"type:varchar(36);uniqueIndex:idx_history_payment_revision,priority:1"`
	Username      string          `gorm:"type:varchar(20);not null;index"`
	RecipientName string          `gorm:"type:varchar(100);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	Status        string          `gorm:"type:varchar(20);not null"`
	Date          string          `gorm:"type:varchar(10);not null"`
	Revision      int             `gorm:"not null;default:0;uniqueIndex:idx_history_payment_revision,priority:2"`
	CreatedAt     time.Time
}

func (TransactionHistory) TableName() string {
	return "transaction_history"
}

// All lists every model in migration order
func All() []interface{} {
	return []interface{}{&User{}, &Employee{}, &Payment{}, &Notification{}, &TransactionHistory{}}
}
