package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName     string    `gorm:"type:varchar(100);not null"`
	LastName      string    `gorm:"type:varchar(100);not null"`
	Email         string    `gorm:"type:varchar(254);uniqueIndex:idx_users_email;not null"`
	Username      string    `gorm:"type:varchar(20);uniqueIndex:idx_users_username;not null"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	AccountNumber string    `gorm:"type:varchar(10);uniqueIndex:idx_users_account_number;not null"`
	IDNumber      string    `gorm:"column:id_number;type:varchar(13);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:varchar(20);uniqueIndex:idx_employees_username;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FirstName    string    `gorm:"type:varchar(100);not null"`
	LastName     string    `gorm:"type:varchar(100);not null"`
	Role         *string   `gorm:"type:varchar(50)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
