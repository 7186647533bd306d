package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"payportal.backend/internal/domain/entities"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open sqlite")
	return db
}

func newMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, AutoMigrate(db))
	return db
}

func closedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newMigratedDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	return db
}

func samplePayment(username string) *entities.Payment {
	return &entities.Payment{
		RecipientName:      "Jane Smith",
		RecipientBank:      "Bank of Somewhere",
		RecipientAccountNo: "1234567890",
		Amount:             decimal.RequireFromString("150.25"),
		SwiftCode:          "BOFAU3",
		Username:           username,
		Date:               "2024-10-01",
		Currency:           "USD",
	}
}

func seedPayment(t *testing.T, repo *PaymentRepository, username string) *entities.Payment {
	t.Helper()
	p := samplePayment(username)
	require.NoError(t, repo.Create(context.Background(), p))
	require.NotEqual(t, uuid.Nil, p.ID)
	return p
}
