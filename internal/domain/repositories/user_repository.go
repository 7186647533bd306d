package repositories

import (
	"context"

	"github.com/google/uuid"
	"payportal.backend/internal/domain/entities"
)

// UserRepository defines customer credential operations. Lookups return
// domainerrors.ErrNotFound when no record matches.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (*entities.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// EmployeeRepository defines employee credential operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entities.Employee) error
	GetByUsername(ctx context.Context, username string) (*entities.Employee, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
