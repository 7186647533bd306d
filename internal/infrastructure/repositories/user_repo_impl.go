package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/infrastructure/models"
	"payportal.backend/pkg/utils"
)

// UserRepository implements customer credential storage
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a customer. A unique index violation is returned as a
// DuplicateError naming the offending field.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	m := &models.User{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		Username:      user.Username,
		PasswordHash:  user.PasswordHash,
		AccountNumber: user.AccountNumber,
		IDNumber:      user.IDNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return translateError(GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByUsername gets a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getBy(ctx, "username = ?", username)
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.getBy(ctx, "email = ?", email)
}

// GetByAccountNumber gets a user by account number
func (r *UserRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*entities.User, error) {
	return r.getBy(ctx, "account_number = ?", accountNumber)
}

// UpdatePassword replaces the stored hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return updatePassword(GetDB(ctx, r.db).Model(&models.User{}), id, passwordHash)
}

func (r *UserRepository) getBy(ctx context.Context, query string, arg interface{}) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where(query, arg).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return &entities.User{
		ID:            m.ID,
		FirstName:     m.FirstName,
		LastName:      m.LastName,
		Email:         m.Email,
		Username:      m.Username,
		PasswordHash:  m.PasswordHash,
		AccountNumber: m.AccountNumber,
		IDNumber:      m.IDNumber,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

// EmployeeRepository implements employee credential storage
type EmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts an employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *entities.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	employee.CreatedAt, employee.UpdatedAt = now, now

	m := &models.Employee{
		ID:           employee.ID,
		Username:     employee.Username,
		PasswordHash: employee.PasswordHash,
		FirstName:    employee.FirstName,
		LastName:     employee.LastName,
		Role:         employee.Role.Ptr(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return translateError(GetDB(ctx, r.db).Create(m).Error)
}

// GetByUsername gets an employee by username
func (r *EmployeeRepository) GetByUsername(ctx context.Context, username string) (*entities.Employee, error) {
	var m models.Employee
	if err := GetDB(ctx, r.db).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return &entities.Employee{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Role:         null.StringFromPtr(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// UpdatePassword replaces the stored hash
func (r *EmployeeRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return updatePassword(GetDB(ctx, r.db).Model(&models.Employee{}), id, passwordHash)
}

func updatePassword(q *gorm.DB, id uuid.UUID, passwordHash string) error {
	result := q.Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNoRowsAffected
	}
	return nil
}
