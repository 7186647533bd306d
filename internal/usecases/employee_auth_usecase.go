package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/crypto"
	"payportal.backend/pkg/jwt"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/validator"
)

const msgEmployeeNotFound = "Employee not found"

// EmployeeAuthUsecase handles staff login, password reset and seeding
type EmployeeAuthUsecase struct {
	employeeRepo repositories.EmployeeRepository
	jwtService   *jwt.JWTService
	hasher       *crypto.PasswordHasher
	validate     *validator.Validator
}

// NewEmployeeAuthUsecase creates a new employee auth usecase
func NewEmployeeAuthUsecase(
	employeeRepo repositories.EmployeeRepository,
	jwtService *jwt.JWTService,
	hasher *crypto.PasswordHasher,
	validate *validator.Validator,
) *EmployeeAuthUsecase {
	return &EmployeeAuthUsecase{
		employeeRepo: employeeRepo,
		jwtService:   jwtService,
		hasher:       hasher,
		validate:     validate,
	}
}

// Login authenticates an employee and issues an employee token
func (u *EmployeeAuthUsecase) Login(ctx context.Context, input *entities.EmployeeLoginInput) (*entities.AuthResponse, error) {
	input.Username = strings.TrimSpace(input.Username)
	if fields := u.validate.Struct(input); len(fields) > 0 {
		return nil, domainerrors.Validation(fields...)
	}

	employee, err := u.employeeRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, err
	}
	if !u.hasher.Compare(input.Password, employee.PasswordHash) {
		return nil, domainerrors.InvalidCredentials()
	}

	token, err := u.jwtService.GenerateEmployeeToken(employee.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &entities.AuthResponse{
		Message:  MsgAuthenticated,
		Token:    token,
		Username: employee.Username,
	}, nil
}

// ResetPassword replaces an employee's password
func (u *EmployeeAuthUsecase) ResetPassword(ctx context.Context, input *entities.EmployeeResetPasswordInput) error {
	input.Username = strings.TrimSpace(input.Username)
	if fields := u.validate.Struct(input); len(fields) > 0 {
		return domainerrors.Validation(fields...)
	}

	employee, err := u.employeeRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(msgEmployeeNotFound)
		}
		return err
	}

	hash, err := u.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := u.employeeRepo.UpdatePassword(ctx, employee.ID, hash); err != nil {
		if errors.Is(err, domainerrors.ErrNoRowsAffected) {
			return passwordUpdateFailed(err)
		}
		return err
	}

	logger.Info(ctx, "Employee password reset", zap.String("employee_id", employee.ID.String()))
	return nil
}

// Seed creates an employee account. Employees are provisioned by operators,
// never through a public route.
func (u *EmployeeAuthUsecase) Seed(ctx context.Context, input *entities.SeedEmployeeInput) (*entities.Employee, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Role = strings.TrimSpace(input.Role)
	if fields := u.validate.Struct(input); len(fields) > 0 {
		return nil, domainerrors.Validation(fields...)
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	employee := &entities.Employee{
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}
	if input.Role != "" {
		employee.Role = null.StringFrom(input.Role)
	}

	if err := u.employeeRepo.Create(ctx, employee); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username", duplicateMessages["username"])
		}
		return nil, err
	}

	logger.Info(ctx, "Employee seeded", zap.String("employee_id", employee.ID.String()))
	return employee, nil
}
