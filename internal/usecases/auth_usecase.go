package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/crypto"
	"payportal.backend/pkg/jwt"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/validator"
)

const (
	MsgRegistered          = "User registered successfully"
	MsgAuthenticated       = "Authentication successful"
	MsgPasswordReset       = "Password reset successfully"
	msgUserNotFound        = "User not found"
	msgPasswordUpdateFails = "Password update failed"
)

var duplicateMessages = map[string]string{
	"username":      "username already exists",
	"email":         "email already exists",
	"accountNumber": "account number already exists",
}

// AuthUsecase handles customer registration, login and password reset
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
	hasher     *crypto.PasswordHasher
	validate   *validator.Validator
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	hasher *crypto.PasswordHasher,
	validate *validator.Validator,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		validate:   validate,
	}
}

// Register validates the form, rejects duplicates and stores the customer
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	input.AccountNumber = strings.TrimSpace(input.AccountNumber)
	input.IDNumber = strings.TrimSpace(input.IDNumber)

	if fields := u.validate.Struct(input); len(fields) > 0 {
		return nil, domainerrors.Validation(fields...)
	}

	dupes, err := u.findDuplicates(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(dupes) > 0 {
		return nil, domainerrors.Duplicates(dupes...)
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Username:      input.Username,
		PasswordHash:  hash,
		AccountNumber: input.AccountNumber,
		IDNumber:      input.IDNumber,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		var dup *domainerrors.DuplicateError
		if errors.As(err, &dup) {
			return nil, duplicateError(dup.Field)
		}
		return nil, err
	}

	logger.Info(ctx, "Customer registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (u *AuthUsecase) findDuplicates(ctx context.Context, input *entities.RegisterInput) ([]domainerrors.FieldError, error) {
	checks := []struct {
		field  string
		lookup func(context.Context, string) (*entities.User, error)
		value  string
	}{
		{"username", u.userRepo.GetByUsername, input.Username},
		{"email", u.userRepo.GetByEmail, input.Email},
		{"accountNumber", u.userRepo.GetByAccountNumber, input.AccountNumber},
	}

	var out []domainerrors.FieldError
	for _, c := range checks {
		_, err := c.lookup(ctx, c.value)
		if err == nil {
			out = append(out, domainerrors.FieldError{Field: c.field, Code: domainerrors.CodeAlreadyExists, Message: duplicateMessages[c.field]})
			continue
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
	}
	return out, nil
}

func duplicateError(field string) *domainerrors.AppError {
	msg, ok := duplicateMessages[field]
	if !ok {
		msg = "record already exists"
	}
	return domainerrors.AlreadyExists(field, msg)
}

// Login resolves the identifier to a single lookup and issues a customer token
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	input.UsernameOrAccountNumber = strings.TrimSpace(input.UsernameOrAccountNumber)
	if fields := u.validate.Struct(input); len(fields) > 0 {
		return nil, domainerrors.Validation(fields...)
	}

	user, err := u.lookup(ctx, input.UsernameOrAccountNumber)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials()
		}
		return nil, err
	}

	if !u.hasher.Compare(input.Password, user.PasswordHash) {
		return nil, domainerrors.InvalidCredentials()
	}

	token, err := u.jwtService.GenerateCustomerToken(user.Username, user.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &entities.AuthResponse{
		Message:       MsgAuthenticated,
		Token:         token,
		Username:      user.Username,
		AccountNumber: user.AccountNumber,
	}, nil
}

// ResetPassword replaces the customer's password after policy checks
func (u *AuthUsecase) ResetPassword(ctx context.Context, input *entities.ResetPasswordInput) error {
	input.Identifier = strings.TrimSpace(input.Identifier)
	if fields := u.validate.Struct(input); len(fields) > 0 {
		return domainerrors.Validation(fields...)
	}

	user, err := u.lookup(ctx, input.Identifier)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound(msgUserNotFound)
		}
		return err
	}

	hash, err := u.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, domainerrors.ErrNoRowsAffected) {
			return passwordUpdateFailed(err)
		}
		return err
	}

	logger.Info(ctx, "Customer password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func passwordUpdateFailed(err error) *domainerrors.AppError {
	return domainerrors.NewAppError(http.StatusInternalServerError, domainerrors.CodeInternalError, msgPasswordUpdateFails, err)
}

// lookup picks exactly one index for the identifier
func (u *AuthUsecase) lookup(ctx context.Context, identifier string) (*entities.User, error) {
	if validator.IsAccountNumber(identifier) {
		return u.userRepo.GetByAccountNumber(ctx, identifier)
	}
	return u.userRepo.GetByUsername(ctx, identifier)
}
