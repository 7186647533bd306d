package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is a portal customer
type User struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	AccountNumber string    `json:"accountNumber"`
	IDNumber      string    `json:"idNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RegisterInput is the customer registration form
type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"required,person_name,max=100"`
	LastName        string `json:"lastName" validate:"required,person_name,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Username        string `json:"username" validate:"required,username,not_account_number"`
	Password        string `json:"password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AccountNumber   string `json:"accountNumber" validate:"required,account_number"`
	IDNumber        string `json:"idNumber" validate:"required,id_number"`
}

// LoginInput is the customer login form. The identifier is either a
// username or an account number.
type LoginInput struct {
	UsernameOrAccountNumber string `json:"usernameOrAccountNumber" validate:"required,identifier"`
	Password                string `json:"password" validate:"required"`
}

// ResetPasswordInput is the customer password reset form
type ResetPasswordInput struct {
	Identifier      string `json:"identifier" validate:"required,identifier"`
	NewPassword     string `json:"newPassword" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// AuthResponse is returned by a successful login
type AuthResponse struct {
	Message       string `json:"message"`
	Token         string `json:"token"`
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber,omitempty"`
}
