package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Employee is a bank staff member who reviews payments
type Employee struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Role         null.String `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// EmployeeLoginInput is the employee login form
type EmployeeLoginInput struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required"`
}

// EmployeeResetPasswordInput is the employee password reset form
type EmployeeResetPasswordInput struct {
	Username        string `json:"username" validate:"required,username"`
	NewPassword     string `json:"newPassword" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// SeedEmployeeInput creates an employee from the admin CLI
type SeedEmployeeInput struct {
	Username  string `json:"username" validate:"required,username"`
	Password  string `json:"password" validate:"required,strong_password"`
	FirstName string `json:"firstName" validate:"required,person_name,max=100"`
	LastName  string `json:"lastName" validate:"required,person_name,max=100"`
	Role      string `json:"role" validate:"omitempty,max=50"`
}
