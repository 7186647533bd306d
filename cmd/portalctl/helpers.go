package main

import (
	"errors"
	"fmt"
	"strings"

	"payportal.backend/internal/config"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
)

// describeError flattens field errors into one line for the terminal
func describeError(err error) error {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) || len(appErr.Fields) == 0 {
		return err
	}
	parts := make([]string, 0, len(appErr.Fields))
	for _, f := range appErr.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Errorf("%s: %s", appErr.Message, strings.Join(parts, "; "))
}

func applySeedDefaults(input *entities.SeedEmployeeInput, seed config.EmployeeSeedConfig) {
	if input.Username == "" {
		input.Username = seed.Username
	}
	if input.Password == "" {
		input.Password = seed.Password
	}
	if input.FirstName == "" {
		input.FirstName = seed.FirstName
	}
	if input.LastName == "" {
		input.LastName = seed.LastName
	}
	if input.Role == "" {
		input.Role = seed.Role
	}
}
