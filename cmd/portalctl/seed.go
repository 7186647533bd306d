package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"payportal.backend/internal/domain/entities"
	"payportal.backend/internal/usecases"
	"payportal.backend/pkg/crypto"
	"payportal.backend/pkg/jwt"
	"payportal.backend/pkg/validator"
)

// seedEmployeeCmd provisions a staff account. Employees cannot self-register.
func seedEmployeeCmd() *cobra.Command {
	var input entities.SeedEmployeeInput

	cmd := &cobra.Command{
		Use:   "seed-employee",
		Short: "Create an employee account",
		Long: `Create an employee account in the configured store.

Flags fall back to the EMPLOYEE_SEED_* environment variables, so a
deployment can provision its first reviewer without a password on the
command line.

Examples:
  portalctl seed-employee --username emp1 --first-name Erin --last-name Ngo
  EMPLOYEE_SEED_PASSWORD=... portalctl seed-employee --username emp1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadCfg()
			applySeedDefaults(&input, cfg.Seed)

			ctx := cmd.Context()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer store.Close(ctx)

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			uc := usecases.NewEmployeeAuthUsecase(
				store.Employees,
				jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.CustomerExpiry, cfg.JWT.EmployeeExpiry),
				crypto.NewPasswordHasher(cfg.Password.BcryptCost),
				validator.New(validator.PasswordPolicy{
					MinLength:      cfg.Password.MinLength,
					RequireSpecial: cfg.Password.RequireSpecial,
				}),
			)
			employee, err := uc.Seed(ctx, &input)
			if err != nil {
				return describeError(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Employee %s created (%s)\n", employee.Username, employee.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "employee username")
	cmd.Flags().StringVar(&input.Password, "password", "", "initial password (defaults to EMPLOYEE_SEED_PASSWORD)")
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&input.Role, "role", "", "optional job title")
	return cmd
}
