package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"payportal.backend/internal/config"
	"payportal.backend/internal/infrastructure/storage"
	"payportal.backend/pkg/logger"
)

var Version = "dev"

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	openStore  = storage.Open
)

func main() {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	logger.Init("production")
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "portalctl",
		Short:         "Administration tasks for the payment portal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(seedEmployeeCmd())
	rootCmd.AddCommand(hashPasswordCmd())
	rootCmd.AddCommand(migrateCmd())
	return rootCmd
}
