package cmd

import (
	"fmt"

	"transfer-relay/core/config"
	"transfer-relay/core/database"
	"transfer-relay/core/logger"
	"transfer-relay/feature/health"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the relay tables and verifies the result.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Creates or updates the transfer_records and storage_backends tables,
then compares the live schema with the models and reports any missing columns.`,
	RunE: runMigrate,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	l.Info("Migrating schema", zap.String("driver", cfg.Database.Driver))
	if err := database.Migrate(db, schemaModels()...); err != nil {
		return err
	}

	report, err := health.CheckSchema(db, schemaModels()...)
	if err != nil {
		return err
	}
	for table, tbl := range report.Tables {
		l.Info("Table checked",
			zap.String("table", table),
			zap.String("status", tbl.Status),
			zap.Strings("missing_columns", tbl.MissingColumns))
	}
	if !report.Matched {
		return fmt.Errorf("schema does not match models after migration")
	}
	l.Info("Schema is up to date")
	return nil
}
