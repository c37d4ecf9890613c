package cmd

import (
	"fmt"
	"os"

	"github.com/sangphomma/Siriwong-Inventory-App/internal/container"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/core/logger"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/database"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/database/migration"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/reaper"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations manually.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		migrationDir, _ := cmd.Flags().GetString("dir")

		err := migration.Migrate(
			dbURL,
			fmt.Sprintf("file://%s", migrationDir),
			true,
			logger.NewLogger(),
		)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

// reapCmd is the external-scheduler entry point for the stale request
// sweep: a cron job runs `sitestock reap --days 3` once a day.
var reapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Delete withdrawal/return requests left pending beyond the age limit.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		maxAgeDays, _ := cmd.Flags().GetInt("days")

		db, err := database.NewPostgresConnection(os.Getenv("DATABASE_URL"))
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		log := logger.NewLogger()
		defer log.Sync()

		c := container.NewAppContainer(db, log)
		deleted, err := c.Reaper.Run(maxAgeDays)
		if err != nil {
			return fmt.Errorf("run stale request sweep: %w", err)
		}

		fmt.Printf("deleted %d stale pending request(s)\n", deleted)
		return nil
	},
}

// Execute runs a subcommand and reports whether one handled the
// invocation; the caller skips the server startup in that case.
func Execute() bool {
	if len(os.Args) < 2 {
		return false
	}

	rootCmd := &cobra.Command{
		Use:   "sitestock",
		Short: "Construction-site inventory ledger service",
	}
	migrateCmd.Flags().String("dir", "./migrations", "Directory containing the migration files")
	reapCmd.Flags().Int("days", reaper.DefaultMaxAgeDays, "Maximum age in days a pending request may reach")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reapCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return true
}
