package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sangphomma/Siriwong-Inventory-App/internal/core/logger"
	"github.com/sangphomma/Siriwong-Inventory-App/internal/database/migration"
)

// RunMigrations applies pending schema migrations from migrationsDir.
func RunMigrations(migrationsDir string) error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	return migration.Migrate(dbURL, "file://"+absPath, true, logger.NewLogger())
}
