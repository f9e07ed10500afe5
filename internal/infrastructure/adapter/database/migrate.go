package database

import (
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/model"
)

// Migrate creates or updates the schema for the ledger tables
func Migrate(db *gorm.DB, logger coreport.Logger) error {
	logger.Info("Running database migrations", nil)

	if err := db.AutoMigrate(&model.Balance{}, &model.Transaction{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("Database migrations completed", map[string]any{
		"tables": []string{model.Balance{}.TableName(), model.Transaction{}.TableName()},
	})
	return nil
}
