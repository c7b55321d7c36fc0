package cmd

import (
	"fmt"

	"github.com/iackson05/streakd/internal/config"
	"github.com/iackson05/streakd/internal/db"
	"github.com/iackson05/streakd/internal/logger"
	"github.com/jmoiron/sqlx"
)

// openDatabase loads the server configuration and opens its database.
func openDatabase() (*config.Config, *sqlx.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.LogLevel, cfg.SentryDSN)

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, database, nil
}
