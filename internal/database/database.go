package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	_ "github.com/lib/pq"

	"gametracker/internal/config"
	"gametracker/internal/logger"
	"gametracker/internal/models"
)

// Connect opens the tracker database. SQLite is the default store; postgres
// is selected with DB_DRIVER=postgres and a POSTGRES_DSN.
func Connect(cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return connectPostgres(cfg.PostgresDSN, log)
	case "sqlite", "":
		return connectSQLite(cfg.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func connectSQLite(path string, log *logger.Logger) (*bun.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?cache=shared", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY between the recorder transaction and request handlers.
	sqldb.SetMaxOpenConns(1)

	log.Info("DATABASE", fmt.Sprintf("Using SQLite database at %s", path))
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func connectPostgres(dsn string, log *logger.Logger) (*bun.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_DSN not set")
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err == nil {
			err = sqldb.Ping()
			if err == nil {
				break
			}
		}
		log.Error("DATABASE", fmt.Sprintf("PostgreSQL connection failed: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", maxRetries, err)
	}

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// CreateTables creates any missing tracker tables.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Game)(nil),
		(*models.Achievement)(nil),
		(*models.CompletionistAchievement)(nil),
		(*models.Tag)(nil),
		(*models.DailySnapshot)(nil),
		(*models.DailyGameSnapshot)(nil),
		(*models.TrackerRunLog)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table failed for %T: %w", model, err)
		}
	}
	return nil
}
