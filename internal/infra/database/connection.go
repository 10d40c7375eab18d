package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"

	"github.com/gauravmindaptix26/leaado-backend/internal/config"
)

// NewDBConnection opens the pool for the configured driver ("pgx" or
// "postgres") and pings it before returning.
func NewDBConnection(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "pgx"
	}
	if cfg.URL == "" {
		return nil, eris.New("database: url is required")
	}

	db, err := sql.Open(driver, cfg.URL)
	if err != nil {
		return nil, eris.Wrapf(err, "database: open %s", driver)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "database: ping")
	}

	return db, nil
}
