package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/config"
)

var retryDelay = 3 * time.Second

// Open connects to the configured store, retrying while the server comes up.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}
	dsn := cfg.DataSourceName()

	var err error
	for i := 0; i < attempts; i++ {
		var d *sql.DB
		d, err = open(cfg.Driver, dsn)
		if err == nil {
			log.Info().Msgf("connected to %s database", cfg.Driver)
			return d, nil
		}
		log.Warn().Err(err).Msgf("retry %d: failed to connect to %s database", i+1, cfg.Driver)
		if i < attempts-1 {
			time.Sleep(retryDelay)
		}
	}
	return nil, fmt.Errorf("failed to connect to %s database after %d attempts: %w", cfg.Driver, attempts, err)
}

func open(driver, dsn string) (*sql.DB, error) {
	d, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == config.DriverSQLite {
		// shared-cache memory databases lock tables across connections
		d.SetMaxOpenConns(1)
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, err
	}
	if driver == config.DriverSQLite {
		if _, err := d.Exec(`PRAGMA busy_timeout=5000`); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	return d, nil
}
