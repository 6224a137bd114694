package testutil

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/config"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/db"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/migrations"
)

// MemoryDSN returns a shared-cache in-memory SQLite DSN unique to the test.
func MemoryDSN(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}

// OpenInMemoryDB opens an in-memory SQLite database with the storefront schema.
// The database is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: MemoryDSN(t), ConnectRetries: 1})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := migrations.AutoMigrate(context.Background(), d, config.DriverSQLite, 0); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return d
}

// SQLiteConfig returns an application config backed by a fresh in-memory database.
func SQLiteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServiceName: "storefront-test",
		Port:        "0",
		Database: config.DatabaseConfig{
			Driver:         config.DriverSQLite,
			DSN:            MemoryDSN(t),
			ConnectRetries: 1,
			AutoMigrate:    true,
		},
		Content: config.ContentConfig{
			NewsLimit:        10,
			ProductImage:     "/product.jpg",
			ProductNewsImage: "/product-news.jpg",
			NewsImage:        "/placeholder.svg",
		},
	}
}
