package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Bootstrap schema for local development and tests. Production tables are
// managed outside this service; every statement is idempotent.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'manager',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	)`,
	`INSERT IGNORE INTO categories (id, name) VALUES (1, 'Локальные очистные сооружения')`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		category_id INT NULL DEFAULT 1,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(12,2) NOT NULL,
		capacity INT NOT NULL,
		specifications JSON NULL,
		image_url TEXT NULL,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INT AUTO_INCREMENT PRIMARY KEY,
		customer_name VARCHAR(255) NOT NULL,
		customer_phone VARCHAR(50) NOT NULL,
		customer_email VARCHAR(255) NULL DEFAULT '',
		customer_address TEXT NULL,
		product_id INT NULL,
		quantity INT NOT NULL DEFAULT 1,
		total_price DECIMAL(12,2) NOT NULL,
		status VARCHAR(50) NOT NULL DEFAULT 'new',
		notes TEXT NULL,
		created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		image_url TEXT NULL,
		published_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS price_lists (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		file_url TEXT NOT NULL,
		created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'manager',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`INSERT OR IGNORE INTO categories (id, name) VALUES (1, 'Локальные очистные сооружения')`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER DEFAULT 1,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC NOT NULL,
		capacity INTEGER NOT NULL,
		specifications TEXT,
		image_url TEXT,
		is_available BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_name TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		customer_email TEXT DEFAULT '',
		customer_address TEXT,
		product_id INTEGER,
		quantity INTEGER NOT NULL DEFAULT 1,
		total_price NUMERIC NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		image_url TEXT,
		published_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS price_lists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		file_url TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

// AutoMigrate creates the storefront tables if they do not exist.
func AutoMigrate(ctx context.Context, db *sql.DB, driver string, retries int) error {
	var schema []string
	switch driver {
	case "mysql":
		schema = mysqlSchema
	case "sqlite3":
		schema = sqliteSchema
	default:
		return fmt.Errorf("no schema for driver %q", driver)
	}

	for _, query := range schema {
		_, err := db.ExecContext(ctx, query)
		for i := 0; err != nil && i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.ExecContext(ctx, query)
		}
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
