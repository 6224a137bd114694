package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuses the admin and manager panels know about. The column itself is free text.
const (
	OrderStatusNew        = "new"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID              int             `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerAddress string          `json:"customer_address"`
	ProductID       *int            `json:"product_id"`
	ProductName     *string         `json:"product_name"` // nil when the product row is gone
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
	CreatedAt       *time.Time      `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at"`
}

/*
MySQL schema:

CREATE TABLE orders (
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
);

product_id carries no foreign key: orders outlive their products.
*/
