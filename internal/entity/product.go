package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategoryID is used when a product is created without a category.
const DefaultCategoryID = 1

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID             int             `json:"id"`
	CategoryID     *int            `json:"category_id"`
	CategoryName   *string         `json:"category_name"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Capacity       int             `json:"capacity"`
	Specifications json.RawMessage `json:"specifications"`
	ImageURL       *string         `json:"image_url"`
	IsAvailable    bool            `json:"is_available"`
	CreatedAt      *time.Time      `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at"`
}

/*
MySQL schema:

CREATE TABLE categories (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL
);

CREATE TABLE products (
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
);
*/
