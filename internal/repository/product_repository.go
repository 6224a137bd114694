package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
)

const productColumns = `p.id, p.category_id, c.name, p.name, p.description, p.price, p.capacity,
	p.specifications, p.image_url, p.is_available, p.created_at, p.updated_at`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

// ListAvailable returns products still on sale, smallest capacity first.
func (r *ProductRepository) ListAvailable(ctx context.Context) ([]entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.is_available = ?
		ORDER BY p.capacity, p.id`

	rows, err := r.db.QueryContext(ctx, query, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID returns the product regardless of availability, or nil.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		WHERE p.id = ?`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) (int, error) {
	query := `INSERT INTO products (category_id, name, description, price, capacity, specifications, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		nullableInt(product.CategoryID), product.Name, product.Description, product.Price,
		product.Capacity, string(product.Specifications), product.ImageURL)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read product id: %w", err)
	}
	product.ID = int(id)
	return product.ID, nil
}

// Update replaces every mutable field. Category and image are left as they are.
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	query := `UPDATE products
		SET name = ?, description = ?, price = ?, capacity = ?,
			specifications = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		product.Name, product.Description, product.Price, product.Capacity,
		string(product.Specifications), product.IsAvailable, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product id %d: %w", product.ID, err)
	}
	return nil
}

// SoftDelete hides the product from the catalog; rows are never removed.
func (r *ProductRepository) SoftDelete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET is_available = ? WHERE id = ?`, false, id)
	if err != nil {
		return fmt.Errorf("failed to delete product id %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		product      entity.Product
		categoryID   sql.NullInt64
		categoryName sql.NullString
		specs        []byte
		imageURL     sql.NullString
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)
	err := row.Scan(&product.ID, &categoryID, &categoryName, &product.Name, &product.Description,
		&product.Price, &product.Capacity, &specs, &imageURL, &product.IsAvailable, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	product.CategoryID = intPtr(categoryID)
	product.CategoryName = stringPtr(categoryName)
	product.ImageURL = stringPtr(imageURL)
	product.CreatedAt = timePtr(createdAt)
	product.UpdatedAt = timePtr(updatedAt)
	if len(specs) == 0 {
		specs = []byte("{}")
	}
	product.Specifications = specs
	return &product, nil
}
