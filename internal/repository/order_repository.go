package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
)

const orderColumns = `o.id, o.customer_name, o.customer_phone, o.customer_email, o.customer_address,
	o.product_id, p.name, o.quantity, o.total_price, o.status, o.notes, o.created_at, o.updated_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// List returns every order with its product name, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN products p ON o.product_id = p.id
		ORDER BY o.created_at DESC, o.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []entity.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN products p ON o.product_id = p.id
		WHERE o.id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return order, nil
}

// Create inserts the order; status and timestamps come from column defaults.
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) (int, error) {
	query := `INSERT INTO orders
		(customer_name, customer_phone, customer_email, customer_address, product_id, quantity, total_price, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.CustomerAddress,
		nullableInt(order.ProductID), order.Quantity, order.TotalPrice, order.Notes)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read order id: %w", err)
	}
	order.ID = int(id)
	return order.ID, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of order id %d: %w", id, err)
	}
	return nil
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var (
		order       entity.Order
		email       sql.NullString
		address     sql.NullString
		productID   sql.NullInt64
		productName sql.NullString
		notes       sql.NullString
		createdAt   sql.NullTime
		updatedAt   sql.NullTime
	)
	err := row.Scan(&order.ID, &order.CustomerName, &order.CustomerPhone, &email, &address,
		&productID, &productName, &order.Quantity, &order.TotalPrice, &order.Status, &notes,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	order.CustomerEmail = email.String
	order.CustomerAddress = address.String
	order.Notes = notes.String
	order.ProductID = intPtr(productID)
	order.ProductName = stringPtr(productName)
	order.CreatedAt = timePtr(createdAt)
	order.UpdatedAt = timePtr(updatedAt)
	return &order, nil
}
