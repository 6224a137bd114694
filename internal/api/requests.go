package api

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

func requireString(field string, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return requiredError(field)
	}
	return nil
}

func requireInt(field string, v *int) error {
	if v == nil {
		return requiredError(field)
	}
	return nil
}

func requireDecimal(field string, v *decimal.Decimal) error {
	if v == nil {
		return requiredError(field)
	}
	return nil
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// firstError returns the first non-nil error in order.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

type credentialsRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

func (r *credentialsRequest) Validate() error {
	return firstError(
		requireString("username", r.Username),
		requireString("password", r.Password),
	)
}

type managerPasswordRequest struct {
	ID       *int    `json:"id"`
	Password *string `json:"password"`
}

func (r *managerPasswordRequest) Validate() error {
	return firstError(
		requireInt("id", r.ID),
		requireString("password", r.Password),
	)
}

type productRequest struct {
	ID             *int             `json:"id"`
	CategoryID     *int             `json:"category_id"`
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Capacity       *int             `json:"capacity"`
	Specifications json.RawMessage  `json:"specifications"`
	ImageURL       *string          `json:"image_url"`
	IsAvailable    *bool            `json:"is_available"`
}

func (r *productRequest) validateFields() error {
	return firstError(
		requireString("name", r.Name),
		requireString("description", r.Description),
		requireDecimal("price", r.Price),
		requireInt("capacity", r.Capacity),
	)
}

func (r *productRequest) ValidateCreate() error {
	return r.validateFields()
}

func (r *productRequest) ValidateUpdate() error {
	return firstError(requireInt("id", r.ID), r.validateFields())
}

type newsRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

func (r *newsRequest) Validate() error {
	return firstError(
		requireString("title", r.Title),
		requireString("content", r.Content),
	)
}

type priceListRequest struct {
	Title   *string `json:"title"`
	FileURL *string `json:"file_url"`
}

func (r *priceListRequest) Validate() error {
	return firstError(
		requireString("title", r.Title),
		requireString("file_url", r.FileURL),
	)
}

type orderRequest struct {
	CustomerName    *string          `json:"customer_name"`
	CustomerPhone   *string          `json:"customer_phone"`
	CustomerEmail   *string          `json:"customer_email"`
	CustomerAddress *string          `json:"customer_address"`
	ProductID       *int             `json:"product_id"`
	Quantity        *int             `json:"quantity"`
	TotalPrice      *decimal.Decimal `json:"total_price"`
	Notes           *string          `json:"notes"`
}

func (r *orderRequest) Validate() error {
	if err := firstError(
		requireString("customer_name", r.CustomerName),
		requireString("customer_phone", r.CustomerPhone),
		requireInt("product_id", r.ProductID),
		requireDecimal("total_price", r.TotalPrice),
	); err != nil {
		return err
	}
	if r.Quantity != nil && *r.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Message: "must be positive"}
	}
	return nil
}

type orderStatusRequest struct {
	ID     *int    `json:"id"`
	Status *string `json:"status"`
}

func (r *orderStatusRequest) Validate() error {
	return firstError(
		requireInt("id", r.ID),
		requireString("status", r.Status),
	)
}
