package service

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
)

type ProductService struct {
	productRepo  *repository.ProductRepository
	defaultImage string
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo *repository.ProductRepository, defaultImage string) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		defaultImage: defaultImage,
	}
}

// ListProducts returns the products currently on sale.
func (s *ProductService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.ListAvailable(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products")
		return nil, err
	}
	return products, nil
}

// CreateProduct fills in the default category, image and specifications before inserting.
func (s *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (int, error) {
	if product.CategoryID == nil {
		id := entity.DefaultCategoryID
		product.CategoryID = &id
	}
	if product.ImageURL == nil {
		image := s.defaultImage
		product.ImageURL = &image
	}
	product.Specifications = normalizeSpecifications(product.Specifications)

	id, err := s.productRepo.Create(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating product %s", product.Name)
		return 0, err
	}
	return id, nil
}

// UpdateProduct replaces the mutable fields. Missing rows are not reported.
func (s *ProductService) UpdateProduct(ctx context.Context, product *entity.Product) error {
	product.Specifications = normalizeSpecifications(product.Specifications)

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error().Err(err).Msgf("Error updating product %d", product.ID)
		return err
	}
	return nil
}

// DeleteProduct marks the product unavailable.
func (s *ProductService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deleting product %d", id)
		return err
	}
	return nil
}

func normalizeSpecifications(specs json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(specs)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}")
	}
	return trimmed
}
