package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/service"
)

// ProductHandler serves the catalog and its back-office news and price lists.
type ProductHandler struct {
	productService   *service.ProductService
	newsService      *service.NewsService
	priceListService *service.PriceListService
}

func NewProductHandler(productService *service.ProductService, newsService *service.NewsService, priceListService *service.PriceListService) *ProductHandler {
	return &ProductHandler{
		productService:   productService,
		newsService:      newsService,
		priceListService: priceListService,
	}
}

// Handle serves /products
func (h *ProductHandler) Handle(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet:
		return h.ListProducts(c)
	case http.MethodPost:
		return h.CreateProduct(c)
	case http.MethodPut:
		return h.UpdateProduct(c)
	case http.MethodDelete:
		return h.DeleteProduct(c)
	}
	return methodNotAllowed()
}

// HandleNews serves /products/news
func (h *ProductHandler) HandleNews(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet:
		return listNews(c, h.newsService)
	case http.MethodPost:
		return createNews(c, h.newsService)
	}
	return methodNotAllowed()
}

// HandlePriceLists serves /products/pricelists
func (h *ProductHandler) HandlePriceLists(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet:
		return h.ListPriceLists(c)
	case http.MethodPost:
		return h.CreatePriceList(c)
	}
	return methodNotAllowed()
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"products": newProductViews(products)})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.ValidateCreate(); err != nil {
		return err
	}

	product := entity.Product{
		CategoryID:     req.CategoryID,
		Name:           *req.Name,
		Description:    *req.Description,
		Price:          *req.Price,
		Capacity:       *req.Capacity,
		Specifications: req.Specifications,
		ImageURL:       req.ImageURL,
		IsAvailable:    true,
	}
	id, err := h.productService.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id, Message: "Product created"})
}

// UpdateProduct --> PUT /products, a full replace of the editable fields.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req productRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.ValidateUpdate(); err != nil {
		return err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	product := entity.Product{
		ID:             *req.ID,
		Name:           *req.Name,
		Description:    *req.Description,
		Price:          *req.Price,
		Capacity:       *req.Capacity,
		Specifications: req.Specifications,
		IsAvailable:    available,
	}
	if err := h.productService.UpdateProduct(c.Request().Context(), &product); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product updated"})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted"})
}

func (h *ProductHandler) ListPriceLists(c echo.Context) error {
	lists, err := h.priceListService.ListPriceLists(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"price_lists": lists})
}

func (h *ProductHandler) CreatePriceList(c echo.Context) error {
	var req priceListRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	list := entity.PriceList{Title: *req.Title, FileURL: *req.FileURL}
	id, err := h.priceListService.CreatePriceList(c.Request().Context(), &list)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id, Message: "Price list created"})
}
