package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/service"
)

const headerIdempotentKey = "Idempotent-Key"

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Handle serves /orders
func (h *OrderHandler) Handle(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet:
		return h.ListOrders(c)
	case http.MethodPost:
		return h.CreateOrder(c)
	case http.MethodPut:
		return h.UpdateOrder(c)
	}
	return methodNotAllowed()
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderService.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": newOrderViews(orders)})
}

// CreateOrder records the total exactly as the client computed it.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req orderRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	order := entity.Order{
		CustomerName:    *req.CustomerName,
		CustomerPhone:   *req.CustomerPhone,
		CustomerEmail:   optionalString(req.CustomerEmail),
		CustomerAddress: optionalString(req.CustomerAddress),
		ProductID:       req.ProductID,
		Quantity:        quantity,
		TotalPrice:      *req.TotalPrice,
		Notes:           optionalString(req.Notes),
	}

	key := c.Request().Header.Get(headerIdempotentKey)
	id, err := h.orderService.CreateOrder(c.Request().Context(), &order, key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id, Message: "Order created"})
}

func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	var req orderStatusRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.orderService.UpdateStatus(c.Request().Context(), *req.ID, *req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Order updated"})
}
