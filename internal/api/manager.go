package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/service"
)

type ManagerHandler struct {
	managerService *service.ManagerService
}

func NewManagerHandler(managerService *service.ManagerService) *ManagerHandler {
	return &ManagerHandler{managerService: managerService}
}

// Handle serves /managers
func (h *ManagerHandler) Handle(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet:
		return h.ListManagers(c)
	case http.MethodPost:
		return h.CreateManager(c)
	case http.MethodDelete:
		return h.DeleteManager(c)
	case http.MethodPut:
		return h.UpdatePassword(c)
	}
	return methodNotAllowed()
}

func (h *ManagerHandler) ListManagers(c echo.Context) error {
	managers, err := h.managerService.ListManagers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"managers": managers})
}

func (h *ManagerHandler) CreateManager(c echo.Context) error {
	var req credentialsRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	id, err := h.managerService.CreateManager(c.Request().Context(), *req.Username, *req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id, Message: "Manager created"})
}

// DeleteManager --> DELETE /managers?id=. Admin accounts are never matched.
func (h *ManagerHandler) DeleteManager(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}

	if err := h.managerService.DeleteManager(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Manager deleted"})
}

func (h *ManagerHandler) UpdatePassword(c echo.Context) error {
	var req managerPasswordRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.managerService.UpdatePassword(c.Request().Context(), *req.ID, *req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Manager updated"})
}
