package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/service"
)

const invalidCredentialsMessage = "Неверный логин или пароль"

type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Handle serves /auth
func (h *AuthHandler) Handle(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodPost:
		return h.Login(c)
	case http.MethodGet:
		return h.ListUsers(c)
	}
	return methodNotAllowed()
}

// Login checks a username/password pair --> POST /auth
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := h.authService.Login(c.Request().Context(), *req.Username, *req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": invalidCredentialsMessage,
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    userSummary{ID: user.ID, Username: user.Username, Role: user.Role},
	})
}

// ListUsers --> GET /auth
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}
