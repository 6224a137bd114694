package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/service"
)

const maxAge = "86400"

// corsPolicy is what a resource announces on preflight.
type corsPolicy struct {
	methods string
	headers string
}

var (
	authPolicy    = corsPolicy{methods: "POST, GET, OPTIONS", headers: "Content-Type, X-User-Id"}
	managerPolicy = corsPolicy{methods: "GET, POST, PUT, DELETE, OPTIONS", headers: "Content-Type, X-User-Id"}
	productPolicy = corsPolicy{methods: "GET, POST, PUT, DELETE, OPTIONS", headers: "Content-Type, X-User-Id"}
	orderPolicy   = corsPolicy{methods: "GET, POST, PUT, OPTIONS", headers: "Content-Type, X-User-Id, Idempotent-Key"}
	newsPolicy    = corsPolicy{methods: "GET, POST, OPTIONS", headers: "Content-Type"}
)

// allowOrigin marks every response as readable from any origin.
func allowOrigin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
		return next(c)
	}
}

// preflight answers OPTIONS with 200 and an empty body before the handler runs.
func preflight(p corsPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodOptions {
				return next(c)
			}
			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, "*")
			h.Set(echo.HeaderAccessControlAllowMethods, p.methods)
			h.Set(echo.HeaderAccessControlAllowHeaders, p.headers)
			h.Set(echo.HeaderAccessControlMaxAge, maxAge)
			return c.NoContent(http.StatusOK)
		}
	}
}

// ValidationError reports a request the handler refuses to process.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

func requiredError(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

var errInvalidJSON = &ValidationError{Message: "invalid JSON body"}

// decodeBody reads the whole body as JSON regardless of Content-Type.
// An empty body decodes as {} so required-field checks report the field.
func decodeBody(c echo.Context, dst any) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &ValidationError{Field: typeErr.Field, Message: "has invalid type"}
		}
		return errInvalidJSON
	}
	return nil
}

// queryID parses the ?id= parameter used by DELETE.
func queryID(c echo.Context) (int, error) {
	raw := strings.TrimSpace(c.QueryParam("id"))
	if raw == "" {
		return 0, requiredError("id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "id", Message: "must be an integer"}
	}
	return id, nil
}

func methodNotAllowed() error {
	return echo.ErrMethodNotAllowed
}

// ErrorHandler renders every failure as a JSON error body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")

	status, message := classify(err)
	if status == http.StatusInternalServerError {
		req := c.Request()
		log.Error().Err(err).Str("method", req.Method).Str("path", req.URL.Path).Msg("request failed")
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, map[string]string{"error": message})
	}
	if werr != nil {
		log.Error().Err(werr).Msg("failed to write error response")
	}
}

func classify(err error) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}
	if errors.Is(err, repository.ErrDuplicateUsername) {
		return http.StatusConflict, "Username already exists"
	}
	if errors.Is(err, service.ErrDuplicateIdempotentKey) {
		return http.StatusConflict, service.ErrDuplicateIdempotentKey.Error()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound:
			return http.StatusNotFound, "Not found"
		case http.StatusMethodNotAllowed:
			return http.StatusMethodNotAllowed, "Method not allowed"
		case http.StatusTooManyRequests:
			return http.StatusTooManyRequests, "rate limit exceeded"
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
			if msg, ok := httpErr.Message.(string); ok {
				return httpErr.Code, msg
			}
			return httpErr.Code, http.StatusText(httpErr.Code)
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}
