package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/service"
)

type NewsHandler struct {
	newsService *service.NewsService
}

func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

// Handle serves /news
func (h *NewsHandler) Handle(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet:
		return listNews(c, h.newsService)
	case http.MethodPost:
		return createNews(c, h.newsService)
	}
	return methodNotAllowed()
}

func listNews(c echo.Context, s *service.NewsService) error {
	news, err := s.ListNews(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"news": news})
}

func createNews(c echo.Context, s *service.NewsService) error {
	var req newsRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	post := entity.News{Title: *req.Title, Content: *req.Content, ImageURL: req.ImageURL}
	id, err := s.CreateNews(c.Request().Context(), &post)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{ID: id, Message: "News created"})
}
