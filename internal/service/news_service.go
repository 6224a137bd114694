package service

import (
	"context"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/entity"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
)

// NewsService serves a news feed. The public feed is capped while the catalog
// back office lists every post; each has its own placeholder image.
type NewsService struct {
	newsRepo     *repository.NewsRepository
	limit        int
	defaultImage string
}

// NewNewsService creates a feed returning at most limit posts (0 means all).
func NewNewsService(newsRepo *repository.NewsRepository, limit int, defaultImage string) *NewsService {
	return &NewsService{
		newsRepo:     newsRepo,
		limit:        limit,
		defaultImage: defaultImage,
	}
}

func (s *NewsService) ListNews(ctx context.Context) ([]entity.News, error) {
	news, err := s.newsRepo.List(ctx, s.limit)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing news")
		return nil, err
	}
	return news, nil
}

func (s *NewsService) CreateNews(ctx context.Context, post *entity.News) (int, error) {
	if post.ImageURL == nil {
		image := s.defaultImage
		post.ImageURL = &image
	}

	id, err := s.newsRepo.Create(ctx, post)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating news %s", post.Title)
		return 0, err
	}
	return id, nil
}

type PriceListService struct {
	priceListRepo *repository.PriceListRepository
}

func NewPriceListService(priceListRepo *repository.PriceListRepository) *PriceListService {
	return &PriceListService{priceListRepo: priceListRepo}
}

func (s *PriceListService) ListPriceLists(ctx context.Context) ([]entity.PriceList, error) {
	lists, err := s.priceListRepo.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing price lists")
		return nil, err
	}
	return lists, nil
}

func (s *PriceListService) CreatePriceList(ctx context.Context, list *entity.PriceList) (int, error) {
	id, err := s.priceListRepo.Create(ctx, list)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating price list %s", list.Title)
		return 0, err
	}
	return id, nil
}
