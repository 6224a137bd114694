package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/kafka-go"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/api"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/config"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/db"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/repository"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/service"
	"github.com/pr-poehali-dev/local-cleaning-systems-site/migrations"
)

// App owns the HTTP stack and every client it depends on.
type App struct {
	Echo *echo.Echo
	DB   *sql.DB

	rdb         *redis.Client
	kafkaWriter *kafka.Writer
}

// New connects to storage, applies the schema and builds the handlers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &App{DB: database}

	if cfg.Database.AutoMigrate {
		if err := migrations.AutoMigrate(ctx, database, cfg.Database.Driver, cfg.Database.ConnectRetries); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	var idempotency service.IdempotencyStore
	if a.rdb = config.NewRedisClient(cfg.Redis); a.rdb != nil {
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		idempotency = service.NewRedisIdempotencyStore(a.rdb, cfg.Redis.IdempotencyTTL)
	}

	var publisher service.EventPublisher
	if a.kafkaWriter = config.NewKafkaWriter(cfg.Kafka); a.kafkaWriter != nil {
		publisher = service.NewKafkaPublisher(a.kafkaWriter)
	}

	userRepo := repository.NewUserRepository(database)
	productRepo := repository.NewProductRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	newsRepo := repository.NewNewsRepository(database)
	priceListRepo := repository.NewPriceListRepository(database)

	authService := service.NewAuthService(userRepo)
	if cfg.Admin.Username != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			a.Close()
			return nil, err
		}
	}
	managerService := service.NewManagerService(userRepo)
	productService := service.NewProductService(productRepo, cfg.Content.ProductImage)
	catalogNewsService := service.NewNewsService(newsRepo, 0, cfg.Content.ProductNewsImage)
	feedService := service.NewNewsService(newsRepo, cfg.Content.NewsLimit, cfg.Content.NewsImage)
	priceListService := service.NewPriceListService(priceListRepo)
	orderService := service.NewOrderService(orderRepo, idempotency, publisher)

	a.Echo = api.NewServer(api.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Managers: api.NewManagerHandler(managerService),
		Products: api.NewProductHandler(productService, catalogNewsService, priceListService),
		Orders:   api.NewOrderHandler(orderService),
		News:     api.NewNewsHandler(feedService),
	}, api.ServerOptions{
		ServiceName: cfg.ServiceName,
		RateLimit:   cfg.RateLimit,
	})

	return a, nil
}

// Close releases the clients in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	if a.kafkaWriter != nil {
		errs = append(errs, a.kafkaWriter.Close())
	}
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
