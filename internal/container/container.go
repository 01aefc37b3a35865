package container

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"convertforge/app/internal/api"
	"convertforge/app/internal/billing"
	"convertforge/app/internal/client"
	"convertforge/app/internal/config"
	"convertforge/app/internal/events"
	"convertforge/app/internal/repository"
	"convertforge/app/internal/service"
	"convertforge/app/internal/theme"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.ThemeClient
	Service *service.Service
	Server  *api.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	container.db = db

	catalogRepo := repository.NewCatalogRepository(db)
	customizationRepo := repository.NewCustomizationRepository(db)
	shopRepo := repository.NewShopRepository(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	container.redis = rdb

	log.Info("Connected to Redis successfully")

	themeClient := client.NewThemeClient(cfg.Shopify)
	container.Client = themeClient

	reader := theme.NewStructureReader(themeClient)
	installer := theme.NewInstaller(themeClient)
	replacer := theme.NewReplacer(themeClient, reader)

	entitlement := billing.NewEntitlementChecker(rdb, shopRepo,
		time.Duration(cfg.Billing.EntitlementTTL)*time.Second)
	emitter := events.NewRedisEmitter(rdb, cfg.Redis.EventStream)

	svc := service.NewService(
		catalogRepo,
		customizationRepo,
		shopRepo,
		entitlement,
		themeClient,
		reader,
		installer,
		replacer,
		emitter,
	)
	container.Service = svc

	container.Server = api.NewServer(cfg.Server, svc)

	return container, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.Server.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return c.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	if err := c.redis.Close(); err != nil {
		return err
	}

	log.Info("Container shut down successfully")
	return nil
}
