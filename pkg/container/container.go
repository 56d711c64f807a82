package container

import (
	"context"
	"fmt"
	"time"

	"food-app-backend/internal/config"
	"food-app-backend/internal/domains/recipe/handler"
	"food-app-backend/internal/domains/recipe/model"
	"food-app-backend/internal/domains/recipe/repository"
	"food-app-backend/internal/domains/recipe/service"
	"food-app-backend/internal/infrastructure/database"
	"food-app-backend/pkg/logger"
	repo "food-app-backend/pkg/repository"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it lives for
// the whole process.
type Container struct {
	// Infrastructure
	Config   *config.Config
	DB       *database.PostgresDB // nil with the memory driver
	MemoryDB *repo.MemoryDB       // nil with the postgres driver

	// Data access
	UnitOfWork repository.UnitOfWorkFactory

	// Business logic
	RecipeService service.ServiceInterface

	// HTTP
	RecipeHandler *handler.RecipeHandler
}

// Reference data for the memory driver. Postgres keeps its own rows.
var (
	defaultCategories = []model.Category{
		{Name: "Breakfast"},
		{Name: "Main course"},
		{Name: "Dessert"},
		{Name: "Drinks"},
	}
	defaultTags = []model.Tag{
		{Name: "Vegan"},
		{Name: "Vegetarian"},
		{Name: "Spicy"},
		{Name: "Gluten free"},
		{Name: "Quick"},
	}
)

// NewContainer loads configuration and builds every layer.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Info("Config loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
		"storage":     cfg.Storage.Driver,
	})

	return New(ctx, cfg)
}

// New builds the container from an already loaded configuration.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	c.initServices()
	c.initHandlers()

	logger.Info("DI Container initialized", nil)
	return c, nil
}

func (c *Container) initStorage(ctx context.Context) error {
	switch c.Config.Storage.Driver {
	case config.StorageMemory:
		c.MemoryDB = repo.NewMemoryDB()
		repository.SeedReferenceData(c.MemoryDB, defaultCategories, defaultTags)
		c.UnitOfWork = repository.NewMemoryFactory(c.MemoryDB)
		logger.Info("Using in-memory storage", nil)
		return nil

	case config.StoragePostgres:
		db := database.NewPostgresDB(c.Config.Database)

		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if err := db.Connect(connectCtx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.HealthCheck(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("database health check failed: %w", err)
		}

		if c.Config.Storage.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				_ = db.Close()
				return err
			}
		}

		c.DB = db
		c.UnitOfWork = repository.NewPostgresFactory(db.Pool)
		return nil

	default:
		return fmt.Errorf("unknown storage driver %q", c.Config.Storage.Driver)
	}
}

func (c *Container) initServices() {
	c.RecipeService = service.NewService(c.UnitOfWork)
}

func (c *Container) initHandlers() {
	c.RecipeHandler = handler.NewRecipeHandler(c.RecipeService)
}

// Health reports the storage status for the health endpoint.
func (c *Container) Health(ctx context.Context) (map[string]interface{}, error) {
	if c.DB == nil {
		return map[string]interface{}{"storage": config.StorageMemory}, nil
	}

	if err := c.DB.HealthCheck(ctx); err != nil {
		return nil, err
	}

	stats, err := c.DB.Stats()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"storage": config.StoragePostgres,
		"pool":    stats,
	}, nil
}

// Cleanup releases the database pool.
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database", err)
		}
	}
	logger.Info("Container cleanup completed", nil)
}
