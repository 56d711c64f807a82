package repository

import (
	"context"

	"food-app-backend/internal/domains/recipe/model"
	"food-app-backend/pkg/pagination"
	repo "food-app-backend/pkg/repository"
)

// UnitOfWork - repositories of one service operation sharing one commit
type UnitOfWork interface {
	Recipes() repo.Repository[model.Recipe]
	RecipeTags() repo.Repository[model.RecipeTag]
	Views() Projection

	// SaveChanges commits staged writes and returns rows affected
	SaveChanges(ctx context.Context) (int64, error)

	// Rollback discards staged writes, no-op after SaveChanges
	Rollback(ctx context.Context) error
}

// Projection - read model of live recipes
type Projection interface {
	// Query returns the filtered, newest-first recipe views for paging
	Query(filter model.RecipeFilter) pagination.Query[model.RecipeView]

	// FirstOrDefault returns the live recipe view with the id, or nil
	FirstOrDefault(ctx context.Context, id int64) (*model.RecipeView, error)
}

// UnitOfWorkFactory - opens a fresh unit of work per operation
type UnitOfWorkFactory interface {
	New() UnitOfWork
}
