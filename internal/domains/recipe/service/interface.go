package service

import (
	"context"

	"food-app-backend/internal/domains/recipe/model"
	"food-app-backend/internal/shared/result"
	"food-app-backend/pkg/pagination"
)

// ServiceInterface - recipe business operations.
// Expected outcomes are carried by the Result; the error is for faults only.
type ServiceInterface interface {
	GetAll(ctx context.Context, params model.RecipeParams) (result.Result[*pagination.PageList[model.RecipeView]], error)
	GetByID(ctx context.Context, id int64) (result.Result[*model.RecipeView], error)
	Create(ctx context.Context, req model.CreateRecipeRequest) (result.Result[int64], error)
	Update(ctx context.Context, req model.UpdateRecipeRequest) (result.Result[int64], error)
	Delete(ctx context.Context, id int64) (result.Result[int64], error)
}
