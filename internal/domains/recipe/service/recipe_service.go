package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-app-backend/internal/domains/recipe/model"
	"food-app-backend/internal/domains/recipe/repository"
	"food-app-backend/internal/shared/result"
	"food-app-backend/pkg/logger"
	"food-app-backend/pkg/pagination"
	repo "food-app-backend/pkg/repository"
)

// RecipeService - Implements ServiceInterface
type RecipeService struct {
	uow repository.UnitOfWorkFactory
	now func() time.Time
}

// NewService - Constructor with DI
func NewService(uow repository.UnitOfWorkFactory) ServiceInterface {
	return &RecipeService{
		uow: uow,
		now: time.Now,
	}
}

// ============================================
// QUERIES
// ============================================

// GetAll - one page of live recipes, newest first
func (s *RecipeService) GetAll(ctx context.Context, params model.RecipeParams) (result.Result[*pagination.PageList[model.RecipeView]], error) {
	uow := s.uow.New()
	defer uow.Rollback(ctx)

	page, err := pagination.Create(ctx, uow.Views().Query(params.Filter()), params.PageNumber(), params.PageSize())
	if err != nil {
		return result.Result[*pagination.PageList[model.RecipeView]]{}, fmt.Errorf("list recipes: %w", err)
	}

	return result.Success(result.RecipesRetrieved, page), nil
}

// GetByID - single live recipe
func (s *RecipeService) GetByID(ctx context.Context, id int64) (result.Result[*model.RecipeView], error) {
	uow := s.uow.New()
	defer uow.Rollback(ctx)

	view, err := uow.Views().FirstOrDefault(ctx, id)
	if err != nil {
		return result.Result[*model.RecipeView]{}, fmt.Errorf("get recipe %d: %w", id, err)
	}
	if view == nil {
		return result.Failure[*model.RecipeView](result.RecipeNotFound), nil
	}

	return result.Success(result.RecipesRetrieved, view), nil
}

// ============================================
// COMMANDS
// ============================================

// Create - new recipe with its tag associations.
//
// FLOW:
//  1. Name taken by a live recipe -> RecipeAlreadyExist
//  2. Add recipe (tags cascade) and commit
//  3. Nothing written -> DataBaseError, else RecipeCreated with the new id
func (s *RecipeService) Create(ctx context.Context, req model.CreateRecipeRequest) (result.Result[int64], error) {
	uow := s.uow.New()
	defer uow.Rollback(ctx)

	exists, err := uow.Recipes().Any(ctx,
		repo.Eq(model.ColName, req.Name),
		repo.Eq(model.ColIsDeleted, false),
	)
	if err != nil {
		return result.Result[int64]{}, fmt.Errorf("check recipe name: %w", err)
	}
	if exists {
		return result.Failure[int64](result.RecipeAlreadyExist), nil
	}

	recipe := model.Recipe{
		Name:        req.Name,
		Description: req.Description,
		ImagePath:   req.ImagePath,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		CreatedAt:   s.now().UTC(),
		RecipeTags:  model.NewRecipeTags(req.TagIDs),
	}

	if err := uow.Recipes().Add(ctx, &recipe); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return result.Failure[int64](result.RecipeAlreadyExist), nil
		}
		return result.Result[int64]{}, fmt.Errorf("create recipe: %w", err)
	}

	affected, err := uow.SaveChanges(ctx)
	if err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return result.Failure[int64](result.RecipeAlreadyExist), nil
		}
		return result.Result[int64]{}, fmt.Errorf("create recipe: %w", err)
	}
	if affected == 0 {
		logger.Warn("recipe create saved nothing", nil, map[string]interface{}{"name": req.Name})
		return result.Failure[int64](result.DataBaseError), nil
	}

	return result.Success(result.RecipeCreated, recipe.ID), nil
}

// Update - overwrite name, description and category of a live recipe.
// A missing recipe reports DataBaseError, not RecipeNotFound.
func (s *RecipeService) Update(ctx context.Context, req model.UpdateRecipeRequest) (result.Result[int64], error) {
	uow := s.uow.New()
	defer uow.Rollback(ctx)

	exists, err := uow.Recipes().ExistsByID(ctx, req.RecipeID)
	if err != nil {
		return result.Result[int64]{}, fmt.Errorf("check recipe %d: %w", req.RecipeID, err)
	}
	if !exists {
		logger.Warn("recipe update on missing recipe", nil, map[string]interface{}{"recipe_id": req.RecipeID})
		return result.Failure[int64](result.DataBaseError), nil
	}

	recipe := model.Recipe{
		ID:          req.RecipeID,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}

	if _, err := uow.Recipes().SaveFields(ctx, &recipe, model.ColName, model.ColDescription, model.ColCategoryID); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return result.Failure[int64](result.RecipeAlreadyExist), nil
		}
		return result.Result[int64]{}, fmt.Errorf("update recipe %d: %w", req.RecipeID, err)
	}

	if _, err := uow.SaveChanges(ctx); err != nil {
		if errors.Is(err, repo.ErrUniqueViolation) {
			return result.Failure[int64](result.RecipeAlreadyExist), nil
		}
		return result.Result[int64]{}, fmt.Errorf("update recipe %d: %w", req.RecipeID, err)
	}

	return result.Success(result.RecipeUpdated, req.RecipeID), nil
}

// Delete - soft delete a recipe and its tag associations in one commit.
//
// Succeeds when the recipe row was flagged and either it had no tag
// associations or at least one of them was flagged too. Any other outcome is
// DataBaseError and nothing is committed.
func (s *RecipeService) Delete(ctx context.Context, id int64) (result.Result[int64], error) {
	uow := s.uow.New()
	defer uow.Rollback(ctx)

	found, err := uow.Recipes().Any(ctx,
		repo.Eq(model.ColID, id),
		repo.Eq(model.ColIsDeleted, false),
	)
	if err != nil {
		return result.Result[int64]{}, fmt.Errorf("find recipe %d: %w", id, err)
	}
	if !found {
		return result.Failure[int64](result.RecipeNotFound), nil
	}

	saved, err := uow.Recipes().SaveFields(ctx, &model.Recipe{ID: id, IsDeleted: true}, model.ColIsDeleted)
	if err != nil {
		return result.Result[int64]{}, fmt.Errorf("delete recipe %d: %w", id, err)
	}
	saveResult := saved > 0

	hasTags, err := uow.RecipeTags().Any(ctx, repo.Eq(model.ColRecipeID, id))
	if err != nil {
		return result.Result[int64]{}, fmt.Errorf("find tags of recipe %d: %w", id, err)
	}

	recipeTagsUpdated := false
	if hasTags {
		n, err := uow.RecipeTags().UpdateWhere(ctx,
			map[string]any{model.ColIsDeleted: true},
			repo.Eq(model.ColRecipeID, id),
		)
		if err != nil {
			return result.Result[int64]{}, fmt.Errorf("delete tags of recipe %d: %w", id, err)
		}
		recipeTagsUpdated = n > 0
	}

	ok := saveResult && (!hasTags || recipeTagsUpdated)
	if !ok {
		logger.Warn("recipe delete incomplete, rolling back", nil, map[string]interface{}{
			"recipe_id":           id,
			"recipe_saved":        saveResult,
			"has_tags":            hasTags,
			"recipe_tags_updated": recipeTagsUpdated,
		})
		return result.Failure[int64](result.DataBaseError), nil
	}

	if _, err := uow.SaveChanges(ctx); err != nil {
		return result.Result[int64]{}, fmt.Errorf("delete recipe %d: %w", id, err)
	}

	return result.Success(result.RecipeDeleted, id), nil
}
