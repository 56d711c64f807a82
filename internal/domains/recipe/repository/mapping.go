package repository

import (
	"food-app-backend/internal/domains/recipe/model"
	repo "food-app-backend/pkg/repository"
)

var RecipeMapping = repo.Mapping[model.Recipe]{
	Table: model.TableRecipes,
	Columns: []string{
		model.ColID, model.ColName, model.ColDescription, model.ColImagePath,
		model.ColPrice, model.ColCategoryID, model.ColIsDeleted, model.ColCreatedAt,
	},
	SoftDelete: model.ColIsDeleted,
	Unique:     []string{model.ColName},
	Values: func(r *model.Recipe) map[string]any {
		return map[string]any{
			model.ColName:        r.Name,
			model.ColDescription: r.Description,
			model.ColImagePath:   r.ImagePath,
			model.ColPrice:       r.Price,
			model.ColCategoryID:  r.CategoryID,
			model.ColIsDeleted:   r.IsDeleted,
			model.ColCreatedAt:   r.CreatedAt,
		}
	},
	SetID: func(r *model.Recipe, id int64) { r.ID = id },
}

var RecipeTagMapping = repo.Mapping[model.RecipeTag]{
	Table:      model.TableRecipeTags,
	Columns:    []string{model.ColID, model.ColRecipeID, model.ColTagID, model.ColIsDeleted},
	SoftDelete: model.ColIsDeleted,
	Values: func(rt *model.RecipeTag) map[string]any {
		return map[string]any{
			model.ColRecipeID:  rt.RecipeID,
			model.ColTagID:     rt.TagID,
			model.ColIsDeleted: rt.IsDeleted,
		}
	},
	SetID: func(rt *model.RecipeTag, id int64) { rt.ID = id },
}

var CategoryMapping = repo.Mapping[model.Category]{
	Table:   model.TableCategories,
	Columns: []string{model.ColID, model.ColName},
	Values: func(c *model.Category) map[string]any {
		return map[string]any{model.ColName: c.Name}
	},
	SetID: func(c *model.Category, id int64) { c.ID = id },
}

var TagMapping = repo.Mapping[model.Tag]{
	Table:   model.TableTags,
	Columns: []string{model.ColID, model.ColName},
	Values: func(t *model.Tag) map[string]any {
		return map[string]any{model.ColName: t.Name}
	},
	SetID: func(t *model.Tag, id int64) { t.ID = id },
}
