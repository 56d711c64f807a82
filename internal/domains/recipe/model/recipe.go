package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============ ENTITIES ============

// Recipe - Domain Entity (from database)
type Recipe struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	ImagePath   string          `json:"image_path" db:"image_path"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CategoryID  int64           `json:"category_id" db:"category_id"`
	IsDeleted   bool            `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`

	// Inserted together with the recipe, not a column
	RecipeTags []RecipeTag `json:"recipe_tags,omitempty" db:"-"`
}

// RecipeTag - recipe/tag association
type RecipeTag struct {
	ID        int64 `json:"id" db:"id"`
	RecipeID  int64 `json:"recipe_id" db:"recipe_id"`
	TagID     int64 `json:"tag_id" db:"tag_id"`
	IsDeleted bool  `json:"is_deleted" db:"is_deleted"`
}

// Category - reference data, owned outside this module
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Tag - reference data, owned outside this module
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ============ COLUMNS ============

const (
	TableRecipes    = "recipes"
	TableRecipeTags = "recipe_tags"
	TableCategories = "categories"
	TableTags       = "tags"

	ColID          = "id"
	ColName        = "name"
	ColDescription = "description"
	ColImagePath   = "image_path"
	ColPrice       = "price"
	ColCategoryID  = "category_id"
	ColIsDeleted   = "is_deleted"
	ColCreatedAt   = "created_at"
	ColRecipeID    = "recipe_id"
	ColTagID       = "tag_id"
)

// NewRecipeTags builds one association per distinct tag id, keeping the
// first-seen order.
func NewRecipeTags(tagIDs []int64) []RecipeTag {
	seen := make(map[int64]struct{}, len(tagIDs))
	tags := make([]RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tags = append(tags, RecipeTag{TagID: id})
	}
	return tags
}
