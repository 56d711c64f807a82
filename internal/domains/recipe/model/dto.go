package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// ============ REQUESTS ============

// ListRecipesRequest - Query parameters
type ListRecipesRequest struct {
	PageNumber  int    `form:"page_number"`
	PageSize    int    `form:"page_size"`
	CategoryID  int64  `form:"category_id"`
	TagID       int64  `form:"tag_id"`
	RecipePrice int    `form:"recipe_price"`
	RecipeName  string `form:"recipe_name"`
}

// Params converts the query into clamped RecipeParams.
func (r ListRecipesRequest) Params() RecipeParams {
	p := RecipeParams{
		CategoryID:  r.CategoryID,
		TagID:       r.TagID,
		RecipePrice: r.RecipePrice,
		RecipeName:  r.RecipeName,
	}
	p.SetPageNumber(r.PageNumber)
	p.SetPageSize(r.PageSize)
	return p
}

func (r ListRecipesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CategoryID, validation.Min(int64(0))),
		validation.Field(&r.TagID, validation.Min(int64(0))),
		validation.Field(&r.RecipePrice, validation.Min(0)),
		validation.Field(&r.RecipeName, validation.Length(0, 200)),
	)
}

// CreateRecipeRequest - body of POST /recipes
type CreateRecipeRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImagePath   string          `json:"image_path"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int64           `json:"category_id"`
	TagIDs      []int64         `json:"tag_ids"`
}

func (r CreateRecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.ImagePath, validation.Length(0, 500)),
		validation.Field(&r.Price, validation.By(nonNegative)),
		validation.Field(&r.CategoryID,
			validation.Required.Error("category_id is required"),
			validation.Min(int64(1)),
		),
		validation.Field(&r.TagIDs, validation.Each(validation.Required, validation.Min(int64(1)))),
	)
}

// UpdateRecipeRequest - body of PUT /recipes/:id, RecipeID comes from the path
type UpdateRecipeRequest struct {
	RecipeID    int64  `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
}

func (r UpdateRecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RecipeID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.CategoryID,
			validation.Required.Error("category_id is required"),
			validation.Min(int64(1)),
		),
	)
}

func nonNegative(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return validation.NewError("validation_price_negative", "price must not be negative")
	}
	return nil
}

// ============ VIEWS ============

// RecipeView - read projection of a live recipe
type RecipeView struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImagePath    string          `json:"image_path"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Tags         []TagView       `json:"tags"`
	CreatedAt    time.Time       `json:"created_at"`
}

type TagView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
