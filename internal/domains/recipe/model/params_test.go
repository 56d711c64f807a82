package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecipeParams_ZeroValue(t *testing.T) {
	var p RecipeParams
	assert.Equal(t, 1, p.PageNumber())
	assert.Equal(t, DefaultPageSize, p.PageSize())
}

func TestRecipeParams_SetPageNumber(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 1},
		{0, 1},
		{1, 1},
		{7, 7},
	}
	for _, tt := range tests {
		var p RecipeParams
		p.SetPageNumber(tt.in)
		assert.Equal(t, tt.want, p.PageNumber(), "SetPageNumber(%d)", tt.in)
	}
}

func TestRecipeParams_SetPageSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, DefaultPageSize},
		{0, DefaultPageSize},
		{1, 1},
		{10, 10},
		{30, 30},
		{31, MaxPageSize},
		{100, MaxPageSize},
	}
	for _, tt := range tests {
		var p RecipeParams
		p.SetPageSize(tt.in)
		assert.Equal(t, tt.want, p.PageSize(), "SetPageSize(%d)", tt.in)
	}
}

func TestListRecipesRequest_Params(t *testing.T) {
	req := ListRecipesRequest{
		PageNumber: 0,
		PageSize:   100,
		CategoryID: 2,
		TagID:      3,
		RecipeName: "soup",
	}

	p := req.Params()
	assert.Equal(t, 1, p.PageNumber())
	assert.Equal(t, 30, p.PageSize())
	assert.Equal(t, RecipeFilter{CategoryID: 2, TagID: 3, RecipeName: "soup"}, p.Filter())
}

func TestNewRecipeTags_Deduplicates(t *testing.T) {
	tags := NewRecipeTags([]int64{2, 1, 2, 3, 1})

	ids := make([]int64, len(tags))
	for i, tag := range tags {
		ids[i] = tag.TagID
	}
	assert.Equal(t, []int64{2, 1, 3}, ids)
	assert.Empty(t, NewRecipeTags(nil))
}

func TestCreateRecipeRequest_Validate(t *testing.T) {
	valid := CreateRecipeRequest{
		Name:       "Soup",
		Price:      decimal.NewFromInt(12),
		CategoryID: 1,
		TagIDs:     []int64{1, 2},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *CreateRecipeRequest)
	}{
		{"missing name", func(r *CreateRecipeRequest) { r.Name = "" }},
		{"missing category", func(r *CreateRecipeRequest) { r.CategoryID = 0 }},
		{"negative price", func(r *CreateRecipeRequest) { r.Price = decimal.NewFromInt(-1) }},
		{"bad tag id", func(r *CreateRecipeRequest) { r.TagIDs = []int64{1, 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestUpdateRecipeRequest_Validate(t *testing.T) {
	assert.NoError(t, UpdateRecipeRequest{RecipeID: 1, Name: "Stew", CategoryID: 2}.Validate())
	assert.Error(t, UpdateRecipeRequest{Name: "Stew", CategoryID: 2}.Validate())
	assert.Error(t, UpdateRecipeRequest{RecipeID: 1, CategoryID: 2}.Validate())
}
