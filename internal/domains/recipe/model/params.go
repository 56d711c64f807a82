package model

const (
	MaxPageSize     = 30
	DefaultPageSize = 5
)

// RecipeParams - paging and filter options for listing recipes.
// The zero value asks for page 1 with DefaultPageSize items.
type RecipeParams struct {
	pageNumber int
	pageSize   int

	// Filters, zero value means no filtering
	CategoryID  int64
	TagID       int64
	RecipePrice int    // upper bound on price
	RecipeName  string // case-insensitive substring
}

// SetPageNumber stores max(v, 1).
func (p *RecipeParams) SetPageNumber(v int) {
	if v < 1 {
		v = 1
	}
	p.pageNumber = v
}

// SetPageSize stores min(v, MaxPageSize). Values below 1 fall back to
// DefaultPageSize.
func (p *RecipeParams) SetPageSize(v int) {
	switch {
	case v < 1:
		v = DefaultPageSize
	case v > MaxPageSize:
		v = MaxPageSize
	}
	p.pageSize = v
}

func (p RecipeParams) PageNumber() int {
	if p.pageNumber < 1 {
		return 1
	}
	return p.pageNumber
}

func (p RecipeParams) PageSize() int {
	if p.pageSize < 1 {
		return DefaultPageSize
	}
	return p.pageSize
}

// Filter extracts the filtering part of the params.
func (p RecipeParams) Filter() RecipeFilter {
	return RecipeFilter{
		CategoryID:  p.CategoryID,
		TagID:       p.TagID,
		RecipePrice: p.RecipePrice,
		RecipeName:  p.RecipeName,
	}
}

// RecipeFilter - Filter object for the projection query
type RecipeFilter struct {
	CategoryID  int64
	TagID       int64
	RecipePrice int
	RecipeName  string
}
