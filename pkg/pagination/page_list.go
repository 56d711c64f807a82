package pagination

import (
	"context"
	"fmt"
)

// Query is a source of rows that can be counted and sliced.
type Query[T any] interface {
	// Count returns the total number of rows matching the query
	Count(ctx context.Context) (int64, error)

	// Fetch returns at most limit rows starting at offset (0-based)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// PageList is one page of items plus paging metadata.
//
// Response:
//
//	{
//	  "items": [...],
//	  "current_page": 2,
//	  "total_pages": 4,
//	  "page_size": 5,
//	  "total_count": 18,
//	  "has_previous": true,
//	  "has_next": true
//	}
type PageList[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	PageSize    int   `json:"page_size"`
	TotalCount  int64 `json:"total_count"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// NewPageList wraps already materialised items.
func NewPageList[T any](items []T, count int64, pageNumber, pageSize int) *PageList[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int((count + int64(pageSize) - 1) / int64(pageSize))
	}

	return &PageList[T]{
		Items:       items,
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalCount:  count,
		HasPrevious: pageNumber > 1,
		HasNext:     pageNumber < totalPages,
	}
}

// Create counts the query, fetches the requested page and wraps both.
// pageNumber is 1-based; callers are expected to pass clamped values.
func Create[T any](ctx context.Context, q Query[T], pageNumber, pageSize int) (*PageList[T], error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count page source: %w", err)
	}

	// Compared in pages so the offset below cannot overflow.
	if count == 0 || int64(pageNumber-1) > (count-1)/int64(pageSize) {
		return NewPageList[T](nil, count, pageNumber, pageSize), nil
	}

	offset := (pageNumber - 1) * pageSize
	items, err := q.Fetch(ctx, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", pageNumber, err)
	}

	return NewPageList(items, count, pageNumber, pageSize), nil
}

// ============================================================
// IN-MEMORY SOURCE
// ============================================================

type sliceQuery[T any] struct {
	items []T
}

// FromSlice adapts an in-memory slice to Query.
func FromSlice[T any](items []T) Query[T] {
	return sliceQuery[T]{items: items}
}

func (q sliceQuery[T]) Count(context.Context) (int64, error) {
	return int64(len(q.items)), nil
}

func (q sliceQuery[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid window offset=%d limit=%d", offset, limit)
	}
	if offset >= len(q.items) {
		return []T{}, nil
	}
	end := len(q.items)
	if limit < end-offset {
		end = offset + limit
	}
	return q.items[offset:end], nil
}
