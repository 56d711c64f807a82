// Package repository provides a generic data access capability over entity
// types, with a PostgreSQL adapter (pgx) and an in-process memory adapter.
//
// Services talk to Repository[T] only; which adapter sits behind it is decided
// by the wiring code.
package repository

import (
	"context"
	"errors"
)

// IDColumn is the surrogate key column shared by every mapped table.
const IDColumn = "id"

// Sentinel errors returned by adapters.
var (
	// ErrUniqueViolation is returned when a write breaks a uniqueness rule
	// (SQLSTATE 23505 on PostgreSQL).
	ErrUniqueViolation = errors.New("unique constraint violated")

	// ErrUnknownColumn is returned when a condition or field list names a
	// column the mapping does not declare.
	ErrUnknownColumn = errors.New("unknown column")
)

// Repository is the capability set services rely on for one entity type.
type Repository[T any] interface {
	// FindAll returns every row matching all conditions (all rows when none)
	FindAll(ctx context.Context, where ...Cond) ([]T, error)

	// Any reports whether at least one row matches all conditions
	Any(ctx context.Context, where ...Cond) (bool, error)

	// ExistsByID reports whether a row with the id exists.
	// Rows flagged by the mapping's soft-delete column do not count.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Add stages an insert and sets the generated id on the entity
	Add(ctx context.Context, entity *T) error

	// SaveFields writes only the named columns of the entity, matched by id.
	// Returns rows affected.
	SaveFields(ctx context.Context, entity *T, fields ...string) (int64, error)

	// UpdateWhere sets columns on every row matching the conditions in one
	// statement. Returns rows affected.
	UpdateWhere(ctx context.Context, set map[string]any, where ...Cond) (int64, error)
}

// Mapping describes how an entity type is stored.
//
// Struct fields are matched to columns through their `db` tags; fields tagged
// `db:"-"` are not persisted.
type Mapping[T any] struct {
	// Table name
	Table string

	// Columns selected by FindAll, including IDColumn. Must cover every
	// persisted struct field.
	Columns []string

	// SoftDelete is the boolean column marking retired rows ("" if none)
	SoftDelete string

	// Unique lists columns whose values must be unique among live rows.
	// PostgreSQL enforces this with indexes; the memory adapter checks it.
	Unique []string

	// Values returns the writable columns of the entity (IDColumn excluded)
	Values func(e *T) map[string]any

	// SetID stores a generated id on the entity
	SetID func(e *T, id int64)
}

func (m Mapping[T]) hasColumn(column string) bool {
	for _, c := range m.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// liveByID returns the conditions selecting the live row with the id.
func (m Mapping[T]) liveByID(id int64) []Cond {
	conds := []Cond{Eq(IDColumn, id)}
	if m.SoftDelete != "" {
		conds = append(conds, Eq(m.SoftDelete, false))
	}
	return conds
}
