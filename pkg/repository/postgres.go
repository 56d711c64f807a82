package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"food-app-backend/pkg/database"
)

// pgUniqueViolation is SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

// Postgres implements Repository[T] with pgx on top of a unit of work.
// Reads go through the session reader, writes through its transaction.
type Postgres[T any] struct {
	session database.Session
	mapping Mapping[T]
}

// NewPostgres creates a PostgreSQL repository for the mapping.
func NewPostgres[T any](session database.Session, mapping Mapping[T]) *Postgres[T] {
	return &Postgres[T]{session: session, mapping: mapping}
}

var _ Repository[struct{}] = (*Postgres[struct{}])(nil)

// Session exposes the underlying session for hand-written statements.
func (r *Postgres[T]) Session() database.Session {
	return r.session
}

func (r *Postgres[T]) FindAll(ctx context.Context, where ...Cond) ([]T, error) {
	clause, args, err := r.where(where, 1)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s",
		strings.Join(r.mapping.Columns, ", "), r.mapping.Table, clause, IDColumn)

	rows, err := r.session.Reader().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.mapping.Table, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.mapping.Table, err)
	}
	return items, nil
}

func (r *Postgres[T]) Any(ctx context.Context, where ...Cond) (bool, error) {
	clause, args, err := r.where(where, 1)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s)", r.mapping.Table, clause)

	var exists bool
	if err := r.session.Reader().QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s: %w", r.mapping.Table, err)
	}
	return exists, nil
}

func (r *Postgres[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.Any(ctx, r.mapping.liveByID(id)...)
}

func (r *Postgres[T]) Add(ctx context.Context, entity *T) error {
	values := r.mapping.Values(entity)
	columns := sortedKeys(values)

	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.mapping.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), IDColumn)

	w, err := r.session.Writer(ctx)
	if err != nil {
		return err
	}

	var id int64
	if err := w.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return translate(fmt.Errorf("insert %s: %w", r.mapping.Table, err))
	}

	r.mapping.SetID(entity, id)
	r.session.Track(1)
	return nil
}

func (r *Postgres[T]) SaveFields(ctx context.Context, entity *T, fields ...string) (int64, error) {
	if len(fields) == 0 {
		return 0, errors.New("no fields to save")
	}

	values := r.mapping.Values(entity)
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		v, ok := values[f]
		if !ok {
			return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, f)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", f, i+1))
		args = append(args, v)
	}

	id, err := r.idOf(entity)
	if err != nil {
		return 0, err
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		r.mapping.Table, strings.Join(sets, ", "), IDColumn, len(args))

	return r.exec(ctx, query, args)
}

func (r *Postgres[T]) UpdateWhere(ctx context.Context, set map[string]any, where ...Cond) (int64, error) {
	if len(set) == 0 {
		return 0, errors.New("no columns to set")
	}

	columns := sortedKeys(set)
	sets := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		if !r.mapping.hasColumn(col) {
			return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, col)
		}
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args[i] = set[col]
	}

	clause, whereArgs, err := r.where(where, len(args)+1)
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		r.mapping.Table, strings.Join(sets, ", "), clause)

	return r.exec(ctx, query, args)
}

func (r *Postgres[T]) exec(ctx context.Context, query string, args []any) (int64, error) {
	w, err := r.session.Writer(ctx)
	if err != nil {
		return 0, err
	}

	tag, err := w.Exec(ctx, query, args...)
	if err != nil {
		return 0, translate(fmt.Errorf("update %s: %w", r.mapping.Table, err))
	}

	n := tag.RowsAffected()
	r.session.Track(n)
	return n, nil
}

func (r *Postgres[T]) where(conds []Cond, start int) (string, []any, error) {
	for _, c := range conds {
		if !r.mapping.hasColumn(c.Column) {
			return "", nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, c.Column)
		}
	}
	return buildWhere(conds, start)
}

func (r *Postgres[T]) idOf(entity *T) (int64, error) {
	id, ok := idField(entity)
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, IDColumn)
	}
	return id, nil
}

// translate maps driver errors to repository sentinels, keeping the cause.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w (%s): %w", ErrUniqueViolation, pgErr.ConstraintName, err)
	}
	return err
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
