package repository

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// MemoryDB is an in-process store keyed by table name. It backs the memory
// storage driver and service tests.
//
// Writes made through a MemorySession are staged and applied together on
// SaveChanges: either every staged write lands or none does.
type MemoryDB struct {
	mu     sync.RWMutex
	tables map[string]table
}

type table interface {
	clone() table
}

type memTable[T any] struct {
	seq  int64
	rows map[int64]T
}

func (t *memTable[T]) clone() table {
	c := &memTable[T]{seq: t.seq, rows: make(map[int64]T, len(t.rows))}
	for id, row := range t.rows {
		c.rows[id] = row
	}
	return c
}

// NewMemoryDB creates an empty store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{tables: make(map[string]table)}
}

// tableOf returns the named table, creating it. Callers hold the write lock.
func tableOf[T any](tables map[string]table, name string) *memTable[T] {
	if t, ok := tables[name]; ok {
		return t.(*memTable[T])
	}
	t := &memTable[T]{rows: make(map[int64]T)}
	tables[name] = t
	return t
}

// peek returns the named table or nil. Callers hold at least the read lock.
func peek[T any](tables map[string]table, name string) *memTable[T] {
	if t, ok := tables[name]; ok {
		return t.(*memTable[T])
	}
	return nil
}

func (t *memTable[T]) sortedIDs() []int64 {
	if t == nil {
		return nil
	}
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Seed inserts rows directly, bypassing sessions. Rows without an id get the
// next one from the table sequence. Returns the stored rows.
func Seed[T any](db *MemoryDB, m Mapping[T], rows ...T) []T {
	db.mu.Lock()
	defer db.mu.Unlock()

	t := tableOf[T](db.tables, m.Table)
	out := make([]T, len(rows))
	for i, row := range rows {
		id, _ := idField(&row)
		if id == 0 {
			t.seq++
			id = t.seq
			m.SetID(&row, id)
		} else if id > t.seq {
			t.seq = id
		}
		t.rows[id] = row
		out[i] = row
	}
	return out
}

// Rows returns a snapshot of the committed rows of a table ordered by id.
func Rows[T any](db *MemoryDB, name string) []T {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t := peek[T](db.tables, name)
	ids := t.sortedIDs()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

// ============================================
// SESSION
// ============================================

type stagedOp func(tables map[string]table) error

// MemorySession is the memory counterpart of database.UnitOfWork.
// Reads see committed data only. Not safe for concurrent use.
type MemorySession struct {
	db       *MemoryDB
	pending  []stagedOp
	affected int64
}

// Session opens a new session on the store.
func (db *MemoryDB) Session() *MemorySession {
	return &MemorySession{db: db}
}

// Track adds rows affected by a staged write to the running total.
func (s *MemorySession) Track(rowsAffected int64) {
	s.affected += rowsAffected
}

func (s *MemorySession) stage(op stagedOp) {
	s.pending = append(s.pending, op)
}

// SaveChanges applies every staged write atomically and returns the number
// of rows they affected. Uniqueness is re-checked against the latest state.
func (s *MemorySession) SaveChanges(_ context.Context) (int64, error) {
	ops, affected := s.pending, s.affected
	s.pending, s.affected = nil, 0

	if len(ops) == 0 {
		return 0, nil
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	working := make(map[string]table, len(s.db.tables))
	for name, t := range s.db.tables {
		working[name] = t.clone()
	}

	for _, op := range ops {
		if err := op(working); err != nil {
			return 0, err
		}
	}

	s.db.tables = working
	return affected, nil
}

// Rollback drops staged writes. Always safe to call.
func (s *MemorySession) Rollback(_ context.Context) error {
	s.pending, s.affected = nil, 0
	return nil
}

// ============================================
// REPOSITORY
// ============================================

// Memory implements Repository[T] over a MemoryDB session.
type Memory[T any] struct {
	session *MemorySession
	mapping Mapping[T]
}

// NewMemory creates a memory repository for the mapping.
func NewMemory[T any](session *MemorySession, mapping Mapping[T]) *Memory[T] {
	return &Memory[T]{session: session, mapping: mapping}
}

var _ Repository[struct{}] = (*Memory[struct{}])(nil)

func (r *Memory[T]) FindAll(_ context.Context, where ...Cond) ([]T, error) {
	db := r.session.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	t := peek[T](db.tables, r.mapping.Table)
	items := make([]T, 0)
	for _, id := range t.sortedIDs() {
		row := t.rows[id]
		ok, err := r.matches(reflect.ValueOf(&row).Elem(), where)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, row)
		}
	}
	return items, nil
}

func (r *Memory[T]) Any(ctx context.Context, where ...Cond) (bool, error) {
	items, err := r.FindAll(ctx, where...)
	if err != nil {
		return false, err
	}
	return len(items) > 0, nil
}

func (r *Memory[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.Any(ctx, r.mapping.liveByID(id)...)
}

func (r *Memory[T]) Add(_ context.Context, entity *T) error {
	db := r.session.db
	name := r.mapping.Table

	db.mu.Lock()
	t := tableOf[T](db.tables, name)
	if err := r.unique(t, entity); err != nil {
		db.mu.Unlock()
		return err
	}
	t.seq++
	id := t.seq
	db.mu.Unlock()

	r.mapping.SetID(entity, id)
	row := *entity

	r.session.stage(func(tables map[string]table) error {
		t := tableOf[T](tables, name)
		if err := r.unique(t, &row); err != nil {
			return err
		}
		t.rows[id] = row
		return nil
	})
	r.session.Track(1)
	return nil
}

func (r *Memory[T]) SaveFields(_ context.Context, entity *T, fields ...string) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("no fields to save")
	}

	snapshot := *entity
	src := reflect.ValueOf(&snapshot).Elem()
	for _, f := range fields {
		if _, ok := fieldByColumn(src, f); !ok || f == IDColumn {
			return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, f)
		}
	}

	id, ok := idField(entity)
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, IDColumn)
	}

	merge := func(t *memTable[T]) (T, bool, error) {
		cur, ok := t.rows[id]
		if !ok {
			return cur, false, nil
		}
		dst := reflect.ValueOf(&cur).Elem()
		for _, f := range fields {
			df, _ := fieldByColumn(dst, f)
			sf, _ := fieldByColumn(src, f)
			df.Set(sf)
		}
		return cur, true, r.unique(t, &cur)
	}

	db := r.session.db
	db.mu.RLock()
	t := peek[T](db.tables, r.mapping.Table)
	found := false
	var err error
	if t != nil {
		_, found, err = merge(t)
	}
	db.mu.RUnlock()

	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}

	r.session.stage(func(tables map[string]table) error {
		t := tableOf[T](tables, r.mapping.Table)
		row, ok, err := merge(t)
		if err != nil {
			return err
		}
		if ok {
			t.rows[id] = row
		}
		return nil
	})
	r.session.Track(1)
	return 1, nil
}

func (r *Memory[T]) UpdateWhere(_ context.Context, set map[string]any, where ...Cond) (int64, error) {
	if len(set) == 0 {
		return 0, fmt.Errorf("no columns to set")
	}

	var probe T
	pv := reflect.ValueOf(&probe).Elem()
	for col, v := range set {
		if col == IDColumn || !assign(pv, col, v) {
			return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, col)
		}
	}

	apply := func(t *memTable[T], write bool) (int64, error) {
		var n int64
		for _, id := range t.sortedIDs() {
			row := t.rows[id]
			rv := reflect.ValueOf(&row).Elem()
			ok, err := r.matches(rv, where)
			if err != nil {
				return 0, err
			}
			if !ok {
				continue
			}
			n++
			if !write {
				continue
			}
			for col, v := range set {
				assign(rv, col, v)
			}
			if err := r.unique(t, &row); err != nil {
				return 0, err
			}
			t.rows[id] = row
		}
		return n, nil
	}

	db := r.session.db
	db.mu.RLock()
	var n int64
	var err error
	if t := peek[T](db.tables, r.mapping.Table); t != nil {
		n, err = apply(t, false)
	}
	db.mu.RUnlock()

	if err != nil || n == 0 {
		return 0, err
	}

	r.session.stage(func(tables map[string]table) error {
		_, err := apply(tableOf[T](tables, r.mapping.Table), true)
		return err
	})
	r.session.Track(n)
	return n, nil
}

func (r *Memory[T]) matches(row reflect.Value, where []Cond) (bool, error) {
	for _, c := range where {
		f, ok := fieldByColumn(row, c.Column)
		if !ok {
			return false, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, c.Column)
		}

		switch c.Op {
		case OpEq:
			if !equalValues(f, c.Value) {
				return false, nil
			}
		case OpNe:
			if equalValues(f, c.Value) {
				return false, nil
			}
		case OpContains:
			if f.Kind() != reflect.String {
				return false, fmt.Errorf("operator %q needs a text column, got %s", c.Op, c.Column)
			}
			if !strings.Contains(strings.ToLower(f.String()), strings.ToLower(fmt.Sprint(c.Value))) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported operator %q on column %s", c.Op, c.Column)
		}
	}
	return true, nil
}

// unique checks the candidate against live rows of the table.
func (r *Memory[T]) unique(t *memTable[T], candidate *T) error {
	if len(r.mapping.Unique) == 0 {
		return nil
	}

	cv := reflect.ValueOf(candidate).Elem()
	if r.retired(cv) {
		return nil
	}
	candidateID, _ := idField(candidate)

	for id, row := range t.rows {
		if id == candidateID {
			continue
		}
		rv := reflect.ValueOf(&row).Elem()
		if r.retired(rv) {
			continue
		}
		for _, col := range r.mapping.Unique {
			a, ok := fieldByColumn(cv, col)
			if !ok {
				return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.mapping.Table, col)
			}
			b, _ := fieldByColumn(rv, col)
			if equalValues(b, a.Interface()) {
				return fmt.Errorf("%w: %s.%s", ErrUniqueViolation, r.mapping.Table, col)
			}
		}
	}
	return nil
}

func (r *Memory[T]) retired(row reflect.Value) bool {
	if r.mapping.SoftDelete == "" {
		return false
	}
	f, ok := fieldByColumn(row, r.mapping.SoftDelete)
	return ok && f.Kind() == reflect.Bool && f.Bool()
}
