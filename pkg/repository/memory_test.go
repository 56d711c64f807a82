package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Size      int    `db:"size"`
	IsDeleted bool   `db:"is_deleted"`
	Note      string `db:"-"`
}

var widgetMapping = Mapping[widget]{
	Table:      "widgets",
	Columns:    []string{"id", "name", "size", "is_deleted"},
	SoftDelete: "is_deleted",
	Unique:     []string{"name"},
	Values: func(w *widget) map[string]any {
		return map[string]any{"name": w.Name, "size": w.Size, "is_deleted": w.IsDeleted}
	},
	SetID: func(w *widget, id int64) { w.ID = id },
}

func newWidgets(db *MemoryDB) (*MemorySession, *Memory[widget]) {
	s := db.Session()
	return s, NewMemory(s, widgetMapping)
}

func names(ws []widget) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Name
	}
	return out
}

func TestMemory_AddIsVisibleAfterSaveChanges(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	s, repo := newWidgets(db)

	a := widget{Name: "soup", Size: 1}
	b := widget{Name: "stew", Size: 2}
	require.NoError(t, repo.Add(ctx, &a))
	require.NoError(t, repo.Add(ctx, &b))
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	before, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, before)

	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	after, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"soup", "stew"}, names(after))
}

func TestMemory_RollbackDropsStagedWrites(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	s, repo := newWidgets(db)

	require.NoError(t, repo.Add(ctx, &widget{Name: "soup"}))
	require.NoError(t, s.Rollback(ctx))

	n, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, Rows[widget](db, "widgets"))
}

func TestMemory_UniqueAmongLiveRows(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	Seed(db, widgetMapping,
		widget{Name: "soup"},
		widget{Name: "stew", IsDeleted: true},
	)
	_, repo := newWidgets(db)

	err := repo.Add(ctx, &widget{Name: "soup"})
	assert.ErrorIs(t, err, ErrUniqueViolation)

	assert.NoError(t, repo.Add(ctx, &widget{Name: "stew"}))
}

func TestMemory_SaveChangesIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()

	s1, r1 := newWidgets(db)
	s2, r2 := newWidgets(db)

	require.NoError(t, r2.Add(ctx, &widget{Name: "tart"}))
	require.NoError(t, r1.Add(ctx, &widget{Name: "pie"}))
	require.NoError(t, r2.Add(ctx, &widget{Name: "pie"}))

	_, err := s1.SaveChanges(ctx)
	require.NoError(t, err)

	n, err := s2.SaveChanges(ctx)
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.Zero(t, n)

	assert.Equal(t, []string{"pie"}, names(Rows[widget](db, "widgets")))
}

func TestMemory_SaveFieldsWritesOnlyNamedColumns(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	seeded := Seed(db, widgetMapping, widget{Name: "soup", Size: 3})
	s, repo := newWidgets(db)

	entity := widget{ID: seeded[0].ID, Name: "broth", Size: 9}
	n, err := repo.SaveFields(ctx, &entity, "name")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.SaveChanges(ctx)
	require.NoError(t, err)

	rows := Rows[widget](db, "widgets")
	require.Len(t, rows, 1)
	assert.Equal(t, "broth", rows[0].Name)
	assert.Equal(t, 3, rows[0].Size)
}

func TestMemory_SaveFieldsMissingRowIsZero(t *testing.T) {
	ctx := context.Background()
	_, repo := newWidgets(NewMemoryDB())

	n, err := repo.SaveFields(ctx, &widget{ID: 42, Name: "ghost"}, "name")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemory_SaveFieldsRejectsUnknownColumn(t *testing.T) {
	_, repo := newWidgets(NewMemoryDB())

	_, err := repo.SaveFields(context.Background(), &widget{ID: 1}, "colour")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = repo.SaveFields(context.Background(), &widget{ID: 1}, "-")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestMemory_UpdateWhere(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	Seed(db, widgetMapping,
		widget{Name: "a", Size: 3},
		widget{Name: "b", Size: 3},
		widget{Name: "c", Size: 4},
	)
	s, repo := newWidgets(db)

	n, err := repo.UpdateWhere(ctx, map[string]any{"is_deleted": true}, Eq("size", 3))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	total, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	live, err := repo.FindAll(ctx, Eq("is_deleted", false))
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, names(live))
}

func TestMemory_UpdateWhereNoMatchStagesNothing(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	Seed(db, widgetMapping, widget{Name: "a", Size: 1})
	s, repo := newWidgets(db)

	n, err := repo.UpdateWhere(ctx, map[string]any{"is_deleted": true}, Eq("size", int64(7)))
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestMemory_ExistsByIDIgnoresSoftDeleted(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	seeded := Seed(db, widgetMapping,
		widget{Name: "live"},
		widget{Name: "gone", IsDeleted: true},
	)
	_, repo := newWidgets(db)

	ok, err := repo.ExistsByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByID(ctx, seeded[1].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ExistsByID(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_FindAllConditions(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	Seed(db, widgetMapping,
		widget{Name: "Tomato Soup", Size: 2},
		widget{Name: "Stew", Size: 2},
		widget{Name: "soup of the day", Size: 5},
	)
	_, repo := newWidgets(db)

	got, err := repo.FindAll(ctx, Contains("name", "SOUP"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato Soup", "soup of the day"}, names(got))

	got, err = repo.FindAll(ctx, Eq("size", 2), Ne("name", "Stew"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato Soup"}, names(got))

	found, err := repo.Any(ctx, Eq("name", "Pie"))
	require.NoError(t, err)
	assert.False(t, found)

	_, err = repo.FindAll(ctx, Eq("colour", "red"))
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestSeed_KeepsExplicitIDsAndAdvancesSequence(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDB()
	Seed(db, widgetMapping, widget{ID: 10, Name: "ten"})
	s, repo := newWidgets(db)

	w := widget{Name: "next"}
	require.NoError(t, repo.Add(ctx, &w))
	assert.Equal(t, int64(11), w.ID)

	_, err := s.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Len(t, Rows[widget](db, "widgets"), 2)
}
