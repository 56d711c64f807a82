package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"food-app-backend/internal/domains/recipe/model"
	"food-app-backend/pkg/pagination"
	repo "food-app-backend/pkg/repository"
)

// ============================================
// UNIT OF WORK
// ============================================

type memoryFactory struct {
	db *repo.MemoryDB
}

// NewMemoryFactory - Constructor for the in-process storage driver
func NewMemoryFactory(db *repo.MemoryDB) UnitOfWorkFactory {
	return &memoryFactory{db: db}
}

func (f *memoryFactory) New() UnitOfWork {
	s := f.db.Session()
	tags := repo.NewMemory(s, RecipeTagMapping)
	return &memoryUnitOfWork{
		MemorySession: s,
		recipes:       &memoryRecipeRepository{Memory: repo.NewMemory(s, RecipeMapping), tags: tags},
		recipeTags:    tags,
		views:         &memoryProjection{db: f.db},
	}
}

type memoryUnitOfWork struct {
	*repo.MemorySession
	recipes    *memoryRecipeRepository
	recipeTags *repo.Memory[model.RecipeTag]
	views      *memoryProjection
}

func (u *memoryUnitOfWork) Recipes() repo.Repository[model.Recipe]       { return u.recipes }
func (u *memoryUnitOfWork) RecipeTags() repo.Repository[model.RecipeTag] { return u.recipeTags }
func (u *memoryUnitOfWork) Views() Projection                            { return u.views }

// memoryRecipeRepository stages the recipe's tag associations with it.
type memoryRecipeRepository struct {
	*repo.Memory[model.Recipe]
	tags *repo.Memory[model.RecipeTag]
}

func (r *memoryRecipeRepository) Add(ctx context.Context, recipe *model.Recipe) error {
	if err := r.Memory.Add(ctx, recipe); err != nil {
		return err
	}
	for i := range recipe.RecipeTags {
		recipe.RecipeTags[i].RecipeID = recipe.ID
		if err := r.tags.Add(ctx, &recipe.RecipeTags[i]); err != nil {
			return err
		}
	}
	return nil
}

// SeedReferenceData loads categories and tags into a memory store.
func SeedReferenceData(db *repo.MemoryDB, categories []model.Category, tags []model.Tag) {
	repo.Seed(db, CategoryMapping, categories...)
	repo.Seed(db, TagMapping, tags...)
}

// ============================================
// PROJECTION
// ============================================

type memoryProjection struct {
	db *repo.MemoryDB
}

func (p *memoryProjection) Query(filter model.RecipeFilter) pagination.Query[model.RecipeView] {
	return &memoryViewQuery{db: p.db, filter: filter}
}

func (p *memoryProjection) FirstOrDefault(_ context.Context, id int64) (*model.RecipeView, error) {
	views := p.views(func(r model.Recipe) bool { return r.ID == id }, model.RecipeFilter{})
	if len(views) == 0 {
		return nil, nil
	}
	return &views[0], nil
}

// views joins live recipes with their category and live tags, newest first.
func (p *memoryProjection) views(keep func(model.Recipe) bool, filter model.RecipeFilter) []model.RecipeView {
	categories := make(map[int64]string)
	for _, c := range repo.Rows[model.Category](p.db, model.TableCategories) {
		categories[c.ID] = c.Name
	}
	tagNames := make(map[int64]string)
	for _, t := range repo.Rows[model.Tag](p.db, model.TableTags) {
		tagNames[t.ID] = t.Name
	}
	tagsByRecipe := make(map[int64][]model.TagView)
	for _, rt := range repo.Rows[model.RecipeTag](p.db, model.TableRecipeTags) {
		if rt.IsDeleted {
			continue
		}
		tagsByRecipe[rt.RecipeID] = append(tagsByRecipe[rt.RecipeID], model.TagView{ID: rt.TagID, Name: tagNames[rt.TagID]})
	}

	views := make([]model.RecipeView, 0)
	for _, r := range repo.Rows[model.Recipe](p.db, model.TableRecipes) {
		if r.IsDeleted || !keep(r) || !matchesFilter(r, tagsByRecipe[r.ID], filter) {
			continue
		}

		tags := tagsByRecipe[r.ID]
		sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
		if tags == nil {
			tags = []model.TagView{}
		}

		views = append(views, model.RecipeView{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			ImagePath:    r.ImagePath,
			Price:        r.Price,
			CategoryID:   r.CategoryID,
			CategoryName: categories[r.CategoryID],
			Tags:         tags,
			CreatedAt:    r.CreatedAt,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		}
		return views[i].ID > views[j].ID
	})
	return views
}

func matchesFilter(r model.Recipe, tags []model.TagView, filter model.RecipeFilter) bool {
	if filter.CategoryID > 0 && r.CategoryID != filter.CategoryID {
		return false
	}
	if filter.TagID > 0 {
		found := false
		for _, t := range tags {
			if t.ID == filter.TagID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.RecipePrice > 0 && r.Price.GreaterThan(decimal.NewFromInt(int64(filter.RecipePrice))) {
		return false
	}
	if filter.RecipeName != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filter.RecipeName)) {
		return false
	}
	return true
}

type memoryViewQuery struct {
	db     *repo.MemoryDB
	filter model.RecipeFilter
}

func (q *memoryViewQuery) all() []model.RecipeView {
	p := memoryProjection{db: q.db}
	return p.views(func(model.Recipe) bool { return true }, q.filter)
}

func (q *memoryViewQuery) Count(context.Context) (int64, error) {
	return int64(len(q.all())), nil
}

func (q *memoryViewQuery) Fetch(ctx context.Context, offset, limit int) ([]model.RecipeView, error) {
	return pagination.FromSlice(q.all()).Fetch(ctx, offset, limit)
}
