package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"food-app-backend/internal/domains/recipe/model"
	"food-app-backend/pkg/database"
	"food-app-backend/pkg/pagination"
	repo "food-app-backend/pkg/repository"
)

// ============================================
// UNIT OF WORK
// ============================================

type postgresFactory struct {
	pool database.Beginner
}

// NewPostgresFactory - Constructor
func NewPostgresFactory(pool database.Beginner) UnitOfWorkFactory {
	return &postgresFactory{pool: pool}
}

func (f *postgresFactory) New() UnitOfWork {
	uow := database.NewUnitOfWork(f.pool)
	return &postgresUnitOfWork{
		UnitOfWork: uow,
		recipes:    &recipeRepository{Postgres: repo.NewPostgres(uow, RecipeMapping)},
		recipeTags: repo.NewPostgres(uow, RecipeTagMapping),
		views:      &postgresProjection{session: uow},
	}
}

type postgresUnitOfWork struct {
	*database.UnitOfWork
	recipes    *recipeRepository
	recipeTags *repo.Postgres[model.RecipeTag]
	views      *postgresProjection
}

func (u *postgresUnitOfWork) Recipes() repo.Repository[model.Recipe]       { return u.recipes }
func (u *postgresUnitOfWork) RecipeTags() repo.Repository[model.RecipeTag] { return u.recipeTags }
func (u *postgresUnitOfWork) Views() Projection                            { return u.views }

// ============================================
// RECIPES
// ============================================

// recipeRepository inserts the recipe's tag associations together with it.
type recipeRepository struct {
	*repo.Postgres[model.Recipe]
}

const insertRecipeTagsQuery = `
	INSERT INTO recipe_tags (recipe_id, tag_id, is_deleted)
	SELECT $1, t.tag_id, FALSE
	FROM unnest($2::bigint[]) WITH ORDINALITY AS t(tag_id, ord)
	ORDER BY t.ord
	RETURNING id
`

func (r *recipeRepository) Add(ctx context.Context, recipe *model.Recipe) error {
	if err := r.Postgres.Add(ctx, recipe); err != nil {
		return err
	}
	if len(recipe.RecipeTags) == 0 {
		return nil
	}

	tagIDs := make([]int64, len(recipe.RecipeTags))
	for i := range recipe.RecipeTags {
		recipe.RecipeTags[i].RecipeID = recipe.ID
		tagIDs[i] = recipe.RecipeTags[i].TagID
	}

	w, err := r.Session().Writer(ctx)
	if err != nil {
		return err
	}

	rows, err := w.Query(ctx, insertRecipeTagsQuery, recipe.ID, pq.Array(tagIDs))
	if err != nil {
		return fmt.Errorf("insert recipe tags: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("insert recipe tags: %w", err)
	}
	for i := range ids {
		if i < len(recipe.RecipeTags) {
			recipe.RecipeTags[i].ID = ids[i]
		}
	}

	r.Session().Track(int64(len(ids)))
	return nil
}

// ============================================
// PROJECTION
// ============================================

type postgresProjection struct {
	session database.Session
}

const selectRecipeViews = `
	SELECT
		r.id,
		r.name,
		r.description,
		r.image_path,
		r.price,
		r.category_id,
		COALESCE(c.name, '') AS category_name,
		COALESCE((
			SELECT json_agg(json_build_object('id', t.id, 'name', t.name) ORDER BY t.id)
			FROM recipe_tags rt
			JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND rt.is_deleted = FALSE
		), '[]'::json) AS tags,
		r.created_at
	FROM recipes r
	LEFT JOIN categories c ON c.id = r.category_id`

func (p *postgresProjection) Query(filter model.RecipeFilter) pagination.Query[model.RecipeView] {
	return &postgresViewQuery{session: p.session, filter: filter}
}

func (p *postgresProjection) FirstOrDefault(ctx context.Context, id int64) (*model.RecipeView, error) {
	query := selectRecipeViews + " WHERE r.id = $1 AND r.is_deleted = FALSE"

	view, err := scanRecipeView(p.session.Reader().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe view %d: %w", id, err)
	}
	return view, nil
}

type postgresViewQuery struct {
	session database.Session
	filter  model.RecipeFilter
}

func (q *postgresViewQuery) Count(ctx context.Context) (int64, error) {
	whereClause, args := buildViewWhere(q.filter)
	query := "SELECT COUNT(*) FROM recipes r WHERE " + whereClause

	var total int64
	if err := q.session.Reader().QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return total, nil
}

func (q *postgresViewQuery) Fetch(ctx context.Context, offset, limit int) ([]model.RecipeView, error) {
	whereClause, args := buildViewWhere(q.filter)
	query := fmt.Sprintf("%s WHERE %s ORDER BY r.created_at DESC, r.id DESC LIMIT $%d OFFSET $%d",
		selectRecipeViews, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := q.session.Reader().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	views := make([]model.RecipeView, 0, limit)
	for rows.Next() {
		view, err := scanRecipeView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe view: %w", err)
		}
		views = append(views, *view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return views, nil
}

// buildViewWhere - dynamic WHERE for the recipes projection (alias r)
func buildViewWhere(filter model.RecipeFilter) (string, []any) {
	conditions := []string{"r.is_deleted = FALSE"}
	args := []any{}
	argIndex := 1

	if filter.CategoryID > 0 {
		conditions = append(conditions, fmt.Sprintf("r.category_id = $%d", argIndex))
		args = append(args, filter.CategoryID)
		argIndex++
	}

	if filter.TagID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = r.id AND rt.tag_id = $%d AND rt.is_deleted = FALSE)",
			argIndex))
		args = append(args, filter.TagID)
		argIndex++
	}

	if filter.RecipePrice > 0 {
		conditions = append(conditions, fmt.Sprintf("r.price <= $%d", argIndex))
		args = append(args, filter.RecipePrice)
		argIndex++
	}

	if filter.RecipeName != "" {
		conditions = append(conditions, fmt.Sprintf("r.name ILIKE $%d", argIndex))
		args = append(args, "%"+repo.EscapeLike(filter.RecipeName)+"%")
	}

	return strings.Join(conditions, " AND "), args
}

// scanRecipeView reads one projection row. The tags column is decoded by
// pgx's json codec.
func scanRecipeView(row pgx.Row) (*model.RecipeView, error) {
	var view model.RecipeView
	err := row.Scan(
		&view.ID, &view.Name, &view.Description, &view.ImagePath, &view.Price,
		&view.CategoryID, &view.CategoryName, &view.Tags, &view.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if view.Tags == nil {
		view.Tags = []model.TagView{}
	}
	return &view, nil
}
