package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-app-backend/internal/domains/recipe/model"
	"food-app-backend/internal/domains/recipe/repository"
	"food-app-backend/internal/domains/recipe/service"
	"food-app-backend/internal/shared/result"
	"food-app-backend/pkg/pagination"
	repo "food-app-backend/pkg/repository"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func newRouter(svc service.ServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewRecipeHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func newMemoryRouter() *gin.Engine {
	db := repo.NewMemoryDB()
	repository.SeedReferenceData(db,
		[]model.Category{{Name: "Soups"}},
		[]model.Tag{{Name: "Hot"}, {Name: "Vegan"}},
	)
	return newRouter(service.NewService(repository.NewMemoryFactory(db)))
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestRecipeHandler_Lifecycle(t *testing.T) {
	r := newMemoryRouter()

	code, env := do(t, r, http.MethodPost, "/api/v1/recipes",
		`{"name":"Soup","description":"Warm","price":"12.50","category_id":1,"tag_ids":[1,2]}`)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"id":1}`, string(env.Data))

	code, env = do(t, r, http.MethodGet, "/api/v1/recipes/1", "")
	require.Equal(t, http.StatusOK, code)
	var view model.RecipeView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Soup", view.Name)
	assert.Equal(t, "Soups", view.CategoryName)
	assert.Len(t, view.Tags, 2)

	code, env = do(t, r, http.MethodPut, "/api/v1/recipes/1", `{"name":"Chowder","description":"Thick","category_id":1}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":1}`, string(env.Data))

	code, _ = do(t, r, http.MethodDelete, "/api/v1/recipes/1", "")
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/api/v1/recipes/1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RECIPE_NOT_FOUND", env.Error.Code)
}

func TestRecipeHandler_CreateConflict(t *testing.T) {
	r := newMemoryRouter()
	body := `{"name":"Soup","category_id":1}`

	code, _ := do(t, r, http.MethodPost, "/api/v1/recipes", body)
	require.Equal(t, http.StatusCreated, code)

	code, env := do(t, r, http.MethodPost, "/api/v1/recipes", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "RECIPE_ALREADY_EXIST", env.Error.Code)
}

func TestRecipeHandler_BadRequests(t *testing.T) {
	r := newMemoryRouter()

	tests := []struct {
		name, method, path, body string
		wantCode                 string
	}{
		{"missing name", http.MethodPost, "/api/v1/recipes", `{"category_id":1}`, "VALIDATION_ERROR"},
		{"negative price", http.MethodPost, "/api/v1/recipes", `{"name":"x","price":-1,"category_id":1}`, "VALIDATION_ERROR"},
		{"malformed json", http.MethodPost, "/api/v1/recipes", `{"name":`, "BAD_REQUEST"},
		{"non numeric id", http.MethodGet, "/api/v1/recipes/abc", "", "BAD_REQUEST"},
		{"zero id", http.MethodDelete, "/api/v1/recipes/0", "", "BAD_REQUEST"},
		{"negative filter", http.MethodGet, "/api/v1/recipes?category_id=-1", "", "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestRecipeHandler_UpdateMissingIsDataBaseError(t *testing.T) {
	r := newMemoryRouter()

	code, env := do(t, r, http.MethodPut, "/api/v1/recipes/99", `{"name":"X","category_id":1}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "DATABASE_ERROR", env.Error.Code)
}

func TestRecipeHandler_ListWithMeta(t *testing.T) {
	r := newMemoryRouter()
	for _, name := range []string{"A", "B", "C"} {
		code, _ := do(t, r, http.MethodPost, "/api/v1/recipes", `{"name":"`+name+`","category_id":1}`)
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := do(t, r, http.MethodGet, "/api/v1/recipes?page_number=2&page_size=2", "")
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 2, env.Meta.Limit)
	assert.Equal(t, int64(3), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)

	var items []model.RecipeView
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)

	code, env = do(t, r, http.MethodGet, "/api/v1/recipes?page_size=100", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.MaxPageSize, env.Meta.Limit)
}

type faultyService struct{ err error }

func (s faultyService) GetAll(context.Context, model.RecipeParams) (result.Result[*pagination.PageList[model.RecipeView]], error) {
	return result.Result[*pagination.PageList[model.RecipeView]]{}, s.err
}
func (s faultyService) GetByID(context.Context, int64) (result.Result[*model.RecipeView], error) {
	return result.Result[*model.RecipeView]{}, s.err
}
func (s faultyService) Create(context.Context, model.CreateRecipeRequest) (result.Result[int64], error) {
	return result.Result[int64]{}, s.err
}
func (s faultyService) Update(context.Context, model.UpdateRecipeRequest) (result.Result[int64], error) {
	return result.Result[int64]{}, s.err
}
func (s faultyService) Delete(context.Context, int64) (result.Result[int64], error) {
	return result.Result[int64]{}, s.err
}

func TestRecipeHandler_ServiceFaultIs500(t *testing.T) {
	r := newRouter(faultyService{err: errors.New("pool closed")})

	code, env := do(t, r, http.MethodGet, "/api/v1/recipes", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", env.Error.Code)
	assert.NotContains(t, env.Error.Message, "pool closed")

	code, _ = do(t, r, http.MethodDelete, "/api/v1/recipes/3", "")
	assert.Equal(t, http.StatusInternalServerError, code)
}
