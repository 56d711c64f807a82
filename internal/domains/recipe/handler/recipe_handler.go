package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"food-app-backend/internal/domains/recipe/model"
	"food-app-backend/internal/domains/recipe/service"
	"food-app-backend/internal/shared/response"
	"food-app-backend/internal/shared/result"
	"food-app-backend/pkg/logger"
)

// ============================================================
// HANDLER STRUCT
// ============================================================
type RecipeHandler struct {
	service service.ServiceInterface
}

func NewRecipeHandler(svc service.ServiceInterface) *RecipeHandler {
	return &RecipeHandler{
		service: svc,
	}
}

// RegisterRoutes mounts the recipe endpoints on /recipes.
func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	{
		recipes.GET("", h.List)
		recipes.GET("/:id", h.GetByID)
		recipes.POST("", h.Create)
		recipes.PUT("/:id", h.Update)
		recipes.DELETE("/:id", h.Delete)
	}
}

// ========== LIST: GET /v1/recipes ==========
// Query: page_number, page_size, category_id, tag_id, recipe_price, recipe_name
func (h *RecipeHandler) List(c *gin.Context) {
	var req model.ListRecipesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	res, err := h.service.GetAll(c.Request.Context(), req.Params())
	if err != nil {
		h.fault(c, "list recipes", err)
		return
	}
	if !res.Succeeded {
		failure(c, res)
		return
	}

	page := res.Data
	response.SuccessWithMeta(c, res.HTTPStatus(), page.Items, &response.Meta{
		Page:       page.CurrentPage,
		Limit:      page.PageSize,
		Total:      page.TotalCount,
		TotalPages: page.TotalPages,
	})
}

// ========== READ: GET /v1/recipes/:id ==========
func (h *RecipeHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fault(c, "get recipe", err)
		return
	}
	if !res.Succeeded {
		failure(c, res)
		return
	}

	response.Success(c, res.HTTPStatus(), res.Data)
}

// ========== CREATE: POST /v1/recipes ==========
func (h *RecipeHandler) Create(c *gin.Context) {
	var req model.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fault(c, "create recipe", err)
		return
	}
	if !res.Succeeded {
		failure(c, res)
		return
	}

	response.Success(c, res.HTTPStatus(), gin.H{"id": res.Data})
}

// ========== UPDATE: PUT /v1/recipes/:id ==========
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.RecipeID = id
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	res, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		h.fault(c, "update recipe", err)
		return
	}
	if !res.Succeeded {
		failure(c, res)
		return
	}

	response.Success(c, res.HTTPStatus(), gin.H{"id": res.Data})
}

// ========== DELETE: DELETE /v1/recipes/:id ==========
// Soft delete, the recipe disappears from reads
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.fault(c, "delete recipe", err)
		return
	}
	if !res.Succeeded {
		failure(c, res)
		return
	}

	response.Success(c, res.HTTPStatus(), gin.H{"id": res.Data})
}

// ============================================================
// HELPERS
// ============================================================

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "invalid recipe id")
		return 0, false
	}
	return id, true
}

func failure[T any](c *gin.Context, res result.Result[T]) {
	response.ErrorResponse(c, res.HTTPStatus(), string(res.ErrorCode), res.Message())
}

func (h *RecipeHandler) fault(c *gin.Context, op string, err error) {
	logger.Error(op+" failed", err)
	response.InternalServerError(c, http.StatusText(http.StatusInternalServerError))
}
