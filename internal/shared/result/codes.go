package result

import "net/http"

// ============================================================
// SUCCESS CODES
// ============================================================

// SuccessCode identifies what a successful operation did.
type SuccessCode string

const (
	RecipesRetrieved SuccessCode = "RECIPES_RETRIEVED"
	RecipeCreated    SuccessCode = "RECIPE_CREATED"
	RecipeUpdated    SuccessCode = "RECIPE_UPDATED"
	RecipeDeleted    SuccessCode = "RECIPE_DELETED"
)

// HTTPStatus returns the status a handler should answer with.
func (c SuccessCode) HTTPStatus() int {
	if c == RecipeCreated {
		return http.StatusCreated
	}
	return http.StatusOK
}

// Message returns the default human-readable text for the code.
func (c SuccessCode) Message() string {
	switch c {
	case RecipesRetrieved:
		return "Recipes retrieved successfully"
	case RecipeCreated:
		return "Recipe created successfully"
	case RecipeUpdated:
		return "Recipe updated successfully"
	case RecipeDeleted:
		return "Recipe deleted successfully"
	default:
		return "Success"
	}
}

// ============================================================
// ERROR CODES
// ============================================================

// ErrorCode identifies why an operation failed.
type ErrorCode string

const (
	RecipeNotFound     ErrorCode = "RECIPE_NOT_FOUND"
	RecipeAlreadyExist ErrorCode = "RECIPE_ALREADY_EXIST"
	DataBaseError      ErrorCode = "DATABASE_ERROR"
)

// HTTPStatus maps the failure to an HTTP status code.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case RecipeNotFound:
		return http.StatusNotFound
	case RecipeAlreadyExist:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the default human-readable text for the code.
func (c ErrorCode) Message() string {
	switch c {
	case RecipeNotFound:
		return "Recipe not found"
	case RecipeAlreadyExist:
		return "Recipe with this name already exists"
	case DataBaseError:
		return "Failed to persist recipe changes"
	default:
		return "Unknown error"
	}
}
