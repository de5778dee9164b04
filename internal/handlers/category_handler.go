package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories handles listing categories
// @Summary     List categories
// @Description List the shared categories, optionally only those of one type
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       type query string false "income or expense"
// @Success     200 {array}  models.Category "Categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Data service error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var (
		categories []models.Category
		err        error
	)

	categoryType := c.Query("type")
	switch models.CategoryType(categoryType) {
	case "":
		categories, err = h.categoryService.ListCategories(c.Request.Context())
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		categories, err = h.categoryService.ListCategoriesByType(c.Request.Context(), models.CategoryType(categoryType))
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense"))
		return
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}
