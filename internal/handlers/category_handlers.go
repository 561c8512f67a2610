package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

// CreateCategoryInput defines the JSON input for creating a category.
type CreateCategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory is the handler for POST /categories.
func (h *Handlers) CreateCategory(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Derive Slug ---
	category := models.NewCategory(input.Name, h.now())
	if category.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name has no usable characters"})
		return
	}

	// 3. --- Save ---
	if err := h.Store.Categories.Create(c.Request.Context(), category); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category already exists", "slug": category.Slug})
			return
		}
		h.fail(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetCategories is the handler for GET /categories?limit=
func (h *Handlers) GetCategories(c *gin.Context) {
	categories, err := h.Store.Categories.List(c.Request.Context(), store.CategoryFilter{Limit: parseLimit(c)})
	if err != nil {
		h.fail(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}
