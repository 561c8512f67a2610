package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/middleware"
	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

// --- Inputs ---

type SellerInput struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

// CreateProductInput carries the client-editable product fields. postingDate
// and sponsored are not accepted; the server sets them.
type CreateProductInput struct {
	Name          string      `json:"name" binding:"required"`
	Image         string      `json:"image"`
	Location      string      `json:"location"`
	Condition     string      `json:"condition"`
	Description   string      `json:"description"`
	Phone         string      `json:"phone"`
	YearsOfUse    float64     `json:"yearsOfUse" binding:"gte=0"`
	OriginalPrice float64     `json:"originalPrice" binding:"gte=0"`
	ResalePrice   float64     `json:"resalePrice" binding:"gte=0"`
	Seller        SellerInput `json:"seller"`
	Category      string      `json:"category" binding:"required"`
	Status        string      `json:"status" binding:"omitempty,oneof=available booked sold"`
}

// CreateProduct is the handler for POST /products.
func (h *Handlers) CreateProduct(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Resolve Seller ---
	// A guarded route knows who is calling; use that when the body omits it.
	seller := models.Seller{Name: input.Seller.Name, Email: input.Seller.Email}
	if seller.Email == "" {
		if claims, ok := middleware.ClaimsFrom(c); ok {
			seller.Email = claims.Email
		}
	}
	if seller.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seller.email is required"})
		return
	}

	// 3. --- Prepare Product ---
	product := &models.Product{
		Name:          input.Name,
		Image:         input.Image,
		Location:      input.Location,
		Condition:     input.Condition,
		Description:   input.Description,
		Phone:         input.Phone,
		YearsOfUse:    input.YearsOfUse,
		OriginalPrice: input.OriginalPrice,
		ResalePrice:   input.ResalePrice,
		Seller:        seller,
		Category:      input.Category,
		Status:        input.Status,
		Sponsored:     false,
		PostingDate:   h.now(),
	}
	if product.Status == "" {
		product.Status = models.StatusAvailable
	}

	// 4. --- Save ---
	if err := h.Store.Products.Create(c.Request.Context(), product); err != nil {
		h.fail(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts is the handler for GET /products?email=&status=&sponsored=&limit=
// All supplied filters apply together.
func (h *Handlers) GetProducts(c *gin.Context) {
	filter, err := productFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	products, err := h.Store.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductsByCategory is the handler for GET /products/:categorySlug
// The slug must match exactly; other product filters from the query apply too.
func (h *Handlers) GetProductsByCategory(c *gin.Context) {
	filter, err := productFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.Category = c.Param("categorySlug")

	products, err := h.Store.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct is the handler for GET /product/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.Store.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.fail(c, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct is the handler for DELETE /products/:id
// The response shape is the same whether or not the product existed.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	n, err := h.Store.Products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": n})
}

// MakeSponsored is the handler for PUT /products/makesponsored/:id
// Unknown ids are 404; no partial product is created.
func (h *Handlers) MakeSponsored(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.Products.MarkSponsored(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.fail(c, err, "Failed to sponsor product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product is now sponsored", "productId": id, "sponsored": true})
}
