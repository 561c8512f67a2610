package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/middleware"
	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

// CreateOrderInput carries a booking request. orderDate is never accepted from the client.
type CreateOrderInput struct {
	BuyerEmail      string  `json:"buyerEmail" binding:"omitempty,email"`
	BuyerName       string  `json:"buyerName"`
	ProductID       string  `json:"productId" binding:"required"`
	ProductName     string  `json:"productName"`
	Price           float64 `json:"price" binding:"gte=0"`
	Phone           string  `json:"phone"`
	MeetingLocation string  `json:"meetingLocation"`
}

// CreateOrder is the handler for POST /orders.
func (h *Handlers) CreateOrder(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Resolve Buyer ---
	buyerEmail := input.BuyerEmail
	if buyerEmail == "" {
		if claims, ok := middleware.ClaimsFrom(c); ok {
			buyerEmail = claims.Email
		}
	}
	if buyerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buyerEmail is required"})
		return
	}

	// 3. --- Save ---
	order := &models.Order{
		BuyerEmail:      buyerEmail,
		BuyerName:       input.BuyerName,
		ProductID:       input.ProductID,
		ProductName:     input.ProductName,
		Price:           input.Price,
		Phone:           input.Phone,
		MeetingLocation: input.MeetingLocation,
		OrderDate:       h.now(),
	}
	ctx := c.Request.Context()
	if err := h.Store.Orders.Create(ctx, order); err != nil {
		h.fail(c, err, "Failed to create order")
		return
	}

	// 4. --- Announce ---
	// The order is already stored, so a broker failure is logged, not returned.
	if err := h.publisher().PublishOrderCreated(ctx, *order); err != nil {
		h.logger().WarnContext(ctx, "order event not published", h.requestAttrs(c, "order_id", order.ID, "err", err)...)
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders is the handler for GET /orders?email=&limit=
func (h *Handlers) GetOrders(c *gin.Context) {
	orders, err := h.Store.Orders.List(c.Request.Context(), store.OrderFilter{
		BuyerEmail: c.Query("email"),
		Limit:      parseLimit(c),
	})
	if err != nil {
		h.fail(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}
