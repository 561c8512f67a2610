package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

// --- User Registration ---

// CreateUserInput is what a client may send on signup. Id and createdAt are
// never accepted from the client.
type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Role     string `json:"role" binding:"omitempty,oneof=buyer seller admin"`
	PhotoURL string `json:"photoURL" binding:"omitempty,url"`
}

// CreateUser is the handler for POST /users.
// Signing up twice with one email answers 409 and stores nothing new.
func (h *Handlers) CreateUser(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. --- Create User Model ---
	user := &models.User{
		Email:     input.Email,
		Name:      input.Name,
		Role:      input.Role,
		PhotoURL:  input.PhotoURL,
		CreatedAt: h.now(),
	}
	if user.Role == "" {
		user.Role = models.RoleBuyer
	}

	// 3. --- Save (dedup by email) ---
	if err := h.Store.Users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists", "email": user.Email})
			return
		}
		h.fail(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUsers is the handler for GET /users?role=&limit=
func (h *Handlers) GetUsers(c *gin.Context) {
	users, err := h.Store.Users.List(c.Request.Context(), store.UserFilter{
		Role:  c.Query("role"),
		Limit: parseLimit(c),
	})
	if err != nil {
		h.fail(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// DeleteUser is the handler for DELETE /users/:id
// Deleting an unknown id is not an error; deletedCount is simply 0.
func (h *Handlers) DeleteUser(c *gin.Context) {
	n, err := h.Store.Users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": n})
}

// GetUserRole is the handler for GET /users/role/:email
func (h *Handlers) GetUserRole(c *gin.Context) {
	user, err := h.Store.Users.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.fail(c, err, "Failed to look up user role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": user.Email, "role": user.Role})
}
