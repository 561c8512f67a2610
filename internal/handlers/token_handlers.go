package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/auth"
)

// IssueJWT is the handler for GET /jwt?email=
// Only emails that belong to a registered user get a token.
func (h *Handlers) IssueJWT(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	token, err := h.Tokens.IssueToken(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownUser) {
			c.JSON(http.StatusForbidden, gin.H{"accessToken": ""})
			return
		}
		h.fail(c, err, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}
