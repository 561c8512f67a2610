package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/auth"
)

// ClaimsKey is the gin context key under which the verified claims are stored.
const ClaimsKey = "claims"

type claimsCtxKey struct{}

// TokenVerifier is implemented by auth.TokenService.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware creates a gin.HandlerFunc that acts as our "security guard".
// A missing Authorization header is 401; a malformed, forged or expired
// token is 403. Either way the chain is aborted before the handler runs.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
			return
		}

		// 2. --- Extract Bearer Token ---
		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
			return
		}

		// 3. --- Verify Token ---
		claims, err := tokens.VerifyToken(strings.TrimSpace(tokenString))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden access"})
			return
		}

		// 4. --- Success ---
		c.Set(ClaimsKey, claims)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), claimsCtxKey{}, claims))
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by AuthMiddleware, if any.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// ClaimsFromContext is ClaimsFrom for code that only has the request context.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(*auth.Claims)
	return claims, ok
}
