package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/events"
	"github.com/01moynul/reboot-golang/internal/middleware"
	"github.com/01moynul/reboot-golang/internal/store"
)

// TokenIssuer is implemented by auth.TokenService.
type TokenIssuer interface {
	IssueToken(ctx context.Context, email string) (string, error)
}

// Handlers struct holds all dependencies for our handlers.
// It is built once at startup and shared by every request.
type Handlers struct {
	Store  *store.Store
	Tokens TokenIssuer
	Events events.Publisher
	Logger *slog.Logger

	// Port is only echoed by the liveness route.
	Port string
	// UploadDir holds product images; BaseURL prefixes the URLs handed back.
	UploadDir string
	BaseURL   string
	// Now stamps postingDate and orderDate. Defaults to time.Now.
	Now func() time.Time
}

// now returns the server timestamp, in UTC with millisecond precision so it
// survives a round trip through every backend unchanged.
func (h *Handlers) now() time.Time {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return now().UTC().Truncate(time.Millisecond)
}

func (h *Handlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *Handlers) publisher() events.Publisher {
	if h.Events != nil {
		return h.Events
	}
	return events.Nop{}
}

// fail maps repository errors onto HTTP responses. Unknown errors become a
// 500 carrying msg; the cause is logged, never returned to the client.
func (h *Handlers) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, context.Canceled):
		// The client went away; nobody is left to read a response.
		c.Abort()
	default:
		_ = c.Error(err)
		h.logger().ErrorContext(c.Request.Context(), msg, h.requestAttrs(c, "err", err)...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// requestAttrs appends the route, request id and caller to attrs.
func (h *Handlers) requestAttrs(c *gin.Context, attrs ...any) []any {
	attrs = append(attrs, "path", c.FullPath(), "req_id", middleware.RequestID(c))
	if claims, ok := middleware.ClaimsFromContext(c.Request.Context()); ok {
		attrs = append(attrs, "user", claims.Email)
	}
	return attrs
}

// Home is the liveness route.
func (h *Handlers) Home(c *gin.Context) {
	c.String(http.StatusOK, "Reboot Server is running at port %s", h.Port)
}
