package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/config"
	"github.com/01moynul/reboot-golang/internal/handlers"
	"github.com/01moynul/reboot-golang/internal/middleware"
)

// Options configures the engine around the handlers.
type Options struct {
	// Guard runs before every route the Policy protects.
	Guard gin.HandlerFunc
	// Policy decides which routes are guarded. Nil means config.DefaultPolicy.
	Policy *config.Policy

	Logger     *slog.Logger
	CORSOrigin string
}

type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	if opts.Policy == nil {
		opts.Policy = config.DefaultPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	router := gin.New()

	// --- Global Middleware ---
	// CORS stays first after recovery so preflights never reach the guard.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(middleware.CORSMiddleware(opts.CORSOrigin))

	table := []route{
		// --- Liveness & Token ---
		{http.MethodGet, "/", h.Home},
		{http.MethodGet, "/jwt", h.IssueJWT},

		// --- User Routes ---
		{http.MethodPost, "/users", h.CreateUser},
		{http.MethodGet, "/users", h.GetUsers},
		{http.MethodDelete, "/users/:id", h.DeleteUser},
		{http.MethodGet, "/users/role/:email", h.GetUserRole},

		// --- Category Routes ---
		{http.MethodPost, "/categories", h.CreateCategory},
		{http.MethodGet, "/categories", h.GetCategories},

		// --- Product Routes ---
		{http.MethodPost, "/products", h.CreateProduct},
		{http.MethodGet, "/products", h.GetProducts},
		{http.MethodDelete, "/products/:id", h.DeleteProduct},
		{http.MethodPut, "/products/makesponsored/:id", h.MakeSponsored},
		{http.MethodGet, "/products/:categorySlug", h.GetProductsByCategory},
		{http.MethodGet, "/product/:id", h.GetProduct},

		// --- Order Routes ---
		{http.MethodPost, "/orders", h.CreateOrder},
		{http.MethodGet, "/orders", h.GetOrders},
	}

	// --- Product Images ---
	if h.UploadDir != "" {
		table = append(table, route{http.MethodPost, "/uploads", h.UploadImage})
		router.Static("/uploads", h.UploadDir)
	}

	for _, r := range table {
		chain := []gin.HandlerFunc{r.handler}
		if opts.Guard != nil && opts.Policy.Protects(r.method, r.path) {
			chain = append([]gin.HandlerFunc{opts.Guard}, chain...)
		}
		router.Handle(r.method, r.path, chain...)
	}

	opts.Logger.Debug("routes registered", "count", len(table), "guarded", opts.Policy.Routes())
	return router
}
