package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/01moynul/reboot-golang/internal/auth"
	"github.com/01moynul/reboot-golang/internal/config"
	"github.com/01moynul/reboot-golang/internal/handlers"
	"github.com/01moynul/reboot-golang/internal/middleware"
	"github.com/01moynul/reboot-golang/internal/routes"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Connects to the configured database and serves the REST API until SIGINT or SIGTERM",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 0. --- Config & Logging ---
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gin.SetMode(gin.ReleaseMode)

	// 1. --- Database Connection ---
	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Error("closing store", "err", err)
		}
	}()

	// 2. --- Token Service & Guard Policy ---
	tokens, err := auth.NewTokenService(cfg.TokenSecret, st.Users)
	if err != nil {
		return err
	}
	policy, err := config.LoadPolicy(cfg.GuardPolicyFile)
	if err != nil {
		return err
	}

	// 3. --- Events ---
	publisher := newPublisher(cfg)
	defer publisher.Close()

	// --- Application Setup ---
	app := &handlers.Handlers{
		Store:  st,
		Tokens: tokens,
		Events: publisher,
		Logger: logger,
		Port:   cfg.Port,

		UploadDir: cfg.UploadDir,
		BaseURL:   cfg.BaseURL,
	}
	router := routes.SetupRouter(app, routes.Options{
		Guard:      middleware.AuthMiddleware(tokens),
		Policy:     policy,
		Logger:     logger,
		CORSOrigin: cfg.CORSOrigin,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting Reboot API server", "addr", srv.Addr, "store", describe(cfg), "guarded", len(policy.Routes()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
