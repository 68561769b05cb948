package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnTengye/casebrief/config"
	"github.com/AnTengye/casebrief/handler"
	"github.com/AnTengye/casebrief/middleware"
	"github.com/AnTengye/casebrief/service"
	"github.com/AnTengye/casebrief/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the case brief dashboard",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port, overrides server.port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	store, err := loadStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	router, err := newRouter(cfg, store)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "cases", store.Count(), "auth", cfg.Auth.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited gracefully")
	return nil
}

// newRouter wires middleware and routes around store.
func newRouter(cfg *config.Config, store *service.CaseStore) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	renderer := service.NewRenderer()
	authHandler := handler.NewAuthHandler(cfg)
	caseHandler := handler.NewCaseHandler(store, renderer)
	pageHandler := handler.NewPageHandler(store, renderer)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery("error.html"))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.CacheControl())
	router.Use(middleware.RateLimit(cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second))

	router.StaticFS("/static", web.Static())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"cases":     store.Count(),
			"source":    store.Source(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	pages := router.Group("/")
	api := router.Group("/api")
	if cfg.Auth.Enabled {
		router.GET("/login", authHandler.LoginPage)
		router.POST("/login", authHandler.LoginForm)
		router.POST("/logout", authHandler.Logout)
		router.POST("/api/auth/login", authHandler.Login)

		pages.Use(middleware.PageAuth(&cfg.Auth, "/login"))
		api.Use(middleware.AuthMiddleware(&cfg.Auth))
		api.GET("/auth/me", authHandler.GetCurrentViewer)
	}

	pages.GET("/", pageHandler.Dashboard)
	pages.GET("/cases/:index", pageHandler.Dashboard)

	api.GET("/cases", caseHandler.List)
	api.GET("/cases/:index", caseHandler.Get)
	api.GET("/cases/:index/markdown", caseHandler.Markdown)

	return router, nil
}
