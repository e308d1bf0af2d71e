package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnTengye/mediconnect/config"
	"github.com/AnTengye/mediconnect/form"
	"github.com/AnTengye/mediconnect/handler"
	"github.com/AnTengye/mediconnect/middleware"
	"github.com/AnTengye/mediconnect/pkg/logger"
	"github.com/AnTengye/mediconnect/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// app holds the long-lived services behind the HTTP API
type app struct {
	cfg          *config.Config
	catalog      *service.ProviderCatalog
	forms        *service.FormStore
	appointments *service.AppointmentBook
	upstream     *service.UpstreamClient
	locale       language.Tag
}

func newApp(cfg *config.Config) (*app, error) {
	locale, err := language.Parse(cfg.Discovery.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid discovery locale %q: %w", cfg.Discovery.Locale, err)
	}

	upstream := service.NewUpstreamClient(&cfg.Upstream)
	forms := service.NewFormStore(cfg.Forms.MaxSessions, upstream,
		form.WithSuccessDisplay(cfg.Forms.SuccessDisplay),
		form.WithNormalizer(upstream.Sanitize),
	)
	return &app{
		cfg:          cfg,
		catalog:      service.NewProviderCatalog(),
		forms:        forms,
		appointments: service.NewAppointmentBook(service.DemoAppointments()),
		upstream:     upstream,
		locale:       locale,
	}, nil
}

func (a *app) router() *gin.Engine {
	doctorHandler := handler.NewDoctorHandler(a.catalog, a.cfg.Discovery.PageSize, a.locale)
	formHandler := handler.NewFormHandler(a.forms, a.upstream)
	appointmentHandler := handler.NewAppointmentHandler(a.appointments)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.Role())
	router.Use(middleware.RateLimit(a.cfg.RateLimit))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"catalog":   a.catalog.Loaded(),
			"providers": a.catalog.Count(),
			"forms":     a.forms.Count(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/doctors", doctorHandler.Search)
		api.GET("/doctors/filters", doctorHandler.Filters)
		api.GET("/doctors/:id", doctorHandler.Get)

		api.POST("/forms", formHandler.Create)
		api.GET("/forms/:id", formHandler.Get)
		api.PUT("/forms/:id", formHandler.Load)
		api.DELETE("/forms/:id", formHandler.Delete)
		api.PUT("/forms/:id/fields/:name", formHandler.SetField)
		api.POST("/forms/:id/submit", formHandler.Submit)
		api.POST("/activation/resend", formHandler.ResendActivation)

		api.GET("/appointments", appointmentHandler.List)
		api.GET("/appointments/:id", appointmentHandler.Get)
	}
	return router
}

// loadCatalog fills the catalog from the configured source and, when a
// refresh interval is set, keeps reloading it until ctx is done. A failed
// first load leaves the catalog in its loading state.
func (a *app) loadCatalog(ctx context.Context) error {
	src, err := service.NewCatalogSource(a.cfg, a.upstream)
	if err != nil {
		return err
	}

	go func() {
		if err := a.catalog.Refresh(ctx, src); err != nil {
			logger.Error(ctx, "initial catalog load failed", "error", err)
		}
		if a.cfg.Catalog.Refresh > 0 {
			a.catalog.Watch(ctx, src, a.cfg.Catalog.Refresh)
		}
	}()
	return nil
}

func runServer(cfg *config.Config) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.forms.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.loadCatalog(ctx); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "catalog_source", cfg.Catalog.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited gracefully")
	return nil
}
