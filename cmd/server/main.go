package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/secunit/backend/internal/config"
	"github.com/secunit/backend/internal/database"
	"github.com/secunit/backend/internal/handler"
	"github.com/secunit/backend/internal/logging"
	"github.com/secunit/backend/internal/repository"
	"github.com/secunit/backend/internal/service"
	"github.com/secunit/backend/pkg/resend"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	db, closeDB, err := database.Open(context.Background(), cfg.Database)
	if err != nil {
		logging.Fatal("failed to open database", "driver", cfg.Database.Driver, "error", err)
	}
	defer closeDB()

	dbConfigured := database.IsConfigured(db)
	if !dbConfigured {
		slog.Warn("database credentials missing; submissions will fail", "driver", cfg.Database.Driver)
	}

	// Without a Resend key contacts are stored but no notification is sent.
	mailer := resend.NewClient(cfg.Email.ResendAPIKey, cfg.Email.ResendBaseURL)
	if !mailer.Configured() {
		slog.Warn("RESEND_API_KEY not set; contact notifications are disabled")
	}

	contactRepo := repository.NewContactRepository(db)
	contactService := service.NewContactService(contactRepo, mailer, service.NotificationConfig{
		From: cfg.Email.From,
		To:   cfg.Email.ContactEmail,
	})
	healthService := service.NewHealthService(contactRepo, dbConfigured, cfg.HealthPolicy)

	var limiter *handler.RateLimiter
	if cfg.ContactRateLimit > 0 {
		limiter = handler.NewRateLimiter(cfg.ContactRateLimit)
		defer limiter.Stop()
	}

	router := handler.NewRouter(handler.RouterConfig{
		Base: handler.New(cfg.SiteURL),
		Contact: handler.NewContactHandler(contactService, handler.ContactConfig{
			MaxBodyBytes: cfg.MaxBodyBytes,
			ExposeErrors: cfg.ExposeErrors,
		}),
		Health:         handler.NewHealthHandler(healthService),
		ContactLimiter: limiter,
		AdminToken:     cfg.AdminToken,
		ExposeErrors:   cfg.ExposeErrors,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "driver", cfg.Database.Driver, "admin", cfg.AdminToken != "")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
