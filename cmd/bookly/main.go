package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/nats-io/nats.go"

	"github.com/bookly-project/bookly/internal/blocklist"
	"github.com/bookly-project/bookly/internal/config"
	"github.com/bookly-project/bookly/internal/handlers"
	"github.com/bookly-project/bookly/internal/logging"
	"github.com/bookly-project/bookly/internal/mail"
	"github.com/bookly-project/bookly/internal/middleware"
	"github.com/bookly-project/bookly/internal/repository"
	"github.com/bookly-project/bookly/internal/server"
	"github.com/bookly-project/bookly/internal/service"
	"github.com/bookly-project/bookly/pkg/tokens"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	slog.Info("Starting Bookly",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
	)

	ctx := context.Background()

	// Repository: Postgres when configured, in-memory otherwise.
	var repo repository.Repository
	if cfg.Database.URL != "" {
		slog.Info("Running database migrations")
		m, err := migrate.New("file://"+cfg.Database.MigrationsPath, cfg.Database.URL)
		if err != nil {
			slog.Error("Failed to initialize migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			slog.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pg, err := repository.NewPostgresRepository(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pg.Close()
		repo = pg
		slog.Info("Connected to PostgreSQL")
	} else {
		slog.Warn("No database configured, using in-memory repository")
		repo = repository.NewInMemoryRepository()
	}

	codec := tokens.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	links := tokens.NewURLSafeSigner(cfg.Auth.JWTSecret, cfg.Auth.LinkTokenMaxAge)

	bl, err := blocklist.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, codec.AccessTTL())
	if err != nil {
		slog.Error("Failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer bl.Close()
	slog.Info("Connected to Redis", slog.String("addr", cfg.Redis.Addr))

	smtp := mail.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)

	// With NATS enabled, requests only enqueue mail; the in-process worker
	// delivers it. Otherwise mail goes out synchronously over SMTP.
	var mailer mail.Mailer = smtp
	if cfg.NATS.Enabled {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("bookly"))
		if err != nil {
			slog.Error("Failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer nc.Close()

		worker := mail.NewWorker(nc, cfg.NATS.Subject, smtp)
		if err := worker.Start(); err != nil {
			slog.Error("Failed to start mail worker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer worker.Stop()

		mailer = mail.NewDispatcher(nc, cfg.NATS.Subject)
		slog.Info("Mail dispatch via NATS", slog.String("subject", cfg.NATS.Subject))
	}

	authService := service.NewAuthService(repo, codec, links, bl, mailer, cfg.Server.Domain)
	bookService := service.NewBookService(repo)
	reviewService := service.NewReviewService(repo)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	router := server.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewBookHandler(bookService),
		handlers.NewReviewHandler(reviewService),
		authMiddleware,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Bookly listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
