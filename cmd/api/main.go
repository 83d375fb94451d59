package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/fellowship/docs"
	"github.com/fkhayef/fellowship/internal/account"
	"github.com/fkhayef/fellowship/internal/auth"
	"github.com/fkhayef/fellowship/internal/calendar"
	"github.com/fkhayef/fellowship/internal/config"
	"github.com/fkhayef/fellowship/internal/database"
	"github.com/fkhayef/fellowship/internal/friendship"
	"github.com/fkhayef/fellowship/internal/logging"
	"github.com/fkhayef/fellowship/internal/mailinglist"
	"github.com/fkhayef/fellowship/internal/message"
	"github.com/fkhayef/fellowship/internal/notification"
	"github.com/fkhayef/fellowship/internal/profile"
	"github.com/fkhayef/fellowship/internal/scheduler"
	mw "github.com/fkhayef/fellowship/pkg/middleware"
)

// @title                      Fellowship API
// @version                    1.0
// @description                Church community directory, friendships, messages, calendar and mailing lists.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// Load .env file
	envErr := godotenv.Load()

	// Load configuration
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()
	if envErr != nil {
		logger.Info(ctx, "no .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		logger.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info(ctx, "connected to database")

	if cfg.MigrationsEnabled {
		if err := database.RunMigrations(db); err != nil {
			logger.Error(ctx, "failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info(ctx, "migrations applied")
	}

	redisClient, err := auth.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Error(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	secret := []byte(cfg.JWTSecret)
	authn := mw.Authenticate(secret)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo, logger)
	notificationHandler := notification.NewHandler(notificationService)

	// Account feature
	accountRepo := account.NewRepository(db)
	accountService := account.NewService(accountRepo, auth.NewSessionStore(redisClient), account.TokenConfig{
		Secret:     secret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}, logger)
	accountHandler := account.NewHandler(accountService)

	// Friendship feature
	profileRepo := profile.NewRepository(db)
	friendshipRepo := friendship.NewRepository(db)
	friendshipService := friendship.NewService(friendshipRepo, profileRepo, notificationService, logger)
	friendshipHandler := friendship.NewHandler(friendshipService)

	// Profile feature
	profileService := profile.NewService(profileRepo, friendshipRepo, logger)
	profileHandler := profile.NewHandler(profileService)

	// Message feature
	messageService := message.NewService(message.NewRepository(db), friendshipRepo, logger)
	messageHandler := message.NewHandler(messageService)

	// Calendar feature
	calendarService := calendar.NewService(calendar.NewRepository(db), friendshipRepo, logger)
	calendarHandler := calendar.NewHandler(calendarService)

	// Mailing list feature (broadcasts go through the message feed)
	mailingListService := mailinglist.NewService(mailinglist.NewRepository(db), friendshipRepo, messageService, notificationService, logger)
	mailingListHandler := mailinglist.NewHandler(mailingListService)

	jobs := scheduler.New(friendshipService, cfg.DeclinedRetention, logger)
	if err := jobs.Start(cfg.CleanupSchedule); err != nil {
		logger.Error(ctx, "failed to start scheduler", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.IsDevelopment() {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", accountHandler.AuthRoutes(authn))

		r.Group(func(r chi.Router) {
			r.Use(authn)

			// Mount feature routers
			r.Mount("/accounts", accountHandler.Routes())
			r.Mount("/profiles", profileHandler.Routes())
			r.Mount("/friends", friendshipHandler.Routes())
			r.Mount("/messages", messageHandler.Routes())
			r.Mount("/events", calendarHandler.Routes())
			r.Mount("/mailing-lists", mailingListHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down server")

	jobs.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server forced to shutdown", "error", err)
	}

	logger.Info(ctx, "server exited")
}
