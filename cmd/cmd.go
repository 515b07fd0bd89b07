package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photogram-backend/internal/config"
	"photogram-backend/internal/handlers"
	"photogram-backend/internal/media"
	"photogram-backend/internal/middleware"
	"photogram-backend/internal/repository"
	"photogram-backend/internal/services"
	"photogram-backend/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	path := os.Getenv("PHOTOGRAM_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up tracing")
	}

	// Connect to database
	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	store, err := newMediaStore(ctx, cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Media.Driver).Msg("Failed to create media store")
	}
	log.Info().Str("driver", cfg.Media.Driver).Msg("Media store ready")

	var rdb *redis.Client
	if cfg.RateLimit.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis unreachable, login attempts will not be limited until it recovers")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, store, cfg.JWT.Secret, cfg.JWT.TTL)
	postService := services.NewPostService(postRepo, store)
	socialService := services.NewSocialService(followRepo, likeRepo, userRepo, postRepo)
	csrfService := services.NewCSRFService(cfg.JWT.Secret, cfg.CSRF.TTL)

	router := handlers.NewRouter(handlers.Deps{
		Users:          userService,
		Posts:          postService,
		Social:         socialService,
		CSRF:           csrfService,
		DB:             db,
		EnforceCSRF:    cfg.CSRF.Enforce,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		TrustProxy:     cfg.Server.TrustedProxy,
		LoginLimiter:   middleware.NewLimiter(rdb),
		LoginAttempts:  cfg.RateLimit.LoginAttempts,
		LoginWindow:    cfg.RateLimit.Window,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      telemetry.Handler(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Server exited")
}

func newMediaStore(ctx context.Context, cfg config.MediaConfig) (media.Store, error) {
	switch cfg.Driver {
	case "s3":
		s3Store, err := media.NewS3Store(ctx, media.S3Options{
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	default:
		fsStore, err := media.NewFSStore(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return fsStore, nil
	}
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
