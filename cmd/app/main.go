package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"userprofile-backend/internal/common/config"
	"userprofile-backend/internal/common/logger"
	"userprofile-backend/internal/common/middleware"
	"userprofile-backend/internal/crypto"
	profilecache "userprofile-backend/internal/features/profile/cache"
	profilehttp "userprofile-backend/internal/features/profile/delivery/http"
	firestorerepo "userprofile-backend/internal/features/profile/repository/firestore"
	"userprofile-backend/internal/features/profile/service"
	"userprofile-backend/internal/platform/firestore"
	"userprofile-backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()

	logger.Init("userprofile-backend", cfg.Debug)

	ctx := context.Background()

	firestoreClient, err := firestore.Open(ctx, cfg.Firestore.ProjectID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Firestore")
		os.Exit(1)
	}
	defer firestoreClient.Close()
	logger.Info().Msg("Firestore connection established")

	profileCache, redisClient, err := buildCache(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize cache")
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// The field encryption key lives for the process lifetime only;
	// documents written by a previous process stay opaque.
	encryptor, err := crypto.New()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize encryption service")
		os.Exit(1)
	}

	profileRepo := firestorerepo.NewRepository(firestoreClient)
	profileSvc := service.NewProfileService(profileRepo, profileCache, encryptor)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	profilehttp.NewProfileHandler(profileSvc).RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// buildCache selects the cache backend. The Redis client is returned so
// the caller can close it on shutdown; it is nil for the memory backend.
func buildCache(ctx context.Context, cfg *config.Config) (profilecache.ProfileCache, *redis.Client, error) {
	switch cfg.Cache.Backend {
	case "redis":
		client, err := redis.Open(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("Redis cache initialized")
		return profilecache.NewRedis(client, cfg.Cache.TTL), client, nil
	case "memory":
		return profilecache.NewMemory(cfg.Cache.Size, cfg.Cache.TTL), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
