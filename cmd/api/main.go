package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/matcha/matcha-api/internal/config"
	"github.com/matcha/matcha-api/internal/domain/auth"
	"github.com/matcha/matcha-api/internal/domain/location"
	"github.com/matcha/matcha-api/internal/domain/matching"
	"github.com/matcha/matcha-api/internal/domain/moderation"
	"github.com/matcha/matcha-api/internal/domain/notification"
	"github.com/matcha/matcha-api/internal/domain/photo"
	"github.com/matcha/matcha-api/internal/domain/profile"
	"github.com/matcha/matcha-api/internal/domain/relationships"
	"github.com/matcha/matcha-api/internal/domain/user"
	"github.com/matcha/matcha-api/internal/domain/wizard"
	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/database"
	"github.com/matcha/matcha-api/internal/pkg/geoip"
	"github.com/matcha/matcha-api/internal/pkg/imaging"
	"github.com/matcha/matcha-api/internal/pkg/jwt"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, LogFile: cfg.LogFile}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Matcha API")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	redisClient := connectRedis(cfg)
	defer database.CloseRedis(redisClient)

	store, err := storage.New(ctx, storage.Config{
		Driver:      cfg.StorageDriver,
		LocalPath:   cfg.StorageLocalPath,
		BaseURL:     cfg.StorageBaseURL,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3Bucket:    cfg.S3Bucket,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create photo storage")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- Realtime ----------
	hub := notification.NewHub(redisClient)
	go hub.Run()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	photoRepo := photo.NewRepository(db)
	relationshipsRepo := relationships.NewRepository(db)
	moderationRepo := moderation.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	// ---------- Services ----------
	notificationService := notification.NewService(notificationRepo, notification.NewWSPublisher(hub))

	// Profile views record visits through relationships, which needs the photo
	// service, which refreshes profiles. The recorder is bound once all exist.
	visits := &visitRecorder{}
	profileService := profile.NewService(profileRepo, visits, relationshipsRepo)
	photoService := photo.NewService(photoRepo, store, imaging.NewSanitizer(imaging.DefaultConfig()), profileService)
	relationshipsService := relationships.NewService(relationshipsRepo, userRepo, photoService, profileRepo, notificationService)
	visits.service = relationshipsService

	authService := auth.NewService(userRepo, profileRepo, jwtService, tokenStore(redisClient))
	moderationService := moderation.NewService(moderationRepo, userRepo)
	matchingService := matching.NewService(profileRepo)

	var geoCache location.Cache
	if redisClient != nil {
		geoCache = location.NewRedisCache(redisClient)
	}
	locationService := location.NewService(
		geoip.NewClient(cfg.GeoIPBaseURL, cfg.GeoIPTimeout, cfg.GeoIPUserAgent),
		geoCache,
		profileService,
		location.Default{City: cfg.DefaultCity, Latitude: cfg.DefaultLatitude, Longitude: cfg.DefaultLongitude},
		cfg.GeoIPTimeout,
	)

	wizardService := wizard.NewService(wizardStore(redisClient, cfg.WizardSessionTTL), profileService, authService, photoService)

	cleanup := notification.NewCleanupJob(notificationRepo, cfg.NotificationRetentionDays)
	go cleanup.Start(ctx, cfg.NotificationCleanupEvery)

	// ---------- Router ----------
	authMiddleware := middleware.Auth(jwtService)
	router := newRouter(routerConfig{
		allowedOrigins:  cfg.AllowedOrigins,
		requestTimeout:  cfg.RequestTimeout,
		uploadsDir:      localUploadsDir(cfg),
		auth:            authMiddleware,
		completeProfile: middleware.RequireCompleteProfile(profileService),
	}, handlers{
		auth:          auth.NewHandler(authService),
		profile:       profile.NewHandler(profileService, hub),
		photo:         photo.NewHandler(photoService),
		relationships: relationships.NewHandler(relationshipsService),
		moderation:    moderation.NewHandler(moderationService),
		matching:      matching.NewHandler(matchingService),
		location:      location.NewHandler(locationService),
		wizard:        wizard.NewHandler(wizardService),
		notification:  notification.NewHandler(notificationService),
		ws:            notification.NewWSHandler(hub, cfg.AllowedOrigins),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// connectRedis returns nil when Redis is unavailable and not required.
func connectRedis(cfg *config.Config) *redis.Client {
	client, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		if cfg.RedisRequired {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory state")
		return nil
	}
	return client
}

func tokenStore(client *redis.Client) auth.TokenStore {
	if client == nil {
		return auth.NewMemoryTokenStore()
	}
	return auth.NewRedisTokenStore(client)
}

func wizardStore(client *redis.Client, ttl time.Duration) wizard.Store {
	if client == nil {
		return wizard.NewMemoryStore()
	}
	return wizard.NewRedisStore(client, ttl)
}

// localUploadsDir is served at /uploads when photos are stored on disk.
func localUploadsDir(cfg *config.Config) string {
	if cfg.UsesS3() {
		return ""
	}
	return cfg.StorageLocalPath
}

type visitRecorder struct {
	service *relationships.Service
}

func (v *visitRecorder) RecordVisit(ctx context.Context, visitorID, visitedID uuid.UUID) error {
	return v.service.RecordVisit(ctx, visitorID, visitedID)
}
