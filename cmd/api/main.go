package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arogyavritti/backend/internal/adapters/cache"
	"github.com/arogyavritti/backend/internal/adapters/database"
	"github.com/arogyavritti/backend/internal/adapters/events"
	"github.com/arogyavritti/backend/internal/adapters/providers/geolocation"
	"github.com/arogyavritti/backend/internal/adapters/storage"
	"github.com/arogyavritti/backend/internal/api/handlers"
	"github.com/arogyavritti/backend/internal/api/middleware"
	"github.com/arogyavritti/backend/internal/api/routes"
	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/infrastructure/clients/minio"
	"github.com/arogyavritti/backend/internal/infrastructure/clients/mongo"
	"github.com/arogyavritti/backend/internal/infrastructure/clients/openai"
	"github.com/arogyavritti/backend/internal/infrastructure/clients/postgres"
	"github.com/arogyavritti/backend/internal/infrastructure/clients/redis"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	"github.com/arogyavritti/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)
	log.Info().
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Environment).
		Msg("Starting API server")

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Redis backs provider response caching, HTTP caching and chat history.
	// The API keeps serving without it.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; caching, chat history and appointment events disabled")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		bus := events.NewRedisEventBus(redisClient)
		defer bus.Close()
		eventBus = bus
		log.Info().Msg("Redis client initialized successfully")
	}

	// Hospital search provider
	var geolocationProvider providers.GeolocationProvider
	if cfg.Geoapify.APIKey == "" {
		log.Warn().Msg("GEOAPIFY_API_KEY is not set; using mock geolocation provider")
		geolocationProvider = geolocation.NewMockGeolocationProvider()
	} else {
		geolocationProvider = geolocation.NewGeoapifyProvider(cfg.Geoapify, cacheProvider)
	}
	nearbyService := services.NewNearbyFacilityService(geolocationProvider, metrics)
	geolocationHandler := handlers.NewGeolocationHandler(nearbyService)

	// Appointments live in PostgreSQL
	var appointmentHandler *handlers.AppointmentHandler
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("PostgreSQL unavailable; appointment endpoints disabled")
	} else {
		defer pgClient.Close()
		appointmentService := services.NewAppointmentService(database.NewAppointmentAdapter(pgClient), cfg.Video)
		if eventBus != nil {
			appointmentService.WithEvents(eventBus)
		}
		appointmentHandler = handlers.NewAppointmentHandler(appointmentService)
		log.Info().Msg("PostgreSQL client initialized successfully")
	}

	// Medical records live in MongoDB with report files in MinIO
	var medicalRecordHandler *handlers.MedicalRecordHandler
	mongoClient, err := mongo.NewClient(ctx, &cfg.Mongo)
	if err != nil {
		log.Warn().Err(err).Msg("MongoDB unavailable; medical record endpoints disabled")
	} else {
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer closeCancel()
			if err := mongoClient.Close(closeCtx); err != nil {
				log.Error().Err(err).Msg("Error closing MongoDB client")
			}
		}()

		minioClient, err := minio.NewClient(ctx, &cfg.Minio)
		if err != nil {
			log.Warn().Err(err).Msg("Object storage unavailable; medical record endpoints disabled")
		} else {
			recordRepo := database.NewMedicalRecordAdapter(mongoClient.Database().Collection(database.MedicalRecordCollection))
			fileStorage := storage.NewMinioAdapter(minioClient, cfg.Minio.Bucket)
			medicalRecordHandler = handlers.NewMedicalRecordHandler(services.NewMedicalRecordService(recordRepo, fileStorage))
			log.Info().Msg("Medical record storage initialized successfully")
		}
	}

	// AI assistant
	var chatProvider providers.ChatProvider
	if cfg.OpenAI.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set; assistant replies disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize OpenAI client")
		} else {
			chatProvider = openaiClient
		}
	}
	chatHandler := handlers.NewChatHandler(services.NewChatService(chatProvider, cacheProvider))

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	router := routes.NewRouter(
		geolocationHandler,
		appointmentHandler,
		medicalRecordHandler,
		chatHandler,
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
