package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arogyavritti/backend/internal/adapters/events"
	"github.com/arogyavritti/backend/internal/api/handlers"
	"github.com/arogyavritti/backend/internal/api/middleware"
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

	observability.InitLogger(cfg.OTEL.ServiceName+"-sse", cfg.Environment)
	log.Info().Msg("Starting SSE server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is required: appointment events arrive over pub/sub
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Redis client")
	}
	defer redisClient.Close()

	eventBus := events.NewRedisEventBus(redisClient)
	sseHandler := handlers.NewSSEHandler(eventBus)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /api/stream/appointments", sseHandler.StreamAppointments)
	mux.HandleFunc("GET /api/stream/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{"connected_clients": sseHandler.ClientCount()})
	})

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(cfg.Server.AllowedOrigins)(handler)
	handler = middleware.LoggingMiddleware(handler)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.SSEPort)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streams stay open
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("SSE server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("SSE server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("SSE server shutting down...")

	// Closing the bus first ends every open stream
	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing event bus")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("SSE server stopped")
}
