package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
)

const defaultHeartbeat = 30 * time.Second

// SSEHandler streams appointment changes as Server-Sent Events
type SSEHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
	clients   atomic.Int64
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{eventBus: eventBus, heartbeat: defaultHeartbeat}
}

// WithHeartbeat overrides the keep-alive interval.
func (h *SSEHandler) WithHeartbeat(d time.Duration) *SSEHandler {
	h.heartbeat = d
	return h
}

// StreamAppointments handles GET /api/stream/appointments. Browsers cannot
// set headers on an EventSource, so the user may also be given as ?user_id=.
func (h *SSEHandler) StreamAppointments(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		user = strings.TrimSpace(r.URL.Query().Get("user_id"))
	}
	if user == "" {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header or user_id parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	logger := observability.LoggerFromContext(r.Context())
	channel := entities.AppointmentChannel(user)
	events, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		logger.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	h.clients.Add(1)
	defer h.clients.Add(-1)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.sendEvent(w, "connected", map[string]interface{}{
		"user_id":   user,
		"timestamp": time.Now().UTC(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Str("channel", channel).Msg("Client disconnected from appointment stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// ClientCount returns the number of connected streams
func (h *SSEHandler) ClientCount() int64 {
	return h.clients.Load()
}

func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Error().Err(err).Str("event", eventType).Msg("Failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
