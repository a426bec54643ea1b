package routes

import (
	"net/http"

	"github.com/arogyavritti/backend/internal/api/handlers"
	"github.com/arogyavritti/backend/internal/api/middleware"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	geolocationHandler   *handlers.GeolocationHandler
	appointmentHandler   *handlers.AppointmentHandler
	medicalRecordHandler *handlers.MedicalRecordHandler
	chatHandler          *handlers.ChatHandler

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(
	geolocationHandler *handlers.GeolocationHandler,
	appointmentHandler *handlers.AppointmentHandler,
	medicalRecordHandler *handlers.MedicalRecordHandler,
	chatHandler *handlers.ChatHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                  http.NewServeMux(),
		geolocationHandler:   geolocationHandler,
		appointmentHandler:   appointmentHandler,
		medicalRecordHandler: medicalRecordHandler,
		chatHandler:          chatHandler,
		cacheMiddleware:      cacheMiddleware,
		allowedOrigins:       allowedOrigins,
		metrics:              metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoints; clients probe /api/health when picking a backend
	health := func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	}
	r.mux.HandleFunc("GET /health", health)
	r.mux.HandleFunc("GET /api/health", health)

	// Hospital search and geolocation endpoints
	r.mux.HandleFunc("GET /api/geoapify/hospitals", r.geolocationHandler.Hospitals)
	r.mux.HandleFunc("GET /api/geoapify/ip-location", r.geolocationHandler.IPLocation)
	r.mux.HandleFunc("GET /api/geoapify/reverse-geocode", r.geolocationHandler.ReverseGeocode)
	r.mux.HandleFunc("GET /api/hospitals/nearby", r.geolocationHandler.NearbyHospitals)
	r.mux.HandleFunc("GET /api/locations", r.geolocationHandler.Locations)

	// Appointment endpoints
	if r.appointmentHandler != nil {
		r.mux.HandleFunc("GET /api/departments", r.appointmentHandler.ListDepartments)
		r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.BookAppointment)
		r.mux.HandleFunc("GET /api/appointments", r.appointmentHandler.ListAppointments)
		r.mux.HandleFunc("GET /api/appointments/{id}", r.appointmentHandler.GetAppointment)
		r.mux.HandleFunc("PUT /api/appointments/{id}", r.appointmentHandler.RescheduleAppointment)
		r.mux.HandleFunc("POST /api/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment)
		r.mux.HandleFunc("POST /api/appointments/{id}/complete", r.appointmentHandler.CompleteAppointment)
		r.mux.HandleFunc("GET /api/appointments/{id}/consultation", r.appointmentHandler.GetConsultation)
	}

	// Medical record endpoints
	if r.medicalRecordHandler != nil {
		r.mux.HandleFunc("GET /api/medical-record", r.medicalRecordHandler.GetRecord)
		r.mux.HandleFunc("PUT /api/medical-record/profile", r.medicalRecordHandler.SaveProfile)
		r.mux.HandleFunc("POST /api/medical-record/metrics", r.medicalRecordHandler.AddMetric)
		r.mux.HandleFunc("POST /api/medical-record/reports", r.medicalRecordHandler.UploadReport)
		r.mux.HandleFunc("GET /api/medical-record/reports/{id}/url", r.medicalRecordHandler.GetReportURL)
		r.mux.HandleFunc("GET /api/medical-record/summary", r.medicalRecordHandler.GetSummary)
	}

	// Assistant endpoints
	if r.chatHandler != nil {
		r.mux.HandleFunc("POST /api/assistant/chat", r.chatHandler.Chat)
		r.mux.HandleFunc("GET /api/assistant/sessions/{id}", r.chatHandler.GetHistory)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
