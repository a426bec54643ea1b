package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/entities"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	Departments() []entities.Department
	Book(ctx context.Context, userID string, req services.AppointmentRequest) (*entities.Appointment, error)
	Reschedule(ctx context.Context, userID, id string, req services.AppointmentRequest) (*entities.Appointment, error)
	Cancel(ctx context.Context, userID, id string) (*entities.Appointment, error)
	Complete(ctx context.Context, userID, id string) (*entities.Appointment, error)
	Get(ctx context.Context, userID, id string) (*entities.Appointment, error)
	List(ctx context.Context, userID string) (*services.AppointmentList, error)
	Consultation(ctx context.Context, userID, id string) (*entities.Consultation, error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

// ListDepartments handles GET /api/departments
func (h *AppointmentHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"departments": h.service.Departments(),
	})
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	var req services.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.service.Book(r.Context(), user, req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, appointment)
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	list, err := h.service.List(r.Context(), user)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	appointment, err := h.service.Get(r.Context(), user, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// RescheduleAppointment handles PUT /api/appointments/{id}
func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	var req services.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.service.Reschedule(r.Context(), user, r.PathValue("id"), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// CancelAppointment handles POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	appointment, err := h.service.Cancel(r.Context(), user, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// CompleteAppointment handles POST /api/appointments/{id}/complete
func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	appointment, err := h.service.Complete(r.Context(), user, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// GetConsultation handles GET /api/appointments/{id}/consultation
func (h *AppointmentHandler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	consultation, err := h.service.Consultation(r.Context(), user, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, consultation)
}
