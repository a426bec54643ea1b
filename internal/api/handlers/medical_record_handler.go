package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/entities"
)

// multipart overhead allowed on top of the report size limit
const reportFormOverhead = 1 << 20

// MedicalRecordService defines the interface for medical record operations
type MedicalRecordService interface {
	GetRecord(ctx context.Context, userID string) (*entities.MedicalRecord, error)
	SaveProfile(ctx context.Context, userID string, profile entities.MedicalProfile) (*entities.MedicalRecord, error)
	AddMetric(ctx context.Context, userID string, req services.MetricRequest) (*entities.HealthMetricReading, error)
	UploadReport(ctx context.Context, userID string, upload services.ReportUpload) (*entities.MedicalReport, error)
	ReportURL(ctx context.Context, userID, reportID string) (string, error)
	Summary(ctx context.Context, userID string) ([]entities.MetricSummary, error)
}

// MedicalRecordHandler handles medical record requests
type MedicalRecordHandler struct {
	service MedicalRecordService
}

// NewMedicalRecordHandler creates a new medical record handler
func NewMedicalRecordHandler(service MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{service: service}
}

// GetRecord handles GET /api/medical-record
func (h *MedicalRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	record, err := h.service.GetRecord(r.Context(), user)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// SaveProfile handles PUT /api/medical-record/profile
func (h *MedicalRecordHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	var profile entities.MedicalProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	record, err := h.service.SaveProfile(r.Context(), user, profile)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// AddMetric handles POST /api/medical-record/metrics
func (h *MedicalRecordHandler) AddMetric(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	var req services.MetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	reading, err := h.service.AddMetric(r.Context(), user, req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, reading)
}

// UploadReport handles POST /api/medical-record/reports as multipart form
// data with the file in the "report" field.
func (h *MedicalRecordHandler) UploadReport(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	const limit = services.MaxReportSizeBytes + reportFormOverhead
	if r.ContentLength > limit {
		respondWithError(w, http.StatusRequestEntityTooLarge, "report file exceeds the 10 MB limit")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	file, header, err := r.FormFile("report")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "report file exceeds the 10 MB limit")
			return
		}
		respondWithError(w, http.StatusBadRequest, "report file is required")
		return
	}
	defer file.Close()

	report, err := h.service.UploadReport(r.Context(), user, services.ReportUpload{
		FileName: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, report)
}

// GetReportURL handles GET /api/medical-record/reports/{id}/url
func (h *MedicalRecordHandler) GetReportURL(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	url, err := h.service.ReportURL(r.Context(), user, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}

// GetSummary handles GET /api/medical-record/summary
func (h *MedicalRecordHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, UserIDHeader+" header is required")
		return
	}

	summary, err := h.service.Summary(r.Context(), user)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
	})
}
