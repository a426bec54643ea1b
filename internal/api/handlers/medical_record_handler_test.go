package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arogyavritti/backend/internal/api/handlers"
	"github.com/arogyavritti/backend/internal/application/services"
	"github.com/arogyavritti/backend/internal/domain/entities"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
)

func multipartReport(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestMedicalRecordHandler_UploadReport(t *testing.T) {
	t.Run("uploads report", func(t *testing.T) {
		svc := new(MockMedicalRecordService)
		handler := handlers.NewMedicalRecordHandler(svc)
		svc.On("UploadReport", mock.Anything, "u1", mock.MatchedBy(func(u services.ReportUpload) bool {
			return u.FileName == "blood.pdf" && u.Size == 4
		})).Return(&entities.MedicalReport{ID: "r1", FileName: "blood.pdf"}, nil)

		body, contentType := multipartReport(t, "report", "blood.pdf", []byte("%PDF"))
		req := httptest.NewRequest(http.MethodPost, "/api/medical-record/reports", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(handlers.UserIDHeader, "u1")
		w := httptest.NewRecorder()
		handler.UploadReport(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"file_name":"blood.pdf"`)
		svc.AssertExpectations(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		svc := new(MockMedicalRecordService)
		handler := handlers.NewMedicalRecordHandler(svc)

		body, contentType := multipartReport(t, "other", "blood.pdf", []byte("%PDF"))
		req := httptest.NewRequest(http.MethodPost, "/api/medical-record/reports", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(handlers.UserIDHeader, "u1")
		w := httptest.NewRecorder()
		handler.UploadReport(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		svc := new(MockMedicalRecordService)
		handler := handlers.NewMedicalRecordHandler(svc)

		body, contentType := multipartReport(t, "report", "scan.png", make([]byte, services.MaxReportSizeBytes+2<<20))
		req := httptest.NewRequest(http.MethodPost, "/api/medical-record/reports", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(handlers.UserIDHeader, "u1")
		w := httptest.NewRecorder()
		handler.UploadReport(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		svc.AssertNotCalled(t, "UploadReport", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected type", func(t *testing.T) {
		svc := new(MockMedicalRecordService)
		handler := handlers.NewMedicalRecordHandler(svc)
		svc.On("UploadReport", mock.Anything, "u1", mock.Anything).
			Return(nil, apperrors.NewValidationError("only PDF, JPG, JPEG and PNG files are allowed"))

		body, contentType := multipartReport(t, "report", "notes.docx", []byte("doc"))
		req := httptest.NewRequest(http.MethodPost, "/api/medical-record/reports", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set(handlers.UserIDHeader, "u1")
		w := httptest.NewRecorder()
		handler.UploadReport(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMedicalRecordHandler_AddMetric(t *testing.T) {
	svc := new(MockMedicalRecordService)
	handler := handlers.NewMedicalRecordHandler(svc)
	svc.On("AddMetric", mock.Anything, "u1", mock.MatchedBy(func(r services.MetricRequest) bool {
		return r.Type == "heart-rate" && r.Value == 72
	})).Return(&entities.HealthMetricReading{Type: "heart-rate", Value: 72, Unit: "BPM"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/medical-record/metrics", bytes.NewBufferString(`{"type":"heart-rate","value":72}`))
	req.Header.Set(handlers.UserIDHeader, "u1")
	w := httptest.NewRecorder()
	handler.AddMetric(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"unit":"BPM"`)
}

func TestMedicalRecordHandler_GetRecordRequiresUser(t *testing.T) {
	svc := new(MockMedicalRecordService)
	handler := handlers.NewMedicalRecordHandler(svc)

	w := httptest.NewRecorder()
	handler.GetRecord(w, httptest.NewRequest(http.MethodGet, "/api/medical-record", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMedicalRecordHandler_GetReportURL(t *testing.T) {
	svc := new(MockMedicalRecordService)
	handler := handlers.NewMedicalRecordHandler(svc)
	svc.On("ReportURL", mock.Anything, "u1", "r1").Return("https://files.example/r1?sig=x", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/medical-record/reports/r1/url", nil)
	req.SetPathValue("id", "r1")
	req.Header.Set(handlers.UserIDHeader, "u1")
	w := httptest.NewRecorder()
	handler.GetReportURL(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://files.example/r1?sig=x"}`, w.Body.String())
}

func TestMedicalRecordHandler_GetSummary(t *testing.T) {
	svc := new(MockMedicalRecordService)
	handler := handlers.NewMedicalRecordHandler(svc)
	svc.On("Summary", mock.Anything, "u1").Return([]entities.MetricSummary{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/medical-record/summary", nil)
	req.Header.Set(handlers.UserIDHeader, "u1")
	w := httptest.NewRecorder()
	handler.GetSummary(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":[]}`, w.Body.String())
}
