package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/domain/repositories"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
)

// MaxReportSizeBytes is the largest accepted report upload.
const MaxReportSizeBytes = 10 << 20

const reportLinkExpiry = 15 * time.Minute

var allowedReportTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// MetricRequest is a new health metric reading
type MetricRequest struct {
	Type  string    `json:"type"`
	Value float64   `json:"value"`
	Unit  string    `json:"unit"`
	Date  time.Time `json:"date"`
}

// ReportUpload is an incoming report file
type ReportUpload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

// MedicalRecordService manages patient health records and report files
type MedicalRecordService struct {
	repo    repositories.MedicalRecordRepository
	storage providers.FileStorage
	now     func() time.Time
}

// NewMedicalRecordService creates a new medical record service
func NewMedicalRecordService(repo repositories.MedicalRecordRepository, storage providers.FileStorage) *MedicalRecordService {
	return &MedicalRecordService{
		repo:    repo,
		storage: storage,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// GetRecord returns the user's record. Users without one get an empty record.
func (s *MedicalRecordService) GetRecord(ctx context.Context, userID string) (*entities.MedicalRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	record, err := s.repo.GetByUser(ctx, userID)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		record = &entities.MedicalRecord{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	if record.HealthMetrics == nil {
		record.HealthMetrics = []entities.HealthMetricReading{}
	}
	if record.Reports == nil {
		record.Reports = []entities.MedicalReport{}
	}
	return record, nil
}

// SaveProfile replaces the editable profile fields.
func (s *MedicalRecordService) SaveProfile(ctx context.Context, userID string, profile entities.MedicalProfile) (*entities.MedicalRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	return s.repo.UpsertProfile(ctx, userID, profile)
}

// AddMetric records a reading for a catalog metric. The unit defaults to the
// catalog unit and the date to now.
func (s *MedicalRecordService) AddMetric(ctx context.Context, userID string, req MetricRequest) (*entities.HealthMetricReading, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	definition, ok := entities.FindHealthMetric(req.Type)
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown health metric %q", req.Type))
	}
	if req.Value < 0 {
		return nil, apperrors.NewValidationError("metric value cannot be negative")
	}

	reading := entities.HealthMetricReading{
		Type:  definition.ID,
		Value: req.Value,
		Unit:  strings.TrimSpace(req.Unit),
		Date:  req.Date,
	}
	if reading.Unit == "" {
		reading.Unit = definition.Unit
	}
	if reading.Date.IsZero() {
		reading.Date = s.now()
	}

	if err := s.repo.AppendMetric(ctx, userID, reading); err != nil {
		return nil, err
	}
	return &reading, nil
}

// UploadReport stores a pdf or image report and attaches it to the record.
func (s *MedicalRecordService) UploadReport(ctx context.Context, userID string, upload ReportUpload) (*entities.MedicalReport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	fileName := path.Base(strings.ReplaceAll(strings.TrimSpace(upload.FileName), "\\", "/"))
	ext := strings.ToLower(path.Ext(fileName))
	contentType, ok := allowedReportTypes[ext]
	if !ok {
		return nil, apperrors.NewValidationError("only PDF, JPG, JPEG and PNG files are allowed")
	}
	if upload.Size <= 0 {
		return nil, apperrors.NewValidationError("report file is empty")
	}
	if upload.Size > MaxReportSizeBytes {
		return nil, apperrors.NewValidationError("report file exceeds the 10 MB limit")
	}

	report := entities.MedicalReport{
		ID:          uuid.New().String(),
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   upload.Size,
		UploadedAt:  s.now(),
	}
	report.ObjectKey = fmt.Sprintf("reports/%s/%s%s", userID, report.ID, ext)

	if err := s.storage.Put(ctx, report.ObjectKey, upload.Body, upload.Size, contentType); err != nil {
		return nil, err
	}
	if err := s.repo.AppendReport(ctx, userID, report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ReportURL returns a short-lived download link for one of the user's reports.
func (s *MedicalRecordService) ReportURL(ctx context.Context, userID, reportID string) (string, error) {
	record, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, r := range record.Reports {
		if r.ID == reportID {
			return s.storage.URL(ctx, r.ObjectKey, reportLinkExpiry)
		}
	}
	return "", apperrors.NewNotFoundError(fmt.Sprintf("report %s not found", reportID))
}

// Summary classifies the latest reading of each recorded metric, in catalog order.
func (s *MedicalRecordService) Summary(ctx context.Context, userID string) ([]entities.MetricSummary, error) {
	record, err := s.GetRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SummarizeMetrics(record.HealthMetrics), nil
}

// SummarizeMetrics builds the dashboard summary from raw readings.
func SummarizeMetrics(readings []entities.HealthMetricReading) []entities.MetricSummary {
	byType := make(map[string][]entities.HealthMetricReading)
	for _, r := range readings {
		byType[r.Type] = append(byType[r.Type], r)
	}

	summaries := make([]entities.MetricSummary, 0, len(byType))
	for _, definition := range entities.HealthMetricCatalog() {
		history := byType[definition.ID]
		if len(history) == 0 {
			continue
		}
		sort.SliceStable(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })
		latest := history[len(history)-1]
		status := definition.Classify(latest.Value)
		summaries = append(summaries, entities.MetricSummary{
			Metric:         definition,
			Latest:         latest,
			Status:         status,
			Recommendation: status.Recommendation(),
			Readings:       len(history),
		})
	}
	return summaries
}
