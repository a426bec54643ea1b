package repositories

import (
	"context"

	"github.com/arogyavritti/backend/internal/domain/entities"
)

// MedicalRecordRepository persists medical record documents
type MedicalRecordRepository interface {
	// GetByUser returns the record for userID, or a NOT_FOUND AppError
	GetByUser(ctx context.Context, userID string) (*entities.MedicalRecord, error)

	// UpsertProfile creates the record if needed and replaces its profile fields
	UpsertProfile(ctx context.Context, userID string, profile entities.MedicalProfile) (*entities.MedicalRecord, error)

	// AppendMetric adds a reading, creating the record if needed
	AppendMetric(ctx context.Context, userID string, reading entities.HealthMetricReading) error

	// AppendReport adds report metadata, creating the record if needed
	AppendReport(ctx context.Context, userID string, report entities.MedicalReport) error
}
