package entities

import (
	"time"
)

// Lifestyle captures self-reported habits
type Lifestyle struct {
	Smoking  string `json:"smoking" bson:"smoking"`
	Alcohol  string `json:"alcohol" bson:"alcohol"`
	Exercise string `json:"exercise" bson:"exercise"`
	Diet     string `json:"diet" bson:"diet"`
}

// HealthMetricReading is a single measured value
type HealthMetricReading struct {
	Type  string    `json:"type" bson:"type"`
	Value float64   `json:"value" bson:"value"`
	Unit  string    `json:"unit" bson:"unit"`
	Date  time.Time `json:"date" bson:"date"`
}

// MedicalReport is an uploaded lab report or scan stored in object storage
type MedicalReport struct {
	ID          string    `json:"id" bson:"id"`
	FileName    string    `json:"file_name" bson:"file_name"`
	ContentType string    `json:"content_type" bson:"content_type"`
	ObjectKey   string    `json:"object_key" bson:"object_key"`
	SizeBytes   int64     `json:"size_bytes" bson:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// MedicalRecord is the per-patient health profile document
type MedicalRecord struct {
	UserID            string                `json:"user_id" bson:"user_id"`
	BloodType         string                `json:"blood_type" bson:"blood_type"`
	Allergies         string                `json:"allergies" bson:"allergies"`
	ChronicConditions string                `json:"chronic_conditions" bson:"chronic_conditions"`
	Medications       string                `json:"medications" bson:"medications"`
	FamilyHistory     string                `json:"family_history" bson:"family_history"`
	Surgeries         string                `json:"surgeries" bson:"surgeries"`
	Lifestyle         Lifestyle             `json:"lifestyle" bson:"lifestyle"`
	HealthMetrics     []HealthMetricReading `json:"health_metrics" bson:"health_metrics"`
	Reports           []MedicalReport       `json:"reports" bson:"reports"`
	CreatedAt         time.Time             `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at" bson:"updated_at"`
}

// MedicalProfile is the editable subset of a MedicalRecord
type MedicalProfile struct {
	BloodType         string    `json:"blood_type"`
	Allergies         string    `json:"allergies"`
	ChronicConditions string    `json:"chronic_conditions"`
	Medications       string    `json:"medications"`
	FamilyHistory     string    `json:"family_history"`
	Surgeries         string    `json:"surgeries"`
	Lifestyle         Lifestyle `json:"lifestyle"`
}
