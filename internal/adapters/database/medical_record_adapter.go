package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/repositories"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
)

// MedicalRecordCollection is the MongoDB collection holding one document per patient.
const MedicalRecordCollection = "medical_records"

// MedicalRecordAdapter implements MedicalRecordRepository on MongoDB
type MedicalRecordAdapter struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMedicalRecordAdapter creates a new medical record adapter
func NewMedicalRecordAdapter(collection *mongo.Collection) repositories.MedicalRecordRepository {
	return &MedicalRecordAdapter{
		collection: collection,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetByUser retrieves the record for a user
func (a *MedicalRecordAdapter) GetByUser(ctx context.Context, userID string) (*entities.MedicalRecord, error) {
	var record entities.MedicalRecord
	err := a.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("medical record for user %s not found", userID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get medical record", err)
	}
	return &record, nil
}

// UpsertProfile replaces the profile fields, creating the document when missing
func (a *MedicalRecordAdapter) UpsertProfile(ctx context.Context, userID string, profile entities.MedicalProfile) (*entities.MedicalRecord, error) {
	now := a.now()
	update := bson.M{
		"$set": bson.M{
			"blood_type":         profile.BloodType,
			"allergies":          profile.Allergies,
			"chronic_conditions": profile.ChronicConditions,
			"medications":        profile.Medications,
			"family_history":     profile.FamilyHistory,
			"surgeries":          profile.Surgeries,
			"lifestyle":          profile.Lifestyle,
			"updated_at":         now,
		},
		"$setOnInsert": bson.M{
			"health_metrics": bson.A{},
			"reports":        bson.A{},
			"created_at":     now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var record entities.MedicalRecord
	err := a.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&record)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to save medical profile", err)
	}
	return &record, nil
}

// AppendMetric pushes a reading onto the record
func (a *MedicalRecordAdapter) AppendMetric(ctx context.Context, userID string, reading entities.HealthMetricReading) error {
	now := a.now()
	update := bson.M{
		"$push":        bson.M{"health_metrics": reading},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"reports": bson.A{}, "created_at": now},
	}
	if _, err := a.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true)); err != nil {
		return apperrors.NewInternalError("failed to add health metric", err)
	}
	return nil
}

// AppendReport pushes report metadata onto the record
func (a *MedicalRecordAdapter) AppendReport(ctx context.Context, userID string, report entities.MedicalReport) error {
	now := a.now()
	update := bson.M{
		"$push":        bson.M{"reports": report},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"health_metrics": bson.A{}, "created_at": now},
	}
	if _, err := a.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true)); err != nil {
		return apperrors.NewInternalError("failed to add medical report", err)
	}
	return nil
}
