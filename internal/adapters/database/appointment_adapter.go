package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/repositories"
	"github.com/arogyavritti/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
)

const appointmentsTable = "appointments"

var appointmentColumns = []interface{}{
	"id", "user_id", "patient_name", "department", "doctor",
	"date", "time", "status", "created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":           appointment.ID,
		"user_id":      appointment.UserID,
		"patient_name": appointment.PatientName,
		"department":   appointment.Department,
		"doctor":       appointment.Doctor,
		"date":         appointment.Date,
		"time":         appointment.Time,
		"status":       string(appointment.Status),
		"created_at":   appointment.CreatedAt,
		"updated_at":   appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert(appointmentsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// Update replaces the mutable fields of an appointment
func (a *AppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	appointment.UpdatedAt = time.Now().UTC()

	record := goqu.Record{
		"patient_name": appointment.PatientName,
		"department":   appointment.Department,
		"doctor":       appointment.Doctor,
		"date":         appointment.Date,
		"time":         appointment.Time,
		"status":       string(appointment.Status),
		"updated_at":   appointment.UpdatedAt,
	}

	query, args, err := a.db.Update(appointmentsTable).
		Set(record).
		Where(goqu.Ex{"id": appointment.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update appointment", err)
	}

	return requireAffected(result, appointment.ID)
}

// Delete removes an appointment
func (a *AppointmentAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(appointmentsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete appointment", err)
	}

	return requireAffected(result, id)
}

// List retrieves appointments matching filter ordered by date and time
func (a *AppointmentAdapter) List(ctx context.Context, filter repositories.AppointmentFilter) ([]*entities.Appointment, error) {
	ds := a.db.Select(appointmentColumns...).From(appointmentsTable)

	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		ds = ds.Where(goqu.Ex{"status": statuses})
	}

	ds = ds.Order(goqu.I("date").Asc(), goqu.I("time").Asc())

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := make([]*entities.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return appointments, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var userID sql.NullString
	var status string

	err := row.Scan(
		&appointment.ID,
		&userID,
		&appointment.PatientName,
		&appointment.Department,
		&appointment.Doctor,
		&appointment.Date,
		&appointment.Time,
		&status,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	appointment.UserID = userID.String
	appointment.Status = entities.AppointmentStatus(status)
	return appointment, nil
}

func requireAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	return nil
}
