package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/internal/domain/repositories"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
	"github.com/arogyavritti/backend/pkg/config"
	apperrors "github.com/arogyavritti/backend/pkg/errors"
)

// AppointmentRequest carries the booking form fields
type AppointmentRequest struct {
	PatientName string `json:"patient_name"`
	Department  string `json:"department"`
	Doctor      string `json:"doctor"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// AppointmentList splits a patient's appointments for the management page
type AppointmentList struct {
	Upcoming []*entities.Appointment `json:"upcoming"`
	Past     []*entities.Appointment `json:"past"`
}

// AppointmentService handles appointment booking logic
type AppointmentService struct {
	repo   repositories.AppointmentRepository
	video  config.VideoConfig
	events providers.EventBus
	now    func() time.Time
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(repo repositories.AppointmentRepository, video config.VideoConfig) *AppointmentService {
	return &AppointmentService{
		repo:  repo,
		video: video,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock (used for tests).
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

// WithEvents publishes every appointment change on bus.
func (s *AppointmentService) WithEvents(bus providers.EventBus) *AppointmentService {
	s.events = bus
	return s
}

// Departments returns the bookable departments.
func (s *AppointmentService) Departments() []entities.Department {
	return entities.Departments()
}

// Book creates an upcoming appointment for userID.
func (s *AppointmentService) Book(ctx context.Context, userID string, req AppointmentRequest) (*entities.Appointment, error) {
	req, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	appointment := &entities.Appointment{
		ID:          uuid.New().String(),
		UserID:      userID,
		PatientName: req.PatientName,
		Department:  req.Department,
		Doctor:      req.Doctor,
		Date:        req.Date,
		Time:        req.Time,
		Status:      entities.AppointmentStatusUpcoming,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", appointment.ID).
		Str("department", appointment.Department).
		Msg("appointment booked")
	s.publish(ctx, entities.AppointmentEventBooked, appointment)
	return appointment, nil
}

// Reschedule replaces the details of one of userID's appointments, keeping
// its id. The appointment becomes upcoming again.
func (s *AppointmentService) Reschedule(ctx context.Context, userID, id string, req AppointmentRequest) (*entities.Appointment, error) {
	req, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	appointment, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != entities.AppointmentStatusUpcoming {
		return nil, apperrors.NewConflictError(fmt.Sprintf("a %s appointment cannot be rescheduled", appointment.Status))
	}

	appointment.PatientName = req.PatientName
	appointment.Department = req.Department
	appointment.Doctor = req.Doctor
	appointment.Date = req.Date
	appointment.Time = req.Time
	appointment.Status = entities.AppointmentStatusUpcoming

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}
	s.publish(ctx, entities.AppointmentEventRescheduled, appointment)
	return appointment, nil
}

// Cancel marks an upcoming appointment cancelled.
func (s *AppointmentService) Cancel(ctx context.Context, userID, id string) (*entities.Appointment, error) {
	return s.transition(ctx, userID, id, entities.AppointmentStatusCancelled, entities.AppointmentEventCancelled)
}

// Complete marks an upcoming appointment completed.
func (s *AppointmentService) Complete(ctx context.Context, userID, id string) (*entities.Appointment, error) {
	return s.transition(ctx, userID, id, entities.AppointmentStatusCompleted, entities.AppointmentEventCompleted)
}

// Get retrieves one of userID's appointments. Appointments of other patients
// are reported as not found.
func (s *AppointmentService) Get(ctx context.Context, userID, id string) (*entities.Appointment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	return appointment, nil
}

// List returns userID's appointments split into upcoming and past.
func (s *AppointmentService) List(ctx context.Context, userID string) (*AppointmentList, error) {
	appointments, err := s.repo.List(ctx, repositories.AppointmentFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	list := &AppointmentList{
		Upcoming: make([]*entities.Appointment, 0),
		Past:     make([]*entities.Appointment, 0),
	}
	for _, a := range appointments {
		if a.Status == entities.AppointmentStatusUpcoming {
			list.Upcoming = append(list.Upcoming, a)
		} else {
			list.Past = append(list.Past, a)
		}
	}
	return list, nil
}

// Consultation returns the video room for an upcoming appointment.
func (s *AppointmentService) Consultation(ctx context.Context, userID, id string) (*entities.Consultation, error) {
	appointment, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != entities.AppointmentStatusUpcoming {
		return nil, apperrors.NewConflictError("video consultations are only available for upcoming appointments")
	}

	room := appointment.ID
	if prefix := strings.Trim(s.video.RoomPrefix, "-"); prefix != "" {
		room = prefix + "-" + appointment.ID
	}

	return &entities.Consultation{
		AppointmentID: appointment.ID,
		Room:          room,
		JoinURL:       strings.TrimRight(s.video.BaseURL, "/") + "/" + url.PathEscape(room),
		Doctor:        appointment.Doctor,
		PatientName:   appointment.PatientName,
	}, nil
}

func (s *AppointmentService) transition(ctx context.Context, userID, id string, to entities.AppointmentStatus, event entities.AppointmentEventType) (*entities.Appointment, error) {
	appointment, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != entities.AppointmentStatusUpcoming {
		return nil, apperrors.NewConflictError(fmt.Sprintf("appointment is already %s", appointment.Status))
	}

	appointment.Status = to
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	s.publish(ctx, event, appointment)
	return appointment, nil
}

// publish failures are logged and never fail the appointment change.
func (s *AppointmentService) publish(ctx context.Context, eventType entities.AppointmentEventType, appointment *entities.Appointment) {
	if s.events == nil || appointment.UserID == "" {
		return
	}
	event := entities.NewAppointmentEvent(eventType, appointment, s.now())
	if err := s.events.Publish(ctx, entities.AppointmentChannel(appointment.UserID), event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("appointment_id", appointment.ID).
			Msg("failed to publish appointment event")
	}
}

func (s *AppointmentService) validate(req AppointmentRequest) (AppointmentRequest, error) {
	req.PatientName = strings.TrimSpace(req.PatientName)
	req.Department = strings.TrimSpace(req.Department)
	req.Doctor = strings.TrimSpace(req.Doctor)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)

	if req.PatientName == "" || req.Department == "" || req.Doctor == "" || req.Date == "" || req.Time == "" {
		return req, apperrors.NewValidationError("patient_name, department, doctor, date and time are required")
	}

	day, err := time.Parse(entities.AppointmentDateLayout, req.Date)
	if err != nil {
		return req, apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
	}
	if _, err := time.Parse(entities.AppointmentTimeLayout, req.Time); err != nil {
		return req, apperrors.NewValidationError("time must be formatted as HH:MM")
	}

	today := s.now().Truncate(24 * time.Hour)
	if day.Before(today) {
		return req, apperrors.NewValidationError("appointment date cannot be in the past")
	}

	if !doctorInDepartment(req.Department, req.Doctor) {
		return req, apperrors.NewValidationError(fmt.Sprintf("%s is not available in %s", req.Doctor, req.Department))
	}

	return req, nil
}

func doctorInDepartment(department, doctor string) bool {
	for _, d := range entities.Departments() {
		if d.Name != department {
			continue
		}
		for _, name := range d.Doctors {
			if name == doctor {
				return true
			}
		}
	}
	return false
}
