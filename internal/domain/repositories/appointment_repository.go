package repositories

import (
	"context"

	"github.com/arogyavritti/backend/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create creates a new appointment
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// Update replaces an appointment
	Update(ctx context.Context, appointment *entities.Appointment) error

	// Delete removes an appointment
	Delete(ctx context.Context, id string) error

	// List retrieves appointments matching filter, earliest first
	List(ctx context.Context, filter AppointmentFilter) ([]*entities.Appointment, error)
}

// AppointmentFilter defines filters for listing appointments
type AppointmentFilter struct {
	UserID   string
	Statuses []entities.AppointmentStatus
	Limit    int
	Offset   int
}
