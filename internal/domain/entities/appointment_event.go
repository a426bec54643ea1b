package entities

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentEventType is the kind of change an appointment went through
type AppointmentEventType string

const (
	AppointmentEventBooked      AppointmentEventType = "booked"
	AppointmentEventRescheduled AppointmentEventType = "rescheduled"
	AppointmentEventCancelled   AppointmentEventType = "cancelled"
	AppointmentEventCompleted   AppointmentEventType = "completed"
)

// AppointmentEvent is published whenever an appointment changes so that open
// management pages can refresh without polling.
type AppointmentEvent struct {
	ID            string               `json:"id"`
	AppointmentID string               `json:"appointment_id"`
	UserID        string               `json:"user_id"`
	Type          AppointmentEventType `json:"type"`
	Appointment   Appointment          `json:"appointment"`
	Timestamp     time.Time            `json:"timestamp"`
}

// NewAppointmentEvent snapshots appointment for an event of the given type.
func NewAppointmentEvent(eventType AppointmentEventType, appointment *Appointment, at time.Time) *AppointmentEvent {
	return &AppointmentEvent{
		ID:            uuid.New().String(),
		AppointmentID: appointment.ID,
		UserID:        appointment.UserID,
		Type:          eventType,
		Appointment:   *appointment,
		Timestamp:     at,
	}
}

// AppointmentChannel is the pub/sub channel carrying a user's appointment events.
func AppointmentChannel(userID string) string {
	return "appointments:" + userID
}
