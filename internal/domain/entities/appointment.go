package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusUpcoming  AppointmentStatus = "upcoming"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusUpcoming, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment date and time layouts as entered on the booking form.
const (
	AppointmentDateLayout = "2006-01-02"
	AppointmentTimeLayout = "15:04"
)

// Appointment represents a consultation booked by a patient
type Appointment struct {
	ID          string            `json:"id" db:"id"`
	UserID      string            `json:"user_id,omitempty" db:"user_id"`
	PatientName string            `json:"patient_name" db:"patient_name"`
	Department  string            `json:"department" db:"department"`
	Doctor      string            `json:"doctor" db:"doctor"`
	Date        string            `json:"date" db:"date"`
	Time        string            `json:"time" db:"time"`
	Status      AppointmentStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// Department groups the doctors a patient can book with
type Department struct {
	Name    string   `json:"name"`
	Doctors []string `json:"doctors"`
}

// Consultation describes the video room for an upcoming appointment
type Consultation struct {
	AppointmentID string `json:"appointment_id"`
	Room          string `json:"room"`
	JoinURL       string `json:"join_url"`
	Doctor        string `json:"doctor"`
	PatientName   string `json:"patient_name"`
}

var departments = []Department{
	{Name: "General Medicine", Doctors: []string{"Dr. Anil Sharma", "Dr. Meera Iyer"}},
	{Name: "Cardiology", Doctors: []string{"Dr. Rajesh Kumar", "Dr. Priya Nair"}},
	{Name: "Dermatology", Doctors: []string{"Dr. Sunita Rao"}},
	{Name: "Pediatrics", Doctors: []string{"Dr. Vikram Singh", "Dr. Kavita Desai"}},
	{Name: "Orthopedics", Doctors: []string{"Dr. Arjun Mehta"}},
	{Name: "Neurology", Doctors: []string{"Dr. Neha Gupta"}},
}

// Departments returns the bookable departments and their doctors.
func Departments() []Department {
	out := make([]Department, len(departments))
	for i, d := range departments {
		out[i] = Department{Name: d.Name, Doctors: append([]string(nil), d.Doctors...)}
	}
	return out
}
