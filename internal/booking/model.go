package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Appointment struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	StartsAt     time.Time
	Reason       string
	Status       Status
	Notes        string
	ReminderSent bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AppointmentDetail enriches an appointment with display fields.
type AppointmentDetail struct {
	Appointment
	PatientName          string
	PatientEmail         string
	DoctorName           string
	DoctorSpecialization string
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
