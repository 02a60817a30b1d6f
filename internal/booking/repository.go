package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/carebook/medical-directory-api/internal/directory"
	"github.com/carebook/medical-directory-api/internal/user"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*user.User, error)

	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error)

	// Conflict checks, scoped to non-cancelled rows
	HasDoctorConflict(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error)
	HasPatientConflict(ctx context.Context, patientID uuid.UUID, at time.Time) (bool, error)

	// CreateScheduled inserts with status scheduled. The partial unique
	// indexes backstop the conflict checks; violations surface as
	// ErrDoctorSlotTaken / ErrPatientSlotTaken.
	CreateScheduled(ctx context.Context, a *Appointment) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, notes string) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]AppointmentDetail, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]AppointmentDetail, error)

	// Reminder worker
	FindUpcomingUnreminded(ctx context.Context, from, to time.Time) ([]Appointment, error)
	MarkReminded(ctx context.Context, id uuid.UUID) error

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
	ListEvents(ctx context.Context, limit, offset int) ([]EventLog, error)
}
