package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carebook/medical-directory-api/internal/directory"
	redisclient "github.com/carebook/medical-directory-api/internal/redis"
	"github.com/carebook/medical-directory-api/internal/user"
)

const (
	EventAppointmentBooked    = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
	EventAppointmentReminder  = "APPOINTMENT_REMINDER"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrPastDate            = errors.New("appointment time must be in the future")
	ErrOutsideWorkingHours = errors.New("appointment time is outside the doctor's working hours")
	ErrDoctorSlotTaken     = errors.New("doctor already has an appointment at this time")
	ErrPatientSlotTaken    = errors.New("patient already has an appointment at this time")
	ErrSlotBusy            = errors.New("slot is currently being booked, please retry")
	ErrAlreadyTerminal     = errors.New("appointment is already completed or cancelled")
	ErrNotAllowed          = errors.New("not allowed to modify this appointment")
)

// Actor is the authenticated identity performing an operation.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

type Service struct {
	repo   Repository
	locker redisclient.Locker
	log    zerolog.Logger
}

func NewService(repo Repository, locker redisclient.Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		log:    log,
	}
}

func slotKey(doctorID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("slot:%s:%d", doctorID, at.Unix())
}

// Book validates a proposed appointment and inserts it as scheduled.
// The ordered checks run inside a per-slot lock so concurrent requests for
// the same doctor-datetime cannot both pass; the partial unique indexes on
// the appointments table backstop the same invariants.
func (s *Service) Book(ctx context.Context, patientID, doctorID uuid.UUID, startsAt time.Time, reason string) (*AppointmentDetail, error) {
	doc, err := s.repo.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if !doc.Active {
		return nil, ErrDoctorNotFound
	}

	if _, err := s.repo.GetPatient(ctx, patientID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	startsAt = startsAt.UTC().Truncate(time.Minute)
	if !startsAt.After(time.Now()) {
		return nil, ErrPastDate
	}
	if h := startsAt.Hour(); h < doc.OpenHour || h >= doc.CloseHour {
		return nil, ErrOutsideWorkingHours
	}

	var created *Appointment

	err = s.locker.WithLock(ctx, slotKey(doctorID, startsAt), func(lockCtx context.Context) error {
		busy, err := s.repo.HasDoctorConflict(lockCtx, doctorID, startsAt)
		if err != nil {
			return fmt.Errorf("check doctor conflict: %w", err)
		}
		if busy {
			return ErrDoctorSlotTaken
		}

		busy, err = s.repo.HasPatientConflict(lockCtx, patientID, startsAt)
		if err != nil {
			return fmt.Errorf("check patient conflict: %w", err)
		}
		if busy {
			return ErrPatientSlotTaken
		}

		appt, err := s.repo.CreateScheduled(lockCtx, &Appointment{
			PatientID: patientID,
			DoctorID:  doctorID,
			StartsAt:  startsAt,
			Reason:    reason,
		})
		if err != nil {
			return err
		}
		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentBooked, map[string]any{
			"doctor_id":  doctorID.String(),
			"patient_id": patientID.String(),
			"starts_at":  startsAt,
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	return s.repo.GetAppointmentDetail(ctx, created.ID)
}

// Cancel moves a scheduled appointment to cancelled. Only the owning
// patient, the assigned doctor, or an admin may cancel.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor Actor, notes string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeTransition(ctx, appt, actor); err != nil {
		return nil, err
	}
	if appt.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	updated, err := s.repo.UpdateStatus(ctx, id, StatusScheduled, StatusCancelled, notes)
	if err != nil {
		// a concurrent transition won the status guard
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrAlreadyTerminal
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logEvent(ctx, id, EventAppointmentCancelled, map[string]any{
		"actor_id":   actor.UserID.String(),
		"actor_role": string(actor.Role),
	})
	return updated, nil
}

// Complete moves a scheduled appointment to completed. Only the assigned
// doctor or an admin may complete.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor Actor, notes string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role != user.RoleAdmin {
		if actor.Role != user.RoleDoctor {
			return nil, ErrNotAllowed
		}
		if !s.isAssignedDoctor(ctx, appt, actor) {
			return nil, ErrNotAllowed
		}
	}
	if appt.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	updated, err := s.repo.UpdateStatus(ctx, id, StatusScheduled, StatusCompleted, notes)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrAlreadyTerminal
		}
		return nil, fmt.Errorf("complete appointment: %w", err)
	}

	s.logEvent(ctx, id, EventAppointmentCompleted, map[string]any{
		"actor_id": actor.UserID.String(),
	})
	return updated, nil
}

// Delete hard-deletes an appointment regardless of status. Admin only;
// the handler enforces the role, this is the service-level backstop.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if actor.Role != user.RoleAdmin {
		return ErrNotAllowed
	}
	return s.repo.DeleteAppointment(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, actor Actor) (*AppointmentDetail, error) {
	detail, err := s.repo.GetAppointmentDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTransition(ctx, &detail.Appointment, actor); err != nil {
		// hide existence from unrelated callers
		return nil, ErrAppointmentNotFound
	}
	return detail, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]AppointmentDetail, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]AppointmentDetail, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListEvents(ctx context.Context, limit, offset int) ([]EventLog, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListEvents(ctx, limit, offset)
}

// RemindUpcoming is the worker entry point: one reminder event per
// scheduled appointment starting within the window.
func (s *Service) RemindUpcoming(ctx context.Context, window time.Duration) error {
	now := time.Now()
	upcoming, err := s.repo.FindUpcomingUnreminded(ctx, now, now.Add(window))
	if err != nil {
		return fmt.Errorf("find upcoming appointments: %w", err)
	}

	for _, appt := range upcoming {
		if err := s.repo.MarkReminded(ctx, appt.ID); err != nil {
			s.log.Error().Err(err).Str("appointment_id", appt.ID.String()).Msg("mark reminded")
			continue
		}
		s.logEvent(ctx, appt.ID, EventAppointmentReminder, map[string]any{
			"patient_id": appt.PatientID.String(),
			"starts_at":  appt.StartsAt,
		})
	}
	return nil
}

// authorizeTransition allows the owning patient, the assigned doctor, or an admin.
func (s *Service) authorizeTransition(ctx context.Context, appt *Appointment, actor Actor) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RolePatient:
		if appt.PatientID == actor.UserID {
			return nil
		}
	case user.RoleDoctor:
		if s.isAssignedDoctor(ctx, appt, actor) {
			return nil
		}
	}
	return ErrNotAllowed
}

func (s *Service) isAssignedDoctor(ctx context.Context, appt *Appointment, actor Actor) bool {
	doc, err := s.repo.GetDoctor(ctx, appt.DoctorID)
	if err != nil {
		return false
	}
	return doc.UserID != nil && *doc.UserID == actor.UserID
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("event", eventType).Msg("marshal event payload")
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("event", eventType).Str("appointment_id", appointmentID.String()).Msg("insert event log")
	}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
