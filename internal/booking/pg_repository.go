package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebook/medical-directory-api/internal/directory"
	"github.com/carebook/medical-directory-api/internal/user"
)

type PgRepository struct {
	pool    *pgxpool.Pool
	doctors *directory.PgRepository
	users   *user.PgRepository
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{
		pool:    pool,
		doctors: directory.NewPgRepository(pool),
		users:   user.NewPgRepository(pool),
	}
}

func (r *PgRepository) GetDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error) {
	return r.doctors.GetDoctor(ctx, id)
}

func (r *PgRepository) GetPatient(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.users.GetByID(ctx, id)
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.StartsAt,
		&a.Reason,
		&a.Status,
		&a.Notes,
		&a.ReminderSent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func scanDetail(row pgx.Row) (*AppointmentDetail, error) {
	var d AppointmentDetail
	err := row.Scan(
		&d.ID,
		&d.PatientID,
		&d.DoctorID,
		&d.StartsAt,
		&d.Reason,
		&d.Status,
		&d.Notes,
		&d.ReminderSent,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.PatientName,
		&d.PatientEmail,
		&d.DoctorName,
		&d.DoctorSpecialization,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

const detailQuery = `
	SELECT a.id, a.patient_id, a.doctor_id, a.starts_at, a.reason, a.status,
	       a.notes, a.reminder_sent, a.created_at, a.updated_at,
	       u.name, u.email, d.name, d.specialization
	FROM appointments a
	JOIN users u ON u.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, starts_at, reason, status, notes, reminder_sent, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	row := r.pool.QueryRow(ctx, detailQuery+` WHERE a.id = $1`, id)
	return scanDetail(row)
}

func (r *PgRepository) HasDoctorConflict(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND starts_at = $2 AND status <> 'cancelled'
		)
	`, doctorID, at).Scan(&exists)
	return exists, err
}

func (r *PgRepository) HasPatientConflict(ctx context.Context, patientID uuid.UUID, at time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE patient_id = $1 AND starts_at = $2 AND status <> 'cancelled'
		)
	`, patientID, at).Scan(&exists)
	return exists, err
}

func (r *PgRepository) CreateScheduled(ctx context.Context, a *Appointment) (*Appointment, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, starts_at, reason, status, notes, reminder_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'scheduled', '', false, now(), now())
		RETURNING id, patient_id, doctor_id, starts_at, reason, status, notes, reminder_sent, created_at, updated_at
	`, id, a.PatientID, a.DoctorID, a.StartsAt, a.Reason)

	appt, err := scanAppointment(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "appointments_doctor_slot_idx":
				return nil, ErrDoctorSlotTaken
			case "appointments_patient_slot_idx":
				return nil, ErrPatientSlotTaken
			}
		}
		return nil, err
	}
	return appt, nil
}

func (r *PgRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, notes string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING id, patient_id, doctor_id, starts_at, reason, status, notes, reminder_sent, created_at, updated_at
	`, id, to, from, notes)
	return scanAppointment(row)
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) listDetails(ctx context.Context, query string, args ...any) ([]AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AppointmentDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]AppointmentDetail, error) {
	return r.listDetails(ctx, detailQuery+`
		WHERE a.patient_id = $1
		ORDER BY a.starts_at DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]AppointmentDetail, error) {
	return r.listDetails(ctx, detailQuery+`
		WHERE a.doctor_id = $1
		ORDER BY a.starts_at DESC
		LIMIT $2 OFFSET $3
	`, doctorID, limit, offset)
}

func (r *PgRepository) FindUpcomingUnreminded(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, starts_at, reason, status, notes, reminder_sent, created_at, updated_at
		FROM appointments
		WHERE status = 'scheduled'
		  AND reminder_sent = false
		  AND starts_at >= $1
		  AND starts_at < $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *PgRepository) MarkReminded(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE appointments SET reminder_sent = true, updated_at = now() WHERE id = $1
	`, id)
	return err
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, now())
	`, ev.EventType, ev.AppointmentID, ev.Payload)
	return err
}

func (r *PgRepository) ListEvents(ctx context.Context, limit, offset int) ([]EventLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_type, appointment_id, payload, created_at
		FROM event_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventLog
	for rows.Next() {
		var ev EventLog
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.AppointmentID, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
