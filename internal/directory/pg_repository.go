package directory

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Specialization,
		&d.HospitalID,
		&d.OpenHour,
		&d.CloseHour,
		&d.Active,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Address, &h.Phone, &h.Email, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.HospitalID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanPharmacy(row pgx.Row) (*Pharmacy, error) {
	var p Pharmacy
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Phone, &p.OpenHour, &p.CloseHour, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanLab(row pgx.Row) (*Lab, error) {
	var l Lab
	err := row.Scan(&l.ID, &l.Name, &l.Address, &l.Phone, &l.Services, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func scanAmbulance(row pgx.Row) (*Ambulance, error) {
	var a Ambulance
	err := row.Scan(&a.ID, &a.VehicleNumber, &a.Phone, &a.HospitalID, &a.Available, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func deleteRow(ctx context.Context, pool *pgxpool.Pool, query string, id uuid.UUID) error {
	tag, err := pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Doctors

func (r *PgRepository) CreateDoctor(ctx context.Context, d *Doctor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (id, user_id, name, specialization, hospital_id, open_hour, close_hour, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	`, d.ID, d.UserID, d.Name, d.Specialization, d.HospitalID, d.OpenHour, d.CloseHour, d.Active)
	return err
}

func (r *PgRepository) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, specialization, hospital_id, open_hour, close_hour, active, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, specialization, hospital_id, open_hour, close_hour, active, created_at, updated_at
		FROM doctors
		WHERE user_id = $1
	`, userID)
	return scanDoctor(row)
}

func (r *PgRepository) UpdateDoctor(ctx context.Context, d *Doctor) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE doctors
		SET user_id = $2,
		    name = $3,
		    specialization = $4,
		    hospital_id = $5,
		    open_hour = $6,
		    close_hour = $7,
		    active = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, user_id, name, specialization, hospital_id, open_hour, close_hour, active, created_at, updated_at
	`, d.ID, d.UserID, d.Name, d.Specialization, d.HospitalID, d.OpenHour, d.CloseHour, d.Active)
	return scanDoctor(row)
}

// DeactivateDoctor soft-deletes; appointment history keeps its reference.
func (r *PgRepository) DeactivateDoctor(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctors SET active = false, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgRepository) ListDoctors(ctx context.Context, specialization string, limit, offset int) ([]Doctor, error) {
	q := `
		SELECT id, user_id, name, specialization, hospital_id, open_hour, close_hour, active, created_at, updated_at
		FROM doctors
		WHERE active = true`
	args := []any{}
	if specialization != "" {
		q += ` AND specialization ILIKE $1`
		args = append(args, specialization)
	}
	q += ` ORDER BY name LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Hospitals

func (r *PgRepository) CreateHospital(ctx context.Context, h *Hospital) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO hospitals (id, name, address, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, h.ID, h.Name, h.Address, h.Phone, h.Email)
	return err
}

func (r *PgRepository) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, email, created_at, updated_at
		FROM hospitals
		WHERE id = $1
	`, id)
	return scanHospital(row)
}

func (r *PgRepository) UpdateHospital(ctx context.Context, h *Hospital) (*Hospital, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE hospitals
		SET name = $2, address = $3, phone = $4, email = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, name, address, phone, email, created_at, updated_at
	`, h.ID, h.Name, h.Address, h.Phone, h.Email)
	return scanHospital(row)
}

func (r *PgRepository) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.pool, `DELETE FROM hospitals WHERE id = $1`, id)
}

func (r *PgRepository) ListHospitals(ctx context.Context, limit, offset int) ([]Hospital, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, phone, email, created_at, updated_at
		FROM hospitals
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// Clinics

func (r *PgRepository) CreateClinic(ctx context.Context, c *Clinic) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clinics (id, name, address, phone, hospital_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, c.ID, c.Name, c.Address, c.Phone, c.HospitalID)
	return err
}

func (r *PgRepository) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, hospital_id, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`, id)
	return scanClinic(row)
}

func (r *PgRepository) UpdateClinic(ctx context.Context, c *Clinic) (*Clinic, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE clinics
		SET name = $2, address = $3, phone = $4, hospital_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, name, address, phone, hospital_id, created_at, updated_at
	`, c.ID, c.Name, c.Address, c.Phone, c.HospitalID)
	return scanClinic(row)
}

func (r *PgRepository) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.pool, `DELETE FROM clinics WHERE id = $1`, id)
}

func (r *PgRepository) ListClinics(ctx context.Context, limit, offset int) ([]Clinic, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, phone, hospital_id, created_at, updated_at
		FROM clinics
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Pharmacies

func (r *PgRepository) CreatePharmacy(ctx context.Context, p *Pharmacy) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pharmacies (id, name, address, phone, open_hour, close_hour, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`, p.ID, p.Name, p.Address, p.Phone, p.OpenHour, p.CloseHour)
	return err
}

func (r *PgRepository) GetPharmacy(ctx context.Context, id uuid.UUID) (*Pharmacy, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, open_hour, close_hour, created_at, updated_at
		FROM pharmacies
		WHERE id = $1
	`, id)
	return scanPharmacy(row)
}

func (r *PgRepository) UpdatePharmacy(ctx context.Context, p *Pharmacy) (*Pharmacy, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE pharmacies
		SET name = $2, address = $3, phone = $4, open_hour = $5, close_hour = $6, updated_at = now()
		WHERE id = $1
		RETURNING id, name, address, phone, open_hour, close_hour, created_at, updated_at
	`, p.ID, p.Name, p.Address, p.Phone, p.OpenHour, p.CloseHour)
	return scanPharmacy(row)
}

func (r *PgRepository) DeletePharmacy(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.pool, `DELETE FROM pharmacies WHERE id = $1`, id)
}

func (r *PgRepository) ListPharmacies(ctx context.Context, limit, offset int) ([]Pharmacy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, phone, open_hour, close_hour, created_at, updated_at
		FROM pharmacies
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pharmacy
	for rows.Next() {
		p, err := scanPharmacy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Labs

func (r *PgRepository) CreateLab(ctx context.Context, l *Lab) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO labs (id, name, address, phone, services, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, l.ID, l.Name, l.Address, l.Phone, l.Services)
	return err
}

func (r *PgRepository) GetLab(ctx context.Context, id uuid.UUID) (*Lab, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, address, phone, services, created_at, updated_at
		FROM labs
		WHERE id = $1
	`, id)
	return scanLab(row)
}

func (r *PgRepository) UpdateLab(ctx context.Context, l *Lab) (*Lab, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE labs
		SET name = $2, address = $3, phone = $4, services = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, name, address, phone, services, created_at, updated_at
	`, l.ID, l.Name, l.Address, l.Phone, l.Services)
	return scanLab(row)
}

func (r *PgRepository) DeleteLab(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.pool, `DELETE FROM labs WHERE id = $1`, id)
}

func (r *PgRepository) ListLabs(ctx context.Context, limit, offset int) ([]Lab, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, phone, services, created_at, updated_at
		FROM labs
		ORDER BY name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lab
	for rows.Next() {
		l, err := scanLab(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// Ambulances

func (r *PgRepository) CreateAmbulance(ctx context.Context, a *Ambulance) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO ambulances (id, vehicle_number, phone, hospital_id, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, a.ID, a.VehicleNumber, a.Phone, a.HospitalID, a.Available)
	return err
}

func (r *PgRepository) GetAmbulance(ctx context.Context, id uuid.UUID) (*Ambulance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, vehicle_number, phone, hospital_id, available, created_at, updated_at
		FROM ambulances
		WHERE id = $1
	`, id)
	return scanAmbulance(row)
}

func (r *PgRepository) UpdateAmbulance(ctx context.Context, a *Ambulance) (*Ambulance, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE ambulances
		SET vehicle_number = $2, phone = $3, hospital_id = $4, available = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, vehicle_number, phone, hospital_id, available, created_at, updated_at
	`, a.ID, a.VehicleNumber, a.Phone, a.HospitalID, a.Available)
	return scanAmbulance(row)
}

func (r *PgRepository) DeleteAmbulance(ctx context.Context, id uuid.UUID) error {
	return deleteRow(ctx, r.pool, `DELETE FROM ambulances WHERE id = $1`, id)
}

func (r *PgRepository) ListAmbulances(ctx context.Context, limit, offset int) ([]Ambulance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vehicle_number, phone, hospital_id, available, created_at, updated_at
		FROM ambulances
		ORDER BY vehicle_number
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ambulance
	for rows.Next() {
		a, err := scanAmbulance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
