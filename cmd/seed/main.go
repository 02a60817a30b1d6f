package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebook/medical-directory-api/internal/auth"
	"github.com/carebook/medical-directory-api/internal/db"
)

const seedPassword = "password123"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	bg := context.Background()

	hospitals, err := seedHospitals(bg, pool, 10)
	if err != nil {
		log.Fatalf("seed hospitals: %v", err)
	}
	if err := seedDoctors(bg, pool, hospitals, 50); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedClinics(bg, pool, hospitals, 15); err != nil {
		log.Fatalf("seed clinics: %v", err)
	}
	if err := seedPharmacies(bg, pool, 20); err != nil {
		log.Fatalf("seed pharmacies: %v", err)
	}
	if err := seedLabs(bg, pool, 10); err != nil {
		log.Fatalf("seed labs: %v", err)
	}
	if err := seedAmbulances(bg, pool, hospitals, 15); err != nil {
		log.Fatalf("seed ambulances: %v", err)
	}
	if err := seedUsers(bg, pool, 500); err != nil {
		log.Fatalf("seed users: %v", err)
	}

	log.Println("seed complete")
}

func seedHospitals(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d hospitals", count)

	ids := make([]uuid.UUID, 0, count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO hospitals (id, name, address, phone, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, gofakeit.Company()+" Hospital", gofakeit.Address().Address, gofakeit.Phone(), gofakeit.Email())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("hospitals seeded")
	return ids, nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, hospitals []uuid.UUID, count int) error {
	log.Printf("seeding %d doctors", count)

	specializations := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		spec := specializations[gofakeit.Number(0, len(specializations)-1)]
		hospitalID := hospitals[gofakeit.Number(0, len(hospitals)-1)]
		openHour := gofakeit.Number(7, 10)
		closeHour := gofakeit.Number(16, 20)

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialization, hospital_id, open_hour, close_hour, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		`, id, "Dr. "+gofakeit.Name(), spec, hospitalID, openHour, closeHour)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("doctors seeded")
	return nil
}

func seedClinics(ctx context.Context, pool *pgxpool.Pool, hospitals []uuid.UUID, count int) error {
	log.Printf("seeding %d clinics", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		hospitalID := hospitals[gofakeit.Number(0, len(hospitals)-1)]
		_, err := tx.Exec(ctx, `
			INSERT INTO clinics (id, name, address, phone, hospital_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, uuid.New(), gofakeit.LastName()+" Clinic", gofakeit.Address().Address, gofakeit.Phone(), hospitalID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("clinics seeded")
	return nil
}

func seedPharmacies(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d pharmacies", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		_, err := tx.Exec(ctx, `
			INSERT INTO pharmacies (id, name, address, phone, open_hour, close_hour, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, uuid.New(), gofakeit.LastName()+" Pharmacy", gofakeit.Address().Address, gofakeit.Phone(),
			gofakeit.Number(7, 9), gofakeit.Number(20, 23))
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("pharmacies seeded")
	return nil
}

func seedLabs(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d labs", count)

	services := []string{
		"blood tests, urinalysis",
		"x-ray, ultrasound",
		"MRI, CT scan",
		"pathology, biopsy",
		"blood tests, ECG",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		svc := services[gofakeit.Number(0, len(services)-1)]
		_, err := tx.Exec(ctx, `
			INSERT INTO labs (id, name, address, phone, services, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, uuid.New(), gofakeit.LastName()+" Diagnostics", gofakeit.Address().Address, gofakeit.Phone(), svc)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("labs seeded")
	return nil
}

func seedAmbulances(ctx context.Context, pool *pgxpool.Pool, hospitals []uuid.UUID, count int) error {
	log.Printf("seeding %d ambulances", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		hospitalID := hospitals[gofakeit.Number(0, len(hospitals)-1)]
		vehicle := gofakeit.LetterN(2) + "-" + gofakeit.DigitN(4)
		_, err := tx.Exec(ctx, `
			INSERT INTO ambulances (id, vehicle_number, phone, hospital_id, available, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, now(), now())
		`, uuid.New(), vehicle, gofakeit.Phone(), hospitalID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("ambulances seeded")
	return nil
}

// seedUsers creates one admin plus patient accounts. Every account gets the
// same known password so the accounts are usable in local testing.
func seedUsers(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d users", count)

	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'admin', now(), now())
		ON CONFLICT (email) DO NOTHING
	`, uuid.New(), "Admin", "admin@example.com", hash, gofakeit.Phone())
	if err != nil {
		return err
	}
	log.Println("admin seeded: admin@example.com")

	const batchSize = 100

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			_, err := tx.Exec(ctx, `
				INSERT INTO users (id, name, email, password_hash, phone, role, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, 'patient', now(), now())
				ON CONFLICT (email) DO NOTHING
			`, uuid.New(), gofakeit.Name(), gofakeit.Email(), hash, gofakeit.Phone())
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("users seeded: %d/%d", end, count)
	}

	log.Println("users seeded")
	return nil
}
