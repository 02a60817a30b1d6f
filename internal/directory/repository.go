package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("record not found")

// Repository contains all DB interactions needed by the directory service.
type Repository interface {
	CreateDoctor(ctx context.Context, d *Doctor) error
	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	UpdateDoctor(ctx context.Context, d *Doctor) (*Doctor, error)
	DeactivateDoctor(ctx context.Context, id uuid.UUID) error
	ListDoctors(ctx context.Context, specialization string, limit, offset int) ([]Doctor, error)

	CreateHospital(ctx context.Context, h *Hospital) error
	GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error)
	UpdateHospital(ctx context.Context, h *Hospital) (*Hospital, error)
	DeleteHospital(ctx context.Context, id uuid.UUID) error
	ListHospitals(ctx context.Context, limit, offset int) ([]Hospital, error)

	CreateClinic(ctx context.Context, c *Clinic) error
	GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error)
	UpdateClinic(ctx context.Context, c *Clinic) (*Clinic, error)
	DeleteClinic(ctx context.Context, id uuid.UUID) error
	ListClinics(ctx context.Context, limit, offset int) ([]Clinic, error)

	CreatePharmacy(ctx context.Context, p *Pharmacy) error
	GetPharmacy(ctx context.Context, id uuid.UUID) (*Pharmacy, error)
	UpdatePharmacy(ctx context.Context, p *Pharmacy) (*Pharmacy, error)
	DeletePharmacy(ctx context.Context, id uuid.UUID) error
	ListPharmacies(ctx context.Context, limit, offset int) ([]Pharmacy, error)

	CreateLab(ctx context.Context, l *Lab) error
	GetLab(ctx context.Context, id uuid.UUID) (*Lab, error)
	UpdateLab(ctx context.Context, l *Lab) (*Lab, error)
	DeleteLab(ctx context.Context, id uuid.UUID) error
	ListLabs(ctx context.Context, limit, offset int) ([]Lab, error)

	CreateAmbulance(ctx context.Context, a *Ambulance) error
	GetAmbulance(ctx context.Context, id uuid.UUID) (*Ambulance, error)
	UpdateAmbulance(ctx context.Context, a *Ambulance) (*Ambulance, error)
	DeleteAmbulance(ctx context.Context, id uuid.UUID) error
	ListAmbulances(ctx context.Context, limit, offset int) ([]Ambulance, error)
}
