package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// validateHours checks a [open, close) working window on a 24h clock.
func validateHours(open, close int) error {
	if open < 0 || close > 24 || open >= close {
		return fmt.Errorf("%w: working hours must satisfy 0 <= open < close <= 24", ErrInvalidInput)
	}
	return nil
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

// Doctors

type DoctorInput struct {
	UserID         *uuid.UUID
	Name           string
	Specialization string
	HospitalID     *uuid.UUID
	OpenHour       int
	CloseHour      int
}

func (s *Service) CreateDoctor(ctx context.Context, in DoctorInput) (*Doctor, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if err := validateHours(in.OpenHour, in.CloseHour); err != nil {
		return nil, err
	}

	d := &Doctor{
		ID:             uuid.New(),
		UserID:         in.UserID,
		Name:           in.Name,
		Specialization: strings.TrimSpace(in.Specialization),
		HospitalID:     in.HospitalID,
		OpenHour:       in.OpenHour,
		CloseHour:      in.CloseHour,
		Active:         true,
	}
	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		return nil, fmt.Errorf("create doctor: %w", err)
	}
	return s.repo.GetDoctor(ctx, d.ID)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctor(ctx, id)
}

// GetDoctorByUser resolves the directory entry linked to a doctor login account.
func (s *Service) GetDoctorByUser(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctorByUserID(ctx, userID)
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, in DoctorInput, active bool) (*Doctor, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if err := validateHours(in.OpenHour, in.CloseHour); err != nil {
		return nil, err
	}

	return s.repo.UpdateDoctor(ctx, &Doctor{
		ID:             id,
		UserID:         in.UserID,
		Name:           in.Name,
		Specialization: strings.TrimSpace(in.Specialization),
		HospitalID:     in.HospitalID,
		OpenHour:       in.OpenHour,
		CloseHour:      in.CloseHour,
		Active:         active,
	})
}

func (s *Service) RemoveDoctor(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateDoctor(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, specialization string, limit, offset int) ([]Doctor, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListDoctors(ctx, strings.TrimSpace(specialization), limit, offset)
}

// Hospitals

type HospitalInput struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

func (s *Service) CreateHospital(ctx context.Context, in HospitalInput) (*Hospital, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	h := &Hospital{
		ID:      uuid.New(),
		Name:    in.Name,
		Address: in.Address,
		Phone:   in.Phone,
		Email:   in.Email,
	}
	if err := s.repo.CreateHospital(ctx, h); err != nil {
		return nil, fmt.Errorf("create hospital: %w", err)
	}
	return s.repo.GetHospital(ctx, h.ID)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.repo.GetHospital(ctx, id)
}

func (s *Service) UpdateHospital(ctx context.Context, id uuid.UUID, in HospitalInput) (*Hospital, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	return s.repo.UpdateHospital(ctx, &Hospital{
		ID: id, Name: in.Name, Address: in.Address, Phone: in.Phone, Email: in.Email,
	})
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteHospital(ctx, id)
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]Hospital, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListHospitals(ctx, limit, offset)
}

// Clinics

type ClinicInput struct {
	Name       string
	Address    string
	Phone      string
	HospitalID *uuid.UUID
}

func (s *Service) CreateClinic(ctx context.Context, in ClinicInput) (*Clinic, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	c := &Clinic{
		ID:         uuid.New(),
		Name:       in.Name,
		Address:    in.Address,
		Phone:      in.Phone,
		HospitalID: in.HospitalID,
	}
	if err := s.repo.CreateClinic(ctx, c); err != nil {
		return nil, fmt.Errorf("create clinic: %w", err)
	}
	return s.repo.GetClinic(ctx, c.ID)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetClinic(ctx, id)
}

func (s *Service) UpdateClinic(ctx context.Context, id uuid.UUID, in ClinicInput) (*Clinic, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	return s.repo.UpdateClinic(ctx, &Clinic{
		ID: id, Name: in.Name, Address: in.Address, Phone: in.Phone, HospitalID: in.HospitalID,
	})
}

func (s *Service) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteClinic(ctx, id)
}

func (s *Service) ListClinics(ctx context.Context, limit, offset int) ([]Clinic, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListClinics(ctx, limit, offset)
}

// Pharmacies

type PharmacyInput struct {
	Name      string
	Address   string
	Phone     string
	OpenHour  int
	CloseHour int
}

func (s *Service) CreatePharmacy(ctx context.Context, in PharmacyInput) (*Pharmacy, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if err := validateHours(in.OpenHour, in.CloseHour); err != nil {
		return nil, err
	}
	p := &Pharmacy{
		ID:        uuid.New(),
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		OpenHour:  in.OpenHour,
		CloseHour: in.CloseHour,
	}
	if err := s.repo.CreatePharmacy(ctx, p); err != nil {
		return nil, fmt.Errorf("create pharmacy: %w", err)
	}
	return s.repo.GetPharmacy(ctx, p.ID)
}

func (s *Service) GetPharmacy(ctx context.Context, id uuid.UUID) (*Pharmacy, error) {
	return s.repo.GetPharmacy(ctx, id)
}

func (s *Service) UpdatePharmacy(ctx context.Context, id uuid.UUID, in PharmacyInput) (*Pharmacy, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if err := validateHours(in.OpenHour, in.CloseHour); err != nil {
		return nil, err
	}
	return s.repo.UpdatePharmacy(ctx, &Pharmacy{
		ID: id, Name: in.Name, Address: in.Address, Phone: in.Phone,
		OpenHour: in.OpenHour, CloseHour: in.CloseHour,
	})
}

func (s *Service) DeletePharmacy(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePharmacy(ctx, id)
}

func (s *Service) ListPharmacies(ctx context.Context, limit, offset int) ([]Pharmacy, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListPharmacies(ctx, limit, offset)
}

// Labs

type LabInput struct {
	Name     string
	Address  string
	Phone    string
	Services string
}

func (s *Service) CreateLab(ctx context.Context, in LabInput) (*Lab, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	l := &Lab{
		ID:       uuid.New(),
		Name:     in.Name,
		Address:  in.Address,
		Phone:    in.Phone,
		Services: in.Services,
	}
	if err := s.repo.CreateLab(ctx, l); err != nil {
		return nil, fmt.Errorf("create lab: %w", err)
	}
	return s.repo.GetLab(ctx, l.ID)
}

func (s *Service) GetLab(ctx context.Context, id uuid.UUID) (*Lab, error) {
	return s.repo.GetLab(ctx, id)
}

func (s *Service) UpdateLab(ctx context.Context, id uuid.UUID, in LabInput) (*Lab, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	return s.repo.UpdateLab(ctx, &Lab{
		ID: id, Name: in.Name, Address: in.Address, Phone: in.Phone, Services: in.Services,
	})
}

func (s *Service) DeleteLab(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteLab(ctx, id)
}

func (s *Service) ListLabs(ctx context.Context, limit, offset int) ([]Lab, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListLabs(ctx, limit, offset)
}

// Ambulances

type AmbulanceInput struct {
	VehicleNumber string
	Phone         string
	HospitalID    *uuid.UUID
	Available     bool
}

func (s *Service) CreateAmbulance(ctx context.Context, in AmbulanceInput) (*Ambulance, error) {
	in.VehicleNumber = strings.TrimSpace(in.VehicleNumber)
	if in.VehicleNumber == "" {
		return nil, fmt.Errorf("%w: vehicle number required", ErrInvalidInput)
	}
	a := &Ambulance{
		ID:            uuid.New(),
		VehicleNumber: in.VehicleNumber,
		Phone:         in.Phone,
		HospitalID:    in.HospitalID,
		Available:     in.Available,
	}
	if err := s.repo.CreateAmbulance(ctx, a); err != nil {
		return nil, fmt.Errorf("create ambulance: %w", err)
	}
	return s.repo.GetAmbulance(ctx, a.ID)
}

func (s *Service) GetAmbulance(ctx context.Context, id uuid.UUID) (*Ambulance, error) {
	return s.repo.GetAmbulance(ctx, id)
}

func (s *Service) UpdateAmbulance(ctx context.Context, id uuid.UUID, in AmbulanceInput) (*Ambulance, error) {
	in.VehicleNumber = strings.TrimSpace(in.VehicleNumber)
	if in.VehicleNumber == "" {
		return nil, fmt.Errorf("%w: vehicle number required", ErrInvalidInput)
	}
	return s.repo.UpdateAmbulance(ctx, &Ambulance{
		ID: id, VehicleNumber: in.VehicleNumber, Phone: in.Phone,
		HospitalID: in.HospitalID, Available: in.Available,
	})
}

func (s *Service) DeleteAmbulance(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAmbulance(ctx, id)
}

func (s *Service) ListAmbulances(ctx context.Context, limit, offset int) ([]Ambulance, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListAmbulances(ctx, limit, offset)
}
