package directory

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a directory entry. UserID links the entry to a login account
// with the doctor role, when one exists; booking ownership checks use it.
// OpenHour/CloseHour bound bookable hours as [OpenHour, CloseHour).
type Doctor struct {
	ID             uuid.UUID
	UserID         *uuid.UUID
	Name           string
	Specialization string
	HospitalID     *uuid.UUID
	OpenHour       int
	CloseHour      int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Hospital struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Clinic struct {
	ID         uuid.UUID
	Name       string
	Address    string
	Phone      string
	HospitalID *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Pharmacy struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Phone     string
	OpenHour  int
	CloseHour int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Lab struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Phone     string
	Services  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Ambulance struct {
	ID            uuid.UUID
	VehicleNumber string
	Phone         string
	HospitalID    *uuid.UUID
	Available     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
