package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. It exposes one sub-repository per
// record type; all of them share the same underlying data.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Patients() Patients
	Doctors() Doctors
	Mappings() Mappings

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the store is usable.
	Ping(ctx context.Context) error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser assigns the ID and returns the stored user. A duplicate email
	// yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
}

type RefreshTokens interface {
	SaveRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshToken(ctx context.Context, fingerprint string) (domain.RefreshToken, error)
}

type Patients interface {
	ListPatients(ctx context.Context) ([]domain.Patient, error)
	GetPatient(ctx context.Context, id int64) (domain.Patient, error)
	CreatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error)
	UpdatePatient(ctx context.Context, p domain.Patient) (domain.Patient, error)

	// DeletePatient also removes the patient's mappings.
	DeletePatient(ctx context.Context, id int64) error
}

type Doctors interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	GetDoctor(ctx context.Context, id int64) (domain.Doctor, error)

	// CreateDoctor yields ErrAlreadyExists for a reused license number.
	CreateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error)
	UpdateDoctor(ctx context.Context, d domain.Doctor) (domain.Doctor, error)

	// DeleteDoctor also removes the doctor's mappings.
	DeleteDoctor(ctx context.Context, id int64) error
}

type Mappings interface {
	ListMappings(ctx context.Context) ([]domain.Mapping, error)
	ListMappingsByPatient(ctx context.Context, patientID int64) ([]domain.Mapping, error)

	// CreateMapping yields ErrNotFound when either side is missing and
	// ErrAlreadyExists when the pair is already assigned.
	CreateMapping(ctx context.Context, m domain.Mapping) (domain.Mapping, error)
	DeleteMapping(ctx context.Context, id int64) error
}
