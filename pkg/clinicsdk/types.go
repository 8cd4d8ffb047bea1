package clinicsdk

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aussiebroadwan/clinic/pkg/session"
)

// Specializations offered when creating a doctor.
var Specializations = []string{
	"Cardiologist",
	"Dermatologist",
	"Neurologist",
	"Orthopedic",
	"Pediatrician",
	"Psychiatrist",
	"Radiologist",
	"General Physician",
	"Surgeon",
	"Dentist",
}

// ============================================================================
// Patients
// ============================================================================

type Patient struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Address        string    `json:"address,omitempty"`
	DateOfBirth    string    `json:"date_of_birth,omitempty"`
	BloodGroup     string    `json:"blood_group,omitempty"`
	MedicalHistory string    `json:"medical_history,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PatientInput is the body of create and full update.
type PatientInput struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	Address        string `json:"address,omitempty" validate:"max=500"`
	DateOfBirth    string `json:"date_of_birth,omitempty" validate:"omitempty,isodate"`
	BloodGroup     string `json:"blood_group,omitempty" validate:"omitempty,blood_group"`
	MedicalHistory string `json:"medical_history,omitempty" validate:"max=2000"`
}

// PatientPatch is the body of a partial update; nil fields are left alone.
type PatientPatch struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber    *string `json:"phone_number,omitempty" validate:"omitempty,phone"`
	Address        *string `json:"address,omitempty" validate:"omitempty,max=500"`
	DateOfBirth    *string `json:"date_of_birth,omitempty" validate:"omitempty,isodate"`
	BloodGroup     *string `json:"blood_group,omitempty" validate:"omitempty,blood_group"`
	MedicalHistory *string `json:"medical_history,omitempty" validate:"omitempty,max=2000"`
}

// ============================================================================
// Doctors
// ============================================================================

type Doctor struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phone_number"`
	Specialization  string    `json:"specialization"`
	Qualification   string    `json:"qualification"`
	ExperienceYears int       `json:"experience_years"`
	LicenseNumber   string    `json:"license_number"`
	ClinicAddress   string    `json:"clinic_address"`
	ConsultationFee Money     `json:"consultation_fee"`
	IsAvailable     bool      `json:"is_available"`
	CreatedAt       time.Time `json:"created_at"`
}

// DoctorInput is the body of create and update.
type DoctorInput struct {
	Name            string  `json:"name" validate:"required,min=2,max=255"`
	Email           string  `json:"email" validate:"required,email"`
	PhoneNumber     string  `json:"phone_number" validate:"required,phone"`
	Specialization  string  `json:"specialization" validate:"required"`
	Qualification   string  `json:"qualification" validate:"required,max=255"`
	ExperienceYears int     `json:"experience_years" validate:"min=0,max=70"`
	LicenseNumber   string  `json:"license_number" validate:"required,max=50"`
	ClinicAddress   string  `json:"clinic_address" validate:"required,max=500"`
	ConsultationFee float64 `json:"consultation_fee" validate:"min=0"`
	IsAvailable     bool    `json:"is_available"`
}

// Money is a decimal amount. The API sends decimals as strings ("500.00");
// numbers are accepted too.
type Money float64

func (m *Money) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*m = Money(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("money: %w", err)
	}
	if s == "" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money(f)
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(float64(m), 'f', 2, 64))
}

// ============================================================================
// Mappings
// ============================================================================

// Mapping assigns a doctor to a patient.
type Mapping struct {
	ID                   int64     `json:"id"`
	Patient              int64     `json:"patient"`
	Doctor               int64     `json:"doctor"`
	PatientName          string    `json:"patient_name"`
	DoctorName           string    `json:"doctor_name"`
	DoctorSpecialization string    `json:"doctor_specialization"`
	Notes                string    `json:"notes,omitempty"`
	IsActive             bool      `json:"is_active"`
	AssignedDate         time.Time `json:"assigned_date"`
}

type MappingInput struct {
	Patient  int64  `json:"patient" validate:"required,gt=0"`
	Doctor   int64  `json:"doctor" validate:"required,gt=0"`
	Notes    string `json:"notes,omitempty" validate:"max=500"`
	IsActive bool   `json:"is_active"`
}

// ============================================================================
// Auth
// ============================================================================

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    *session.User `json:"user"`
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type RegisterResponse struct {
	Message string        `json:"message,omitempty"`
	User    *session.User `json:"user,omitempty"`
}

// ============================================================================
// Lists
// ============================================================================

// page is the paginated list envelope.
type page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
	Results  []T    `json:"results"`
}

// decodeList accepts either a bare array or a paginated envelope.
func decodeList[T any](resp *Response) ([]T, error) {
	var items []T
	if err := json.Unmarshal(resp.Body, &items); err == nil {
		return items, nil
	}

	var p page[T]
	if err := json.Unmarshal(resp.Body, &p); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if p.Results == nil {
		return []T{}, nil
	}
	return p.Results, nil
}
