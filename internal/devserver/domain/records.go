package domain

import "time"

type Patient struct {
	ID             int64
	Name           string
	Email          string
	PhoneNumber    string
	Address        string
	DateOfBirth    string
	BloodGroup     string
	MedicalHistory string
	CreatedBy      int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Doctor struct {
	ID              int64
	Name            string
	Email           string
	PhoneNumber     string
	Specialization  string
	Qualification   string
	ExperienceYears int
	LicenseNumber   string
	ClinicAddress   string
	ConsultationFee float64
	IsAvailable     bool
	CreatedAt       time.Time
}

// Mapping assigns a doctor to a patient. A patient/doctor pair appears at
// most once.
type Mapping struct {
	ID           int64
	PatientID    int64
	DoctorID     int64
	Notes        string
	IsActive     bool
	AssignedDate time.Time
}
