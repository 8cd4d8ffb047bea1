package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/clinic/internal/devserver/domain"
	"github.com/aussiebroadwan/clinic/internal/devserver/service"
	"github.com/aussiebroadwan/clinic/pkg/cryptox"
)

// seedAdmin creates the admin account. A generated password is logged once
// since nothing else records it.
func (app *Application) seedAdmin(ctx context.Context) error {
	password := app.cfg.AdminPassword
	generated := password == ""
	if generated {
		var err error
		if password, err = cryptox.GeneratePassword(); err != nil {
			return err
		}
	}

	_, err := app.authService.CreateUser(ctx, "Administrator", app.cfg.AdminEmail, password, domain.RoleAdmin)
	if err != nil && !errors.Is(err, service.ErrEmailTaken) {
		return err
	}

	if generated {
		app.logger.Warn("generated admin password", "email", app.cfg.AdminEmail, "password", password)
	}
	return nil
}

var (
	seedDoctors = []domain.Doctor{
		{Name: "Dr. Meera Iyer", Email: "meera.iyer@clinic.local", PhoneNumber: "+14155550101", Specialization: "Cardiologist", Qualification: "MD, DM Cardiology", ExperienceYears: 14, LicenseNumber: "MED-1001", ClinicAddress: "12 Harbour St, Sydney", ConsultationFee: 150, IsAvailable: true},
		{Name: "Dr. Tom Walsh", Email: "tom.walsh@clinic.local", PhoneNumber: "+14155550102", Specialization: "Pediatrician", Qualification: "MBBS, FRACP", ExperienceYears: 8, LicenseNumber: "MED-1002", ClinicAddress: "4 King St, Sydney", ConsultationFee: 90, IsAvailable: true},
		{Name: "Dr. Ana Costa", Email: "ana.costa@clinic.local", PhoneNumber: "+14155550103", Specialization: "Dermatologist", Qualification: "MD Dermatology", ExperienceYears: 11, LicenseNumber: "MED-1003", ClinicAddress: "88 George St, Sydney", ConsultationFee: 120, IsAvailable: false},
		{Name: "Dr. Ken Sato", Email: "ken.sato@clinic.local", PhoneNumber: "+14155550104", Specialization: "General Physician", Qualification: "MBBS", ExperienceYears: 5, LicenseNumber: "MED-1004", ClinicAddress: "4 King St, Sydney", ConsultationFee: 60, IsAvailable: true},
	}

	seedPatients = []domain.Patient{
		{Name: "John Carter", Email: "john.carter@example.com", PhoneNumber: "+14155550201", DateOfBirth: "1984-03-12", BloodGroup: "O+", Address: "1 Pitt St, Sydney", MedicalHistory: "Hypertension"},
		{Name: "Priya Nair", Email: "priya.nair@example.com", PhoneNumber: "+14155550202", DateOfBirth: "1991-07-30", BloodGroup: "A+"},
		{Name: "Liam O'Brien", Email: "liam.obrien@example.com", DateOfBirth: "2015-01-05", BloodGroup: "O+", MedicalHistory: "Asthma"},
		{Name: "Sofia Rossi", Email: "sofia.rossi@example.com", PhoneNumber: "+14155550204", BloodGroup: "AB-"},
	}

	// Indexes into seedPatients and seedDoctors
	seedMappings = [][2]int{{0, 0}, {0, 3}, {2, 1}, {3, 2}}
)

func (app *Application) seedRecords(ctx context.Context) error {
	doctors := make([]domain.Doctor, 0, len(seedDoctors))
	for _, d := range seedDoctors {
		created, err := app.db.Doctors().CreateDoctor(ctx, d)
		if err != nil {
			return fmt.Errorf("doctor %q: %w", d.Name, err)
		}
		doctors = append(doctors, created)
	}

	patients := make([]domain.Patient, 0, len(seedPatients))
	for _, p := range seedPatients {
		created, err := app.db.Patients().CreatePatient(ctx, p)
		if err != nil {
			return fmt.Errorf("patient %q: %w", p.Name, err)
		}
		patients = append(patients, created)
	}

	for _, pair := range seedMappings {
		_, err := app.db.Mappings().CreateMapping(ctx, domain.Mapping{
			PatientID: patients[pair[0]].ID,
			DoctorID:  doctors[pair[1]].ID,
			IsActive:  true,
		})
		if err != nil {
			return fmt.Errorf("mapping: %w", err)
		}
	}

	app.logger.Info("seed data loaded",
		"patients", len(patients),
		"doctors", len(doctors),
		"mappings", len(seedMappings),
	)
	return nil
}
