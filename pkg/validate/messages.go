package validate

import "fmt"

const phoneMessage = "Invalid phone number format (e.g., +1234567890)"

// fieldMessages holds wording for specific field/tag pairs.
var fieldMessages = map[string]string{
	"name.required": "Name is required",
	"name.min":      "Name must be at least 2 characters",
	"name.max":      "Name must not exceed 255 characters",

	"email.required": "Email is required",
	"email.email":    "Invalid email address",

	"phone_number.required": phoneMessage,
	"phone_number.phone":    phoneMessage,

	"address.max":             "Address must not exceed 500 characters",
	"date_of_birth.isodate":   "Date of birth must be a date (YYYY-MM-DD)",
	"blood_group.blood_group": "Blood group must be one of A+, A-, B+, B-, O+, O-, AB+, AB-",
	"medical_history.max":     "Medical history must not exceed 2000 characters",

	"specialization.required": "Specialization is required",
	"qualification.required":  "Qualification is required",
	"qualification.max":       "Qualification must not exceed 255 characters",
	"experience_years.min":    "Experience cannot be negative",
	"experience_years.max":    "Experience must be realistic",
	"license_number.required": "License number is required",
	"license_number.max":      "License number must not exceed 50 characters",
	"clinic_address.required": "Clinic address is required",
	"clinic_address.max":      "Clinic address must not exceed 500 characters",
	"consultation_fee.min":    "Consultation fee cannot be negative",

	"patient.required": "Please select a patient",
	"patient.gt":       "Please select a patient",
	"doctor.required":  "Please select a doctor",
	"doctor.gt":        "Please select a doctor",
	"notes.max":        "Notes must not exceed 500 characters",

	"password.required":  "Password is required",
	"password.min":       "Password must be at least 8 characters",
	"password2.required": "Please confirm your password",
	"password2.eqfield":  "Passwords do not match",
}

func message(field, tag, param string) string {
	if m, ok := fieldMessages[field+"."+tag]; ok {
		return m
	}

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must not exceed %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
