package validate_test

import (
	"errors"
	"testing"

	"github.com/aussiebroadwan/clinic/pkg/validate"
	"github.com/stretchr/testify/require"
)

type patientForm struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,isodate"`
	BloodGroup  string `json:"blood_group" validate:"omitempty,blood_group"`
}

type registerForm struct {
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

func TestStructAcceptsValidInput(t *testing.T) {
	t.Parallel()

	err := validate.Struct(patientForm{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		PhoneNumber: "+12345678901",
		DateOfBirth: "1990-04-01",
		BloodGroup:  "AB-",
	})
	require.NoError(t, err)

	// Optional fields may be blank
	require.NoError(t, validate.Struct(patientForm{Name: "Jo", Email: "jo@example.com"}))
}

func TestStructReportsFieldMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		form  any
		field string
		msg   string
	}{
		{"short name", patientForm{Name: "J", Email: "j@example.com"}, "name", "Name must be at least 2 characters"},
		{"missing email", patientForm{Name: "Jane"}, "email", "Email is required"},
		{"bad email", patientForm{Name: "Jane", Email: "nope"}, "email", "Invalid email address"},
		{"bad phone", patientForm{Name: "Jane", Email: "j@example.com", PhoneNumber: "0123"}, "phone_number", "Invalid phone number format (e.g., +1234567890)"},
		{"bad date", patientForm{Name: "Jane", Email: "j@example.com", DateOfBirth: "01/04/1990"}, "date_of_birth", "Date of birth must be a date (YYYY-MM-DD)"},
		{"bad blood group", patientForm{Name: "Jane", Email: "j@example.com", BloodGroup: "C+"}, "blood_group", "Blood group must be one of A+, A-, B+, B-, O+, O-, AB+, AB-"},
		{"short password", registerForm{Password: "short", Password2: "short"}, "password", "Password must be at least 8 characters"},
		{"mismatch", registerForm{Password: "longenough", Password2: "different!"}, "password2", "Passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validate.Struct(tt.form)
			require.Error(t, err)
			require.ErrorIs(t, err, validate.ErrInvalid)

			var verr *validate.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.msg, verr.Field(tt.field))
		})
	}
}

func TestValidationErrorIsDeterministic(t *testing.T) {
	t.Parallel()

	err := &validate.ValidationError{Errors: map[string]string{"name": "x", "email": "y"}}
	require.Equal(t, "validation failed: email: y, name: x", err.Error())
}

func TestIsValidPhone(t *testing.T) {
	t.Parallel()

	require.True(t, validate.IsValidPhone("1234567890"))
	require.True(t, validate.IsValidPhone("+441234567890"))
	require.False(t, validate.IsValidPhone("+0123456789"))
	require.False(t, validate.IsValidPhone("12345"))
}
