// Package validate runs form validation for clinic records before they are
// sent to the API. Rules are expressed as `validate` struct tags; failures are
// reported per JSON field with the console's wording.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid matches every *ValidationError via errors.Is.
var ErrInvalid = errors.New("validation failed")

// BloodGroups lists the accepted blood_group values.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}

// DateLayout is the wire format of calendar dates such as date_of_birth.
const DateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

// Validator wraps the go-playground validator with the clinic rules.
type Validator struct {
	validator *validator.Validate
}

func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	registerCustomValidators(validate)

	// Use JSON field names for validation error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validator: validate}
}

// Struct validates v and returns a *ValidationError listing every failing
// field, or nil.
func (v *Validator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return fmt.Errorf("validate: %w", err)
}

var (
	defaultOnce sync.Once
	defaultV    *Validator
)

// Struct validates s with a shared Validator.
func Struct(s any) error {
	defaultOnce.Do(func() { defaultV = New() })
	return defaultV.Struct(s)
}

// ValidationError maps JSON field names to a human readable message.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return "validation failed: " + strings.Join(messages, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Field returns the message for field, or "".
func (e *ValidationError) Field(field string) string { return e.Errors[field] }

// NewValidationError converts validator errors, keeping the first failure
// per field.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, err.Tag(), err.Param())
	}
	return &ValidationError{Errors: out}
}

func registerCustomValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	_ = validate.RegisterValidation("blood_group", func(fl validator.FieldLevel) bool {
		return slices.Contains(BloodGroups, fl.Field().String())
	})

	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
}

// IsValidPhone reports whether s is an accepted phone number.
func IsValidPhone(s string) bool { return phonePattern.MatchString(s) }
