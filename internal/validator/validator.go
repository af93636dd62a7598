package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tuition-tracker/tracker-service/internal/models"
)

// Validator wraps go-playground/validator with the tracker's custom rules
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// New creates a validator with all custom rules registered
func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.registerRules()
	return v
}

// Validate validates a struct and returns nil when it is valid
func (v *Validator) Validate(s interface{}) ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ToValidationErrors converts go-playground errors into ValidationErrors
func ToValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
	}

	result := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		result = append(result, ValidationError{
			Field:   fieldPath(fe),
			Message: messageFor(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return result
}

func (v *Validator) registerRules() {
	// Calendar date in YYYY-MM-DD form
	v.validate.RegisterValidation("ymd_date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	// Homework due dates accept a calendar date or an RFC 3339 timestamp
	v.validate.RegisterValidation("due_date", func(fl validator.FieldLevel) bool {
		_, err := ParseDueDate(fl.Field().String())
		return err == nil
	})

	v.validate.RegisterValidation("submission_status", func(fl validator.FieldLevel) bool {
		return models.SubmissionStatus(fl.Field().String()).IsValid()
	})

	// Empty means "unmark" and is accepted
	v.validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		status := fl.Field().String()
		return status == "" || models.AttendanceStatus(status).IsValid()
	})

	v.validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
}

// ParseDate parses a strict YYYY-MM-DD calendar date
func ParseDate(value string) (time.Time, error) {
	return time.Parse(models.DateLayout, value)
}

// ParseDueDate parses a due date given either as YYYY-MM-DD or RFC 3339
func ParseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(models.DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q", value)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "ymd_date":
		return "must be a date in YYYY-MM-DD format"
	case "due_date":
		return "must be a date in YYYY-MM-DD or RFC 3339 format"
	case "submission_status":
		return "must be one of: pending, done, not done"
	case "attendance_status":
		return "must be present, absent or empty"
	case "username":
		return "may only contain letters, digits, '.', '_' and '-'"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", fe.Tag())
	}
}
