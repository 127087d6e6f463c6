package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared across requests; the validator caches struct
// metadata internally and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("eventdate", validateEventDate)
	return v
}

// ValidateStruct runs validator tags on a request DTO and flattens the
// first failure into a single human-readable error, which handlers
// return verbatim in the JSON error field.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	ve := verrs[0]
	field := strings.ToLower(ve.Field())
	switch ve.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "email":
		return fmt.Errorf("%s must be a valid email", field)
	case "url":
		return fmt.Errorf("%s must be a valid url", field)
	case "min":
		return fmt.Errorf("%s is too short", field)
	case "max":
		return fmt.Errorf("%s is too long", field)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, ve.Param())
	case "eventdate":
		return fmt.Errorf("%s must be formatted as YYYY-MM-DD", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

// validateEventDate accepts dates in the YYYY-MM-DD layout used by the
// events.event_date column.
func validateEventDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
