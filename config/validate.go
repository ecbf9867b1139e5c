package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/geoclass"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError is one failed constraint.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// ValidationError lists every failed constraint of a Config. It unwraps to
// geoclass.ErrConfig.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "config: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return geoclass.ErrConfig }

// Validate checks the struct constraints and the constraints between fields.
func (c *Config) Validate() error {
	var fields []FieldError

	if err := Validator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", geoclass.ErrConfig, err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Namespace(),
				Tag:     fe.Tag(),
				Param:   fe.Param(),
				Message: message(fe),
			})
		}
	}

	if c.Model.Prior == "home" && c.Inputs.TestFormat != "test-home" {
		fields = append(fields, FieldError{
			Field:   "Config.Inputs.TestFormat",
			Tag:     "prior",
			Param:   "home",
			Message: "inputs.test_format must be test-home for the home prior",
		})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func message(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
