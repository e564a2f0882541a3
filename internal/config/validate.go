package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	structValid  *validator.Validate
)

// validatorInstance returns the shared validator. Field names in errors
// are the TOML keys.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		structValid = validator.New()
		structValid.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return structValid
}

// FieldError describes one invalid config value.
type FieldError struct {
	Field   string
	Value   any
	Problem string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s (got %v)", e.Field, e.Problem, e.Value)
}

// Validate checks the config values. The returned error joins one
// FieldError per invalid field.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, FieldError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Problem: describe(fe),
		})
	}
	return errors.Join(errs...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag()
	}
}
