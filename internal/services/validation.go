package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	maxTitleLen  = 512
	maxAuthorLen = 256
	maxGenreLen  = 64
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

func (s *BookService) validateInput(in BookInput) error {
	return toValidationError(s.validate.Struct(in), "")
}

func (s *BookService) validatePatch(p BookPatch) error {
	checks := []struct {
		field string
		value *string
		tag   string
	}{
		{"title", p.Title, fmt.Sprintf("notblank,max=%d", maxTitleLen)},
		{"author", p.Author, fmt.Sprintf("max=%d", maxAuthorLen)},
		{"genre", p.Genre, fmt.Sprintf("max=%d", maxGenreLen)},
	}

	var fields []FieldError
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if err := toValidationError(s.validate.Var(*c.value, c.tag), c.field); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return err
			}
			fields = append(fields, verr.Fields...)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// toValidationError converts validator output. field names the value for
// single-variable checks, which carry no field name of their own.
func toValidationError(err error, field string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if field != "" {
			name = field
		}
		fields = append(fields, FieldError{Field: name, Message: describe(fe)})
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
