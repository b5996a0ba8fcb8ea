// Package validation checks request structs and reports failing fields by their JSON names.
package validation

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"

	"github.com/festy23/realty_ops/internal/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// halfstep accepts multiples of 0.5.
	_ = v.RegisterValidation("halfstep", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			doubled := f.Float() * 2
			return doubled == math.Trunc(doubled)
		default:
			return false
		}
	})

	// mailbox runs the checkmail format check.
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(fl.Field().String()) == nil
	})

	return v
}

// Struct validates s and returns an apperror.ValidationError listing the failing fields.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	seen := make(map[string]struct{}, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
	}

	return apperror.NewValidationError(fields...)
}

// Email reports whether address passes the checkmail format check.
func Email(address string) bool {
	return checkmail.ValidateFormat(address) == nil
}
