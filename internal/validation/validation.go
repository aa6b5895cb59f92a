package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	nikPattern   = regexp.MustCompile(`^\d{16}$`)
	phonePattern = regexp.MustCompile(`^08\d{8,11}$`)
)

// Errors: pesan per field, formatnya sama dengan respon 422 Laravel.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// First returns the first message in field-declaration order.
func (e Errors) First(order ...string) string {
	for _, f := range order {
		if msgs := e[f]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	for _, msgs := range e {
		if len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// error di sini cuma kalau tag kosong / func nil
	_ = v.RegisterValidation("nik", func(fl validator.FieldLevel) bool {
		return nikPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone_id", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct validates s and returns nil when every rule passes.
func (val *Validator) Struct(s any) Errors {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"_": {err.Error()}}
	}
	out := Errors{}
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "nik":
		return fmt.Sprintf("The %s field must be 16 digits.", field)
	case "phone_id":
		return fmt.Sprintf("The %s field format is invalid.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
