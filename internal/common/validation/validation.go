package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Failure names the first rule a form broke, e.g. {"password", "required"}.
type Failure struct {
	Field string
	Tag   string
}

func (f Failure) Key() string {
	return f.Field + "." + f.Tag
}

// Validator checks input structs with `validate` tags. Field names are taken
// from the `form` tag so failures read like the submitted form.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// First reports the first failing field in declaration order; ok is false
// when s is valid.
func (v *Validator) First(s any) (Failure, bool) {
	err := v.validate.Struct(s)
	if err == nil {
		return Failure{}, false
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Failure{Tag: "invalid"}, true
	}
	return Failure{Field: verrs[0].Field(), Tag: verrs[0].Tag()}, true
}
