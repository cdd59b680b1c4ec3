package validator

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var hhmm = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmm.MatchString(fl.Field().String())
	})
}

// Validate struct fields. Returns nil when v is valid, otherwise field -> failed tag.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// IsHHMM reports whether s is a valid 24h "HH:MM" time.
func IsHHMM(s string) bool { return hhmm.MatchString(s) }
