package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// patientCodeRx matches trial patient codes: an uppercase letter prefix
// followed by a zero-padded ordinal, e.g. P001, T042.
var patientCodeRx = regexp.MustCompile(`^[A-Z]{1,3}[0-9]{3,6}$`)

// IsPatientCode reports whether s is a well-formed patient code.
func IsPatientCode(s string) bool {
	return patientCodeRx.MatchString(s)
}

// RegisterValidations installs custom binding rules on gin's validator
// engine. Must be called once at startup, before routes are served.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	return v.RegisterValidation("patient_code", func(fl validator.FieldLevel) bool {
		return IsPatientCode(fl.Field().String())
	})
}
