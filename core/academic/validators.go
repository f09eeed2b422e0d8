package academic

import (
	"github.com/go-playground/validator/v10"
)

// Validate applies the offering write-path rules: partial term, classroom,
// subject key (both halves) and teacher are all mandatory.
func (off NewOffering) Validate(validate *validator.Validate) error {
	return validate.Struct(off)
}
