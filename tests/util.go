package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/prct/registrar/core"
	"github.com/prct/registrar/core/staff"
)

// NewValidator returns a fully initialized validator and translator, the
// same way the entrypoints wire them.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	staff.InitValidators(validate, translator)
	return validate, translator
}

// CreateStaff inserts an account straight through the repository, bypassing
// service-level validation.
func CreateStaff(
	t *testing.T,
	repo staff.Repository,
	name, uname, pwd string,
	isActive bool,
	createdAt ...time.Time,
) staff.Staff {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	stf := staff.Staff{
		Name:      name,
		Username:  uname,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := stf.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStaff() failed: %v", err)
		}
	}
	stf, err := repo.CreateStaff(context.Background(), stf)
	if err != nil {
		t.Fatalf("CreateStaff() failed: %v", err)
	}
	return stf
}
