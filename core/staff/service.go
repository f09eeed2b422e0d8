package staff

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/prct/registrar/core"
)

var (
	ErrNotFound       = stderrors.New("staff not found")
	ErrUsernameExists = stderrors.New("an account with this username already exists")
)

type (
	Repository interface {
		CreateStaff(ctx context.Context, stf Staff) (Staff, error)
		GetStaffByID(ctx context.Context, id string) (Staff, error)
		GetStaffByUsername(ctx context.Context, username string) (Staff, error)
		UpdateStaff(ctx context.Context, stf Staff) (Staff, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Create provisions a new account with a hashed password. The username must
// not be taken.
func (svc *Service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	ns.Clean()
	if err := ns.Validate(svc.validate); err != nil {
		return Staff{}, err
	}

	if _, err := svc.repo.GetStaffByUsername(ctx, ns.Username); err == nil {
		return Staff{}, core.NewValidationError(ErrUsernameExists,
			core.FieldError{Field: "username", Error: ErrUsernameExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Staff{}, errors.Wrap(err, "checking username uniqueness")
	}

	now := time.Now().UTC()
	stf := Staff{
		Name:      ns.Name,
		Username:  ns.Username,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := stf.SetPassword(ns.Password); err != nil {
		return Staff{}, errors.Wrap(err, "hashing password")
	}
	stf, err := svc.repo.CreateStaff(ctx, stf)
	return stf, errors.Wrap(err, "creating staff")
}

func (svc *Service) GetByID(ctx context.Context, id string) (Staff, error) {
	return svc.repo.GetStaffByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (Staff, error) {
	return svc.repo.GetStaffByUsername(ctx, core.CleanString(username, true /* lower */))
}

// SetLastLogin stamps a successful authentication.
func (svc *Service) SetLastLogin(ctx context.Context, stf Staff) (Staff, error) {
	stf.LastLogin = time.Now().UTC()
	stf, err := svc.repo.UpdateStaff(ctx, stf)
	return stf, errors.Wrap(err, "setting last login")
}

// ResetPassword replaces the account's password hash.
func (svc *Service) ResetPassword(ctx context.Context, stf Staff, pwd string) error {
	pc := PasswordChange{Name: stf.Name, Username: stf.Username, Password: pwd}
	if err := pc.Validate(svc.validate); err != nil {
		return err
	}
	if err := stf.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	stf.UpdatedAt = time.Now().UTC()
	_, err := svc.repo.UpdateStaff(ctx, stf)
	return errors.Wrap(err, "updating staff")
}
