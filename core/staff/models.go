package staff

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Staff is a registration-office account. Secrets are stored as bcrypt
// hashes; the plaintext only ever lives in the login request.
type Staff struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Name         string    `db:"name" json:"name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"` // UTC
	LastLogin    time.Time `db:"last_login" json:"last_login"` // UTC
}

func (s *Staff) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Staff) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewStaff is the account-provisioning input (admin CLI only; there is no
// self-registration).
type NewStaff struct {
	Name     string `json:"name"`
	Username string `json:"username" validate:"required,alphanum_"`
	Password string `json:"password" validate:"required"`
}

func (ns *NewStaff) Clean() {
	ns.Name = strings.TrimSpace(ns.Name)
	ns.Username = strings.ToLower(strings.TrimSpace(ns.Username))
}
