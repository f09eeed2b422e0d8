package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/prct/registrar/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to staff.ErrNotFound
func (repo staffRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return staff.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo staffRepository) CreateStaff(ctx context.Context, stf staff.Staff) (staff.Staff, error) {
	stf.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO staff (id, username, name, is_active, password_hash, created_at, updated_at, last_login)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		stf.ID, stf.Username, stf.Name, stf.IsActive, stf.PasswordHash, stf.CreatedAt, stf.UpdatedAt, stf.LastLogin)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "inserting staff")
	}
	return stf, nil
}

func (repo staffRepository) GetStaffByID(ctx context.Context, id string) (staff.Staff, error) {
	var stf staff.Staff
	err := repo.db.GetContext(ctx, &stf,
		`SELECT id, username, name, is_active, password_hash, created_at, updated_at, last_login
		 FROM staff WHERE id = $1`, id)
	if err != nil {
		return staff.Staff{}, repo.trapNoRowsErr(err, "querying staff by id")
	}
	return stf, nil
}

func (repo staffRepository) GetStaffByUsername(ctx context.Context, username string) (staff.Staff, error) {
	var stf staff.Staff
	err := repo.db.GetContext(ctx, &stf,
		`SELECT id, username, name, is_active, password_hash, created_at, updated_at, last_login
		 FROM staff WHERE username = $1`, username)
	if err != nil {
		return staff.Staff{}, repo.trapNoRowsErr(err, "querying staff by username")
	}
	return stf, nil
}

func (repo staffRepository) UpdateStaff(ctx context.Context, stf staff.Staff) (staff.Staff, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE staff
		 SET name = $2, is_active = $3, password_hash = $4, updated_at = $5, last_login = $6
		 WHERE id = $1`,
		stf.ID, stf.Name, stf.IsActive, stf.PasswordHash, stf.UpdatedAt, stf.LastLogin)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "updating staff")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return staff.Staff{}, staff.ErrNotFound
	}
	return stf, nil
}
