package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, external_id, name, created_at, energy, level`

func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = ?`, externalID)
	return scanUser(row)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetOrCreate returns the user for externalID, inserting a fresh row with
// default counters (energy=50, level=1) on first sight.
func (r *UserRepo) GetOrCreate(ctx context.Context, externalID string, name *string) (*User, error) {
	u, err := r.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO users (external_id, name) VALUES (?, ?)`, externalID, name); err != nil {
		return nil, fmt.Errorf("user insert: %w", err)
	}
	return r.GetByExternalID(ctx, externalID)
}

func (r *UserRepo) Update(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, energy = ?, level = ?
		WHERE id = ?
	`, u.Name, u.Energy, u.Level, u.ID)
	if err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func scanUser(row scanner) (*User, error) {
	var (
		u    User
		name sql.NullString
	)
	if err := row.Scan(&u.ID, &u.ExternalID, &name, &u.CreatedAt, &u.Energy, &u.Level); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	if name.Valid {
		v := name.String
		u.Name = &v
	}
	return &u, nil
}
