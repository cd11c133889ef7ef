package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = `id, user_id, title, description, color, created_at, updated_at`

type ProjectInsert struct {
	UserID      int64
	Title       string
	Description *string
	Color       string
}

// SeedColumn describes one of the default columns created with a project.
type SeedColumn struct {
	Title    string
	Color    string
	Position int
}

// InsertWithColumns creates the project and its seeded columns in one
// transaction.
func (r *ProjectRepo) InsertWithColumns(ctx context.Context, in ProjectInsert, seed []SeedColumn) (int64, error) {
	var projectID int64
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO projects (user_id, title, description, color, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, in.UserID, in.Title, in.Description, in.Color, now, now)
		if err != nil {
			return fmt.Errorf("project insert: %w", err)
		}
		projectID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("project last insert id: %w", err)
		}
		for _, col := range seed {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO board_columns (project_id, title, position, color, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, projectID, col.Title, col.Position, col.Color, now); err != nil {
				return fmt.Errorf("seed column insert: %w", err)
			}
		}
		return nil
	})
	return projectID, err
}

func (r *ProjectRepo) GetForUser(ctx context.Context, id, userID int64) (*Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE id = ? AND user_id = ?
	`, id, userID)
	return scanProject(row)
}

func (r *ProjectRepo) ListByUser(ctx context.Context, userID int64) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("project list: %w", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("project rows: %w", err)
	}
	return out, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *Project) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET title = ?, description = ?, color = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Description, p.Color, time.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("project update: %w", err)
	}
	return nil
}

// Delete removes the project with its columns and cards. Returns false when
// the project does not exist or belongs to someone else.
func (r *ProjectRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	deleted := false
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE id = ? AND user_id = ?`, id, userID)
		var got int64
		if err := row.Scan(&got); err != nil {
			if err == sql.ErrNoRows {
				return nil
			}
			return fmt.Errorf("project lookup: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM board_cards WHERE column_id IN (SELECT id FROM board_columns WHERE project_id = ?)
		`, id); err != nil {
			return fmt.Errorf("project delete cards: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM board_columns WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("project delete columns: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
			return fmt.Errorf("project delete: %w", err)
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func scanProject(row scanner) (*Project, error) {
	var (
		p           Project
		description sql.NullString
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &description, &p.Color, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("project scan: %w", err)
	}
	if description.Valid {
		v := description.String
		p.Description = &v
	}
	return &p, nil
}
