package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type ColumnRepo struct {
	db *sql.DB
}

func NewColumnRepo(db *sql.DB) *ColumnRepo {
	return &ColumnRepo{db: db}
}

const columnColumns = `bc.id, bc.project_id, bc.title, bc.position, bc.color, bc.created_at`

type ColumnInsert struct {
	ProjectID int64
	Title     string
	Position  int
	Color     string
}

func (r *ColumnRepo) Insert(ctx context.Context, in ColumnInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO board_columns (project_id, title, position, color, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, in.ProjectID, in.Title, in.Position, in.Color, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("column insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("column last insert id: %w", err)
	}
	return id, nil
}

func (r *ColumnRepo) Get(ctx context.Context, id int64) (*BoardColumn, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+columnColumns+` FROM board_columns bc WHERE bc.id = ?
	`, id)
	return scanColumn(row)
}

// GetForUser resolves ownership through the column's project. There is no
// denormalized owner on columns; the join is the authorization path.
func (r *ColumnRepo) GetForUser(ctx context.Context, id, userID int64) (*BoardColumn, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+columnColumns+`
		FROM board_columns bc
		JOIN projects p ON p.id = bc.project_id
		WHERE bc.id = ? AND p.user_id = ?
	`, id, userID)
	return scanColumn(row)
}

func (r *ColumnRepo) ListByProject(ctx context.Context, projectID int64) ([]BoardColumn, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+columnColumns+` FROM board_columns bc
		WHERE bc.project_id = ?
		ORDER BY bc.position ASC, bc.id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("column list: %w", err)
	}
	defer rows.Close()

	var out []BoardColumn
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("column rows: %w", err)
	}
	return out, nil
}

// MaxPosition returns the largest position in the project, 0 when the project
// has no columns.
func (r *ColumnRepo) MaxPosition(ctx context.Context, projectID int64) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) FROM board_columns WHERE project_id = ?
	`, projectID)
	var maxPos int
	if err := row.Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("column max position: %w", err)
	}
	return maxPos, nil
}

func (r *ColumnRepo) Update(ctx context.Context, c *BoardColumn) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE board_columns SET title = ?, color = ?, position = ? WHERE id = ?
	`, c.Title, c.Color, c.Position, c.ID)
	if err != nil {
		return fmt.Errorf("column update: %w", err)
	}
	return nil
}

// SetPosition updates the column position only when the column belongs to the
// given project; non-member ids affect zero rows.
func (r *ColumnRepo) SetPosition(ctx context.Context, id, projectID int64, position int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE board_columns SET position = ? WHERE id = ? AND project_id = ?
	`, position, id, projectID)
	if err != nil {
		return fmt.Errorf("column set position: %w", err)
	}
	return nil
}

// DeleteWithCards removes the column's cards explicitly before the column
// itself, alongside the FK cascade.
func (r *ColumnRepo) DeleteWithCards(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM board_cards WHERE column_id = ?`, id); err != nil {
			return fmt.Errorf("column delete cards: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM board_columns WHERE id = ?`, id); err != nil {
			return fmt.Errorf("column delete: %w", err)
		}
		return nil
	})
}

func scanColumn(row scanner) (*BoardColumn, error) {
	var c BoardColumn
	if err := row.Scan(&c.ID, &c.ProjectID, &c.Title, &c.Position, &c.Color, &c.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("column scan: %w", err)
	}
	return &c, nil
}
