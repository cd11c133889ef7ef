package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type CardRepo struct {
	db *sql.DB
}

func NewCardRepo(db *sql.DB) *CardRepo {
	return &CardRepo{db: db}
}

const cardColumns = `c.id, c.column_id, c.title, c.description, c.position, c.color, c.tags, c.due_date, c.estimated_minutes, c.priority, c.created_at, c.updated_at`

type CardInsert struct {
	ColumnID         int64
	Title            string
	Description      *string
	Position         int
	Color            string
	Tags             *string
	DueDate          *time.Time
	EstimatedMinutes int
	Priority         int
}

func (r *CardRepo) Insert(ctx context.Context, in CardInsert) (int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO board_cards (column_id, title, description, position, color, tags, due_date, estimated_minutes, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.ColumnID, in.Title, in.Description, in.Position, in.Color, in.Tags, in.DueDate, in.EstimatedMinutes, in.Priority, now, now)
	if err != nil {
		return 0, fmt.Errorf("card insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("card last insert id: %w", err)
	}
	return id, nil
}

func (r *CardRepo) Get(ctx context.Context, id int64) (*BoardCard, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM board_cards c WHERE c.id = ?`, id)
	return scanCard(row)
}

// GetForUser re-derives ownership card -> column -> project -> user on every
// call rather than trusting any cached owner.
func (r *CardRepo) GetForUser(ctx context.Context, id, userID int64) (*BoardCard, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+cardColumns+`
		FROM board_cards c
		JOIN board_columns bc ON bc.id = c.column_id
		JOIN projects p ON p.id = bc.project_id
		WHERE c.id = ? AND p.user_id = ?
	`, id, userID)
	return scanCard(row)
}

func (r *CardRepo) ListByColumn(ctx context.Context, columnID int64) ([]BoardCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM board_cards c
		WHERE c.column_id = ?
		ORDER BY c.position ASC, c.id ASC
	`, columnID)
	if err != nil {
		return nil, fmt.Errorf("card list: %w", err)
	}
	return collectCards(rows)
}

// ListByProject returns every card on the project's board, for stats.
func (r *CardRepo) ListByProject(ctx context.Context, projectID int64) ([]BoardCard, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM board_cards c
		JOIN board_columns bc ON bc.id = c.column_id
		WHERE bc.project_id = ?
		ORDER BY c.id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("card list by project: %w", err)
	}
	return collectCards(rows)
}

func (r *CardRepo) MaxPosition(ctx context.Context, columnID int64) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) FROM board_cards WHERE column_id = ?
	`, columnID)
	var maxPos int
	if err := row.Scan(&maxPos); err != nil {
		return 0, fmt.Errorf("card max position: %w", err)
	}
	return maxPos, nil
}

func (r *CardRepo) Update(ctx context.Context, c *BoardCard) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE board_cards
		SET column_id = ?, title = ?, description = ?, position = ?, color = ?, tags = ?, due_date = ?, estimated_minutes = ?, priority = ?, updated_at = ?
		WHERE id = ?
	`, c.ColumnID, c.Title, c.Description, c.Position, c.Color, c.Tags, c.DueDate, c.EstimatedMinutes, c.Priority, time.Now().UTC(), c.ID)
	if err != nil {
		return fmt.Errorf("card update: %w", err)
	}
	return nil
}

func (r *CardRepo) SetPosition(ctx context.Context, id int64, position int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE board_cards SET position = ?, updated_at = ? WHERE id = ?
	`, position, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("card set position: %w", err)
	}
	return nil
}

func (r *CardRepo) Move(ctx context.Context, id, columnID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE board_cards SET column_id = ?, updated_at = ? WHERE id = ?
	`, columnID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("card move: %w", err)
	}
	return nil
}

func (r *CardRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM board_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("card delete: %w", err)
	}
	return nil
}

func scanCard(row scanner) (*BoardCard, error) {
	var (
		c           BoardCard
		description sql.NullString
		tags        sql.NullString
		dueDate     sql.NullTime
	)
	if err := row.Scan(
		&c.ID, &c.ColumnID, &c.Title, &description, &c.Position, &c.Color,
		&tags, &dueDate, &c.EstimatedMinutes, &c.Priority, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("card scan: %w", err)
	}
	if description.Valid {
		v := description.String
		c.Description = &v
	}
	if tags.Valid {
		v := tags.String
		c.Tags = &v
	}
	if dueDate.Valid {
		v := dueDate.Time
		c.DueDate = &v
	}
	return &c, nil
}

func collectCards(rows *sql.Rows) ([]BoardCard, error) {
	defer rows.Close()

	var out []BoardCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("card rows: %w", err)
	}
	return out, nil
}
