package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

type TaskInsert struct {
	UserID           int64
	Title            string
	Description      *string
	Difficulty       int
	Status           string
	EstimatedMinutes int
	TaskDate         time.Time
	ParentID         *int64
	IsParent         bool
}

const taskColumns = `id, user_id, title, description, difficulty, status, estimated_minutes, created_at, task_date, parent_id, is_parent`

// listOrder matches the read side of the task feed: upcoming dates first,
// newest creations first, with id breaking exact-timestamp ties.
const listOrder = `ORDER BY task_date DESC, created_at DESC, id DESC`

func (r *TaskRepo) Insert(ctx context.Context, in TaskInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, title, description, difficulty, status, estimated_minutes, created_at, task_date, parent_id, is_parent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, in.UserID, in.Title, in.Description, in.Difficulty, in.Status, in.EstimatedMinutes,
		time.Now().UTC(), in.TaskDate, in.ParentID, boolToInt(in.IsParent))
	if err != nil {
		return 0, fmt.Errorf("task insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task last insert id: %w", err)
	}
	return id, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTaskRow(row)
}

// GetForUser is the owner-scoped lookup: a task belonging to another user is
// indistinguishable from a missing one.
func (r *TaskRepo) GetForUser(ctx context.Context, id, userID int64) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	return scanTaskRow(row)
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = ? `+listOrder, userID)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	return collectTasks(rows)
}

// ListByUserBetween returns tasks whose task_date falls in [start, end],
// inclusive on both ends.
func (r *TaskRepo) ListByUserBetween(ctx context.Context, userID int64, start, end time.Time) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND task_date >= ? AND task_date <= ?
		`+listOrder, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("task list between: %w", err)
	}
	return collectTasks(rows)
}

func (r *TaskRepo) ListChildren(ctx context.Context, parentID int64) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE parent_id = ? ORDER BY id ASC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("task children list: %w", err)
	}
	return collectTasks(rows)
}

// FindByTitleStatus returns any task of userID with an exact (title, status)
// match. Used by cross-user sync for best-effort de-duplication.
func (r *TaskRepo) FindByTitleStatus(ctx context.Context, userID int64, title, status string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND title = ? AND status = ?
		LIMIT 1
	`, userID, title, status)
	return scanTaskRow(row)
}

func (r *TaskRepo) Update(ctx context.Context, t *Task) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, difficulty = ?, status = ?, estimated_minutes = ?, task_date = ?, parent_id = ?, is_parent = ?
		WHERE id = ?
	`, t.Title, t.Description, t.Difficulty, t.Status, t.EstimatedMinutes, t.TaskDate, t.ParentID, boolToInt(t.IsParent), t.ID)
	if err != nil {
		return fmt.Errorf("task update: %w", err)
	}
	return nil
}

func (r *TaskRepo) SetStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("task set status: %w", err)
	}
	return nil
}

func (r *TaskRepo) SetParentFlag(ctx context.Context, id int64, isParent bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET is_parent = ? WHERE id = ?`, boolToInt(isParent), id)
	if err != nil {
		return fmt.Errorf("task set parent flag: %w", err)
	}
	return nil
}

// Delete removes the task and any of its subtasks. The explicit child delete
// backs up the FK cascade so the invariant holds even on databases opened
// without the pragma.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE parent_id = ?`, id); err != nil {
			return fmt.Errorf("task delete children: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
			return fmt.Errorf("task delete: %w", err)
		}
		return nil
	})
}

// CompleteWithChildren marks the parent done and every child done in a single
// transaction, returning the number of children touched.
func (r *TaskRepo) CompleteWithChildren(ctx context.Context, parentID int64) (int, error) {
	var children int
	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET status = 'done' WHERE id = ?`, parentID); err != nil {
			return fmt.Errorf("complete parent: %w", err)
		}
		res, err := tx.ExecContext(ctx, `UPDATE tasks SET status = 'done' WHERE parent_id = ?`, parentID)
		if err != nil {
			return fmt.Errorf("complete children: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("complete children count: %w", err)
		}
		children = int(n)
		return nil
	})
	return children, err
}

// CopyMissing copies every source-user task the target lacks, matched by
// (title, status), in one transaction. Parent links and flags are not copied.
// Returns the number of rows inserted.
func (r *TaskRepo) CopyMissing(ctx context.Context, sourceUserID, targetUserID int64) (int, error) {
	tasks, err := r.ListByUser(ctx, sourceUserID)
	if err != nil {
		return 0, err
	}

	copied := 0
	err = WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, t := range tasks {
			var exists int
			err := tx.QueryRowContext(ctx, `
				SELECT COUNT(1) FROM tasks
				WHERE user_id = ? AND title = ? AND status = ?
			`, targetUserID, t.Title, t.Status).Scan(&exists)
			if err != nil {
				return fmt.Errorf("sync lookup: %w", err)
			}
			if exists > 0 {
				continue
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO tasks (user_id, title, description, difficulty, status, estimated_minutes, created_at, task_date, parent_id, is_parent)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL, 0)
			`, targetUserID, t.Title, t.Description, t.Difficulty, t.Status, t.EstimatedMinutes,
				time.Now().UTC(), t.TaskDate)
			if err != nil {
				return fmt.Errorf("sync insert: %w", err)
			}
			copied++
		}
		return nil
	})
	return copied, err
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		t           Task
		description sql.NullString
		parentID    sql.NullInt64
		isParent    int
	)
	if err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &description, &t.Difficulty, &t.Status,
		&t.EstimatedMinutes, &t.CreatedAt, &t.TaskDate, &parentID, &isParent,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}
	if description.Valid {
		v := description.String
		t.Description = &v
	}
	if parentID.Valid {
		v := parentID.Int64
		t.ParentID = &v
	}
	t.IsParent = isParent != 0
	return &t, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task rows: %w", err)
	}
	return out, nil
}
