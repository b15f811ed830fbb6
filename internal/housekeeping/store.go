package housekeeping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fkViolation = "23503"

// Store persists housekeeping tasks and room status through a pgx pool.
type Store struct {
	Pool *pgxpool.Pool
}

const taskColumns = "id, room_id, description, status, assigned_to, created_at, updated_at"

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	var status string
	if err := row.Scan(&t.ID, &t.RoomID, &t.Description, &status, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Task{}, err
	}
	t.Status = TaskStatus(status)
	return t, nil
}

// InsertTask creates a pending task for a room.
func (s *Store) InsertTask(ctx context.Context, roomID uuid.UUID, description string, assignedTo *string) (Task, error) {
	const q = `
INSERT INTO housekeeping_tasks (room_id, description, assigned_to)
VALUES ($1, $2, $3)
RETURNING ` + taskColumns
	t, err := scanTask(s.Pool.QueryRow(ctx, q, roomID, description, assignedTo))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return Task{}, ErrRoomNotFound
		}
		return Task{}, fmt.Errorf("housekeeping: insert task: %w", err)
	}
	return t, nil
}

// GetTask loads a task by id.
func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (Task, error) {
	t, err := scanTask(s.Pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM housekeeping_tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("housekeeping: get task: %w", err)
	}
	return t, nil
}

// UpdateTaskStatus stores the new status and returns the updated task.
func (s *Store) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status TaskStatus) (Task, error) {
	const q = `
UPDATE housekeeping_tasks
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + taskColumns
	t, err := scanTask(s.Pool.QueryRow(ctx, q, id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("housekeeping: update task status: %w", err)
	}
	return t, nil
}

// ListTasks returns tasks, optionally narrowed by status, newest first.
func (s *Store) ListTasks(ctx context.Context, status *TaskStatus, limit, offset int32) ([]Task, error) {
	const q = `
SELECT ` + taskColumns + `
FROM housekeeping_tasks
WHERE ($1::text IS NULL OR status = $1)
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`
	var statusArg *string
	if status != nil {
		v := string(*status)
		statusArg = &v
	}
	rows, err := s.Pool.Query(ctx, q, statusArg, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("housekeeping: list tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("housekeeping: scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("housekeeping: list tasks: %w", err)
	}
	return out, nil
}

// UpdateRoomStatus stores the room's readiness state.
func (s *Store) UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status RoomStatus) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE rooms SET status = $2 WHERE id = $1`, roomID, string(status))
	if err != nil {
		return fmt.Errorf("housekeeping: update room status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomNotFound
	}
	return nil
}
