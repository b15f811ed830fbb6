package housekeeping

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Rahultharu064/HPMS-sub001/internal/events"
	"github.com/Rahultharu064/HPMS-sub001/internal/obs"
)

// TaskStore is the persistence the service drives.
type TaskStore interface {
	InsertTask(ctx context.Context, roomID uuid.UUID, description string, assignedTo *string) (Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (Task, error)
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status TaskStatus) (Task, error)
	ListTasks(ctx context.Context, status *TaskStatus, limit, offset int32) ([]Task, error)
	UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status RoomStatus) error
}

// Service applies the task lifecycle and emits refresh events per write.
type Service struct {
	Store  TaskStore
	Events *events.Bus
	Log    zerolog.Logger
}

// CreateTask opens a pending task against a room.
func (s *Service) CreateTask(ctx context.Context, roomID uuid.UUID, description string, assignedTo *string) (Task, error) {
	if s == nil || s.Store == nil {
		return Task{}, errors.New("housekeeping service not configured")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, errors.New("task description is required")
	}
	t, err := s.Store.InsertTask(ctx, roomID, description, assignedTo)
	if err != nil {
		return Task{}, err
	}
	obs.HousekeepingTransitionTotal.WithLabelValues(string(TaskPending)).Inc()
	s.emit(ctx, events.TopicTaskCreated, t)
	return t, nil
}

// Transition moves a task to a new status, enforcing the lifecycle.
func (s *Service) Transition(ctx context.Context, taskID uuid.UUID, to TaskStatus) (Task, error) {
	if s == nil || s.Store == nil {
		return Task{}, errors.New("housekeeping service not configured")
	}
	if !KnownTaskStatus(to) {
		return Task{}, ErrUnknownStatus
	}
	current, err := s.Store.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if !CanTransition(current.Status, to) {
		return Task{}, ErrInvalidTransition
	}
	t, err := s.Store.UpdateTaskStatus(ctx, taskID, to)
	if err != nil {
		return Task{}, err
	}
	obs.HousekeepingTransitionTotal.WithLabelValues(string(to)).Inc()
	s.emit(ctx, events.TopicTaskUpdated, t)
	return t, nil
}

// List returns tasks optionally filtered by status.
func (s *Service) List(ctx context.Context, status *TaskStatus, limit, offset int32) ([]Task, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("housekeeping service not configured")
	}
	if status != nil && !KnownTaskStatus(*status) {
		return nil, ErrUnknownStatus
	}
	return s.Store.ListTasks(ctx, status, limit, offset)
}

// SetRoomStatus updates a room's readiness and notifies the UI.
func (s *Service) SetRoomStatus(ctx context.Context, roomID uuid.UUID, status RoomStatus) error {
	if s == nil || s.Store == nil {
		return errors.New("housekeeping service not configured")
	}
	if !KnownRoomStatus(status) {
		return ErrUnknownStatus
	}
	if err := s.Store.UpdateRoomStatus(ctx, roomID, status); err != nil {
		return err
	}
	if s.Events != nil {
		if _, err := s.Events.Emit(ctx, events.TopicRoomStatusChanged, roomID, map[string]any{
			"roomId": roomID.String(),
			"status": string(status),
		}); err != nil {
			s.Log.Error().Err(err).Str("room_id", roomID.String()).Msg("emit room status event")
		}
	}
	return nil
}

func (s *Service) emit(ctx context.Context, topic string, t Task) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, t.ID, map[string]any{
		"taskId": t.ID.String(),
		"roomId": t.RoomID.String(),
		"status": string(t.Status),
	}); err != nil {
		s.Log.Error().Err(err).Str("task_id", t.ID.String()).Msg("emit task event")
	}
}
