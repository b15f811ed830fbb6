package housekeeping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Rahultharu064/HPMS-sub001/internal/obs"
)

type memTaskStore struct {
	tasks       map[uuid.UUID]Task
	roomStatus  map[uuid.UUID]RoomStatus
	missingRoom bool
	lastOffset  int32
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{
		tasks:      make(map[uuid.UUID]Task),
		roomStatus: make(map[uuid.UUID]RoomStatus),
	}
}

func (m *memTaskStore) InsertTask(_ context.Context, roomID uuid.UUID, description string, assignedTo *string) (Task, error) {
	if m.missingRoom {
		return Task{}, ErrRoomNotFound
	}
	t := Task{
		ID:          uuid.New(),
		RoomID:      roomID,
		Description: description,
		Status:      TaskPending,
		AssignedTo:  assignedTo,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memTaskStore) GetTask(_ context.Context, id uuid.UUID) (Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return t, nil
}

func (m *memTaskStore) UpdateTaskStatus(_ context.Context, id uuid.UUID, status TaskStatus) (Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	m.tasks[id] = t
	return t, nil
}

func (m *memTaskStore) ListTasks(_ context.Context, status *TaskStatus, _, offset int32) ([]Task, error) {
	m.lastOffset = offset
	var out []Task
	for _, t := range m.tasks {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTaskStore) UpdateRoomStatus(_ context.Context, roomID uuid.UUID, status RoomStatus) error {
	if m.missingRoom {
		return ErrRoomNotFound
	}
	m.roomStatus[roomID] = status
	return nil
}

func newTestService(store *memTaskStore) *Service {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())
	return &Service{Store: store, Log: zerolog.Nop()}
}

func TestCreateTask(t *testing.T) {
	store := newMemTaskStore()
	svc := newTestService(store)
	roomID := uuid.New()

	task, err := svc.CreateTask(context.Background(), roomID, "  Deep clean after checkout  ", nil)
	require.NoError(t, err)
	require.Equal(t, TaskPending, task.Status)
	require.Equal(t, "Deep clean after checkout", task.Description)
	require.Equal(t, roomID, task.RoomID)

	_, err = svc.CreateTask(context.Background(), roomID, "   ", nil)
	require.Error(t, err)
}

func TestCreateTaskRoomNotFound(t *testing.T) {
	store := newMemTaskStore()
	store.missingRoom = true
	svc := newTestService(store)

	_, err := svc.CreateTask(context.Background(), uuid.New(), "Clean", nil)
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestTransitionLifecycle(t *testing.T) {
	store := newMemTaskStore()
	svc := newTestService(store)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, uuid.New(), "Turnover", nil)
	require.NoError(t, err)

	task, err = svc.Transition(ctx, task.ID, TaskInProgress)
	require.NoError(t, err)
	require.Equal(t, TaskInProgress, task.Status)

	task, err = svc.Transition(ctx, task.ID, TaskDone)
	require.NoError(t, err)
	require.Equal(t, TaskDone, task.Status)

	_, err = svc.Transition(ctx, task.ID, TaskInProgress)
	require.ErrorIs(t, err, ErrInvalidTransition, "done is terminal")
}

func TestTransitionRules(t *testing.T) {
	cases := []struct {
		from, to TaskStatus
		allowed  bool
	}{
		{TaskPending, TaskInProgress, true},
		{TaskPending, TaskCanceled, true},
		{TaskPending, TaskDone, false},
		{TaskInProgress, TaskDone, true},
		{TaskInProgress, TaskCanceled, true},
		{TaskInProgress, TaskPending, false},
		{TaskDone, TaskPending, false},
		{TaskDone, TaskInProgress, false},
		{TaskCanceled, TaskInProgress, false},
		{TaskCanceled, TaskDone, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionValidation(t *testing.T) {
	store := newMemTaskStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Transition(ctx, uuid.New(), "polishing")
	require.ErrorIs(t, err, ErrUnknownStatus)

	_, err = svc.Transition(ctx, uuid.New(), TaskDone)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	store := newMemTaskStore()
	svc := newTestService(store)
	ctx := context.Background()

	first, err := svc.CreateTask(ctx, uuid.New(), "Towels", nil)
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, uuid.New(), "Minibar restock", nil)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, first.ID, TaskInProgress)
	require.NoError(t, err)

	pending := TaskPending
	tasks, err := svc.List(ctx, &pending, 50, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	tasks, err = svc.List(ctx, nil, 50, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	bogus := TaskStatus("polishing")
	_, err = svc.List(ctx, &bogus, 50, 0)
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestSetRoomStatus(t *testing.T) {
	store := newMemTaskStore()
	svc := newTestService(store)
	roomID := uuid.New()

	require.NoError(t, svc.SetRoomStatus(context.Background(), roomID, RoomCleaning))
	require.Equal(t, RoomCleaning, store.roomStatus[roomID])

	err := svc.SetRoomStatus(context.Background(), roomID, "sparkling")
	require.ErrorIs(t, err, ErrUnknownStatus)
}
