// Package housekeeping tracks cleaning tasks and room readiness. Writes are
// plain database updates; the UI learns about them through emitted domain
// events rather than a direct push call.
package housekeeping

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a housekeeping task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskCanceled   TaskStatus = "canceled"
)

// RoomStatus is the readiness state of a room.
type RoomStatus string

const (
	RoomClean        RoomStatus = "clean"
	RoomDirty        RoomStatus = "dirty"
	RoomCleaning     RoomStatus = "cleaning"
	RoomOutOfService RoomStatus = "out_of_service"
)

var (
	// ErrTaskNotFound is returned when the task does not exist.
	ErrTaskNotFound = errors.New("housekeeping task not found")
	// ErrRoomNotFound is returned when the room does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrInvalidTransition is returned for a task status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid task status transition")
	// ErrUnknownStatus is returned for a status value outside the accepted set.
	ErrUnknownStatus = errors.New("unknown status")
)

// transitions lists the allowed next states per task status. Done and
// canceled are terminal.
var transitions = map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskInProgress, TaskCanceled},
	TaskInProgress: {TaskDone, TaskCanceled},
}

// CanTransition reports whether a task may move from one status to another.
func CanTransition(from, to TaskStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// KnownTaskStatus reports whether s is a recognised task status.
func KnownTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone, TaskCanceled:
		return true
	}
	return false
}

// KnownRoomStatus reports whether s is a recognised room status.
func KnownRoomStatus(s RoomStatus) bool {
	switch s {
	case RoomClean, RoomDirty, RoomCleaning, RoomOutOfService:
		return true
	}
	return false
}

// Task is a unit of housekeeping work against a room.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	RoomID      uuid.UUID  `json:"roomId"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	AssignedTo  *string    `json:"assignedTo"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
