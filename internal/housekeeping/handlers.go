package housekeeping

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Rahultharu064/HPMS-sub001/internal/common"
)

// Handler exposes the housekeeping REST surface.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type createTaskRequest struct {
	RoomID      string  `json:"roomId" validate:"required,uuid"`
	Description string  `json:"description" validate:"required"`
	AssignedTo  *string `json:"assignedTo"`
}

// CreateTask opens a housekeeping task.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "housekeeping service not configured", nil)
		return
	}
	var req createTaskRequest
	if err := common.Decode(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid task", map[string]any{"error": err.Error()})
			return
		}
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid room id", nil)
		return
	}
	t, err := h.Svc.CreateTask(r.Context(), roomID, req.Description, req.AssignedTo)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "room not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create task", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": t})
}

// ListTasks lists housekeeping tasks, optionally filtered by status.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "housekeeping service not configured", nil)
		return
	}
	var status *TaskStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		st := TaskStatus(raw)
		status = &st
	}
	window := common.ParsePagination(r, 20)
	tasks, err := h.Svc.List(r.Context(), status, window.Limit(), window.Offset())
	if err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown task status", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list tasks", nil)
		return
	}
	if tasks == nil {
		tasks = []Task{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       tasks,
		"pagination": window,
	})
}

type taskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress done canceled"`
}

// PatchTaskStatus moves a task through its lifecycle.
func (h *Handler) PatchTaskStatus(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "housekeeping service not configured", nil)
		return
	}
	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid task id", nil)
		return
	}
	var req taskStatusRequest
	if err := common.Decode(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid status", map[string]any{"error": err.Error()})
			return
		}
	}
	t, err := h.Svc.Transition(r.Context(), taskID, TaskStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrTaskNotFound):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "task not found", nil)
		case errors.Is(err, ErrInvalidTransition):
			common.JSONError(w, http.StatusBadRequest, "INVALID_STATE", "task cannot move to that status", nil)
		case errors.Is(err, ErrUnknownStatus):
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown task status", nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update task", nil)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": t})
}

type roomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=clean dirty cleaning out_of_service"`
}

// PatchRoomStatus updates a room's readiness state.
func (h *Handler) PatchRoomStatus(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "housekeeping service not configured", nil)
		return
	}
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid room id", nil)
		return
	}
	var req roomStatusRequest
	if err := common.Decode(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid status", map[string]any{"error": err.Error()})
			return
		}
	}
	if err := h.Svc.SetRoomStatus(r.Context(), roomID, RoomStatus(req.Status)); err != nil {
		switch {
		case errors.Is(err, ErrRoomNotFound):
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "room not found", nil)
		case errors.Is(err, ErrUnknownStatus):
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown room status", nil)
		default:
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update room status", nil)
		}
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"roomId": roomID.String(), "status": req.Status}})
}
