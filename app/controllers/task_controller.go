package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"todo-app/app/models"
	"todo-app/app/services"
)

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service *services.TaskService
	logger  zerolog.Logger
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService, logger zerolog.Logger) *TaskController {
	return &TaskController{Service: service, logger: logger}
}

type createTaskRequest struct {
	Text string `json:"text"`
}

// GetTasks handles GET /todos.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.GetTasks(r.Context())
	if err != nil {
		writeError(w, c.logger, http.StatusInternalServerError, msgFetchFailed)
		return
	}

	writeJSON(w, c.logger, http.StatusOK, tasks)
}

// CreateTask handles POST /todos.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.logger.Warn().
			Err(err).
			Msg("failed to decode create request")
		writeError(w, c.logger, http.StatusBadRequest, msgInvalidBody)
		return
	}

	task, err := c.Service.CreateTask(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			writeError(w, c.logger, http.StatusBadRequest, msgTextRequired)
			return
		}
		writeError(w, c.logger, http.StatusInternalServerError, msgCreateFailed)
		return
	}

	writeJSON(w, c.logger, http.StatusCreated, task)
}

// UpdateTask handles PUT /todos/{id}. Only text and completed are taken from
// the body; anything else is ignored.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]

	var update models.TaskUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		c.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to decode update request")
		writeError(w, c.logger, http.StatusBadRequest, msgInvalidBody)
		return
	}

	task, err := c.Service.UpdateTask(r.Context(), taskID, update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeError(w, c.logger, http.StatusBadRequest, msgTextRequired)
		case errors.Is(err, services.ErrNotFound):
			writeError(w, c.logger, http.StatusNotFound, msgNotFound)
		default:
			writeError(w, c.logger, http.StatusInternalServerError, msgUpdateFailed)
		}
		return
	}

	writeJSON(w, c.logger, http.StatusOK, task)
}

// DeleteTask handles DELETE /todos/{id}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["id"]

	err := c.Service.DeleteTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeError(w, c.logger, http.StatusNotFound, msgNotFound)
			return
		}
		writeError(w, c.logger, http.StatusInternalServerError, msgDeleteFailed)
		return
	}

	writeJSON(w, c.logger, http.StatusOK, messageResponse{Message: msgDeleted})
}
