package data

import (
	"context"
	"errors"
	"net/http"

	"crudgate/internal/pkg/idempotency"
	"crudgate/internal/pkg/logctx"
	"crudgate/internal/pkg/logger"
	"crudgate/internal/pkg/server"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// HeaderIdempotencyKey lets clients retry creates without duplicating records
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplayed marks a response served from an earlier request
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

// DataHandler handles users and tasks HTTP requests
type DataHandler struct {
	service     *DataService
	idempotency *idempotency.Service
	logger      *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(service *DataService, idem *idempotency.Service, log *logger.Logger) *DataHandler {
	return &DataHandler{
		service:     service,
		idempotency: idem,
		logger:      log,
	}
}

// createOnce runs create directly, or through the idempotency service when
// the client sent a key. Keys are scoped per collection.
func createOnce[T any](c echo.Context, idem *idempotency.Service, scope string, create func() (T, error)) (T, error) {
	key := c.Request().Header.Get(HeaderIdempotencyKey)
	if key == "" || idem == nil {
		return create()
	}

	result, replayed, err := idempotency.Execute(c.Request().Context(), idem, scope+":"+key,
		func(context.Context) (T, error) {
			return create()
		})
	if replayed {
		c.Response().Header().Set(HeaderIdempotentReplayed, "true")
	}
	return result, err
}

// bindAndValidate decodes the body into dto and runs the registered
// validator. When ok is false the 400 response has already been written.
func bindAndValidate(c echo.Context, dto interface{}) (ok bool, err error) {
	if err := c.Bind(dto); err != nil {
		return false, server.ErrorResponse(c, http.StatusBadRequest, err.Error(), "Invalid request body")
	}
	if err := c.Validate(dto); err != nil {
		if details := validationDetails(err); details != nil {
			return false, server.ErrorResponse(c, http.StatusBadRequest, details, "Validation failed")
		}
		return false, server.ErrorResponse(c, http.StatusBadRequest, err.Error(), "Validation failed")
	}
	return true, nil
}

// parseID reads the :id path parameter
func parseID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

// errorStatus maps service errors to HTTP statuses
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmailTaken), errors.Is(err, idempotency.ErrAlreadyProcessing):
		return http.StatusConflict
	case errors.Is(err, idempotency.ErrInvalidKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *DataHandler) fail(c echo.Context, err error, message string) error {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(message, append(logctx.Fields(c.Request().Context()), zap.Error(err))...)
	}
	return server.ErrorResponse(c, status, err.Error(), message)
}

// ListUsers handles listing users
func (h *DataHandler) ListUsers(c echo.Context) error {
	return server.SuccessResponse(c, http.StatusOK, h.service.ListUsers(), "Users retrieved successfully")
}

// GetUser handles retrieving a user by ID
func (h *DataHandler) GetUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return server.ErrorResponse(c, http.StatusBadRequest, nil, "Invalid user ID")
	}

	user, err := h.service.GetUser(id)
	if err != nil {
		return h.fail(c, err, "Failed to get user")
	}
	return server.SuccessResponse(c, http.StatusOK, user, "User retrieved successfully")
}

// CreateUser handles user creation
func (h *DataHandler) CreateUser(c echo.Context) error {
	var dto CreateUserDTO
	if ok, err := bindAndValidate(c, &dto); !ok {
		return err
	}

	user, err := createOnce(c, h.idempotency, "users", func() (User, error) {
		return h.service.CreateUser(dto)
	})
	if err != nil {
		return h.fail(c, err, "Failed to create user")
	}
	return server.SuccessResponse(c, http.StatusCreated, user, "User created successfully")
}

// UpdateUser handles user updates
func (h *DataHandler) UpdateUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return server.ErrorResponse(c, http.StatusBadRequest, nil, "Invalid user ID")
	}

	var dto UpdateUserDTO
	if ok, err := bindAndValidate(c, &dto); !ok {
		return err
	}

	user, err := h.service.UpdateUser(id, dto)
	if err != nil {
		return h.fail(c, err, "Failed to update user")
	}
	return server.SuccessResponse(c, http.StatusOK, user, "User updated successfully")
}

// DeleteUser handles user deletion
func (h *DataHandler) DeleteUser(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return server.ErrorResponse(c, http.StatusBadRequest, nil, "Invalid user ID")
	}

	if err := h.service.DeleteUser(id); err != nil {
		return h.fail(c, err, "Failed to delete user")
	}
	return server.SuccessResponse(c, http.StatusOK, nil, "User deleted successfully")
}

// ListTasks handles listing tasks, filtered by ?user_id= when present
func (h *DataHandler) ListTasks(c echo.Context) error {
	var userID *uuid.UUID
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return server.ErrorResponse(c, http.StatusBadRequest, err.Error(), "Invalid user ID")
		}
		userID = &id
	}

	tasks, err := h.service.ListTasks(userID)
	if err != nil {
		return h.fail(c, err, "Failed to list tasks")
	}
	return server.SuccessResponse(c, http.StatusOK, tasks, "Tasks retrieved successfully")
}

// GetTask handles retrieving a task by ID
func (h *DataHandler) GetTask(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return server.ErrorResponse(c, http.StatusBadRequest, nil, "Invalid task ID")
	}

	task, err := h.service.GetTask(id)
	if err != nil {
		return h.fail(c, err, "Failed to get task")
	}
	return server.SuccessResponse(c, http.StatusOK, task, "Task retrieved successfully")
}

// CreateTask handles task creation
func (h *DataHandler) CreateTask(c echo.Context) error {
	var dto CreateTaskDTO
	if ok, err := bindAndValidate(c, &dto); !ok {
		return err
	}

	task, err := createOnce(c, h.idempotency, "tasks", func() (Task, error) {
		return h.service.CreateTask(dto)
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return server.ErrorResponse(c, http.StatusUnprocessableEntity, err.Error(), "Task owner does not exist")
		}
		return h.fail(c, err, "Failed to create task")
	}
	return server.SuccessResponse(c, http.StatusCreated, task, "Task created successfully")
}

// UpdateTask handles task updates
func (h *DataHandler) UpdateTask(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return server.ErrorResponse(c, http.StatusBadRequest, nil, "Invalid task ID")
	}

	var dto UpdateTaskDTO
	if ok, err := bindAndValidate(c, &dto); !ok {
		return err
	}

	task, err := h.service.UpdateTask(id, dto)
	if err != nil {
		return h.fail(c, err, "Failed to update task")
	}
	return server.SuccessResponse(c, http.StatusOK, task, "Task updated successfully")
}

// DeleteTask handles task deletion
func (h *DataHandler) DeleteTask(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return server.ErrorResponse(c, http.StatusBadRequest, nil, "Invalid task ID")
	}

	if err := h.service.DeleteTask(id); err != nil {
		return h.fail(c, err, "Failed to delete task")
	}
	return server.SuccessResponse(c, http.StatusOK, nil, "Task deleted successfully")
}
