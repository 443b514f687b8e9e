package data

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"crudgate/internal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUserNotFound is returned when a user ID does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when a task ID does not exist
	ErrTaskNotFound = errors.New("task not found")
	// ErrEmailTaken is returned when another user already owns the email
	ErrEmailTaken = errors.New("email already in use")
)

// DataService handles users and tasks business logic
type DataService struct {
	store  *Store
	logger *logger.Logger
	now    func() time.Time
}

// NewDataService creates a new data service
func NewDataService(store *Store, log *logger.Logger) *DataService {
	return &DataService{
		store:  store,
		logger: log,
		now:    time.Now,
	}
}

// ListUsers returns all users
func (s *DataService) ListUsers() ListResponse[User] {
	users := s.store.ListUsers()
	return ListResponse[User]{Items: users, Total: len(users)}
}

// GetUser retrieves a user by ID
func (s *DataService) GetUser(id uuid.UUID) (User, error) {
	return s.store.GetUser(id)
}

// CreateUser creates a new user
func (s *DataService) CreateUser(dto CreateUserDTO) (User, error) {
	now := s.now().UTC()
	u := User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(dto.Name),
		Email:     strings.ToLower(strings.TrimSpace(dto.Email)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutUser(u); err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Debug("User created", zap.String("user_id", u.ID.String()))
	return u, nil
}

// UpdateUser applies the non-nil fields of dto
func (s *DataService) UpdateUser(id uuid.UUID, dto UpdateUserDTO) (User, error) {
	u, err := s.store.GetUser(id)
	if err != nil {
		return User{}, err
	}

	if dto.Name != nil {
		u.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*dto.Email))
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.store.PutUser(u); err != nil {
		return User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// DeleteUser deletes a user and their tasks
func (s *DataService) DeleteUser(id uuid.UUID) error {
	return s.store.DeleteUser(id)
}

// ListTasks returns tasks, optionally only those owned by userID
func (s *DataService) ListTasks(userID *uuid.UUID) (ListResponse[Task], error) {
	if userID != nil {
		if _, err := s.store.GetUser(*userID); err != nil {
			return ListResponse[Task]{}, err
		}
	}
	tasks := s.store.ListTasks(userID)
	return ListResponse[Task]{Items: tasks, Total: len(tasks)}, nil
}

// GetTask retrieves a task by ID
func (s *DataService) GetTask(id uuid.UUID) (Task, error) {
	return s.store.GetTask(id)
}

// CreateTask creates a task for an existing user
func (s *DataService) CreateTask(dto CreateTaskDTO) (Task, error) {
	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		return Task{}, fmt.Errorf("invalid user id: %w", err)
	}

	now := s.now().UTC()
	t := Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.PutTask(t); err != nil {
		return Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// UpdateTask applies the non-nil fields of dto
func (s *DataService) UpdateTask(id uuid.UUID, dto UpdateTaskDTO) (Task, error) {
	t, err := s.store.GetTask(id)
	if err != nil {
		return Task{}, err
	}

	if dto.Title != nil {
		t.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.Completed != nil {
		t.Completed = *dto.Completed
	}
	t.UpdatedAt = s.now().UTC()

	if err := s.store.PutTask(t); err != nil {
		return Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// DeleteTask deletes a task
func (s *DataService) DeleteTask(id uuid.UUID) error {
	return s.store.DeleteTask(id)
}
