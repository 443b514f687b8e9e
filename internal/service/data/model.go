package data

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user record
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task represents a task owned by a user
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateUserDTO is the data transfer object for creating a user
type CreateUserDTO struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateUserDTO is the data transfer object for updating a user
type UpdateUserDTO struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// CreateTaskDTO is the data transfer object for creating a task
type CreateTaskDTO struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateTaskDTO is the data transfer object for updating a task
type UpdateTaskDTO struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

// ListResponse is the list envelope for users and tasks
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
