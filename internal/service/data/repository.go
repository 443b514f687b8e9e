package data

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store is the in-memory users/tasks store. Returned records are copies.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
	tasks map[uuid.UUID]Task
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]User),
		tasks: make(map[uuid.UUID]Task),
	}
}

// ListUsers returns users ordered by creation time
func (s *Store) ListUsers() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(id uuid.UUID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// PutUser inserts or replaces a user, enforcing unique email
func (s *Store) PutUser(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, other := range s.users {
		if id != u.ID && other.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

// DeleteUser removes a user and the tasks they own
func (s *Store) DeleteUser(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	for tid, t := range s.tasks {
		if t.UserID == id {
			delete(s.tasks, tid)
		}
	}
	return nil
}

// ListTasks returns tasks ordered by creation time, optionally filtered by owner
func (s *Store) ListTasks(userID *uuid.UUID) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if userID != nil && t.UserID != *userID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// GetTask retrieves a task by ID
func (s *Store) GetTask(id uuid.UUID) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return t, nil
}

// PutTask inserts or replaces a task. The owner must exist.
func (s *Store) PutTask(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[t.UserID]; !ok {
		return ErrUserNotFound
	}
	s.tasks[t.ID] = t
	return nil
}

// DeleteTask removes a task
func (s *Store) DeleteTask(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}
