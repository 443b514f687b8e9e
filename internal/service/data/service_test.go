package data

import (
	"testing"

	"crudgate/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *DataService {
	return NewDataService(NewStore(), logger.NewNop())
}

func TestDataService_UserLifecycle(t *testing.T) {
	s := newTestService()

	u, err := s.CreateUser(CreateUserDTO{Name: " Ann ", Email: "Ann@Example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "ann@example.com", u.Email)

	got, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	name := "Annie"
	updated, err := s.UpdateUser(u.ID, UpdateUserDTO{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)
	assert.Equal(t, u.Email, updated.Email)

	require.NoError(t, s.DeleteUser(u.ID))
	_, err = s.GetUser(u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, s.DeleteUser(u.ID), ErrUserNotFound)
}

func TestDataService_EmailUnique(t *testing.T) {
	s := newTestService()

	_, err := s.CreateUser(CreateUserDTO{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = s.CreateUser(CreateUserDTO{Name: "B", Email: "A@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	b, err := s.CreateUser(CreateUserDTO{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)
	taken := "a@example.com"
	_, err = s.UpdateUser(b.ID, UpdateUserDTO{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Keeping one's own email is not a conflict
	own := "b@example.com"
	_, err = s.UpdateUser(b.ID, UpdateUserDTO{Email: &own})
	assert.NoError(t, err)
}

func TestDataService_TaskRequiresOwner(t *testing.T) {
	s := newTestService()

	_, err := s.CreateTask(CreateTaskDTO{UserID: uuid.NewString(), Title: "orphan"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDataService_TaskLifecycle(t *testing.T) {
	s := newTestService()
	u, err := s.CreateUser(CreateUserDTO{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	other, err := s.CreateUser(CreateUserDTO{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	task, err := s.CreateTask(CreateTaskDTO{UserID: u.ID.String(), Title: "first"})
	require.NoError(t, err)
	_, err = s.CreateTask(CreateTaskDTO{UserID: other.ID.String(), Title: "theirs"})
	require.NoError(t, err)

	all, err := s.ListTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	mine, err := s.ListTasks(&u.ID)
	require.NoError(t, err)
	require.Equal(t, 1, mine.Total)
	assert.Equal(t, task.ID, mine.Items[0].ID)

	done := true
	updated, err := s.UpdateTask(task.ID, UpdateTaskDTO{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "first", updated.Title)

	require.NoError(t, s.DeleteTask(task.ID))
	_, err = s.GetTask(task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDataService_DeleteUserCascadesTasks(t *testing.T) {
	s := newTestService()
	u, err := s.CreateUser(CreateUserDTO{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = s.CreateTask(CreateTaskDTO{UserID: u.ID.String(), Title: "t"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(u.ID))

	all, err := s.ListTasks(nil)
	require.NoError(t, err)
	assert.Zero(t, all.Total)

	_, err = s.ListTasks(&u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSeed(t *testing.T) {
	s := newTestService()
	require.NoError(t, Seed(s))

	assert.Equal(t, 2, s.ListUsers().Total)
	tasks, err := s.ListTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, tasks.Total)
}
