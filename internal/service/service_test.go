package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/model"
	"taskboard/internal/repository/memory"
)

type fixture struct {
	accounts *AccountService
	tasks    *TaskService
	digests  *DigestService
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		accounts: NewAccountService(store.Users(), NewPasswordHasher(bcrypt.MinCost)),
		tasks:    NewTaskService(store.Tasks()),
		digests:  NewDigestService(store.Users(), store.Tasks()),
	}
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestRegister_Duplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.accounts.Register(ctx, "alice", "pw-alice", "alice@example.com")
	require.NoError(t, err)

	_, err = f.accounts.Register(ctx, "alice", "pw", "other@example.com")
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	_, err = f.accounts.Register(ctx, "bob", "pw", "alice@example.com")
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tests := []struct {
		name     string
		username string
		password string
		email    string
		field    string
	}{
		{"missing username", " ", "pw", "a@example.com", "username"},
		{"missing email", "a", "pw", "", "email"},
		{"missing password", "a", "", "a@example.com", "password"},
		{"password too long", "a", strings.Repeat("x", MaxPasswordBytes+1), "a@example.com", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.accounts.Register(ctx, tt.username, tt.password, tt.email)
			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	registered, err := f.accounts.Register(ctx, "alice", "correct horse", "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", registered.PasswordHash)

	user, err := f.accounts.Authenticate(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	for _, pw := range []string{"", "correct horse ", "Correct horse", "wrong"} {
		_, err := f.accounts.Authenticate(ctx, "alice", pw)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "password %q", pw)
	}

	_, err = f.accounts.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	hasher := NewPasswordHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("same")
	require.NoError(t, err)
	h2, err := hasher.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, hasher.Verify("same", h1))
	assert.True(t, hasher.Verify("same", h2))
	assert.False(t, hasher.Verify("other", h1))
}

func TestCreateTask_Defaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	task, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "  buy milk ", DueDate: "", Category: "", Status: "Completed"})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", task.Title)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.Category)
	assert.Nil(t, task.Description)
	assert.Equal(t, model.StatusNew, task.Status)

	got, err := f.tasks.GetTask(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
}

func TestCreateTask_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tests := []struct {
		name  string
		input TaskInput
		field string
	}{
		{"missing title", TaskInput{Title: "   "}, "title"},
		{"bad priority", TaskInput{Title: "t", Priority: "Urgent"}, "priority"},
		{"bad due date", TaskInput{Title: "t", DueDate: "31/12/2025"}, "due_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.CreateTask(ctx, 1, tt.input)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestListTasks_Ordering(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "A", Priority: "Low"})
	require.NoError(t, err)
	b, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "B", Priority: "High"})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, 1, TaskInput{Title: "C", Priority: "High"})
	require.NoError(t, err)

	_, err = f.tasks.UpdateTask(ctx, 1, b.ID, TaskInput{Title: "B", Priority: "High", Status: model.StatusCompleted})
	require.NoError(t, err)

	tasks, err := f.tasks.ListTasks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, titles(tasks))
}

func TestCompletingMovesTaskLast(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	urgent, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "urgent", Priority: "High", DueDate: "2025-01-01"})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, 1, TaskInput{Title: "someday"})
	require.NoError(t, err)

	_, err = f.tasks.UpdateTask(ctx, 1, urgent.ID, TaskInput{Title: "urgent", Priority: "High", DueDate: "2025-01-01", Status: "Completed"})
	require.NoError(t, err)

	tasks, err := f.tasks.ListTasks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"someday", "urgent"}, titles(tasks))
}

func TestUpdateTask_FullReplace(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	task, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "t", Description: "d", Category: "work", Priority: "Medium", DueDate: "2025-06-01"})
	require.NoError(t, err)

	_, err = f.tasks.UpdateTask(ctx, 1, task.ID, TaskInput{Title: "t2", Status: "In progress"})
	require.NoError(t, err)

	got, err := f.tasks.GetTask(ctx, 1, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "t2", got.Title)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.Category)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, model.PriorityUnset, got.Priority)
	assert.Equal(t, "In progress", got.Status)

	_, err = f.tasks.UpdateTask(ctx, 1, task.ID, TaskInput{Title: "t3", Status: " "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestForeignTaskIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	task, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "private"})
	require.NoError(t, err)

	_, err = f.tasks.GetTask(ctx, 2, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = f.tasks.UpdateTask(ctx, 2, task.ID, TaskInput{Title: "mine now", Status: "New"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, f.tasks.DeleteTask(ctx, 2, task.ID))
	require.NoError(t, f.tasks.DeleteTask(ctx, 1, 9999))

	tasks, err := f.tasks.ListTasks(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"private"}, titles(tasks))

	_, err = f.tasks.GetTask(ctx, 1, 9999)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	task, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "temp"})
	require.NoError(t, err)
	require.NoError(t, f.tasks.DeleteTask(ctx, 1, task.ID))

	_, err = f.tasks.GetTask(ctx, 1, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestAnalytics_SumsMatchTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	inputs := []TaskInput{
		{Title: "1", Category: "work", Priority: "High"},
		{Title: "2", Category: "work"},
		{Title: "3", Category: "home", Priority: "Low"},
		{Title: "4"},
	}
	for _, in := range inputs {
		_, err := f.tasks.CreateTask(ctx, 1, in)
		require.NoError(t, err)
	}
	_, err := f.tasks.CreateTask(ctx, 2, TaskInput{Title: "other user"})
	require.NoError(t, err)

	stats, err := f.tasks.Analytics(ctx, 1)
	require.NoError(t, err)

	for name, buckets := range map[string][]model.Bucket{
		"categories": stats.Categories,
		"priorities": stats.Priorities,
		"statuses":   stats.Statuses,
	} {
		var total int64
		for _, b := range buckets {
			total += b.Count
		}
		assert.EqualValues(t, len(inputs), total, name)
	}
	assert.Len(t, stats.Categories, 3)
	assert.Len(t, stats.Statuses, 1)

	empty, err := f.tasks.Analytics(ctx, 3)
	require.NoError(t, err)
	assert.NotNil(t, empty.Categories)
	assert.Empty(t, empty.Categories)
}

func TestRegister_ExactMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	alice, err := f.accounts.Register(ctx, "alice", "pw", "alice@example.com")
	require.NoError(t, err)
	padded, err := f.accounts.Register(ctx, " alice", "pw", " alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, " alice", padded.Username)
	assert.NotEqual(t, alice.ID, padded.ID)

	_, err = f.accounts.Register(ctx, "Alice", "pw", "ALICE@example.com")
	require.NoError(t, err)

	user, err := f.accounts.Authenticate(ctx, " alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, padded.ID, user.ID)

	_, err = f.accounts.Authenticate(ctx, "alice ", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateTask_KeepsDescriptionAsTyped(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	typed := "  first line\n  indented second\n"
	task, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "notes", Description: typed, Category: " home "})
	require.NoError(t, err)

	got, err := f.tasks.GetTask(ctx, 1, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, typed, *got.Description)
	require.NotNil(t, got.Category)
	assert.Equal(t, "home", *got.Category)

	blank, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "blank", Description: " \n\t"})
	require.NoError(t, err)
	assert.Nil(t, blank.Description)
}

func TestUpdateTask_ReturnsStoredRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.tasks.CreateTask(ctx, 1, TaskInput{Title: "t", Priority: "Low"})
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())

	updated, err := f.tasks.UpdateTask(ctx, 1, created.ID, TaskInput{Title: "t2", Priority: "High", Status: model.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "t2", updated.Title)
	assert.Equal(t, model.PriorityHigh, updated.Priority)
	assert.Equal(t, model.StatusCompleted, updated.Status)
}
