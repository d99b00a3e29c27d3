// Package memory keeps users and tasks in process memory. It honors the same
// ownership, uniqueness and ordering rules as the SQLite repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// Store holds both tables behind one lock.
type Store struct {
	mu         sync.RWMutex
	users      []model.User
	tasks      []model.Task
	nextUserID uint
	nextTaskID uint
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Users returns a view of the store satisfying the user repository contract.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

// Tasks returns a view of the store satisfying the task repository contract.
func (s *Store) Tasks() *TaskStore { return &TaskStore{s: s} }

type UserStore struct{ s *Store }

func (u *UserStore) CreateUnique(_ context.Context, user *model.User) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users = append(s.users, model.User{
		ID:           user.ID,
		Username:     strings.Clone(user.Username),
		PasswordHash: strings.Clone(user.PasswordHash),
		Email:        strings.Clone(user.Email),
		CreatedAt:    user.CreatedAt,
	})
	return nil
}

func (u *UserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s := u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *UserStore) ListAll(_ context.Context) ([]model.User, error) {
	s := u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

type TaskStore struct{ s *Store }

func (t *TaskStore) Create(_ context.Context, task *model.Task) error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTaskID++
	task.ID = s.nextTaskID
	if task.Status == "" {
		task.Status = model.StatusNew
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = s.now()
	}
	s.tasks = append(s.tasks, cloneTask(*task))
	return nil
}

func (t *TaskStore) ListByUser(_ context.Context, userID uint) ([]model.Task, error) {
	s := t.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Task
	for _, task := range s.tasks {
		if task.UserID == userID {
			out = append(out, cloneTask(task))
		}
	}
	// Tasks are kept in id order, so a stable sort reproduces the id tiebreak.
	sort.SliceStable(out, func(i, j int) bool { return model.TaskLess(out[i], out[j]) })
	return out, nil
}

func (t *TaskStore) FindByID(_ context.Context, userID, taskID uint) (*model.Task, error) {
	s := t.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(userID, taskID)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	found := cloneTask(s.tasks[i])
	return &found, nil
}

func (t *TaskStore) Update(_ context.Context, task *model.Task) error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(task.UserID, task.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	stored := &s.tasks[i]
	stored.Title = strings.Clone(task.Title)
	stored.Description = cloneString(task.Description)
	stored.Category = cloneString(task.Category)
	stored.Priority = model.Priority(strings.Clone(string(task.Priority)))
	stored.DueDate = cloneTime(task.DueDate)
	stored.Status = strings.Clone(task.Status)
	return nil
}

func (t *TaskStore) Delete(_ context.Context, userID, taskID uint) (bool, error) {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(userID, taskID)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true, nil
}

func (t *TaskStore) CountBy(_ context.Context, userID uint, attr model.TaskAttribute) ([]model.Bucket, error) {
	if !attr.Valid() {
		return nil, fmt.Errorf("count tasks by %q: %w", attr, repository.ErrUnknownAttribute)
	}
	s := t.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	const absent = "\x00absent"
	counts := make(map[string]int64)
	var order []string
	for _, task := range s.tasks {
		if task.UserID != userID {
			continue
		}
		key := absent
		if v := task.AttributeValue(attr); v != nil {
			key = *v
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	// NULL first, then ascending, matching the SQL GROUP BY ... ORDER BY.
	sort.Slice(order, func(i, j int) bool {
		if order[i] == absent {
			return order[j] != absent
		}
		if order[j] == absent {
			return false
		}
		return order[i] < order[j]
	})

	buckets := make([]model.Bucket, 0, len(order))
	for _, key := range order {
		b := model.Bucket{Count: counts[key]}
		if key != absent {
			label := key
			b.Label = &label
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

func (s *Store) indexOf(userID, taskID uint) int {
	for i, task := range s.tasks {
		if task.ID == taskID && task.UserID == userID {
			return i
		}
	}
	return -1
}

// cloneTask deep-copies task so stored rows share no memory with callers.
func cloneTask(task model.Task) model.Task {
	task.Title = strings.Clone(task.Title)
	task.Priority = model.Priority(strings.Clone(string(task.Priority)))
	task.Status = strings.Clone(task.Status)
	task.Description = cloneString(task.Description)
	task.Category = cloneString(task.Category)
	task.DueDate = cloneTime(task.DueDate)
	task.User = nil
	return task
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := strings.Clone(*v)
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
