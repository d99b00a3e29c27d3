package service

import (
	"context"

	"taskboard/internal/model"
)

// UserStore persists accounts. CreateUnique returns repository.ErrDuplicate
// when the username or email is taken.
type UserStore interface {
	CreateUnique(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}

// TaskStore persists tasks. Every lookup is scoped by owner; a task owned by
// someone else yields repository.ErrNotFound.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	ListByUser(ctx context.Context, userID uint) ([]model.Task, error)
	FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, userID, taskID uint) (bool, error)
	CountBy(ctx context.Context, userID uint, attr model.TaskAttribute) ([]model.Bucket, error)
}
