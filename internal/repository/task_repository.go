package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// TaskRepository is the only writer of the tasks table. Every query filters by
// owner as well as by task id.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByUser returns the user's tasks in dashboard order: open before
// completed, then priority bucket, then due date.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order(model.StatusSQLOrder("status")).
		Order(model.PrioritySQLOrder("priority")).
		Order("due_date").
		Order("id").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// Update overwrites every editable field of the owned task.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"category":    task.Category,
			"priority":    task.Priority,
			"due_date":    task.DueDate,
			"status":      task.Status,
		})
	if err := result.Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the owned task and reports whether a row was removed.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&model.Task{})
	if err := result.Error; err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return result.RowsAffected > 0, nil
}

// CountBy groups the user's tasks by attr. Absent values share one bucket.
func (r *TaskRepository) CountBy(ctx context.Context, userID uint, attr model.TaskAttribute) ([]model.Bucket, error) {
	if !attr.Valid() {
		return nil, fmt.Errorf("count tasks by %q: %w", attr, ErrUnknownAttribute)
	}
	column := string(attr)

	var buckets []model.Bucket
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select(column+" AS label, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group(column).
		Order(column).
		Scan(&buckets).Error; err != nil {
		return nil, fmt.Errorf("count tasks by %s: %w", column, err)
	}
	return buckets, nil
}
