package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// TaskInput carries the raw task form fields.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	DueDate     string
	Status      string
}

// TaskService wraps task-related business logic. Every method takes the
// owning user's id explicitly.
type TaskService struct {
	taskRepo TaskStore
}

func NewTaskService(taskRepo TaskStore) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	task, err := buildTask(input)
	if err != nil {
		return nil, err
	}
	task.UserID = userID
	task.Status = model.StatusNew

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}

	log.Printf("[info] task created id=%d user=%d", task.ID, userID)
	return &task, nil
}

// ListTasks returns the user's tasks in dashboard order.
func (s *TaskService) ListTasks(ctx context.Context, userID uint) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, userID)
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, userID, taskID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return task, nil
}

// UpdateTask replaces every editable field, status included, and returns the
// stored record.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint, input TaskInput) (*model.Task, error) {
	task, err := buildTask(input)
	if err != nil {
		return nil, err
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		return nil, invalid("status", "is required")
	}
	task.ID = taskID
	task.UserID = userID
	task.Status = status

	if err := s.taskRepo.Update(ctx, &task); err != nil {
		return nil, mapNotFound(err)
	}

	log.Printf("[info] task updated id=%d user=%d status=%q", taskID, userID, status)
	return s.GetTask(ctx, userID, taskID)
}

// DeleteTask removes the task if the user owns it. A missing or foreign task
// is not an error.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uint) error {
	removed, err := s.taskRepo.Delete(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if removed {
		log.Printf("[info] task deleted id=%d user=%d", taskID, userID)
	}
	return nil
}

// Analytics counts the user's tasks per category, priority and status.
func (s *TaskService) Analytics(ctx context.Context, userID uint) (*model.Analytics, error) {
	var out model.Analytics
	groupings := []struct {
		attr   model.TaskAttribute
		target *[]model.Bucket
	}{
		{model.AttrCategory, &out.Categories},
		{model.AttrPriority, &out.Priorities},
		{model.AttrStatus, &out.Statuses},
	}
	for _, g := range groupings {
		buckets, err := s.taskRepo.CountBy(ctx, userID, g.attr)
		if err != nil {
			return nil, err
		}
		if buckets == nil {
			buckets = []model.Bucket{}
		}
		*g.target = buckets
	}
	return &out, nil
}

func buildTask(input TaskInput) (model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, invalid("title", "is required")
	}

	priority, ok := model.ParsePriority(input.Priority)
	if !ok {
		return model.Task{}, invalid("priority", fmt.Sprintf("unknown value %q", input.Priority))
	}

	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return model.Task{}, err
	}

	return model.Task{
		Title:       title,
		Description: optionalRaw(input.Description),
		Category:    optional(input.Category),
		Priority:    priority,
		DueDate:     dueDate,
	}, nil
}

// parseDueDate maps an empty form value to no due date.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return nil, invalid("due_date", "expected format YYYY-MM-DD")
	}
	return &parsed, nil
}

func optional(raw string) *string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	return &value
}

// optionalRaw keeps the text exactly as typed unless it is blank.
func optionalRaw(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return &raw
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
