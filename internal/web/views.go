package web

import (
	"time"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// formPriorities and formStatuses are the choices offered by the task forms.
var (
	formPriorities = []string{string(model.PriorityHigh), string(model.PriorityMedium), string(model.PriorityLow)}
	formStatuses   = []string{model.StatusNew, "In progress", model.StatusCompleted}
)

type taskView struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func newTaskView(task model.Task) taskView {
	view := taskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Priority:    task.AttributeValue(model.AttrPriority),
		Status:      task.Status,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
	}
	if task.DueDate != nil {
		due := task.DueDate.UTC().Format(model.DateLayout)
		view.DueDate = &due
	}
	return view
}

func newTaskViews(tasks []model.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, newTaskView(task))
	}
	return views
}

type pageView struct {
	Flash    *Notice `json:"flash"`
	Username string  `json:"username,omitempty"`
}

type dashboardView struct {
	pageView
	Tasks []taskView `json:"tasks"`
}

type taskDetailView struct {
	pageView
	Task taskView `json:"task"`
}

type taskFormView struct {
	pageView
	Task       *taskView `json:"task,omitempty"`
	Priorities []string  `json:"priorities"`
	Statuses   []string  `json:"statuses,omitempty"`
}

type analyticsView struct {
	pageView
	*model.Analytics
}

type digestView struct {
	pageView
	Date    string     `json:"date"`
	Open    int        `json:"open"`
	Overdue []taskView `json:"overdue"`
	DueSoon []taskView `json:"due_soon"`
}

func newDigestView(page pageView, d *service.Digest) digestView {
	return digestView{
		pageView: page,
		Date:     d.Date,
		Open:     d.Open,
		Overdue:  newTaskViews(d.Overdue),
		DueSoon:  newTaskViews(d.DueSoon),
	}
}
