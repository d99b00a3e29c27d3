package web

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"taskboard/internal/service"
)

func (s *Server) dashboard(c *fiber.Ctx) error {
	id, _ := IdentityFrom(c)
	tasks, err := s.tasks.ListTasks(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(dashboardView{pageView: s.page(c), Tasks: newTaskViews(tasks)})
}

func (s *Server) newTaskForm(c *fiber.Ctx) error {
	return c.JSON(taskFormView{pageView: s.page(c), Priorities: formPriorities})
}

func (s *Server) createTask(c *fiber.Ctx) error {
	id, _ := IdentityFrom(c)
	if _, err := s.tasks.CreateTask(c.UserContext(), id.UserID, taskInput(c)); err != nil {
		return s.fail(c, err, "/task/new")
	}
	return s.succeed(c, "Task created!", "/dashboard")
}

func (s *Server) viewTask(c *fiber.Ctx) error {
	id, _ := IdentityFrom(c)
	taskID, ok := taskIDParam(c)
	if !ok {
		return s.fail(c, service.ErrTaskNotFound, "/dashboard")
	}
	task, err := s.tasks.GetTask(c.UserContext(), id.UserID, taskID)
	if err != nil {
		return s.fail(c, err, "/dashboard")
	}
	return c.JSON(taskDetailView{pageView: s.page(c), Task: newTaskView(*task)})
}

func (s *Server) editTaskForm(c *fiber.Ctx) error {
	id, _ := IdentityFrom(c)
	taskID, ok := taskIDParam(c)
	if !ok {
		return s.fail(c, service.ErrTaskNotFound, "/dashboard")
	}
	task, err := s.tasks.GetTask(c.UserContext(), id.UserID, taskID)
	if err != nil {
		return s.fail(c, err, "/dashboard")
	}
	view := newTaskView(*task)
	return c.JSON(taskFormView{
		pageView:   s.page(c),
		Task:       &view,
		Priorities: formPriorities,
		Statuses:   formStatuses,
	})
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	id, _ := IdentityFrom(c)
	taskID, ok := taskIDParam(c)
	if !ok {
		return s.fail(c, service.ErrTaskNotFound, "/dashboard")
	}
	_, err := s.tasks.UpdateTask(c.UserContext(), id.UserID, taskID, taskInput(c))
	switch {
	case err == nil:
		return s.succeed(c, "Task updated!", fmt.Sprintf("/task/%d", taskID))
	case errors.Is(err, service.ErrValidation):
		return s.fail(c, err, fmt.Sprintf("/task/%d/edit", taskID))
	default:
		return s.fail(c, err, "/dashboard")
	}
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, _ := IdentityFrom(c)
	if taskID, ok := taskIDParam(c); ok {
		if err := s.tasks.DeleteTask(c.UserContext(), id.UserID, taskID); err != nil {
			return err
		}
	}
	return s.succeed(c, "Task deleted!", "/dashboard")
}

func (s *Server) analytics(c *fiber.Ctx) error {
	id, _ := IdentityFrom(c)
	stats, err := s.tasks.Analytics(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}
	return c.JSON(analyticsView{pageView: s.page(c), Analytics: stats})
}

func (s *Server) digest(c *fiber.Ctx) error {
	id, _ := IdentityFrom(c)
	d, err := s.digests.Summary(c.UserContext(), id.UserID, s.now())
	if err != nil {
		return err
	}
	return c.JSON(newDigestView(s.page(c), d))
}

func taskInput(c *fiber.Ctx) service.TaskInput {
	return service.TaskInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Priority:    c.FormValue("priority"),
		DueDate:     c.FormValue("due_date"),
		Status:      c.FormValue("status"),
	}
}

// taskIDParam rejects ids that cannot name a stored task.
func taskIDParam(c *fiber.Ctx) (uint, bool) {
	raw, err := c.ParamsInt("id")
	if err != nil || raw <= 0 {
		return 0, false
	}
	return uint(raw), true
}
