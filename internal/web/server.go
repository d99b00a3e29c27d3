package web

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"taskboard/internal/service"
)

// Options tunes the HTTP surface.
type Options struct {
	SecureCookies bool
	AccessLog     bool
}

// Server exposes accounts and tasks over HTTP.
type Server struct {
	app      *fiber.App
	accounts *service.AccountService
	tasks    *service.TaskService
	digests  *service.DigestService
	sessions *SessionManager
	secure   bool
	now      func() time.Time
}

func NewServer(accounts *service.AccountService, tasks *service.TaskService, digests *service.DigestService, sessions *SessionManager, opts Options) *Server {
	s := &Server{
		accounts: accounts,
		tasks:    tasks,
		digests:  digests,
		sessions: sessions,
		secure:   opts.SecureCookies,
		now:      time.Now,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "taskboard",
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	if opts.AccessLog {
		s.app.Use(logger.New())
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	guard := RequireSession(s.sessions)

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/register", s.registerForm)
	s.app.Post("/register", s.register)
	s.app.Get("/login", s.loginForm)
	s.app.Post("/login", s.login)
	s.app.Get("/logout", s.logout)
	s.app.Get("/", s.index)

	s.app.Get("/dashboard", guard, s.dashboard)
	s.app.Get("/task/new", guard, s.newTaskForm)
	s.app.Post("/task/new", guard, s.createTask)
	s.app.Get("/task/:id", guard, s.viewTask)
	s.app.Get("/task/:id/edit", guard, s.editTaskForm)
	s.app.Post("/task/:id/edit", guard, s.updateTask)
	s.app.Post("/task/:id/delete", guard, s.deleteTask)
	s.app.Get("/tasks/analytics", guard, s.analytics)
	s.app.Get("/tasks/digest", guard, s.digest)
}

// App returns the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	log.Printf("[info] http listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler turns unexpected failures into a 500 without leaking details.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": message})
}
