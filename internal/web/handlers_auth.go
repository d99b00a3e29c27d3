package web

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) registerForm(c *fiber.Ctx) error {
	return c.JSON(s.page(c))
}

func (s *Server) register(c *fiber.Ctx) error {
	_, err := s.accounts.Register(c.UserContext(), c.FormValue("username"), c.FormValue("password"), c.FormValue("email"))
	if err != nil {
		return s.fail(c, err, "/register")
	}
	return s.succeed(c, "Registration successful! You can now log in.", "/login")
}

func (s *Server) loginForm(c *fiber.Ctx) error {
	return c.JSON(s.page(c))
}

func (s *Server) login(c *fiber.Ctx) error {
	user, err := s.accounts.Authenticate(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return s.fail(c, err, "/login")
	}
	if err := s.sessions.Issue(c, user); err != nil {
		return err
	}
	log.Printf("[info] user logged in id=%d", user.ID)
	return c.Redirect("/dashboard", fiber.StatusFound)
}

func (s *Server) logout(c *fiber.Ctx) error {
	s.sessions.Clear(c)
	return c.Redirect("/login", fiber.StatusFound)
}

func (s *Server) index(c *fiber.Ctx) error {
	if _, ok := s.sessions.Current(c); ok {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return c.Redirect("/login", fiber.StatusFound)
}
