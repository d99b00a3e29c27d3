package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskboard/internal/service"
)

// page collects the data every view carries: the pending flash notice and
// the signed-in user's name.
func (s *Server) page(c *fiber.Ctx) pageView {
	view := pageView{Flash: readFlash(c, s.secure)}
	if id, ok := IdentityFrom(c); ok {
		view.Username = id.Username
	}
	return view
}

func (s *Server) succeed(c *fiber.Ctx, message, to string) error {
	writeFlash(c, Notice{Kind: NoticeSuccess, Message: message}, s.secure)
	return c.Redirect(to, fiber.StatusFound)
}

// fail turns a known domain error into a notice and a redirect. Anything
// else goes to the error handler.
func (s *Server) fail(c *fiber.Ctx, err error, to string) error {
	message, ok := noticeMessage(err)
	if !ok {
		return err
	}
	writeFlash(c, Notice{Kind: NoticeError, Message: message}, s.secure)
	return c.Redirect(to, fiber.StatusFound)
}

func noticeMessage(err error) (string, bool) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrDuplicateAccount):
		return "A user with this username or email already exists!", true
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username or password!", true
	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found!", true
	case errors.As(err, &verr):
		return "Invalid " + verr.Error(), true
	default:
		return "", false
	}
}
