package web

import (
	"github.com/gofiber/fiber/v2"
)

const identityLocalsKey = "identity"

// RequireSession lets the request through only with a valid session cookie;
// otherwise it redirects to the login page and stops the chain.
func RequireSession(sessions *SessionManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := sessions.Current(c)
		if !ok {
			return c.Redirect("/login", fiber.StatusFound)
		}
		c.Locals(identityLocalsKey, id)
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireSession.
func IdentityFrom(c *fiber.Ctx) (Identity, bool) {
	id, ok := c.Locals(identityLocalsKey).(Identity)
	return id, ok
}
