package web

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// FlashCookieName carries one notice across a redirect.
const FlashCookieName = "taskboard_flash"

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-time message shown by the next page.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

func writeFlash(c *fiber.Ctx, notice Notice, secure bool) {
	notice.Message = strings.TrimSpace(notice.Message)
	if notice.Message == "" {
		return
	}
	payload, err := json.Marshal(notice)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// readFlash returns the pending notice and expires its cookie.
func readFlash(c *fiber.Ctx, secure bool) *Notice {
	raw := strings.TrimSpace(c.Cookies(FlashCookieName))
	if raw == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil || notice.Message == "" {
		return nil
	}
	switch notice.Kind {
	case NoticeSuccess, NoticeError:
		return &notice
	default:
		return nil
	}
}
