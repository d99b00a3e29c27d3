package web

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskboard/internal/model"
)

// SessionCookieName carries the signed session identity.
const SessionCookieName = "taskboard_session"

// ErrInvalidSession is returned for a missing, tampered or expired session.
var ErrInvalidSession = errors.New("invalid session")

// Identity is the authenticated user attached to a request.
type Identity struct {
	UserID   uint
	Username string
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies HS256-signed session cookies.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Issue signs a token for user and stores it in the session cookie.
func (m *SessionManager) Issue(c *fiber.Ctx, user *model.User) error {
	token, expiresAt, err := m.Sign(Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Sign returns a token for id and its expiry.
func (m *SessionManager) Sign(id Identity) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := sessionClaims{
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

// Verify parses a session token.
func (m *SessionManager) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidSession
	}
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, ErrInvalidSession
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidSession
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return Identity{}, ErrInvalidSession
	}
	return Identity{UserID: uint(userID), Username: claims.Username}, nil
}

// Current returns the identity carried by the request cookie, if any.
func (m *SessionManager) Current(c *fiber.Ctx) (Identity, bool) {
	id, err := m.Verify(c.Cookies(SessionCookieName))
	if err != nil {
		return Identity{}, false
	}
	return id, true
}

// Clear expires the session cookie. Calling it without a session is harmless.
func (m *SessionManager) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
