package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionIssuer   = "yatube"
	sessionAudience = "yatube-web"
	// DefaultSessionTTL matches the two-week browser session of the original site.
	DefaultSessionTTL = 14 * 24 * time.Hour
	// LoginURL is where LoginRequired sends anonymous users.
	LoginURL = "/auth/login/"
)

// ErrInvalidSession is returned for tokens that fail signature, claim or revocation checks.
var ErrInvalidSession = errors.New("invalid session")

// Session is the identity carried by a valid session token.
type Session struct {
	UserID    uint
	Username  string
	ID        string
	ExpiresAt time.Time
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserLookup reports whether the user a session belongs to still exists.
type UserLookup func(ctx context.Context, userID uint) (bool, error)

// SessionManager issues and verifies the signed session cookie.
// Revoked token ids are kept in Redis until their natural expiry.
type SessionManager struct {
	secret []byte
	cookie string
	ttl    time.Duration
	secure bool
	rdb    *redis.Client
	lookup UserLookup
	now    func() time.Time
}

// NewSessionManager returns a SessionManager. rdb may be nil, in which case
// logout only clears the cookie.
func NewSessionManager(secret, cookieName string, rdb *redis.Client, secure bool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		cookie: cookieName,
		ttl:    DefaultSessionTTL,
		secure: secure,
		rdb:    rdb,
		now:    time.Now,
	}
}

// WithUserLookup makes Middleware drop sessions whose user is gone.
func (m *SessionManager) WithUserLookup(fn UserLookup) *SessionManager {
	m.lookup = fn
	return m
}

// CookieName returns the name of the session cookie.
func (m *SessionManager) CookieName() string {
	return m.cookie
}

// Issue signs a session token for the user.
func (m *SessionManager) Issue(userID uint, username string) (string, error) {
	if len(m.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}
	now := m.now()
	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies a token and returns the session it carries.
func (m *SessionManager) Parse(ctx context.Context, token string) (*Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidSession
	}

	if claims.ID != "" && m.rdb != nil {
		revoked, err := m.rdb.Exists(ctx, revokedKey(claims.ID)).Result()
		if err == nil && revoked > 0 {
			return nil, ErrInvalidSession
		}
	}

	s := &Session{
		UserID:   uint(userID),
		Username: claims.Username,
		ID:       claims.ID,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Revoke blacklists the session id until the token would have expired anyway.
func (m *SessionManager) Revoke(ctx context.Context, s *Session) error {
	if m.rdb == nil || s == nil || s.ID == "" {
		return nil
	}
	remaining := s.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, revokedKey(s.ID), 1, remaining).Err()
}

func revokedKey(id string) string {
	return "blacklist:" + id
}

// SetCookie writes the session cookie.
func (m *SessionManager) SetCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie,
		Value:    token,
		Path:     "/",
		Expires:  m.now().Add(m.ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (m *SessionManager) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Middleware resolves the session cookie, if any, into c.Locals("userID"),
// c.Locals("username") and c.Locals("session"). Invalid cookies, and cookies
// of users that no longer exist, are cleared and the request continues
// anonymously.
func (m *SessionManager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(m.cookie)
		if token == "" {
			return c.Next()
		}

		s, err := m.Parse(c.UserContext(), token)
		if err != nil {
			m.ClearCookie(c)
			return c.Next()
		}

		if m.lookup != nil {
			exists, err := m.lookup(c.UserContext(), s.UserID)
			if err != nil {
				return err
			}
			if !exists {
				m.ClearCookie(c)
				return c.Next()
			}
		}

		c.Locals("userID", s.UserID)
		c.Locals("username", s.Username)
		c.Locals("session", s)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, s.UserID))
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user id, if any.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok && id != 0
}

// CurrentSession returns the parsed session, if any.
func CurrentSession(c *fiber.Ctx) *Session {
	s, _ := c.Locals("session").(*Session)
	return s
}

// LoginRequired redirects anonymous requests to the login page, passing the
// requested path as ?next=.
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUserID(c); ok {
			return c.Next()
		}
		return c.Redirect(LoginRedirectURL(c.OriginalURL()), fiber.StatusFound)
	}
}

// LoginRedirectURL builds "/auth/login/?next=<path>" keeping slashes readable.
func LoginRedirectURL(next string) string {
	return LoginURL + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	return next
}
