package middleware

import (
	"net/http"
	"time"

	"gramosi/config"
	"gramosi/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const (
	// LoggedOutSentinel replaces the session token on logout.
	LoggedOutSentinel = "loggedout"

	logoutCookieTTL = 10 * time.Second
)

// SessionCookies reads and writes the session cookie.
type SessionCookies struct {
	name     string
	secure   bool
	sameSite http.SameSite
	now      func() time.Time
}

// NewSessionCookies builds the cookie writer from the session config.
func NewSessionCookies(cfg *config.Config) *SessionCookies {
	cookies := &SessionCookies{
		name: "token",
		now:  time.Now,
	}

	if cfg.Session != nil {
		if cfg.Session.CookieName != "" {
			cookies.name = cfg.Session.CookieName
		}
		cookies.secure = cfg.Session.SecureCookies
	}
	if cfg.IsProduction() {
		cookies.secure = true
	}

	var policy string
	if cfg.Session != nil {
		policy = cfg.Session.SameSite
	}
	cookies.sameSite = sameSiteMode(policy, cookies.secure)

	return cookies
}

// sameSiteMode tightens to Strict once cookies are secure unless a policy is configured.
func sameSiteMode(policy string, secure bool) http.SameSite {
	switch policy {
	case config.SameSiteStrict:
		return http.SameSiteStrictMode
	case config.SameSiteLax:
		return http.SameSiteLaxMode
	case config.SameSiteNone:
		if secure {
			return http.SameSiteNoneMode
		}

		return http.SameSiteLaxMode
	}

	if secure {
		return http.SameSiteStrictMode
	}

	return http.SameSiteLaxMode
}

// Name returns the cookie name.
func (s *SessionCookies) Name() string {
	return s.name
}

// Write attaches the session token to the response.
func (s *SessionCookies) Write(c echo.Context, token *service.SessionToken) {
	c.SetCookie(s.cookie(token.Value, token.ExpiresAt))
}

// Clear overwrites the session cookie with the logout sentinel.
func (s *SessionCookies) Clear(c echo.Context) {
	c.SetCookie(s.cookie(LoggedOutSentinel, s.now().Add(logoutCookieTTL)))
}

// Read returns the session token carried by the cookie, ignoring the logout sentinel.
func (s *SessionCookies) Read(c echo.Context) string {
	cookie, err := c.Cookie(s.name)
	if err != nil || cookie.Value == LoggedOutSentinel {
		return ""
	}

	return cookie.Value
}

func (s *SessionCookies) cookie(value string, expiresAt time.Time) *http.Cookie {
	maxAge := int(expiresAt.Sub(s.now()).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}

	return &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite,
	}
}
