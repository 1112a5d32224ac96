package middleware

import (
	"strings"

	"gramosi/internal/domain/entity"
	"gramosi/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProtectedHandler is an echo handler that runs only for an authenticated account.
type ProtectedHandler func(c echo.Context, account *entity.AuthenticatedAccount) error

// AuthMiddleware resolves the session carried by a request.
type AuthMiddleware struct {
	sessionUC usecase.SessionUsecase
	cookies   *SessionCookies
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessionUC usecase.SessionUsecase, cookies *SessionCookies) *AuthMiddleware {
	return &AuthMiddleware{sessionUC: sessionUC, cookies: cookies}
}

// Protect wraps next so that it only runs with a live session.
// The token is taken from the session cookie, then from the Authorization header.
func (m *AuthMiddleware) Protect(next ProtectedHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		account, err := m.sessionUC.Authenticate(c.Request().Context(), m.token(c))
		if err != nil {
			return errors.WithStack(err)
		}

		return next(c, account)
	}
}

func (m *AuthMiddleware) token(c echo.Context) string {
	if token := m.cookies.Read(c); token != "" {
		return token
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	const bearerPrefix = "Bearer "
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}

	return ""
}
