package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/session"
)

const ContextSession = "session"

// SessionAuthenticator restores the session behind a bearer token.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (session.Current, error)
}

// AuthMiddleware requires a valid session and stores it in the context.
func AuthMiddleware(sessions SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Abort()
			httperr.Unauthorized(c, "missing_authorization_header", "Debes iniciar sesión.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Abort()
			httperr.Unauthorized(c, "invalid_authorization_header", "Debes iniciar sesión.")
			return
		}

		cur, err := sessions.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, session.ErrExpired) || errors.Is(err, session.ErrNotFound) {
				code = "session_expired"
			}
			c.Abort()
			httperr.Unauthorized(c, code, "Tu sesión expiró. Inicia sesión de nuevo.")
			return
		}

		c.Set(ContextSession, cur)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid bearer token is sent and
// lets anonymous requests through.
func OptionalAuth(sessions SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if cur, err := sessions.Authenticate(c.Request.Context(), parts[1]); err == nil {
				c.Set(ContextSession, cur)
			}
		}
		c.Next()
	}
}

// CurrentSession returns the session set by AuthMiddleware.
func CurrentSession(c *gin.Context) (session.Current, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return session.Current{}, false
	}
	cur, ok := v.(session.Current)
	return cur, ok
}

// BackendContext is the request context carrying the caller's backend token.
func BackendContext(c *gin.Context) context.Context {
	cur, ok := CurrentSession(c)
	if !ok {
		return c.Request.Context()
	}
	return cur.Context(c.Request.Context())
}
