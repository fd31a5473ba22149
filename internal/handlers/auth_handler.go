package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/infra/backend"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/session"
)

// Sessions is the part of session.Manager the auth routes drive.
type Sessions interface {
	Login(ctx context.Context, creds backend.Credentials) (session.Issued, error)
	Logout(ctx context.Context, sessionID string) error
}

// FormDropper forgets the booking form of a closed session.
type FormDropper interface {
	Drop(sessionID string)
}

type AuthHandler struct {
	sessions Sessions
	forms    FormDropper
	audit    *audit.Dispatcher
	logger   *zap.Logger
}

func NewAuthHandler(sessions Sessions, forms FormDropper, dispatcher *audit.Dispatcher, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		forms:    forms,
		audit:    dispatcher,
		logger:   logging.OrNop(logger),
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}
	if req.Username == "" && req.Email == "" {
		httperr.BadRequest(c, "invalid_request", "Ingresa tu usuario o correo.")
		return
	}

	issued, err := h.sessions.Login(c.Request.Context(), backend.Credentials{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) && be.Status < 500 {
			httperr.Unauthorized(c, "invalid_credentials", be.Message)
			return
		}
		h.logger.Warn("login failed", zap.Error(err))
		respondError(c, err, "Error de autenticación")
		return
	}

	uid := issued.User.ID
	h.audit.Dispatch(audit.Event{
		UserID: &uid,
		Action: "login",
		Entity: "session",
	})

	httpresp.OK(c, issued)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	cur, ok := middleware.CurrentSession(c)
	if !ok {
		httperr.Unauthorized(c, "session_required", "Debes iniciar sesión.")
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), cur.SessionID); err != nil {
		h.logger.Error("logout failed", zap.String("session_id", cur.SessionID), zap.Error(err))
		httperr.Internal(c, "logout_failed", "No se pudo cerrar la sesión.")
		return
	}
	if h.forms != nil {
		h.forms.Drop(cur.SessionID)
	}

	uid := cur.User.ID
	h.audit.Dispatch(audit.Event{
		UserID:    &uid,
		SessionID: cur.SessionID,
		Action:    "logout",
		Entity:    "session",
	})

	c.Status(204)
}
