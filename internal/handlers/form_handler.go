package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/session"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

// FormHandler drives the booking form of the caller's session.
type FormHandler struct {
	forms  *ucBooking.FormRegistry
	logger *zap.Logger
}

func NewFormHandler(forms *ucBooking.FormRegistry, logger *zap.Logger) *FormHandler {
	return &FormHandler{forms: forms, logger: logging.OrNop(logger)}
}

func actorOf(cur session.Current) ucBooking.Actor {
	return ucBooking.Actor{UserID: cur.User.ID, SessionID: cur.SessionID}
}

// current loads the session's form or writes a 404.
func (h *FormHandler) current(c *gin.Context) (*ucBooking.Form, session.Current, bool) {
	cur, ok := middleware.CurrentSession(c)
	if !ok {
		httperr.Unauthorized(c, "session_required", "Debes iniciar sesión.")
		return nil, cur, false
	}
	f, ok := h.forms.Get(cur.SessionID)
	if !ok {
		httperr.NotFound(c, "form_not_started", "No hay una reserva en curso.")
		return nil, cur, false
	}
	return f, cur, true
}

// answer renders the snapshot after a transition. A fetch that failed or was
// superseded already left its trace in the snapshot, so only refusals are
// reported as errors.
func (h *FormHandler) answer(c *gin.Context, f *ucBooking.Form, err error) {
	if err != nil && !errors.Is(err, domain.ErrSuperseded) {
		var be httperr.BusinessError
		if errors.As(err, &be) || errors.Is(err, domain.ErrWeekdayOutOfRange) {
			respondError(c, err, "Selección inválida")
			return
		}
		h.logger.Debug("form fetch failed", zap.Error(err))
	}
	httpresp.OK(c, f.Snapshot())
}

// ======================================================
// LIFECYCLE
// ======================================================

// Start opens a fresh form, seeded from ?barber= and ?service=.
func (h *FormHandler) Start(c *gin.Context) {
	cur, ok := middleware.CurrentSession(c)
	if !ok {
		httperr.Unauthorized(c, "session_required", "Debes iniciar sesión.")
		return
	}

	f := h.forms.Start(cur.SessionID, actorOf(cur))
	err := f.Seed(backendContext(c, cur), queryID(c, "barber"), queryID(c, "service"))
	h.answer(c, f, err)
}

func (h *FormHandler) Get(c *gin.Context) {
	f, _, ok := h.current(c)
	if !ok {
		return
	}
	httpresp.OK(c, f.Snapshot())
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *FormHandler) SelectBarber(c *gin.Context) {
	f, cur, ok := h.current(c)
	if !ok {
		return
	}
	var req dto.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, ucBooking.CodeInvalidBarber, "Selecciona un barbero válido")
		return
	}
	h.answer(c, f, f.SelectBarber(backendContext(c, cur), req.ID))
}

func (h *FormHandler) SelectWorkDay(c *gin.Context) {
	f, cur, ok := h.current(c)
	if !ok {
		return
	}
	var req dto.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, ucBooking.CodeUnknownWorkDay, "Selecciona un día válido")
		return
	}
	h.answer(c, f, f.SelectWorkDay(backendContext(c, cur), req.ID))
}

func (h *FormHandler) SelectSlot(c *gin.Context) {
	f, _, ok := h.current(c)
	if !ok {
		return
	}
	var req dto.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, ucBooking.CodeUnknownTimeSlot, "Selecciona un horario válido")
		return
	}
	h.answer(c, f, f.SelectSlot(req.ID))
}

// SelectService accepts id 0 to clear the service.
func (h *FormHandler) SelectService(c *gin.Context) {
	f, _, ok := h.current(c)
	if !ok {
		return
	}
	var req struct {
		ID uint `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_service", "Selecciona un servicio válido")
		return
	}
	h.answer(c, f, f.SelectService(req.ID))
}

func (h *FormHandler) SetNotes(c *gin.Context) {
	f, _, ok := h.current(c)
	if !ok {
		return
	}
	var req dto.NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_notes", "Las notas son demasiado largas")
		return
	}
	h.answer(c, f, f.SetNotes(req.Notes))
}

// ======================================================
// SUBMIT
// ======================================================

func (h *FormHandler) Submit(c *gin.Context) {
	f, cur, ok := h.current(c)
	if !ok {
		return
	}

	ap, err := f.Submit(backendContext(c, cur))
	if err != nil {
		if httperr.IsBusiness(err, ucBooking.CodeAlreadySubmitted) {
			h.logger.Info("repeated booking submit refused",
				zap.String("session_id", cur.SessionID),
				zap.Uint("appointment_id", f.Snapshot().AppointmentID),
			)
		}
		respondError(c, err, "Error al crear la cita")
		return
	}

	h.forms.Drop(cur.SessionID)
	httpresp.Created(c, dto.NewSubmitResponse(ap))
}

func backendContext(c *gin.Context, cur session.Current) context.Context {
	return cur.Context(c.Request.Context())
}
