package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

var businessMessages = map[string]string{
	"invalid_state":                    "Esta cita ya no se puede cancelar",
	ucBooking.CodeInvalidBarber:        "Selecciona un barbero válido",
	ucBooking.CodeBarberRequired:       "Selecciona un barbero primero",
	ucBooking.CodeWorkDayRequired:      "Selecciona un día primero",
	ucBooking.CodeUnknownWorkDay:       "El día seleccionado no está disponible",
	ucBooking.CodeUnknownTimeSlot:      "El horario seleccionado no está disponible",
	ucBooking.CodeSubmissionInProgress: "Tu cita se está enviando",
	ucBooking.CodeAlreadySubmitted:     "Esta cita ya fue reservada",
}

// conflicts are business refusals caused by current state rather than input.
var conflicts = map[string]bool{
	"invalid_state":                    true,
	ucBooking.CodeSubmissionInProgress: true,
	ucBooking.CodeAlreadySubmitted:     true,
}

// respondError maps a domain or transport error to a JSON error response.
// fallback is shown when nothing more specific can be said.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	var be httperr.BusinessError
	switch {
	case domain.IsValidation(err):
		httperr.Unprocessable(c, "validation_error", ucBooking.UserMessage(err, fallback))
		return

	case errors.As(err, &be):
		msg, ok := businessMessages[be.Code]
		if !ok {
			msg = fallback
		}
		if conflicts[be.Code] {
			httperr.Conflict(c, be.Code, msg)
			return
		}
		httperr.BadRequest(c, be.Code, msg)
		return

	case errors.Is(err, context.DeadlineExceeded):
		httperr.GatewayTimeout(c, "backend_timeout", ucBooking.UserMessage(err, fallback))
		return

	case domain.IsNetwork(err):
		httperr.BadGateway(c, "backend_unreachable", ucBooking.UserMessage(err, fallback))
		return
	}

	if backendErr, ok := domain.AsBackend(err); ok {
		status := backendErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		httperr.Write(c, status, "backend_error", ucBooking.UserMessage(err, fallback))
		return
	}

	httperr.Internal(c, "internal_error", fallback)
}

// ======================================================
// PARAMS
// ======================================================

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// queryID reads an optional numeric query parameter; junk reads as zero.
func queryID(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
