package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", domain.ValidationError{Missing: []string{"date"}}, 422, "validation_error", "Todos los campos son obligatorios"},
		{"invalid state", httperr.ErrBusiness("invalid_state"), 409, "invalid_state", "Esta cita ya no se puede cancelar"},
		{"already booked", httperr.ErrBusiness(ucBooking.CodeAlreadySubmitted), 409, "already_submitted", "Esta cita ya fue reservada"},
		{"unknown slot", httperr.ErrBusiness(ucBooking.CodeUnknownTimeSlot), 400, "unknown_time_slot", "El horario seleccionado no está disponible"},
		{"unmapped business", httperr.ErrBusiness("odd"), 400, "odd", "fallback"},
		{"network", &domain.NetworkError{Op: "GET /x/", Err: errors.New("refused")}, 502, "backend_unreachable", "No se pudo conectar con el servidor. Intenta de nuevo."},
		{"timeout", &domain.NetworkError{Op: "GET /x/", Err: context.DeadlineExceeded}, 504, "backend_timeout", "No se pudo conectar con el servidor. Intenta de nuevo."},
		{"backend", fmt.Errorf("wrapped: %w", &domain.BackendError{Status: 400, Message: "date: Fecha inválida"}), 400, "backend_error", "date: Fecha inválida"},
		{"backend without message", &domain.BackendError{Status: 503}, 503, "backend_error", "fallback"},
		{"other", errors.New("boom"), 500, "internal_error", "fallback"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tc.err, "fallback")

			assert.Equal(t, tc.status, w.Code)
			var body httperr.HTTPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for raw, want := range map[string]bool{"12": true, "0": false, "-1": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := parseIDParam(c, "id")
		assert.Equal(t, want, ok, raw)
		if !want {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}
