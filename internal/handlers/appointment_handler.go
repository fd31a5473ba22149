package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	catalog  *ucBooking.Catalog
	cancelUC *ucBooking.CancelAppointment
}

func NewAppointmentHandler(catalog *ucBooking.Catalog, cancelUC *ucBooking.CancelAppointment) *AppointmentHandler {
	return &AppointmentHandler{
		catalog:  catalog,
		cancelUC: cancelUC,
	}
}

// ======================================================
// LIST / DETAIL
// ======================================================

// List never fails: an unreachable backend reads as no appointments.
func (h *AppointmentHandler) List(c *gin.Context) {
	aps := h.catalog.Appointments(middleware.BackendContext(c))
	httpresp.List(c, dto.NewAppointmentList(aps))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ap, err := h.catalog.Appointment(middleware.BackendContext(c), id)
	if err != nil {
		respondError(c, err, "Error al cargar la cita")
		return
	}
	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// CANCEL
// ======================================================

// Cancel reads the appointment first so the status guard sees its current
// state; a refused cancel never reaches the backend's cancel route.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	cur, ok := middleware.CurrentSession(c)
	if !ok {
		httperr.Unauthorized(c, "session_required", "Debes iniciar sesión.")
		return
	}
	ctx := cur.Context(c.Request.Context())

	current, err := h.catalog.Appointment(ctx, id)
	if err != nil {
		respondError(c, err, "Error al cancelar la cita")
		return
	}

	updated, err := h.cancelUC.Execute(ctx, actorOf(cur), current)
	if err != nil {
		respondError(c, err, "Error al cancelar la cita")
		return
	}
	httpresp.OK(c, dto.NewAppointmentDTO(updated))
}
