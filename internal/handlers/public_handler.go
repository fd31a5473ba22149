package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the catalog reads. Most of them answer from the
// static dataset when the backend is down.
type PublicHandler struct {
	catalog *ucBooking.Catalog
}

func NewPublicHandler(catalog *ucBooking.Catalog) *PublicHandler {
	return &PublicHandler{catalog: catalog}
}

// ======================================================
// CATALOG
// ======================================================

func (h *PublicHandler) ListSpecialties(c *gin.Context) {
	httpresp.List(c, h.catalog.Specialties(middleware.BackendContext(c)))
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	services := h.catalog.Services(middleware.BackendContext(c), queryID(c, "barber"))
	httpresp.List(c, dto.NewServiceList(services))
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	barbers, err := h.catalog.Barbers(middleware.BackendContext(c), queryID(c, "specialty"))
	if err != nil {
		respondError(c, err, "Error al cargar los barberos")
		return
	}
	httpresp.List(c, barbers)
}

func (h *PublicHandler) GetBarber(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	barber, err := h.catalog.Barber(middleware.BackendContext(c), id)
	if err != nil {
		respondError(c, err, "Error al cargar el barbero")
		return
	}
	httpresp.OK(c, barber)
}

func (h *PublicHandler) ListBarberSpecialties(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	httpresp.List(c, h.catalog.BarberSpecialties(middleware.BackendContext(c), id))
}

// BookingOptions returns what an empty booking form offers.
func (h *PublicHandler) BookingOptions(c *gin.Context) {
	barbers, services, err := h.catalog.Bootstrap(middleware.BackendContext(c))
	if err != nil {
		respondError(c, err, "Error al cargar los barberos")
		return
	}
	httpresp.OK(c, dto.NewBookingOptions(barbers, services))
}

// ======================================================
// SCHEDULE
// ======================================================

func (h *PublicHandler) ListWorkDays(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	httpresp.List(c, dto.NewWorkDayList(h.catalog.WorkDays(middleware.BackendContext(c), id)))
}

func (h *PublicHandler) ListAvailableSlots(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		slots := h.catalog.BarberSlots(middleware.BackendContext(c), id)
		httpresp.List(c, dto.NewTimeSlotList(slots))
		return
	}
	if !validators.IsDate(date) {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida, usa AAAA-MM-DD.")
		return
	}

	slots := h.catalog.SlotsOn(middleware.BackendContext(c), id, date)
	httpresp.List(c, dto.NewTimeSlotList(slots))
}
