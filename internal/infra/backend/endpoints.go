package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

var _ booking.Backend = (*Client)(nil)

// ===============================
// Catalog
// ===============================

func (c *Client) ListSpecialties(ctx context.Context) (shape.Result, error) {
	return c.getResult(ctx, "list_specialties", "/barbers/specialties/")
}

// ListServices lists every service, or those of one barber when barberID is set.
func (c *Client) ListServices(ctx context.Context, barberID uint) (shape.Result, error) {
	if barberID == 0 {
		return c.getResult(ctx, "list_services", "/services/")
	}
	return c.getResult(ctx, "list_barber_services", "/services/?barber="+id(barberID))
}

func (c *Client) ListBarbers(ctx context.Context, specialtyID uint) (shape.Result, error) {
	path := "/barbers/profiles/"
	if specialtyID != 0 {
		path += "?" + url.Values{"specialties__specialty": {id(specialtyID)}}.Encode()
	}
	return c.getResult(ctx, "list_barbers", path)
}

func (c *Client) GetBarber(ctx context.Context, barberID uint) (shape.Record, error) {
	return c.getRecord(ctx, "get_barber", http.MethodGet, "/barbers/profiles/"+id(barberID)+"/", nil)
}

func (c *Client) ListBarberSpecialties(ctx context.Context, barberID uint) (shape.Result, error) {
	return c.getResult(ctx, "list_barber_specialties", "/barbers/profiles/"+id(barberID)+"/specialties/")
}

// ===============================
// Schedules
// ===============================

// WorkDayRoute is one candidate endpoint for a barber's work days.
type WorkDayRoute struct {
	Name string
	Path func(barberID uint) string
}

// DefaultWorkDayRoutes lists the work-day endpoints in the order they are tried.
// The backend moved this resource more than once.
func DefaultWorkDayRoutes() []WorkDayRoute {
	return []WorkDayRoute{
		{Name: "schedules_workdays", Path: func(b uint) string { return "/schedules/workdays/?barber=" + id(b) }},
		{Name: "schedules", Path: func(b uint) string { return "/schedules/?barber=" + id(b) }},
		{Name: "profile_schedules", Path: func(b uint) string { return "/barbers/profiles/" + id(b) + "/schedules/" }},
		{Name: "profile_workdays", Path: func(b uint) string { return "/barbers/profiles/" + id(b) + "/workdays/" }},
	}
}

// ListWorkDays tries each work-day route until one answers with a list.
// It fails only when none did, returning the last error seen.
func (c *Client) ListWorkDays(ctx context.Context, barberID uint) (shape.Result, error) {
	lastErr := error(booking.ErrShapeMismatch)

	for _, route := range c.workDays {
		if err := ctx.Err(); err != nil {
			return shape.Result{}, &booking.NetworkError{Op: "list work days", Err: err}
		}

		res, err := c.getResult(ctx, "list_work_days", route.Path(barberID))
		switch {
		case err != nil:
			c.metrics.RouteProbe(route.Name, "error")
			lastErr = err
		case !res.IsList():
			c.metrics.RouteProbe(route.Name, "shape_mismatch")
			lastErr = fmt.Errorf("route %s: %w", route.Name, booking.ErrShapeMismatch)
		default:
			c.metrics.RouteProbe(route.Name, "hit")
			c.logger.Debug("work days route resolved",
				zap.String("route", route.Name),
				zap.Uint("barber_id", barberID),
			)
			return res, nil
		}
	}

	c.logger.Warn("no work days route answered",
		zap.Uint("barber_id", barberID),
		zap.Error(lastErr),
	)
	return shape.Result{}, fmt.Errorf("work days for barber %d: %w", barberID, lastErr)
}

func (c *Client) ListTimeSlots(ctx context.Context, workDayID uint) (shape.Result, error) {
	return c.getResult(ctx, "list_time_slots", "/schedules/timeslots/?work_day="+id(workDayID))
}

func (c *Client) ListBarberSlots(ctx context.Context, barberID uint) (shape.Result, error) {
	return c.getResult(ctx, "list_barber_slots", "/schedules/timeslots/?barber="+id(barberID))
}

// ListAvailableSlots lists a barber's free slots on a YYYY-MM-DD date.
func (c *Client) ListAvailableSlots(ctx context.Context, barberID uint, date string) (shape.Result, error) {
	path := "/barbers/profiles/" + id(barberID) + "/available-slots/?" + url.Values{"date": {date}}.Encode()
	return c.getResult(ctx, "list_available_slots", path)
}

// ===============================
// Appointments
// ===============================

func (c *Client) CreateAppointment(ctx context.Context, draft booking.AppointmentDraft) (shape.Record, error) {
	return c.getRecord(ctx, "create_appointment", http.MethodPost, "/appointments/", draft.Body())
}

func (c *Client) ListAppointments(ctx context.Context) (shape.Result, error) {
	return c.getResult(ctx, "list_appointments", "/appointments/")
}

func (c *Client) GetAppointment(ctx context.Context, appointmentID uint) (shape.Record, error) {
	return c.getRecord(ctx, "get_appointment", http.MethodGet, "/appointments/"+id(appointmentID)+"/", nil)
}

func (c *Client) CancelAppointment(ctx context.Context, appointmentID uint) (shape.Record, error) {
	return c.getRecord(ctx, "cancel_appointment", http.MethodPost, "/appointments/"+id(appointmentID)+"/cancel/", nil)
}

// IsNotFound reports a 404 from the backend.
func IsNotFound(err error) bool {
	var be *booking.BackendError
	return errors.As(err, &be) && be.Status == http.StatusNotFound
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
