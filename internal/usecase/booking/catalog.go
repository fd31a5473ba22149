package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

const (
	reasonError = "error"
	reasonShape = "shape_mismatch"
)

// Catalog is the read side of the booking flow. Listings and schedules fall
// back to the static dataset when the backend fails; appointments never do.
type Catalog struct {
	backend  domain.Backend
	fallback domain.Fallback
	fields   shape.Catalog
	metrics  *metrics.Recorder
	logger   *zap.Logger
	timeout  time.Duration
}

type CatalogOption func(*Catalog)

func WithCatalogLogger(l *zap.Logger) CatalogOption {
	return func(c *Catalog) { c.logger = logging.OrNop(l) }
}

func WithCatalogMetrics(m *metrics.Recorder) CatalogOption {
	return func(c *Catalog) { c.metrics = m }
}

// WithFetchTimeout bounds every backend read.
func WithFetchTimeout(d time.Duration) CatalogOption {
	return func(c *Catalog) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewCatalog(backend domain.Backend, fallback domain.Fallback, fields shape.Catalog, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		backend:  backend,
		fallback: fallback,
		fields:   fields,
		logger:   zap.NewNop(),
		timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Catalog) Fields() shape.Catalog { return c.fields }

func (c *Catalog) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// fetchList runs one list read. ok=false means the caller should degrade.
func (c *Catalog) fetchList(ctx context.Context, resource string, fetch func(context.Context) (shape.Result, error)) ([]shape.Record, bool) {
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	res, err := fetch(ctx)
	if err != nil {
		c.logger.Warn("backend read failed, serving fallback",
			zap.String("resource", resource),
			zap.Error(err),
		)
		c.metrics.FallbackServed(resource, reasonError)
		return nil, false
	}
	if !res.IsList() {
		c.logger.Warn("unexpected response shape, serving fallback",
			zap.String("resource", resource),
			zap.String("envelope", string(res.Envelope)),
		)
		c.metrics.FallbackServed(resource, reasonShape)
		return nil, false
	}
	return res.Records, true
}

// ======================================================
// CATALOG
// ======================================================

func (c *Catalog) Specialties(ctx context.Context) []domain.Specialty {
	recs, ok := c.fetchList(ctx, "specialties", c.backend.ListSpecialties)
	if !ok {
		return c.fallback.Specialties()
	}
	out := make([]domain.Specialty, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.DecodeSpecialty(r))
	}
	return out
}

// Services lists all services, or a barber's when barberID is set.
func (c *Catalog) Services(ctx context.Context, barberID uint) []domain.Service {
	recs, ok := c.fetchList(ctx, "services", func(ctx context.Context) (shape.Result, error) {
		return c.backend.ListServices(ctx, barberID)
	})
	if !ok {
		if barberID != 0 {
			return c.fallback.ServicesForBarber(barberID)
		}
		return c.fallback.Services()
	}
	out := make([]domain.Service, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.DecodeService(r))
	}
	return out
}

// Barbers has no fallback: a failure reaches the caller. The specialty filter
// is sent to the backend and applied again locally, since the backend may ignore it.
func (c *Catalog) Barbers(ctx context.Context, specialtyID uint) ([]domain.BarberProfile, error) {
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	res, err := c.backend.ListBarbers(ctx, specialtyID)
	if err != nil {
		return nil, err
	}
	if !res.IsList() {
		c.logger.Debug("barbers response not a list", zap.String("envelope", string(res.Envelope)))
	}

	out := make([]domain.BarberProfile, 0, len(res.Records))
	for _, r := range res.Records {
		out = append(out, domain.DecodeBarber(r, c.fields))
	}
	return domain.FilterBySpecialty(out, specialtyID), nil
}

// Barber returns the backend profile, or the static one when the backend fails.
// The backend error is returned when neither has it.
func (c *Catalog) Barber(ctx context.Context, id uint) (domain.BarberProfile, error) {
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	rec, err := c.backend.GetBarber(ctx, id)
	if err == nil {
		return domain.DecodeBarber(rec, c.fields), nil
	}

	if b, ok := c.fallback.Barber(id); ok {
		c.logger.Warn("barber detail failed, serving fallback", zap.Uint("barber_id", id), zap.Error(err))
		c.metrics.FallbackServed("barber", reasonError)
		return b, nil
	}
	return domain.BarberProfile{}, err
}

func (c *Catalog) BarberSpecialties(ctx context.Context, barberID uint) []domain.Specialty {
	recs, ok := c.fetchList(ctx, "barber_specialties", func(ctx context.Context) (shape.Result, error) {
		return c.backend.ListBarberSpecialties(ctx, barberID)
	})
	if !ok {
		return c.fallback.BarberSpecialties(barberID)
	}
	out := make([]domain.Specialty, 0, len(recs))
	for _, r := range recs {
		// join rows carry the specialty nested
		if nested, ok := shape.Sub(r, "specialty"); ok {
			r = nested
		}
		out = append(out, domain.DecodeSpecialty(r))
	}
	return out
}

// Bootstrap loads what an empty booking form offers: barbers and services.
func (c *Catalog) Bootstrap(ctx context.Context) ([]domain.BarberProfile, []domain.Service, error) {
	var (
		barbers  []domain.BarberProfile
		services []domain.Service
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		barbers, err = c.Barbers(gctx, 0)
		return err
	})
	g.Go(func() error {
		services = c.Services(gctx, 0)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return barbers, services, nil
}

// ======================================================
// SCHEDULES
// ======================================================

// WorkDays decodes a barber's work days. Records whose weekday breaks its
// field's encoding are kept with Weekday zero and logged.
func (c *Catalog) WorkDays(ctx context.Context, barberID uint) []domain.WorkDay {
	recs, ok := c.fetchList(ctx, "work_days", func(ctx context.Context) (shape.Result, error) {
		return c.backend.ListWorkDays(ctx, barberID)
	})
	if !ok {
		return c.fallback.WorkDays(barberID)
	}

	out := make([]domain.WorkDay, 0, len(recs))
	for _, r := range recs {
		w, err := domain.DecodeWorkDay(r, c.fields)
		if err != nil {
			c.logger.Warn("work day weekday drift",
				zap.Uint("barber_id", barberID),
				zap.Uint("work_day_id", w.ID),
				zap.String("field", w.WeekdayKey),
				zap.Error(err),
			)
		}
		if w.BarberID == 0 {
			w.BarberID = barberID
		}
		out = append(out, w)
	}
	return out
}

// SlotsForWorkDay lists the slots of one work day. An unexpected shape or a
// backend refusal yields no slots; transport failures and timeouts are
// returned so the caller can offer a retry.
func (c *Catalog) SlotsForWorkDay(ctx context.Context, workDayID uint) ([]domain.TimeSlot, error) {
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	res, err := c.backend.ListTimeSlots(ctx, workDayID)
	if err != nil {
		if domain.IsNetwork(err) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.Warn("time slots read failed", zap.Uint("work_day_id", workDayID), zap.Error(err))
		return []domain.TimeSlot{}, nil
	}
	if !res.IsList() {
		c.logger.Debug("time slots response not a list", zap.Uint("work_day_id", workDayID))
		return []domain.TimeSlot{}, nil
	}

	out := make([]domain.TimeSlot, 0, len(res.Records))
	for _, r := range res.Records {
		s := domain.DecodeTimeSlot(r, c.fields)
		if s.WorkDayID == 0 {
			s.WorkDayID = workDayID
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Catalog) BarberSlots(ctx context.Context, barberID uint) []domain.TimeSlot {
	recs, ok := c.fetchList(ctx, "barber_slots", func(ctx context.Context) (shape.Result, error) {
		return c.backend.ListBarberSlots(ctx, barberID)
	})
	if !ok {
		return c.fallback.SlotsForBarber(barberID)
	}
	return c.decodeSlots(recs)
}

// SlotsOn lists a barber's free slots on a YYYY-MM-DD date.
func (c *Catalog) SlotsOn(ctx context.Context, barberID uint, date string) []domain.TimeSlot {
	recs, ok := c.fetchList(ctx, "slots_by_date", func(ctx context.Context) (shape.Result, error) {
		return c.backend.ListAvailableSlots(ctx, barberID, date)
	})
	if !ok {
		return c.fallback.SlotsOn(barberID, date)
	}
	return c.decodeSlots(recs)
}

func (c *Catalog) decodeSlots(recs []shape.Record) []domain.TimeSlot {
	out := make([]domain.TimeSlot, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.DecodeTimeSlot(r, c.fields))
	}
	return out
}

// ======================================================
// APPOINTMENTS
// ======================================================

// Appointments lists the caller's appointments. Failures yield an empty list.
func (c *Catalog) Appointments(ctx context.Context) []domain.Appointment {
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	res, err := c.backend.ListAppointments(ctx)
	if err != nil {
		c.logger.Warn("appointments read failed", zap.Error(err))
		return []domain.Appointment{}
	}

	out := make([]domain.Appointment, 0, len(res.Records))
	for _, r := range res.Records {
		out = append(out, domain.DecodeAppointment(r, c.fields))
	}
	return out
}

func (c *Catalog) Appointment(ctx context.Context, id uint) (domain.Appointment, error) {
	ctx, cancel := c.bounded(ctx)
	defer cancel()

	rec, err := c.backend.GetAppointment(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	return domain.DecodeAppointment(rec, c.fields), nil
}
