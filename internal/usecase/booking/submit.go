package booking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

var tracer = otel.Tracer("barber-booking.usecase.booking")

// Actor is who a write is performed for.
type Actor struct {
	UserID    uint
	SessionID string
}

func (a Actor) userID() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

// Deps groups what the write use cases share.
type Deps struct {
	Backend domain.Backend
	Fields  shape.Catalog
	Audit   *audit.Dispatcher
	Metrics *metrics.Recorder
	Logger  *zap.Logger
	Timeout time.Duration
}

func (d Deps) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.Timeout)
}

// ======================================================
// SUBMIT
// ======================================================

type SubmitAppointment struct {
	deps   Deps
	logger *zap.Logger
}

func NewSubmitAppointment(deps Deps) *SubmitAppointment {
	return &SubmitAppointment{deps: deps, logger: logging.OrNop(deps.Logger)}
}

// Execute validates the draft locally and creates the appointment. A draft
// missing a required field never reaches the backend.
func (uc *SubmitAppointment) Execute(ctx context.Context, actor Actor, draft domain.AppointmentDraft) (domain.Appointment, error) {
	ctx, span := tracer.Start(ctx, "booking.submit_appointment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("booking.barber_id", int64(draft.BarberID)),
		attribute.Int64("booking.service_id", int64(draft.ServiceID)),
		attribute.String("booking.date", draft.Date),
	)

	if err := draft.Validate(); err != nil {
		uc.deps.Metrics.Submission("validation")
		span.SetStatus(codes.Error, "validation")
		return domain.Appointment{}, err
	}

	ctx, cancel := uc.deps.bounded(ctx)
	defer cancel()

	rec, err := uc.deps.Backend.CreateAppointment(ctx, draft)
	if err != nil {
		uc.deps.Metrics.Submission(failureOutcome(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create appointment")
		uc.logger.Warn("appointment submission failed",
			zap.Uint("barber_id", draft.BarberID),
			zap.String("date", draft.Date),
			zap.Error(err),
		)
		return domain.Appointment{}, err
	}

	ap := domain.DecodeAppointment(rec, uc.deps.Fields)
	span.SetAttributes(attribute.Int64("booking.appointment_id", int64(ap.ID)))
	uc.deps.Metrics.Submission("ok")

	uc.deps.Audit.Dispatch(audit.Event{
		UserID:    actor.userID(),
		SessionID: actor.SessionID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata: map[string]any{
			"barber":    draft.BarberID,
			"service":   draft.ServiceID,
			"date":      draft.Date,
			"time_slot": draft.TimeSlotID,
		},
	})

	return ap, nil
}

func failureOutcome(err error) string {
	if domain.IsNetwork(err) {
		return "network"
	}
	if _, ok := domain.AsBackend(err); ok {
		return "backend"
	}
	return "error"
}

// ======================================================
// CANCEL
// ======================================================

type CancelAppointment struct {
	deps   Deps
	logger *zap.Logger
}

func NewCancelAppointment(deps Deps) *CancelAppointment {
	return &CancelAppointment{deps: deps, logger: logging.OrNop(deps.Logger)}
}

// Execute cancels current when its status allows it. Completed or already
// cancelled appointments are refused without contacting the backend.
func (uc *CancelAppointment) Execute(ctx context.Context, actor Actor, current domain.Appointment) (domain.Appointment, error) {
	ctx, span := tracer.Start(ctx, "booking.cancel_appointment")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("booking.appointment_id", int64(current.ID)),
		attribute.String("booking.status", string(current.Status)),
	)

	if err := domain.CanCancel(current.Status); err != nil {
		span.SetStatus(codes.Error, "invalid_state")
		return domain.Appointment{}, err
	}

	ctx, cancel := uc.deps.bounded(ctx)
	defer cancel()

	rec, err := uc.deps.Backend.CancelAppointment(ctx, current.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancel appointment")
		uc.logger.Warn("appointment cancel failed", zap.Uint("appointment_id", current.ID), zap.Error(err))
		return domain.Appointment{}, err
	}

	updated := domain.DecodeAppointment(rec, uc.deps.Fields)
	if updated.ID == 0 {
		updated.ID = current.ID
	}
	if updated.Status == "" {
		updated.Status = domain.StatusCancelled
	}

	uc.deps.Audit.Dispatch(audit.Event{
		UserID:    actor.userID(),
		SessionID: actor.SessionID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &updated.ID,
		Metadata:  map[string]any{"previous_status": current.Status},
	})

	return updated, nil
}
