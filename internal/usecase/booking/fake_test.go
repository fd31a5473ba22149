package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/infra/fallback"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

var errDown = &domain.NetworkError{Op: "GET /x/", Err: errors.New("connection refused")}

// fakeBackend answers from per-method funcs; unset methods fail as if offline.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	specialties  func() (shape.Result, error)
	services     func(barberID uint) (shape.Result, error)
	barbers      func(specialtyID uint) (shape.Result, error)
	barber       func(id uint) (shape.Record, error)
	workDays     func(barberID uint) (shape.Result, error)
	timeSlots    func(workDayID uint) (shape.Result, error)
	appointments func() (shape.Result, error)
	appointment  func(id uint) (shape.Record, error)
	create       func(d domain.AppointmentDraft) (shape.Record, error)
	cancel       func(id uint) (shape.Record, error)
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func list(recs ...shape.Record) shape.Result {
	if recs == nil {
		recs = []shape.Record{}
	}
	return shape.Result{Records: recs, Envelope: shape.EnvelopeList}
}

func (f *fakeBackend) ListSpecialties(context.Context) (shape.Result, error) {
	f.record("specialties")
	if f.specialties == nil {
		return shape.Result{}, errDown
	}
	return f.specialties()
}

func (f *fakeBackend) ListServices(_ context.Context, barberID uint) (shape.Result, error) {
	f.record("services")
	if f.services == nil {
		return shape.Result{}, errDown
	}
	return f.services(barberID)
}

func (f *fakeBackend) ListBarbers(_ context.Context, specialtyID uint) (shape.Result, error) {
	f.record("barbers")
	if f.barbers == nil {
		return shape.Result{}, errDown
	}
	return f.barbers(specialtyID)
}

func (f *fakeBackend) GetBarber(_ context.Context, id uint) (shape.Record, error) {
	f.record("barber")
	if f.barber == nil {
		return nil, errDown
	}
	return f.barber(id)
}

func (f *fakeBackend) ListBarberSpecialties(context.Context, uint) (shape.Result, error) {
	f.record("barber_specialties")
	return shape.Result{}, errDown
}

func (f *fakeBackend) ListWorkDays(_ context.Context, barberID uint) (shape.Result, error) {
	f.record("work_days")
	if f.workDays == nil {
		return shape.Result{}, errDown
	}
	return f.workDays(barberID)
}

func (f *fakeBackend) ListTimeSlots(_ context.Context, workDayID uint) (shape.Result, error) {
	f.record("time_slots")
	if f.timeSlots == nil {
		return shape.Result{}, errDown
	}
	return f.timeSlots(workDayID)
}

func (f *fakeBackend) ListBarberSlots(context.Context, uint) (shape.Result, error) {
	f.record("barber_slots")
	return shape.Result{}, errDown
}

func (f *fakeBackend) ListAvailableSlots(context.Context, uint, string) (shape.Result, error) {
	f.record("available_slots")
	return shape.Result{}, errDown
}

func (f *fakeBackend) CreateAppointment(_ context.Context, d domain.AppointmentDraft) (shape.Record, error) {
	f.record("create")
	if f.create == nil {
		return nil, errDown
	}
	return f.create(d)
}

func (f *fakeBackend) ListAppointments(context.Context) (shape.Result, error) {
	f.record("appointments")
	if f.appointments == nil {
		return shape.Result{}, errDown
	}
	return f.appointments()
}

func (f *fakeBackend) GetAppointment(_ context.Context, id uint) (shape.Record, error) {
	f.record("appointment")
	if f.appointment == nil {
		return nil, errDown
	}
	return f.appointment(id)
}

func (f *fakeBackend) CancelAppointment(_ context.Context, id uint) (shape.Record, error) {
	f.record("cancel")
	if f.cancel == nil {
		return nil, errDown
	}
	return f.cancel(id)
}

func newFallback(t *testing.T) *fallback.Dataset {
	t.Helper()
	d, err := fallback.New(fallback.Embedded(), shape.DefaultCatalog())
	require.NoError(t, err)
	return d
}

func newCatalog(t *testing.T, be *fakeBackend) *Catalog {
	t.Helper()
	return NewCatalog(be, newFallback(t), shape.DefaultCatalog(), WithFetchTimeout(time.Second))
}

// bogota is the shop timezone used across form tests.
func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

// wednesday is 2024-06-12 10:00 in the shop timezone.
func wednesday(t *testing.T) func() time.Time {
	loc := bogota(t)
	return func() time.Time { return time.Date(2024, 6, 12, 10, 0, 0, 0, loc) }
}
