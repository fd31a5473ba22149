package booking

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

// Backend is the remote booking API. Read methods return the normalized
// payload with its envelope so callers can tell an empty list from a shape
// they did not expect.
type Backend interface {
	// -------- Catalog --------
	ListSpecialties(ctx context.Context) (shape.Result, error)
	ListServices(ctx context.Context, barberID uint) (shape.Result, error)
	ListBarbers(ctx context.Context, specialtyID uint) (shape.Result, error)
	GetBarber(ctx context.Context, id uint) (shape.Record, error)
	ListBarberSpecialties(ctx context.Context, barberID uint) (shape.Result, error)

	// -------- Schedules --------
	ListWorkDays(ctx context.Context, barberID uint) (shape.Result, error)
	ListTimeSlots(ctx context.Context, workDayID uint) (shape.Result, error)
	ListBarberSlots(ctx context.Context, barberID uint) (shape.Result, error)
	ListAvailableSlots(ctx context.Context, barberID uint, date string) (shape.Result, error)

	// -------- Appointments --------
	CreateAppointment(ctx context.Context, draft AppointmentDraft) (shape.Record, error)
	ListAppointments(ctx context.Context) (shape.Result, error)
	GetAppointment(ctx context.Context, id uint) (shape.Record, error)
	CancelAppointment(ctx context.Context, id uint) (shape.Record, error)
}

// Fallback serves the static dataset used when read paths degrade.
// Lookups of absent entities return false, never an error.
type Fallback interface {
	Specialties() []Specialty
	Services() []Service
	ServicesForBarber(barberID uint) []Service
	Barber(id uint) (BarberProfile, bool)
	BarberSpecialties(barberID uint) []Specialty
	WorkDays(barberID uint) []WorkDay
	SlotsForBarber(barberID uint) []TimeSlot
	SlotsOn(barberID uint, date string) []TimeSlot
}
