package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

func TestSpecialtiesFallBackOnFailure(t *testing.T) {
	c := newCatalog(t, &fakeBackend{})

	got := c.Specialties(context.Background())
	require.Len(t, got, 5)
	assert.Equal(t, "Cortes clásicos", got[0].Name)
}

func TestSpecialtiesFallBackOnShapeMismatch(t *testing.T) {
	be := &fakeBackend{specialties: func() (shape.Result, error) {
		return shape.Result{Records: []shape.Record{{"detail": "x"}}, Envelope: shape.EnvelopeSingle}, nil
	}}

	assert.Len(t, newCatalog(t, be).Specialties(context.Background()), 5)
}

func TestServicesFromBackendKeepOrder(t *testing.T) {
	be := &fakeBackend{services: func(uint) (shape.Result, error) {
		return shape.Result{Envelope: shape.EnvelopePaginated, Records: []shape.Record{
			{"id": 1.0, "name": "Corte", "price": "25000.00"},
			{"id": 2.0, "name": "Barba", "price": 18000.0},
		}}, nil
	}}

	got := newCatalog(t, be).Services(context.Background(), 0)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, 25000, got[0].Price)
	assert.Equal(t, "Barba", got[1].Name)
}

func TestServicesForBarberFallback(t *testing.T) {
	got := newCatalog(t, &fakeBackend{}).Services(context.Background(), 3)
	require.Len(t, got, 2)
	assert.Equal(t, "Arreglo de barba", got[0].Name)
}

func TestBarbersPropagateFailure(t *testing.T) {
	_, err := newCatalog(t, &fakeBackend{}).Barbers(context.Background(), 0)
	assert.True(t, domain.IsNetwork(err))
}

func TestBarbersFilteredBySpecialty(t *testing.T) {
	be := &fakeBackend{barbers: func(specialtyID uint) (shape.Result, error) {
		assert.Equal(t, uint(7), specialtyID)
		// the backend ignored the filter
		return list(
			shape.Record{"id": 1.0, "name": "Nested", "specialties": []any{
				map[string]any{"id": 12.0, "specialty": map[string]any{"id": 7.0, "name": "Fades"}},
			}},
			shape.Record{"id": 2.0, "name": "Flat", "specialties": []any{map[string]any{"id": 7.0}}},
			shape.Record{"id": 3.0, "name": "Other", "specialties": []any{
				map[string]any{"id": 7.0, "specialty": map[string]any{"id": 2.0}},
			}},
		), nil
	}}

	got, err := newCatalog(t, be).Barbers(context.Background(), 7)
	require.NoError(t, err)

	var names []string
	for _, b := range got {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Nested", "Flat"}, names)
}

func TestBarberDetail(t *testing.T) {
	be := &fakeBackend{barber: func(id uint) (shape.Record, error) {
		if id == 5 {
			return shape.Record{"id": 5.0, "user": map[string]any{"first_name": "Ana", "last_name": "Ruiz"}}, nil
		}
		return nil, &domain.BackendError{Status: 404, Message: "No encontrado."}
	}}
	c := newCatalog(t, be)

	b, err := c.Barber(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", b.Name)

	b, err = c.Barber(context.Background(), 2)
	require.NoError(t, err, "static profile when the backend fails")
	assert.Equal(t, "Andrés Gómez", b.Name)

	_, err = c.Barber(context.Background(), 99)
	be404, ok := domain.AsBackend(err)
	require.True(t, ok)
	assert.Equal(t, 404, be404.Status)
}

func TestWorkDaysDecodeAndFallback(t *testing.T) {
	be := &fakeBackend{workDays: func(barberID uint) (shape.Result, error) {
		if barberID != 4 {
			return shape.Result{}, errDown
		}
		return list(
			shape.Record{"id": 11.0, "day_of_week": 4.0, "start_time": "09:00:00", "end_time": "18:00:00"},
			shape.Record{"id": 12.0, "dia": 9.0},
		), nil
	}}
	c := newCatalog(t, be)

	days := c.WorkDays(context.Background(), 4)
	require.Len(t, days, 2)
	assert.Equal(t, domain.Friday, days[0].Weekday)
	assert.Equal(t, uint(4), days[0].BarberID)
	assert.Equal(t, domain.ISOWeekday(0), days[1].Weekday, "drifted weekday is not guessed")

	days = c.WorkDays(context.Background(), 1)
	require.Len(t, days, 3)
	assert.Equal(t, domain.Monday, days[0].Weekday)
}

func TestSlotsForWorkDay(t *testing.T) {
	be := &fakeBackend{timeSlots: func(workDayID uint) (shape.Result, error) {
		switch workDayID {
		case 1:
			return list(shape.Record{"id": 31.0, "start_time": "09:00:00", "end_time": "09:30:00"}), nil
		case 2:
			return shape.Result{Envelope: shape.EnvelopeNone, Records: []shape.Record{}}, nil
		case 3:
			return shape.Result{}, &domain.BackendError{Status: 500, Message: "boom"}
		default:
			return shape.Result{}, errDown
		}
	}}
	c := newCatalog(t, be)
	ctx := context.Background()

	slots, err := c.SlotsForWorkDay(ctx, 1)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, uint(1), slots[0].WorkDayID)

	slots, err = c.SlotsForWorkDay(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = c.SlotsForWorkDay(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = c.SlotsForWorkDay(ctx, 4)
	assert.True(t, domain.IsNetwork(err))
}

func TestSlotsOnFallsBackToDataset(t *testing.T) {
	got := newCatalog(t, &fakeBackend{}).SlotsOn(context.Background(), 1, "2024-06-14")
	assert.Len(t, got, 3)
}

func TestAppointmentsEmptyOnFailure(t *testing.T) {
	c := newCatalog(t, &fakeBackend{})

	got := c.Appointments(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err := c.Appointment(context.Background(), 1)
	assert.Error(t, err)
}

func TestBootstrap(t *testing.T) {
	be := &fakeBackend{
		barbers: func(uint) (shape.Result, error) {
			return list(shape.Record{"id": 1.0, "name": "Carlos"}), nil
		},
	}

	barbers, services, err := newCatalog(t, be).Bootstrap(context.Background())
	require.NoError(t, err)
	assert.Len(t, barbers, 1)
	assert.Len(t, services, 6, "services fall back")

	_, _, err = newCatalog(t, &fakeBackend{}).Bootstrap(context.Background())
	assert.Error(t, err)
}
