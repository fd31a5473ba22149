// Package fallback serves the static barbershop dataset that read paths
// degrade to when the backend is unreachable or answers in an unknown shape.
package fallback

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

//go:embed data/barberos.json
var embedded []byte

// Embedded returns the dataset compiled into the binary.
func Embedded() []byte { return embedded }

type snapshot struct {
	barbers     []booking.BarberProfile
	specialties []booking.Specialty
	services    []booking.Service
	workDays    []booking.WorkDay
	slots       []booking.TimeSlot
	loadedAt    time.Time
}

// Dataset is safe for concurrent use; Replace swaps the whole snapshot.
type Dataset struct {
	catalog shape.Catalog

	mu   sync.RWMutex
	snap *snapshot
}

var _ booking.Fallback = (*Dataset)(nil)

// New parses data, usually Embedded().
func New(data []byte, catalog shape.Catalog) (*Dataset, error) {
	d := &Dataset{catalog: catalog}
	if err := d.Replace(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Replace parses data and swaps it in. On error the current snapshot stays.
func (d *Dataset) Replace(data []byte) error {
	snap, err := parse(data, d.catalog)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.snap = snap
	d.mu.Unlock()
	return nil
}

// Reload fetches from src and replaces the snapshot.
func (d *Dataset) Reload(ctx context.Context, src Source) error {
	data, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch fallback dataset from %s: %w", src.Name(), err)
	}
	return d.Replace(data)
}

func (d *Dataset) LoadedAt() time.Time {
	return d.current().loadedAt
}

func (d *Dataset) current() *snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

func parse(data []byte, catalog shape.Catalog) (*snapshot, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parse fallback dataset: %w", err)
	}
	if _, ok := sections["barberos"]; !ok {
		return nil, fmt.Errorf("parse fallback dataset: missing barberos section")
	}

	s := &snapshot{loadedAt: time.Now()}

	for _, rec := range shape.NormalizeJSON(sections["especialidades"]) {
		s.specialties = append(s.specialties, booking.DecodeSpecialty(rec))
	}
	for _, rec := range shape.NormalizeJSON(sections["barberos"]) {
		b := booking.DecodeBarber(rec, catalog)
		for i, sp := range b.Specialties {
			if named, ok := findSpecialty(s.specialties, sp.ID); ok {
				b.Specialties[i] = named
			}
		}
		s.barbers = append(s.barbers, b)
	}
	for _, rec := range shape.NormalizeJSON(sections["servicios"]) {
		s.services = append(s.services, booking.DecodeService(rec))
	}
	for _, rec := range shape.NormalizeJSON(sections["diasTrabajo"]) {
		w, err := booking.DecodeWorkDay(rec, catalog)
		if err != nil {
			return nil, fmt.Errorf("parse fallback work day %d: %w", w.ID, err)
		}
		s.workDays = append(s.workDays, w)
	}
	for _, rec := range shape.NormalizeJSON(sections["slots"]) {
		s.slots = append(s.slots, booking.DecodeTimeSlot(rec, catalog))
	}
	return s, nil
}

func findSpecialty(all []booking.Specialty, id uint) (booking.Specialty, bool) {
	for _, s := range all {
		if s.ID == id {
			return s, true
		}
	}
	return booking.Specialty{}, false
}

// ===============================
// Lookups
// ===============================

func (d *Dataset) Barbers() []booking.BarberProfile {
	return append([]booking.BarberProfile{}, d.current().barbers...)
}

func (d *Dataset) Specialties() []booking.Specialty {
	return append([]booking.Specialty{}, d.current().specialties...)
}

func (d *Dataset) Services() []booking.Service {
	return append([]booking.Service{}, d.current().services...)
}

func (d *Dataset) ServicesForBarber(barberID uint) []booking.Service {
	out := []booking.Service{}
	for _, s := range d.current().services {
		if s.BarberID == barberID {
			out = append(out, s)
		}
	}
	return out
}

func (d *Dataset) Barber(id uint) (booking.BarberProfile, bool) {
	for _, b := range d.current().barbers {
		if b.ID == id {
			return b, true
		}
	}
	return booking.BarberProfile{}, false
}

// BarberSpecialties resolves the barber's specialty ids against the dataset.
func (d *Dataset) BarberSpecialties(barberID uint) []booking.Specialty {
	snap := d.current()
	out := []booking.Specialty{}
	for _, b := range snap.barbers {
		if b.ID != barberID {
			continue
		}
		for _, sp := range b.Specialties {
			if named, ok := findSpecialty(snap.specialties, sp.ID); ok {
				out = append(out, named)
			}
		}
	}
	return out
}

func (d *Dataset) WorkDays(barberID uint) []booking.WorkDay {
	out := []booking.WorkDay{}
	for _, w := range d.current().workDays {
		if w.BarberID == barberID {
			out = append(out, w)
		}
	}
	return out
}

func (d *Dataset) SlotsForBarber(barberID uint) []booking.TimeSlot {
	out := []booking.TimeSlot{}
	for _, s := range d.current().slots {
		if s.BarberID == barberID {
			out = append(out, s)
		}
	}
	return out
}

// SlotsOn returns the barber's slots that fit inside the work day falling on
// date. No work day that weekday means no slots.
func (d *Dataset) SlotsOn(barberID uint, date string) []booking.TimeSlot {
	day, err := time.Parse(booking.DateLayout, date)
	if err != nil {
		return []booking.TimeSlot{}
	}
	weekday := booking.ISOWeekdayOf(day)

	var window *booking.WorkDay
	for _, w := range d.WorkDays(barberID) {
		if w.Weekday == weekday {
			window = &w
			break
		}
	}
	if window == nil {
		return []booking.TimeSlot{}
	}

	out := []booking.TimeSlot{}
	for _, s := range d.SlotsForBarber(barberID) {
		if s.StartTime >= window.StartTime && s.EndTime <= window.EndTime {
			out = append(out, s)
		}
	}
	return out
}
