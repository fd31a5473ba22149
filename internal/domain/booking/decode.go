package booking

import (
	"math"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

// ===============================
// Record decoders
// ===============================
//
// Decoders never fail: a field that cannot be read keeps its zero value and
// the raw record stays attached for later probing.

func DecodeUser(rec shape.Record) User {
	u := User{
		FirstName:      str(rec, "first_name"),
		LastName:       str(rec, "last_name"),
		Username:       str(rec, "username"),
		Email:          str(rec, "email"),
		Role:           str(rec, "role"),
		PhoneNumber:    str(rec, "phone_number"),
		ProfilePicture: str(rec, "profile_picture"),
	}
	u.ID, _ = shape.Uint(rec["id"])
	u.IsBarber, _ = shape.Bool(rec["is_barber"])
	return u
}

func DecodeSpecialty(rec shape.Record) Specialty {
	s := Specialty{
		Name:        shape.ResolveString(rec, []string{"name", "nombre"}, ""),
		Description: shape.ResolveString(rec, []string{"description", "descripcion"}, ""),
	}
	s.ID, _ = shape.Uint(rec["id"])
	return s
}

func DecodeBarber(rec shape.Record, catalog shape.Catalog) BarberProfile {
	b := BarberProfile{
		Name:        catalog.DisplayName(rec),
		Bio:         shape.ResolveString(rec, []string{"bio", "biography", "biografia"}, ""),
		Instagram:   str(rec, "instagram_profile"),
		PhoneNumber: str(rec, "phone_number"),
		Raw:         rec,
	}
	b.ID, _ = shape.Uint(rec["id"])
	b.YearsOfExperience, _ = shape.Int(shape.Resolve(rec, []string{"years_of_experience", "experiencia"}, nil))
	b.AverageRating, _ = shape.Float(shape.Resolve(rec, []string{"average_rating", "rating"}, nil))

	if user, ok := shape.Sub(rec, "user"); ok {
		u := DecodeUser(user)
		b.User = &u
	}

	b.Specialties = []Specialty{}
	for _, entry := range specialtyEntries(rec) {
		if s, ok := specialtyOf(entry); ok {
			b.Specialties = append(b.Specialties, s)
		}
	}
	return b
}

func DecodeService(rec shape.Record) Service {
	s := Service{
		Name:        shape.ResolveString(rec, []string{"name", "nombre"}, ""),
		Description: shape.ResolveString(rec, []string{"description", "descripcion"}, ""),
		BarberName:  str(rec, "barber_name"),
		Raw:         rec,
	}
	s.ID, _ = shape.Uint(rec["id"])
	if price, ok := shape.Float(shape.Resolve(rec, []string{"price", "precio"}, nil)); ok {
		s.Price = int(math.Round(price))
	}
	s.DurationMinutes, _ = shape.Int(shape.Resolve(rec, []string{"duration_minutes", "duration", "duracion"}, nil))
	s.BarberID, _ = shape.Ref(shape.Resolve(rec, []string{"barber", "barbero_id"}, nil))
	return s
}

// DecodeWorkDay reads a schedule record. A weekday that cannot be read under
// its declared encoding is returned as an error next to the partial WorkDay.
func DecodeWorkDay(rec shape.Record, catalog shape.Catalog) (WorkDay, error) {
	w := WorkDay{
		StartTime: shape.ResolveString(rec, catalog.StartTime, ""),
		EndTime:   shape.ResolveString(rec, catalog.EndTime, ""),
		IsWorking: true,
		Raw:       rec,
	}
	w.ID, _ = shape.Uint(rec["id"])
	w.BarberID, _ = shape.Ref(shape.Resolve(rec, []string{"barber", "barbero_id"}, nil))
	if working, ok := shape.Bool(rec["is_working"]); ok {
		w.IsWorking = working
	}

	wd, key, err := ResolveWeekday(rec, catalog)
	w.WeekdayKey = key
	if err != nil {
		return w, err
	}
	w.Weekday = wd
	return w, nil
}

func DecodeTimeSlot(rec shape.Record, catalog shape.Catalog) TimeSlot {
	t := TimeSlot{
		StartTime:   shape.ResolveString(rec, catalog.StartTime, ""),
		EndTime:     shape.ResolveString(rec, catalog.EndTime, ""),
		IsAvailable: true,
		Raw:         rec,
	}
	t.ID, _ = shape.Uint(rec["id"])
	t.WorkDayID, _ = shape.Ref(rec["work_day"])
	t.BarberID, _ = shape.Ref(shape.Resolve(rec, []string{"barber", "barbero_id"}, nil))
	if available, ok := shape.Bool(rec["is_available"]); ok {
		t.IsAvailable = available
	}
	return t
}

// DecodeAppointment reads an appointment; barber, service and time slot may be
// plain ids or embedded objects, with details optionally in *_details.
func DecodeAppointment(rec shape.Record, catalog shape.Catalog) Appointment {
	a := Appointment{
		Date:      shape.ResolveString(rec, []string{"date", "appointment_date"}, ""),
		Status:    Status(str(rec, "status")),
		Notes:     str(rec, "notes"),
		CreatedAt: str(rec, "created_at"),
		UpdatedAt: str(rec, "updated_at"),
		Raw:       rec,
	}
	a.ID, _ = shape.Uint(rec["id"])
	a.CustomerID, _ = shape.Ref(rec["customer"])
	a.BarberID, _ = shape.Ref(rec["barber"])
	a.ServiceID, _ = shape.Ref(rec["service"])
	a.TimeSlotID, _ = shape.Ref(rec["time_slot"])

	if barber, ok := details(rec, "barber"); ok {
		a.BarberName = catalog.DisplayName(barber)
	}
	if service, ok := details(rec, "service"); ok {
		svc := DecodeService(service)
		a.ServiceName = svc.Name
		a.Price = svc.Price
	}
	if slot, ok := details(rec, "time_slot"); ok {
		a.StartTime = shape.ResolveString(slot, catalog.StartTime, "")
		a.EndTime = shape.ResolveString(slot, catalog.EndTime, "")
	}
	if a.StartTime == "" {
		a.StartTime = str(rec, "appointment_time")
	}
	return a
}

func details(rec shape.Record, key string) (shape.Record, bool) {
	if d, ok := shape.Sub(rec, key+"_details"); ok {
		return d, true
	}
	return shape.Sub(rec, key)
}

func str(rec shape.Record, key string) string {
	s, _ := shape.String(rec[key])
	return strings.TrimSpace(s)
}
