package booking

import "github.com/BruksfildServices01/barber-booking/internal/shape"

// Barber specialties arrive as join records nesting the specialty
// ({id, specialty: {id, name}}), as flattened specialties ({id, name}), as
// {specialty_id} or as bare ids.

func specialtyEntries(rec shape.Record) []any {
	for _, key := range []string{"specialties", "especialidades"} {
		if items, ok := shape.List(rec, key); ok {
			return items
		}
	}
	return nil
}

func specialtyOf(entry any) (Specialty, bool) {
	rec, ok := shape.AsRecord(entry)
	if !ok {
		id, ok := shape.Uint(entry)
		return Specialty{ID: id}, ok
	}

	if nested, ok := shape.Sub(rec, "specialty"); ok {
		s := DecodeSpecialty(nested)
		return s, s.ID != 0
	}
	if id, ok := shape.Uint(rec["specialty"]); ok {
		return Specialty{ID: id}, true
	}
	if id, ok := shape.Uint(rec["specialty_id"]); ok {
		return Specialty{ID: id, Name: str(rec, "name")}, true
	}
	s := DecodeSpecialty(rec)
	return s, s.ID != 0
}

// HasSpecialty reports whether the barber offers the specialty. The id of a
// join record is never compared when it nests the specialty itself.
func HasSpecialty(b BarberProfile, specialtyID uint) bool {
	if specialtyID == 0 {
		return false
	}
	entries := specialtyEntries(b.Raw)
	if entries == nil {
		for _, s := range b.Specialties {
			if s.ID == specialtyID {
				return true
			}
		}
		return false
	}
	for _, entry := range entries {
		if s, ok := specialtyOf(entry); ok && s.ID == specialtyID {
			return true
		}
	}
	return false
}

// FilterBySpecialty keeps barbers offering the specialty; id 0 keeps everyone.
func FilterBySpecialty(barbers []BarberProfile, specialtyID uint) []BarberProfile {
	if specialtyID == 0 {
		return barbers
	}
	out := make([]BarberProfile, 0, len(barbers))
	for _, b := range barbers {
		if HasSpecialty(b, specialtyID) {
			out = append(out, b)
		}
	}
	return out
}
