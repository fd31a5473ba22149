package booking

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

// DateLayout is the calendar date format the backend expects.
const DateLayout = "2006-01-02"

// ISOWeekday numbers the week 1=Monday..7=Sunday. Zero means unknown.
type ISOWeekday int

const (
	Monday ISOWeekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (d ISOWeekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

var dayNames = [...]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// Name returns the Spanish day name shown to customers.
func (d ISOWeekday) Name() string {
	if !d.Valid() {
		return "Día desconocido"
	}
	return dayNames[d-1]
}

// ISOWeekdayOf converts Go's Sunday=0 week into ISO numbering.
func ISOWeekdayOf(t time.Time) ISOWeekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return ISOWeekday(wd)
}

// ParseWeekday converts a raw weekday value read under a field with the given
// encoding. Values outside the encoding's range are drift, not data.
func ParseWeekday(raw any, enc shape.WeekdayEncoding) (ISOWeekday, error) {
	n, ok := shape.Int(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %v is not a day number", ErrWeekdayOutOfRange, raw)
	}

	switch enc {
	case shape.Monday0:
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("%w: %d outside 0-6", ErrWeekdayOutOfRange, n)
		}
		return ISOWeekday(n + 1), nil
	case shape.Monday1:
		if n < 1 || n > 7 {
			return 0, fmt.Errorf("%w: %d outside 1-7", ErrWeekdayOutOfRange, n)
		}
		return ISOWeekday(n), nil
	default:
		return 0, fmt.Errorf("unknown weekday encoding %q", enc)
	}
}

// ResolveWeekday finds the weekday of a schedule record using the catalog's
// candidate keys and the encoding declared for the key that matched.
func ResolveWeekday(rec shape.Record, catalog shape.Catalog) (ISOWeekday, string, error) {
	key, raw, ok := shape.ResolveKey(rec, catalog.WeekdayKeys())
	if !ok {
		return 0, "", nil
	}
	enc, _ := catalog.EncodingFor(key)
	wd, err := ParseWeekday(raw, enc)
	if err != nil {
		return 0, key, fmt.Errorf("field %s: %w", key, err)
	}
	return wd, key, nil
}

// ProjectNextDate returns the next date strictly after today that falls on
// target. A target equal to today's weekday lands a full week ahead.
func ProjectNextDate(target ISOWeekday, today time.Time) (string, error) {
	if !target.Valid() {
		return "", fmt.Errorf("%w: %d", ErrWeekdayOutOfRange, int(target))
	}

	daysToAdd := int(target) - int(ISOWeekdayOf(today))
	if daysToAdd <= 0 {
		daysToAdd += 7
	}
	return today.AddDate(0, 0, daysToAdd).Format(DateLayout), nil
}
