package booking

import (
	"strconv"
	"strings"
)

const NoSlotsMessage = "No hay horarios disponibles para este día"

// FormatTime trims "HH:MM:SS" to "HH:MM".
func FormatTime(t string) string {
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return t
	}
	return parts[0] + ":" + parts[1]
}

// FormatPrice renders a whole peso amount the way es-CO does: "$ 25.000".
func FormatPrice(price int) string {
	sign := ""
	if price < 0 {
		sign = "-"
		price = -price
	}
	digits := strconv.Itoa(price)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "$ " + b.String()
}

// WorkDayLabel is the option text of a work day: "Lunes - 09:00 a 18:00".
func WorkDayLabel(w WorkDay) string {
	return w.Weekday.Name() + " - " + FormatTime(w.StartTime) + " a " + FormatTime(w.EndTime)
}

func SlotLabel(s TimeSlot) string {
	return FormatTime(s.StartTime) + " - " + FormatTime(s.EndTime)
}
