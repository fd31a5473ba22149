package booking

import "strings"

// Validate checks the fields the backend requires before any request is made.
// Notes are optional.
func (d AppointmentDraft) Validate() error {
	var missing []string
	if d.BarberID == 0 {
		missing = append(missing, "barber")
	}
	if d.ServiceID == 0 {
		missing = append(missing, "service")
	}
	if strings.TrimSpace(d.Date) == "" {
		missing = append(missing, "date")
	}
	if d.TimeSlotID == 0 {
		missing = append(missing, "time_slot")
	}
	if len(missing) > 0 {
		return ValidationError{Missing: missing}
	}
	return nil
}

// Body is the create request payload.
func (d AppointmentDraft) Body() map[string]any {
	body := map[string]any{
		"barber":    d.BarberID,
		"service":   d.ServiceID,
		"date":      d.Date,
		"time_slot": d.TimeSlotID,
	}
	if notes := strings.TrimSpace(d.Notes); notes != "" {
		body["notes"] = notes
	}
	return body
}
