package dto

import (
	"strconv"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

// AppointmentDTO is an appointment plus the labels the customer sees.
type AppointmentDTO struct {
	booking.Appointment

	StatusLabel string `json:"status_label"`
	TimeLabel   string `json:"time_label,omitempty"`
	PriceLabel  string `json:"price_label,omitempty"`
	CanCancel   bool   `json:"can_cancel"`
}

func NewAppointmentDTO(ap booking.Appointment) AppointmentDTO {
	out := AppointmentDTO{
		Appointment: ap,
		StatusLabel: ap.Status.Label(),
		CanCancel:   booking.CanCancel(ap.Status) == nil,
	}
	if ap.StartTime != "" {
		out.TimeLabel = booking.FormatTime(ap.StartTime)
		if ap.EndTime != "" {
			out.TimeLabel += " - " + booking.FormatTime(ap.EndTime)
		}
	}
	if ap.Price > 0 {
		out.PriceLabel = booking.FormatPrice(ap.Price)
	}
	return out
}

func NewAppointmentList(aps []booking.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, NewAppointmentDTO(ap))
	}
	return out
}

// SubmitResponse answers a successful booking with where the client goes next.
type SubmitResponse struct {
	Appointment AppointmentDTO `json:"appointment"`
	Redirect    string         `json:"redirect"`
}

func NewSubmitResponse(ap booking.Appointment) SubmitResponse {
	return SubmitResponse{
		Appointment: NewAppointmentDTO(ap),
		Redirect:    "/citas/" + strconv.FormatUint(uint64(ap.ID), 10),
	}
}
