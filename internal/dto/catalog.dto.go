package dto

import "github.com/BruksfildServices01/barber-booking/internal/domain/booking"

type ServiceDTO struct {
	booking.Service

	PriceLabel string `json:"price_label"`
}

func NewServiceList(services []booking.Service) []ServiceDTO {
	out := make([]ServiceDTO, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceDTO{Service: s, PriceLabel: booking.FormatPrice(s.Price)})
	}
	return out
}

type WorkDayDTO struct {
	booking.WorkDay

	Label string `json:"label"`
}

func NewWorkDayList(days []booking.WorkDay) []WorkDayDTO {
	out := make([]WorkDayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, WorkDayDTO{WorkDay: d, Label: booking.WorkDayLabel(d)})
	}
	return out
}

type TimeSlotDTO struct {
	booking.TimeSlot

	Label string `json:"label"`
}

func NewTimeSlotList(slots []booking.TimeSlot) []TimeSlotDTO {
	out := make([]TimeSlotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, TimeSlotDTO{TimeSlot: s, Label: booking.SlotLabel(s)})
	}
	return out
}

type BookingOptions struct {
	Barbers  []booking.BarberProfile `json:"barbers"`
	Services []ServiceDTO            `json:"services"`
}

func NewBookingOptions(barbers []booking.BarberProfile, services []booking.Service) BookingOptions {
	if barbers == nil {
		barbers = []booking.BarberProfile{}
	}
	return BookingOptions{Barbers: barbers, Services: NewServiceList(services)}
}
