package booking

import "github.com/BruksfildServices01/barber-booking/internal/shape"

// ===============================
// Catalog entities
// ===============================

type User struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Role           string `json:"role,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	IsBarber       bool   `json:"is_barber"`
}

type Specialty struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BarberProfile is a read-only snapshot of a barber as served by the backend.
type BarberProfile struct {
	ID                uint        `json:"id"`
	Name              string      `json:"name"`
	User              *User       `json:"user,omitempty"`
	Bio               string      `json:"bio,omitempty"`
	YearsOfExperience int         `json:"years_of_experience"`
	Instagram         string      `json:"instagram_profile,omitempty"`
	PhoneNumber       string      `json:"phone_number,omitempty"`
	Specialties       []Specialty `json:"specialties"`
	AverageRating     float64     `json:"average_rating"`

	Raw shape.Record `json:"-"`
}

type Service struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Price is a whole currency amount, no minor units.
	Price           int    `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	BarberID        uint   `json:"barber,omitempty"`
	BarberName      string `json:"barber_name,omitempty"`

	Raw shape.Record `json:"-"`
}

// ===============================
// Schedule entities
// ===============================

// WorkDay is a recurring weekly availability window of one barber.
type WorkDay struct {
	ID        uint       `json:"id"`
	BarberID  uint       `json:"barber,omitempty"`
	Weekday   ISOWeekday `json:"weekday"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	IsWorking bool       `json:"is_working"`

	// WeekdayKey is the property the weekday was read from, empty when none matched.
	WeekdayKey string       `json:"-"`
	Raw        shape.Record `json:"-"`
}

// TimeSlot only means something next to the WorkDay it was fetched for.
type TimeSlot struct {
	ID          uint   `json:"id"`
	WorkDayID   uint   `json:"work_day,omitempty"`
	BarberID    uint   `json:"barber,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`

	Raw shape.Record `json:"-"`
}

// ===============================
// Appointments
// ===============================

// AppointmentDraft is the unsaved selection assembled by the booking form.
type AppointmentDraft struct {
	BarberID   uint   `json:"barber"`
	ServiceID  uint   `json:"service"`
	Date       string `json:"date"`
	TimeSlotID uint   `json:"time_slot"`
	Notes      string `json:"notes,omitempty"`
}

type Appointment struct {
	ID         uint   `json:"id"`
	CustomerID uint   `json:"customer,omitempty"`
	BarberID   uint   `json:"barber"`
	ServiceID  uint   `json:"service"`
	Date       string `json:"date"`
	TimeSlotID uint   `json:"time_slot,omitempty"`
	Status     Status `json:"status"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`

	BarberName  string `json:"barber_name,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
	Price       int    `json:"price,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`

	Raw shape.Record `json:"-"`
}
