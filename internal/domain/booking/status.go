package booking

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Validations
// ===============================

// CanCancel allows client cancellation only before the appointment happened.
func CanCancel(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed:
		return nil
	default:
		return httperr.ErrBusiness("invalid_state")
	}
}

var statusLabels = map[Status]string{
	StatusPending:   "Pendiente",
	StatusConfirmed: "Confirmada",
	StatusCompleted: "Completada",
	StatusCancelled: "Cancelada",
}

// Label is the customer-facing name of the status; unknown values pass through.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
