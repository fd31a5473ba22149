package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

type Stage string

const (
	StageNoBarber       Stage = "no_barber"
	StageBarberSelected Stage = "barber_selected"
	StageDaySelected    Stage = "day_selected"
	StageSlotSelected   Stage = "slot_selected"
	StageSubmitting     Stage = "submitting"
	StageSucceeded      Stage = "succeeded"
	StageFailed         Stage = "failed"
)

// Business codes refused by form transitions.
const (
	CodeInvalidBarber        = "invalid_barber"
	CodeBarberRequired       = "barber_required"
	CodeWorkDayRequired      = "work_day_required"
	CodeUnknownWorkDay       = "unknown_work_day"
	CodeUnknownTimeSlot      = "unknown_time_slot"
	CodeSubmissionInProgress = "submission_in_progress"
	CodeAlreadySubmitted     = "already_submitted"
)

// ScheduleSource is what the form fetches when a selection changes.
type ScheduleSource interface {
	WorkDays(ctx context.Context, barberID uint) []domain.WorkDay
	SlotsForWorkDay(ctx context.Context, workDayID uint) ([]domain.TimeSlot, error)
}

type Submitter interface {
	Execute(ctx context.Context, actor Actor, draft domain.AppointmentDraft) (domain.Appointment, error)
}

type FormDeps struct {
	Schedule  ScheduleSource
	Submitter Submitter
	// Location is the shop timezone; projected dates are computed in it.
	Location *time.Location
	Metrics  *metrics.Recorder
	Logger   *zap.Logger
	Now      func() time.Time
}

// Form is one customer's booking in progress.
//
// Selections are dependent: a barber owns its work days, a work day owns its
// projected date and slots. Every fetch is tagged with a sequence number per
// section and its result is dropped when a newer selection was made meanwhile.
// mu is never held across a fetch.
type Form struct {
	mu     sync.Mutex
	deps   FormDeps
	actor  Actor
	logger *zap.Logger

	stage     Stage
	draft     domain.AppointmentDraft
	workDayID uint

	workDays []domain.WorkDay
	slots    []domain.TimeSlot

	loadingWorkDays bool
	loadingSlots    bool
	workDaysSeq     uint64
	slotsSeq        uint64

	message       string
	lastErr       string
	appointmentID uint
	lastActive    time.Time
}

func NewForm(deps FormDeps, actor Actor) *Form {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	f := &Form{
		deps:   deps,
		actor:  actor,
		logger: logging.OrNop(deps.Logger),
		stage:  StageNoBarber,
	}
	f.lastActive = deps.Now()
	return f
}

// Seed applies the barber and service a booking link was opened with.
func (f *Form) Seed(ctx context.Context, barberID, serviceID uint) error {
	if serviceID != 0 {
		if err := f.SelectService(serviceID); err != nil {
			return err
		}
	}
	if barberID != 0 {
		return f.SelectBarber(ctx, barberID)
	}
	return nil
}

// ======================================================
// TRANSITIONS
// ======================================================

// SelectBarber is valid from any idle stage. It clears the day, date and slot
// and loads the barber's work days.
func (f *Form) SelectBarber(ctx context.Context, barberID uint) error {
	if barberID == 0 {
		return httperr.ErrBusiness(CodeInvalidBarber)
	}

	f.mu.Lock()
	if f.stage == StageSubmitting {
		f.mu.Unlock()
		return httperr.ErrBusiness(CodeSubmissionInProgress)
	}
	f.draft.BarberID = barberID
	f.clearDay()
	f.workDays = nil
	f.stage = StageBarberSelected
	f.lastErr = ""
	f.appointmentID = 0
	f.workDaysSeq++
	seq := f.workDaysSeq
	f.loadingWorkDays = true
	f.touch()
	f.mu.Unlock()

	days := f.deps.Schedule.WorkDays(ctx, barberID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.workDaysSeq {
		f.deps.Metrics.StaleDiscarded("work_days")
		return domain.ErrSuperseded
	}
	f.loadingWorkDays = false
	f.workDays = selectableWorkDays(days)
	return nil
}

// SelectWorkDay projects the next date of the work day's weekday, clears the
// slot and loads the work day's slots.
func (f *Form) SelectWorkDay(ctx context.Context, workDayID uint) error {
	f.mu.Lock()
	if f.stage == StageSubmitting {
		f.mu.Unlock()
		return httperr.ErrBusiness(CodeSubmissionInProgress)
	}
	if f.draft.BarberID == 0 {
		f.mu.Unlock()
		return httperr.ErrBusiness(CodeBarberRequired)
	}
	wd, ok := f.findWorkDay(workDayID)
	if !ok {
		f.mu.Unlock()
		return httperr.ErrBusiness(CodeUnknownWorkDay)
	}
	date, err := domain.ProjectNextDate(wd.Weekday, f.today())
	if err != nil {
		f.mu.Unlock()
		return err
	}

	f.clearDay()
	f.workDayID = wd.ID
	f.draft.Date = date
	f.stage = StageDaySelected
	f.lastErr = ""
	seq := f.slotsSeq
	f.loadingSlots = true
	f.touch()
	f.mu.Unlock()

	slots, err := f.deps.Schedule.SlotsForWorkDay(ctx, wd.ID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.slotsSeq {
		f.deps.Metrics.StaleDiscarded("time_slots")
		return domain.ErrSuperseded
	}
	f.loadingSlots = false
	if err != nil {
		f.message = "Error al cargar los horarios disponibles"
		f.logger.Warn("time slots fetch failed", zap.Uint("work_day_id", wd.ID), zap.Error(err))
		return err
	}
	f.slots = availableSlots(slots)
	if len(f.slots) == 0 {
		f.message = domain.NoSlotsMessage
	}
	return nil
}

// SelectSlot accepts only a slot of the list fetched for the current work day.
func (f *Form) SelectSlot(slotID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage == StageSubmitting {
		return httperr.ErrBusiness(CodeSubmissionInProgress)
	}
	if f.workDayID == 0 || f.draft.Date == "" {
		return httperr.ErrBusiness(CodeWorkDayRequired)
	}
	if !f.hasSlot(slotID) {
		return httperr.ErrBusiness(CodeUnknownTimeSlot)
	}
	f.draft.TimeSlotID = slotID
	f.stage = StageSlotSelected
	f.lastErr = ""
	f.touch()
	return nil
}

// SelectService leaves the stage alone. Zero clears the service.
func (f *Form) SelectService(serviceID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage == StageSubmitting {
		return httperr.ErrBusiness(CodeSubmissionInProgress)
	}
	f.draft.ServiceID = serviceID
	f.touch()
	return nil
}

func (f *Form) SetNotes(notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage == StageSubmitting {
		return httperr.ErrBusiness(CodeSubmissionInProgress)
	}
	f.draft.Notes = notes
	f.touch()
	return nil
}

func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmit()
}

// Submit sends the draft. Any failure, validation included, leaves the form
// in StageFailed with every selection kept so the customer can retry.
func (f *Form) Submit(ctx context.Context) (domain.Appointment, error) {
	f.mu.Lock()
	if f.stage == StageSubmitting {
		f.mu.Unlock()
		return domain.Appointment{}, httperr.ErrBusiness(CodeSubmissionInProgress)
	}
	if f.stage == StageSucceeded {
		f.mu.Unlock()
		return domain.Appointment{}, httperr.ErrBusiness(CodeAlreadySubmitted)
	}
	draft := f.draft
	f.stage = StageSubmitting
	f.lastErr = ""
	f.touch()
	f.mu.Unlock()

	ap, err := f.deps.Submitter.Execute(ctx, f.actor, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.touch()
	if err != nil {
		f.stage = StageFailed
		f.lastErr = UserMessage(err, "Error al crear la cita")
		return domain.Appointment{}, err
	}
	f.stage = StageSucceeded
	f.appointmentID = ap.ID
	return ap, nil
}

// ======================================================
// SNAPSHOT
// ======================================================

type WorkDayOption struct {
	ID        uint              `json:"id"`
	Weekday   domain.ISOWeekday `json:"weekday"`
	Label     string            `json:"label"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	NextDate  string            `json:"next_date"`
}

type SlotOption struct {
	ID        uint   `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Snapshot is a consistent copy of the form for rendering.
type Snapshot struct {
	Stage      Stage  `json:"stage"`
	BarberID   uint   `json:"barber,omitempty"`
	ServiceID  uint   `json:"service,omitempty"`
	WorkDayID  uint   `json:"work_day,omitempty"`
	Date       string `json:"date,omitempty"`
	TimeSlotID uint   `json:"time_slot,omitempty"`
	Notes      string `json:"notes,omitempty"`

	WorkDays []WorkDayOption `json:"work_days"`
	Slots    []SlotOption    `json:"time_slots"`

	LoadingWorkDays bool `json:"loading_work_days"`
	LoadingSlots    bool `json:"loading_time_slots"`
	CanSubmit       bool `json:"can_submit"`

	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	AppointmentID uint   `json:"appointment_id,omitempty"`
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	today := f.today()
	s := Snapshot{
		Stage:           f.stage,
		BarberID:        f.draft.BarberID,
		ServiceID:       f.draft.ServiceID,
		WorkDayID:       f.workDayID,
		Date:            f.draft.Date,
		TimeSlotID:      f.draft.TimeSlotID,
		Notes:           f.draft.Notes,
		WorkDays:        make([]WorkDayOption, 0, len(f.workDays)),
		Slots:           make([]SlotOption, 0, len(f.slots)),
		LoadingWorkDays: f.loadingWorkDays,
		LoadingSlots:    f.loadingSlots,
		CanSubmit:       f.canSubmit(),
		Message:         f.message,
		Error:           f.lastErr,
		AppointmentID:   f.appointmentID,
	}
	for _, w := range f.workDays {
		next, _ := domain.ProjectNextDate(w.Weekday, today)
		s.WorkDays = append(s.WorkDays, WorkDayOption{
			ID:        w.ID,
			Weekday:   w.Weekday,
			Label:     domain.WorkDayLabel(w),
			StartTime: domain.FormatTime(w.StartTime),
			EndTime:   domain.FormatTime(w.EndTime),
			NextDate:  next,
		})
	}
	for _, t := range f.slots {
		s.Slots = append(s.Slots, SlotOption{
			ID:        t.ID,
			Label:     domain.SlotLabel(t),
			StartTime: domain.FormatTime(t.StartTime),
			EndTime:   domain.FormatTime(t.EndTime),
		})
	}
	return s
}

// Draft returns the current selection.
func (f *Form) Draft() domain.AppointmentDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form) idleSince() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage == StageSubmitting {
		return f.deps.Now()
	}
	return f.lastActive
}

// ======================================================
// HELPERS (mu held)
// ======================================================

// clearDay drops the day, date and slot and orphans any slot fetch in flight.
func (f *Form) clearDay() {
	f.workDayID = 0
	f.draft.Date = ""
	f.draft.TimeSlotID = 0
	f.slots = nil
	f.slotsSeq++
	f.loadingSlots = false
	f.message = ""
}

func (f *Form) canSubmit() bool {
	if f.stage == StageSubmitting || f.stage == StageSucceeded {
		return false
	}
	return f.draft.Validate() == nil
}

func (f *Form) today() time.Time {
	return f.deps.Now().In(f.deps.Location)
}

func (f *Form) touch() {
	f.lastActive = f.deps.Now()
}

func (f *Form) findWorkDay(id uint) (domain.WorkDay, bool) {
	for _, w := range f.workDays {
		if w.ID == id {
			return w, true
		}
	}
	return domain.WorkDay{}, false
}

func (f *Form) hasSlot(id uint) bool {
	for _, s := range f.slots {
		if s.ID == id {
			return true
		}
	}
	return false
}

// selectableWorkDays drops days off work and days whose weekday is unknown.
func selectableWorkDays(days []domain.WorkDay) []domain.WorkDay {
	out := make([]domain.WorkDay, 0, len(days))
	for _, w := range days {
		if w.IsWorking && w.Weekday.Valid() {
			out = append(out, w)
		}
	}
	return out
}

func availableSlots(slots []domain.TimeSlot) []domain.TimeSlot {
	out := make([]domain.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.IsAvailable {
			out = append(out, s)
		}
	}
	return out
}

// UserMessage is the text shown to a customer for err.
func UserMessage(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case domain.IsValidation(err):
		return "Todos los campos son obligatorios"
	case domain.IsNetwork(err):
		return "No se pudo conectar con el servidor. Intenta de nuevo."
	}
	if be, ok := domain.AsBackend(err); ok && strings.TrimSpace(be.Message) != "" {
		return be.Message
	}
	return fallback
}
