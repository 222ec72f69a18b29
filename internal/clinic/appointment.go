// Package clinic defines the core domain types for clinicgrid.
package clinic

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEndBeforeStart  = errors.New("appointment must end after it starts")
	ErrMissingProvider = errors.New("appointment must have a provider")
	ErrMissingPatient  = errors.New("appointment must have a patient")
)

// Domain errors.
var (
	ErrScheduleConflict    = errors.New("appointment conflicts with an existing appointment")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrTerminalStatus      = errors.New("appointment status is terminal")
	ErrInvalidStatus       = errors.New("invalid appointment status")
)

// Status represents the lifecycle state of an appointment.
// Scheduled is the initial state; the others are terminal.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further status transitions are allowed.
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusScheduled
}

// CanTransition returns true if a transition from s to next is allowed.
// The only legal transitions are Scheduled -> Completed|Canceled|NoShow.
func (s Status) CanTransition(next Status) bool {
	return s == StatusScheduled && next.Valid() && next != StatusScheduled
}

// PaymentStatus tracks payment independently of appointment status.
// A canceled appointment may still be marked paid (late-cancellation fee).
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Toggle returns the opposite payment status.
func (p PaymentStatus) Toggle() PaymentStatus {
	if p == PaymentPaid {
		return PaymentPending
	}
	return PaymentPaid
}

// Appointment represents a scheduled treatment session.
type Appointment struct {
	ID            string
	PatientID     string
	PatientName   string
	ProviderID    string
	Start         time.Time
	End           time.Time
	Status        Status
	PaymentStatus PaymentStatus
	SeriesID      string  // groups recurring instances, empty when standalone
	Value         float64 // session fee, 0 when not set
	Note          string
	CreatedAt     time.Time
}

// New creates a new Appointment with validation.
// The appointment starts in StatusScheduled with payment pending.
func New(patientID, patientName, providerID string, start, end time.Time) (*Appointment, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, ErrMissingPatient
	}
	if strings.TrimSpace(providerID) == "" {
		return nil, ErrMissingProvider
	}
	if !start.Before(end) {
		return nil, ErrEndBeforeStart
	}

	return &Appointment{
		ID:            uuid.NewString(),
		PatientID:     patientID,
		PatientName:   patientName,
		ProviderID:    providerID,
		Start:         start,
		End:           end,
		Status:        StatusScheduled,
		PaymentStatus: PaymentPending,
		CreatedAt:     time.Now(),
	}, nil
}

// Transition moves the appointment to the next status.
// Returns ErrTerminalStatus when the current status is terminal and
// ErrInvalidStatus when next is not a known status.
func (a *Appointment) Transition(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !a.Status.CanTransition(next) {
		return ErrTerminalStatus
	}
	a.Status = next
	return nil
}

// Duration returns the appointment length.
func (a *Appointment) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// Overlaps returns true if this appointment overlaps another in time.
// Overlap requires the same provider: two providers treating in parallel
// rooms never conflict.
func (a *Appointment) Overlaps(other *Appointment) bool {
	if other == nil || a.ProviderID != other.ProviderID {
		return false
	}
	return a.Start.Before(other.End) && a.End.After(other.Start)
}

// OverlapsInTime reports a pure time-range overlap, ignoring providers.
func (a *Appointment) OverlapsInTime(other *Appointment) bool {
	if other == nil {
		return false
	}
	return a.Start.Before(other.End) && a.End.After(other.Start)
}

// OnDay returns true if the appointment starts on the given day.
func (a *Appointment) OnDay(day time.Time) bool {
	ya, ma, da := a.Start.Date()
	yb, mb, db := day.Date()
	return ya == yb && ma == mb && da == db
}

// IsScheduled returns true if the appointment is still scheduled.
func (a *Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

// IsSeriesMember returns true if the appointment belongs to a recurring series.
func (a *Appointment) IsSeriesMember() bool {
	return a.SeriesID != ""
}

// UnknownName is rendered when display metadata is missing.
// An appointment is never dropped from the grid because of a missing name.
const UnknownName = "(unknown)"

// DisplayPatient returns the patient name or a placeholder.
func (a *Appointment) DisplayPatient() string {
	if strings.TrimSpace(a.PatientName) == "" {
		return UnknownName
	}
	return a.PatientName
}
