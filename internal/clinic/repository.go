package clinic

import (
	"context"
	"time"
)

// RescheduleRequest asks the store to move an appointment to a new time
// and optionally a new provider. The store applies it atomically: either
// the whole change commits or it is rejected with ErrScheduleConflict.
type RescheduleRequest struct {
	AppointmentID string
	ProviderID    string
	NewStart      time.Time
	NewEnd        time.Time
}

// Repository defines the storage interface for appointments and providers.
// It is the authoritative source of truth; the TUI holds a read-mostly
// working copy refreshed after every mutation.
type Repository interface {
	// CreateAppointment adds a new appointment.
	// Returns ErrScheduleConflict if it overlaps an existing scheduled
	// appointment for the same provider.
	CreateAppointment(ctx context.Context, a *Appointment) error

	// GetAppointment retrieves an appointment by ID.
	// Returns ErrAppointmentNotFound if it does not exist.
	GetAppointment(ctx context.Context, id string) (*Appointment, error)

	// ListByDateRange returns appointments starting within [start, end]
	// (dates inclusive), ordered by start time.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*Appointment, error)

	// Reschedule applies a reschedule request atomically.
	// Returns ErrScheduleConflict if the target time overlaps another
	// scheduled appointment for the target provider.
	Reschedule(ctx context.Context, req RescheduleRequest) error

	// SetStatus transitions an appointment's status.
	// Returns ErrTerminalStatus if the current status is terminal.
	SetStatus(ctx context.Context, id string, status Status) error

	// SetPaymentStatus sets the payment flag, independent of status.
	SetPaymentStatus(ctx context.Context, id string, payment PaymentStatus) error

	// CreateProvider registers a provider.
	CreateProvider(ctx context.Context, p *Provider) error

	// ListProviders returns all providers ordered by name.
	ListProviders(ctx context.Context) ([]*Provider, error)

	// Close releases any resources held by the repository.
	Close() error
}
