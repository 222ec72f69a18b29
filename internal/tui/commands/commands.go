// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/dateutil"
	"github.com/jortegam/clinicgrid/internal/reschedule"
)

// AppointmentsLoadedMsg is sent when the visible range is loaded.
type AppointmentsLoadedMsg struct {
	Range        dateutil.DateRange
	Appointments []*clinic.Appointment
}

// ProvidersLoadedMsg is sent when the provider roster is loaded.
type ProvidersLoadedMsg struct {
	Providers []*clinic.Provider
}

// RescheduleDoneMsg is sent when a drop commit resolves.
type RescheduleDoneMsg struct {
	AppointmentID string
	Moved         bool
	Err           error
}

// AppointmentSavedMsg is sent after a new booking is stored.
type AppointmentSavedMsg struct {
	Appointment *clinic.Appointment
}

// AppointmentUpdatedMsg is sent after a status or payment mutation.
type AppointmentUpdatedMsg struct {
	AppointmentID string
	Note          string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadAppointments loads every appointment inside the date range.
func LoadAppointments(store clinic.Repository, r dateutil.DateRange) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		appts, err := store.ListByDateRange(ctx, r.Start, r.End)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return AppointmentsLoadedMsg{Range: r, Appointments: appts}
	}
}

// LoadProviders loads the provider roster.
func LoadProviders(store clinic.Repository) tea.Cmd {
	return func() tea.Msg {
		providers, err := store.ListProviders(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ProvidersLoadedMsg{Providers: providers}
	}
}

// Drop commits a pending drag to the store through the session. The
// session resolves the target to slot-aligned times and rolls its
// overlay back if the store rejects the move.
func Drop(session *reschedule.Session, appointmentID string, target reschedule.Target) tea.Cmd {
	return func() tea.Msg {
		moved, err := session.Drop(context.Background(), target)
		return RescheduleDoneMsg{AppointmentID: appointmentID, Moved: moved, Err: err}
	}
}

// Book stores a new appointment.
func Book(store clinic.Repository, appt *clinic.Appointment) tea.Cmd {
	return func() tea.Msg {
		if err := store.CreateAppointment(context.Background(), appt); err != nil {
			return ErrMsg{Err: err}
		}
		return AppointmentSavedMsg{Appointment: appt}
	}
}

// SetStatus transitions an appointment's session status.
func SetStatus(store clinic.Repository, id string, status clinic.Status) tea.Cmd {
	return func() tea.Msg {
		if err := store.SetStatus(context.Background(), id, status); err != nil {
			return ErrMsg{Err: err}
		}
		return AppointmentUpdatedMsg{AppointmentID: id, Note: "Marked " + string(status)}
	}
}

// TogglePayment flips an appointment's payment flag.
func TogglePayment(store clinic.Repository, id string, current clinic.PaymentStatus) tea.Cmd {
	next := current.Toggle()
	return func() tea.Msg {
		if err := store.SetPaymentStatus(context.Background(), id, next); err != nil {
			return ErrMsg{Err: err}
		}
		return AppointmentUpdatedMsg{AppointmentID: id, Note: "Payment " + string(next)}
	}
}

// ClearStatusAfter clears the status line after the given delay.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
