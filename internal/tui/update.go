package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/logx"
	"github.com/jortegam/clinicgrid/internal/reschedule"
	"github.com/jortegam/clinicgrid/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case commands.AppointmentsLoadedMsg:
		m.appts = msg.Appointments
		m.loading = false
		m.acknowledgeSettled()
		m.clampCursor()
		return m, nil

	case commands.ProvidersLoadedMsg:
		m.providers = msg.Providers
		m.ctrl.SetProviders(msg.Providers)
		return m, nil

	case commands.RescheduleDoneMsg:
		return m.handleRescheduleDone(msg)

	case commands.AppointmentSavedMsg:
		m.setStatus("Booked: " + msg.Appointment.DisplayPatient())
		return m.reloadWithClear()

	case commands.AppointmentUpdatedMsg:
		m.setStatus(msg.Note)
		return m.reloadWithClear()

	case commands.ErrMsg:
		m.err = msg.Err
		logx.Error("tui", msg.Err)
		m.setStatus(fmt.Sprintf("Error: %v", msg.Err))
		return m, commands.ClearStatusAfter(5 * time.Second)

	case commands.StatusMsgCmd:
		m.setStatus(msg.Msg)
		return m, commands.ClearStatusAfter(3 * time.Second)

	case commands.ClearStatusMsg:
		if m.now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Forward remaining messages (blink ticks) to the focused input.
	var cmd tea.Cmd
	switch {
	case m.mode == ModeSearch:
		m.search, cmd = m.search.Update(msg)
	case m.mode == ModeModal && m.modalType == ModalBookForm:
		switch m.formFocus {
		case 0:
			m.formPatient, cmd = m.formPatient.Update(msg)
		case 1:
			m.formNote, cmd = m.formNote.Update(msg)
		}
	}
	return m, cmd
}

// handleRescheduleDone reports the outcome of a drop. On rejection the
// session has already rolled the overlay back, so the appointment is
// rendered at its pre-drag position again.
func (m Model) handleRescheduleDone(msg commands.RescheduleDoneMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Err != nil:
		switch {
		case errors.Is(msg.Err, clinic.ErrScheduleConflict):
			m.setStatus("Move rejected: time conflict")
		case errors.Is(msg.Err, reschedule.ErrCommitTimeout):
			m.setStatus("Move timed out, position restored")
		default:
			m.setStatus(fmt.Sprintf("Move failed: %v", msg.Err))
		}
		logx.Error("reschedule", msg.Err)
	case msg.Moved:
		m.setStatus("Moved")
		m.pendingAck = append(m.pendingAck, msg.AppointmentID)
	default:
		m.setStatus("")
	}
	return m.reloadWithClear()
}

// acknowledgeSettled drops overlay entries whose moves the freshly
// loaded rows now reflect.
func (m *Model) acknowledgeSettled() {
	if len(m.pendingAck) == 0 {
		return
	}
	remaining := m.pendingAck[:0]
	for _, id := range m.pendingAck {
		if m.session.InFlight(id) {
			remaining = append(remaining, id)
			continue
		}
		m.session.Acknowledge(id)
	}
	m.pendingAck = remaining
}

func (m Model) reloadWithClear() (tea.Model, tea.Cmd) {
	updated, load := m.reload()
	return updated, tea.Batch(load, commands.ClearStatusAfter(3*time.Second))
}
