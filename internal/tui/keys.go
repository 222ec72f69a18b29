package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/logx"
	"github.com/jortegam/clinicgrid/internal/nav"
	"github.com/jortegam/clinicgrid/internal/reschedule"
	"github.com/jortegam/clinicgrid/internal/tui/commands"
	"github.com/jortegam/clinicgrid/internal/viewctrl"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	logx.Debug().Str("key", msg.String()).Msg("key press")

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeMove:
		return m.handleMoveKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation within the visible range
	case "h", "left":
		return m.moveCursorDay(-1)
	case "l", "right":
		return m.moveCursorDay(1)
	case "j", "down":
		return m.moveCursorSlot(1)
	case "k", "up":
		return m.moveCursorSlot(-1)

	// Range navigation
	case "H", "shift+left":
		m.ctrl.Step(-1)
		return m.reload()
	case "L", "shift+right":
		m.ctrl.Step(1)
		return m.reload()
	case "t":
		m.ctrl.SetDate(m.now())
		m.cursor = Position{Day: m.dayIndexOf(m.now()), Slot: m.slotIndexOf(m.now())}
		return m.reload()

	// View modes
	case "v", "tab":
		m.ctrl.CycleMode()
		m.clampCursor()
		m.recalcLayout()
		return m.reload()
	case "1":
		return m.switchMode(viewctrl.ModeDay)
	case "2":
		return m.switchMode(viewctrl.ModeWeek)
	case "3":
		return m.switchMode(viewctrl.ModeMonth)
	case "4":
		return m.switchMode(viewctrl.ModeList)

	// Filters
	case "/":
		m.mode = ModeSearch
		m.search.SetValue(m.ctrl.Query())
		m.search.Focus()
		return m, textinput.Blink
	case "f":
		m.cycleProviderFilter()
		return m, nil
	case "esc":
		if m.ctrl.Query() != "" || m.ctrl.Filters().ProviderID != "" {
			m.ctrl.SetQuery("")
			m.ctrl.SetProviderFilter("")
			m.setStatus("Filters cleared")
		}
		return m, nil

	// Actions
	case "enter":
		return m.handleEnter()
	case "b":
		return m.openBookForm()
	case "m":
		return m.beginMove()
	case "y":
		return m.copySelection()
	case "r":
		return m.reload()
	}

	return m, nil
}

// moveCursorDay shifts the cursor one day column, stepping the range
// when it walks off an edge.
func (m Model) moveCursorDay(delta int) (tea.Model, tea.Cmd) {
	if m.ctrl.Mode() == viewctrl.ModeList {
		return m, nil
	}
	days := len(m.visibleDays())
	next := m.cursor.Day + delta
	if next < 0 {
		m.ctrl.Step(-1)
		m.cursor.Day = days - 1
		return m.reload()
	}
	if next >= days {
		m.ctrl.Step(1)
		m.cursor.Day = 0
		return m.reload()
	}
	m.cursor.Day = next
	return m, nil
}

// moveCursorSlot shifts the cursor one row; in list mode this walks the
// visible rows, in month mode the week rows.
func (m Model) moveCursorSlot(delta int) (tea.Model, tea.Cmd) {
	switch m.ctrl.Mode() {
	case viewctrl.ModeList:
		rows := len(m.listRows())
		m.cursor.Slot = clamp(m.cursor.Slot+delta, 0, maxInt(0, rows-1))
	case viewctrl.ModeMonth:
		weeks := m.ctrl.VisibleRange().Days() / 7
		m.cursor.Slot = clamp(m.cursor.Slot+delta, 0, maxInt(0, weeks-1))
	default:
		m.cursor.Slot = clamp(m.cursor.Slot+delta, 0, m.grid.SlotCount()-1)
		m.ensureCursorVisible()
	}
	return m, nil
}

func (m Model) switchMode(mode viewctrl.ViewMode) (tea.Model, tea.Cmd) {
	m.ctrl.SetMode(mode)
	m.clampCursor()
	m.recalcLayout()
	return m.reload()
}

// clampCursor keeps the cursor inside the new mode's coordinates.
func (m *Model) clampCursor() {
	switch m.ctrl.Mode() {
	case viewctrl.ModeList:
		m.cursor = Position{Day: 0, Slot: 0}
	case viewctrl.ModeMonth:
		m.cursor = Position{Day: clamp(m.cursor.Day, 0, 6), Slot: 0}
	default:
		days := len(m.visibleDays())
		m.cursor.Day = clamp(m.cursor.Day, 0, maxInt(0, days-1))
		m.cursor.Slot = clamp(m.cursor.Slot, 0, m.grid.SlotCount()-1)
	}
}

// cycleProviderFilter walks all -> provider 1 -> ... -> all.
func (m *Model) cycleProviderFilter() {
	if len(m.providers) == 0 {
		return
	}
	current := m.ctrl.Filters().ProviderID
	if current == "" {
		m.ctrl.SetProviderFilter(m.providers[0].ID)
		m.setStatus("Showing: " + m.providers[0].Name)
		return
	}
	for i, p := range m.providers {
		if p.ID == current {
			if i+1 < len(m.providers) {
				m.ctrl.SetProviderFilter(m.providers[i+1].ID)
				m.setStatus("Showing: " + m.providers[i+1].Name)
			} else {
				m.ctrl.SetProviderFilter("")
				m.setStatus("Showing: all providers")
			}
			return
		}
	}
	m.ctrl.SetProviderFilter("")
}

// handleEnter opens the detail modal on an appointment, or the booking
// form on an empty slot.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if a := m.selectedAppointment(); a != nil {
		m.mode = ModeModal
		m.modalType = ModalDetail
		m.modalAppt = a
		return m, nil
	}
	if m.ctrl.Mode() == viewctrl.ModeDay || m.ctrl.Mode() == viewctrl.ModeWeek {
		return m.openBookForm()
	}
	return m, nil
}

func (m Model) openBookForm() (tea.Model, tea.Cmd) {
	if len(m.providers) == 0 {
		m.setStatus("No providers loaded yet")
		return m, nil
	}
	m.mode = ModeModal
	m.modalType = ModalBookForm
	m.modalAppt = nil
	m.formPatient.SetValue("")
	m.formNote.SetValue("")
	m.formProvider = 0
	m.formDuration = 1
	m.formFocus = 0
	m.formPatient.Focus()
	m.formNote.Blur()
	return m, textinput.Blink
}

// beginMove starts the two-phase reschedule for the selected
// appointment.
func (m Model) beginMove() (tea.Model, tea.Cmd) {
	a := m.selectedAppointment()
	if a == nil {
		m.setStatus("No appointment to move")
		return m, nil
	}
	if !a.IsScheduled() {
		m.setStatus("Only scheduled appointments can be moved")
		return m, nil
	}
	if err := m.session.Begin(a); err != nil {
		m.setStatus(fmt.Sprintf("Cannot move: %v", err))
		return m, nil
	}

	m.mode = ModeMove
	m.dragOrigin = m.cursor
	m.dragTarget = Position{Day: m.cursor.Day, Slot: m.slotIndexOf(a.Start)}
	m.dragProviderIdx = m.providerIndexOf(a.ProviderID)
	m.setStatus(fmt.Sprintf("Moving %s (jk slots, hl days, Enter to drop, Esc to cancel)", a.DisplayPatient()))
	return m, nil
}

// handleMoveKeys handles keys while dragging.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.Cancel()
		m.mode = ModeNormal
		m.cursor = m.dragOrigin
		m.setStatus("Move cancelled")
		return m, nil

	case "j", "down":
		m.dragTarget.Slot = clamp(m.dragTarget.Slot+1, 0, m.grid.SlotCount()-1)
		return m, nil
	case "k", "up":
		m.dragTarget.Slot = clamp(m.dragTarget.Slot-1, 0, m.grid.SlotCount()-1)
		return m, nil

	case "h", "left":
		if m.ctrl.Mode() == viewctrl.ModeDay {
			m.dragProviderIdx = clamp(m.dragProviderIdx-1, 0, maxInt(0, len(m.providers)-1))
		} else {
			m.dragTarget.Day = clamp(m.dragTarget.Day-1, 0, maxInt(0, len(m.visibleDays())-1))
		}
		return m, nil
	case "l", "right":
		if m.ctrl.Mode() == viewctrl.ModeDay {
			m.dragProviderIdx = clamp(m.dragProviderIdx+1, 0, maxInt(0, len(m.providers)-1))
		} else {
			m.dragTarget.Day = clamp(m.dragTarget.Day+1, 0, maxInt(0, len(m.visibleDays())-1))
		}
		return m, nil

	case "enter":
		return m.confirmDrop()
	}
	return m, nil
}

// dropTarget resolves the drag cursor to a reschedule target.
func (m *Model) dropTarget() reschedule.Target {
	days := m.visibleDays()
	dayIdx := clamp(m.dragTarget.Day, 0, maxInt(0, len(days)-1))
	day := m.ctrl.CurrentDate()
	if len(days) > 0 {
		day = days[dayIdx]
	}

	providerID := ""
	if m.ctrl.Mode() == viewctrl.ModeDay && m.dragProviderIdx < len(m.providers) {
		providerID = m.providers[m.dragProviderIdx].ID
	}

	cfg := m.grid.Config()
	offset := float64(m.dragTarget.Slot) * float64(cfg.SlotMinutes) * cfg.PixelsPerMinute
	return reschedule.Target{Day: day, ProviderID: providerID, OffsetY: offset}
}

// confirmDrop commits the move. The session keeps an optimistic overlay
// so the calendar shows the new position while the store confirms.
func (m Model) confirmDrop() (tea.Model, tea.Cmd) {
	dragging := m.session.Dragging()
	if dragging == nil {
		m.mode = ModeNormal
		return m, nil
	}

	target := m.dropTarget()
	m.mode = ModeNormal
	m.cursor = Position{Day: m.dragTarget.Day, Slot: m.dragTarget.Slot}
	m.setStatus("Saving move...")
	return m, commands.Drop(m.session, dragging.ID, target)
}

// handleSearchKeys handles keys while editing the text filter.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.search.Blur()
		m.search.SetValue("")
		return m, nil

	case "enter":
		query := strings.TrimSpace(m.search.Value())
		m.ctrl.SetQuery(query)
		m.mode = ModeNormal
		m.search.Blur()
		m.clampCursor()
		if query == "" {
			m.setStatus("Search cleared")
		} else {
			m.setStatus("Filtering: " + query)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// handleModalKeys handles keys in modal mode.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalDetail:
		return m.handleDetailKeys(msg)
	case ModalBookForm:
		return m.handleBookFormKeys(msg)
	case ModalConfirmCancel:
		return m.handleConfirmCancelKeys(msg)
	default:
		if msg.String() == "esc" {
			m.mode = ModeNormal
			m.modalType = ModalNone
		}
	}
	return m, nil
}

// handleDetailKeys handles keys in the appointment detail modal.
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.modalAppt
	if a == nil {
		m.mode = ModeNormal
		m.modalType = ModalNone
		return m, nil
	}

	switch msg.String() {
	case "esc", "enter":
		m.mode = ModeNormal
		m.modalType = ModalNone
		m.modalAppt = nil
		return m, nil

	case "c":
		return m.closeModalWith(commands.SetStatus(m.store, a.ID, clinic.StatusCompleted))
	case "n":
		return m.closeModalWith(commands.SetStatus(m.store, a.ID, clinic.StatusNoShow))
	case "p":
		return m.closeModalWith(commands.TogglePayment(m.store, a.ID, a.PaymentStatus))

	case "x":
		if a.Status.Terminal() {
			m.setStatus("Session already " + string(a.Status))
			return m, nil
		}
		m.modalType = ModalConfirmCancel
		m.confirmMessage = fmt.Sprintf("Cancel session for %s?", a.DisplayPatient())
		return m, nil

	case "o":
		if m.navigator != nil {
			m.navigator.NavigateTo(nav.PagePatientRecord, nav.Params{
				"patient_id":     a.PatientID,
				"appointment_id": a.ID,
			})
			m.setStatus("Opening record: " + a.DisplayPatient())
		}
		return m, nil

	case "y":
		if err := clipboard.WriteAll(appointmentSummary(a)); err != nil {
			m.setStatus(fmt.Sprintf("Copy failed: %v", err))
			return m, nil
		}
		m.setStatus("Copied appointment")
		return m, nil
	}
	return m, nil
}

func (m Model) closeModalWith(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.modalAppt = nil
	return m, cmd
}

// handleConfirmCancelKeys handles the cancel confirmation.
func (m Model) handleConfirmCancelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		if m.modalAppt != nil {
			m.modalType = ModalDetail
		} else {
			m.mode = ModeNormal
			m.modalType = ModalNone
		}
		return m, nil

	case "enter", "y":
		if m.modalAppt == nil {
			m.mode = ModeNormal
			m.modalType = ModalNone
			return m, nil
		}
		id := m.modalAppt.ID
		return m.closeModalWith(commands.SetStatus(m.store, id, clinic.StatusCanceled))
	}
	return m, nil
}

// handleBookFormKeys handles keys in the booking form.
func (m Model) handleBookFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.modalType = ModalNone
		m.formPatient.Blur()
		m.formNote.Blur()
		return m, nil

	case "tab":
		m.setFormFocus((m.formFocus + 1) % 4)
		return m, nil
	case "shift+tab":
		m.setFormFocus((m.formFocus + 3) % 4)
		return m, nil

	case "enter":
		if m.formFocus < 3 {
			m.setFormFocus(m.formFocus + 1)
			return m, nil
		}
		return m.submitBooking()

	case "left", "h":
		switch m.formFocus {
		case 2:
			if m.formProvider > 0 {
				m.formProvider--
			}
			return m, nil
		case 3:
			if m.formDuration > 0 {
				m.formDuration--
			}
			return m, nil
		}
	case "right", "l":
		switch m.formFocus {
		case 2:
			if m.formProvider < len(m.providers)-1 {
				m.formProvider++
			}
			return m, nil
		case 3:
			if m.formDuration < len(durationOptions)-1 {
				m.formDuration++
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case 0:
		m.formPatient, cmd = m.formPatient.Update(msg)
	case 1:
		m.formNote, cmd = m.formNote.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFormFocus(focus int) {
	m.formFocus = focus
	if focus == 0 {
		m.formPatient.Focus()
	} else {
		m.formPatient.Blur()
	}
	if focus == 1 {
		m.formNote.Focus()
	} else {
		m.formNote.Blur()
	}
}

// submitBooking books a session at the cursor slot.
func (m Model) submitBooking() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.formPatient.Value())
	if name == "" {
		m.setStatus("Patient name is required")
		return m, nil
	}
	if m.formProvider >= len(m.providers) {
		m.setStatus("Pick a provider")
		return m, nil
	}

	start := m.cursorTime()
	end := start.Add(time.Duration(durationOptions[m.formDuration]) * time.Minute)
	provider := m.providers[m.formProvider]

	appt, err := clinic.New(uuid.NewString(), name, provider.ID, start, end)
	if err != nil {
		m.setStatus(fmt.Sprintf("Error: %v", err))
		return m, nil
	}
	appt.Note = strings.TrimSpace(m.formNote.Value())
	appt.Value = m.config.UI.DefaultRate

	m.mode = ModeNormal
	m.modalType = ModalNone
	m.formPatient.Blur()
	m.formNote.Blur()
	return m, commands.Book(m.store, appt)
}

// copySelection copies the selected appointment summary to the clipboard.
func (m Model) copySelection() (tea.Model, tea.Cmd) {
	a := m.selectedAppointment()
	if a == nil {
		m.setStatus("Nothing to copy")
		return m, nil
	}
	if err := clipboard.WriteAll(appointmentSummary(a)); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err))
		return m, nil
	}
	m.setStatus("Copied appointment")
	return m, nil
}

func appointmentSummary(a *clinic.Appointment) string {
	return fmt.Sprintf("%s %s-%s %s (%s)",
		a.Start.Format("2006-01-02"),
		a.Start.Format("15:04"),
		a.End.Format("15:04"),
		a.DisplayPatient(),
		a.Status)
}

// reload returns a command fetching the controller's visible range.
func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	return m, commands.LoadAppointments(m.store, m.ctrl.VisibleRange())
}

func (m *Model) providerIndexOf(id string) int {
	for i, p := range m.providers {
		if p.ID == id {
			return i
		}
	}
	return 0
}

// ensureCursorVisible adjusts the scroll offset so the cursor row stays
// on screen.
func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if visible <= 0 {
		return
	}
	if m.cursor.Slot < m.scrollOffset {
		m.scrollOffset = m.cursor.Slot
	}
	if m.cursor.Slot >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor.Slot - visible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
