package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/config"
	"github.com/jortegam/clinicgrid/internal/tui/commands"
	"github.com/jortegam/clinicgrid/internal/viewctrl"
)

// fakeStore implements the repository surface the TUI exercises. The
// embedded interface panics on anything a test forgot to stub.
type fakeStore struct {
	clinic.Repository

	appts     []*clinic.Appointment
	providers []*clinic.Provider

	created     []*clinic.Appointment
	rescheduled []clinic.RescheduleRequest
	statusSet   map[string]clinic.Status
	payments    map[string]clinic.PaymentStatus

	rescheduleErr error
}

func (f *fakeStore) ListByDateRange(_ context.Context, _, _ time.Time) ([]*clinic.Appointment, error) {
	return f.appts, nil
}

func (f *fakeStore) ListProviders(_ context.Context) ([]*clinic.Provider, error) {
	return f.providers, nil
}

func (f *fakeStore) CreateAppointment(_ context.Context, a *clinic.Appointment) error {
	f.created = append(f.created, a)
	return nil
}

func (f *fakeStore) Reschedule(_ context.Context, req clinic.RescheduleRequest) error {
	if f.rescheduleErr != nil {
		return f.rescheduleErr
	}
	f.rescheduled = append(f.rescheduled, req)
	return nil
}

func (f *fakeStore) SetStatus(_ context.Context, id string, s clinic.Status) error {
	if f.statusSet == nil {
		f.statusSet = make(map[string]clinic.Status)
	}
	f.statusSet[id] = s
	return nil
}

func (f *fakeStore) SetPaymentStatus(_ context.Context, id string, p clinic.PaymentStatus) error {
	if f.payments == nil {
		f.payments = make(map[string]clinic.PaymentStatus)
	}
	f.payments[id] = p
	return nil
}

var testNow = time.Date(2026, 9, 9, 11, 0, 0, 0, time.Local) // a Wednesday

func testModel(t *testing.T, store *fakeStore) Model {
	t.Helper()
	cfg := config.Default()
	m, err := New(store, cfg, clinic.User{Role: clinic.RoleAdmin}, nil,
		WithNow(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.width = 140
	m.height = 40
	m.providers = store.providers
	m.ctrl.SetProviders(store.providers)
	m.appts = store.appts
	m.loading = false
	m.recalcLayout()
	return *m
}

func testProviders() []*clinic.Provider {
	return []*clinic.Provider{
		{ID: "prov-1", Name: "Alba", Color: "blue"},
		{ID: "prov-2", Name: "Berta", Color: "peach"},
	}
}

func testAppointment(t *testing.T, provider string, start time.Time, minutes int) *clinic.Appointment {
	t.Helper()
	a, err := clinic.New("pat-1", "Marta", provider, start, start.Add(time.Duration(minutes)*time.Minute))
	if err != nil {
		t.Fatalf("New appointment: %v", err)
	}
	a.Value = 45
	return a
}

func pressKey(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEscape}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var res tea.Model
		res, cmd = m.handleKeyMsg(msg)
		m = res.(Model)
	}
	return m, cmd
}

func TestNewStartsInWeekMode(t *testing.T) {
	m := testModel(t, &fakeStore{providers: testProviders()})
	if m.ctrl.Mode() != viewctrl.ModeWeek {
		t.Errorf("mode = %v, want week", m.ctrl.Mode())
	}
	if got := len(m.visibleDays()); got != 7 {
		t.Errorf("visible days = %d, want 7 with the weekend tail", got)
	}
	// The cursor starts on today's column.
	if !dateEqual(m.cursorDay(), testNow) {
		t.Errorf("cursorDay = %v, want today", m.cursorDay())
	}
}

func dateEqual(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}

func TestCursorTimeMapsSlot(t *testing.T) {
	m := testModel(t, &fakeStore{providers: testProviders()})
	m.cursor.Slot = 4 // 7:00 window, 30-minute slots
	got := m.cursorTime()
	if got.Hour() != 9 || got.Minute() != 0 {
		t.Errorf("cursorTime = %v, want 09:00", got.Format("15:04"))
	}
}

func TestModeSwitchKeys(t *testing.T) {
	m := testModel(t, &fakeStore{providers: testProviders()})

	m, _ = pressKey(t, m, "1")
	if m.ctrl.Mode() != viewctrl.ModeDay {
		t.Errorf("after 1: mode = %v", m.ctrl.Mode())
	}
	m, _ = pressKey(t, m, "3")
	if m.ctrl.Mode() != viewctrl.ModeMonth {
		t.Errorf("after 3: mode = %v", m.ctrl.Mode())
	}
	m, _ = pressKey(t, m, "v")
	if m.ctrl.Mode() != viewctrl.ModeList {
		t.Errorf("cycle from month: mode = %v", m.ctrl.Mode())
	}
}

func TestSearchFlow(t *testing.T) {
	m := testModel(t, &fakeStore{providers: testProviders()})

	m, _ = pressKey(t, m, "/")
	if m.mode != ModeSearch {
		t.Fatalf("mode = %v, want ModeSearch", m.mode)
	}
	m, _ = pressKey(t, m, "m", "a", "r")
	m, _ = pressKey(t, m, "enter")
	if m.mode != ModeNormal {
		t.Errorf("mode after enter = %v", m.mode)
	}
	if got := m.ctrl.Query(); got != "mar" {
		t.Errorf("query = %q, want mar", got)
	}

	m, _ = pressKey(t, m, "esc")
	if got := m.ctrl.Query(); got != "" {
		t.Errorf("query after esc = %q, want cleared", got)
	}
}

func TestProviderFilterCycles(t *testing.T) {
	m := testModel(t, &fakeStore{providers: testProviders()})

	m, _ = pressKey(t, m, "f")
	if got := m.ctrl.Filters().ProviderID; got != "prov-1" {
		t.Errorf("first press: filter = %q", got)
	}
	m, _ = pressKey(t, m, "f")
	if got := m.ctrl.Filters().ProviderID; got != "prov-2" {
		t.Errorf("second press: filter = %q", got)
	}
	m, _ = pressKey(t, m, "f")
	if got := m.ctrl.Filters().ProviderID; got != "" {
		t.Errorf("third press: filter = %q, want all", got)
	}
}

func TestEnterOpensDetailOnAppointment(t *testing.T) {
	appt := testAppointment(t, "prov-1", time.Date(2026, 9, 9, 9, 0, 0, 0, time.Local), 45)
	store := &fakeStore{providers: testProviders(), appts: []*clinic.Appointment{appt}}
	m := testModel(t, store)

	m.cursor = Position{Day: m.dayIndexOf(appt.Start), Slot: m.slotIndexOf(appt.Start)}
	m, _ = pressKey(t, m, "enter")
	if m.mode != ModeModal || m.modalType != ModalDetail {
		t.Fatalf("mode=%v modal=%v, want detail modal", m.mode, m.modalType)
	}
	if m.modalAppt == nil || m.modalAppt.ID != appt.ID {
		t.Errorf("modalAppt = %+v", m.modalAppt)
	}
}

func TestEnterOnEmptySlotOpensBookForm(t *testing.T) {
	m := testModel(t, &fakeStore{providers: testProviders()})

	m, _ = pressKey(t, m, "enter")
	if m.modalType != ModalBookForm {
		t.Fatalf("modal = %v, want book form", m.modalType)
	}
	if !m.formPatient.Focused() {
		t.Error("patient field should start focused")
	}
}

func TestBookingSubmitsAppointment(t *testing.T) {
	store := &fakeStore{providers: testProviders()}
	m := testModel(t, store)
	m.cursor.Slot = 4 // 09:00

	m, _ = pressKey(t, m, "b")
	m.formPatient.SetValue("Nuria Pons")
	m.formFocus = 3
	m, cmd := pressKey(t, m, "enter")
	if cmd == nil {
		t.Fatal("submit should produce a command")
	}

	msg := cmd()
	saved, ok := msg.(commands.AppointmentSavedMsg)
	if !ok {
		t.Fatalf("msg = %T, want AppointmentSavedMsg", msg)
	}
	if saved.Appointment.PatientName != "Nuria Pons" {
		t.Errorf("PatientName = %q", saved.Appointment.PatientName)
	}
	if saved.Appointment.Start.Hour() != 9 {
		t.Errorf("Start = %v, want 09:00", saved.Appointment.Start)
	}
	if saved.Appointment.Value != m.config.UI.DefaultRate {
		t.Errorf("Value = %v, want default rate", saved.Appointment.Value)
	}
	if len(store.created) != 1 {
		t.Errorf("store.created = %d rows", len(store.created))
	}
}

func TestMoveFlowCommits(t *testing.T) {
	day := time.Date(2026, 9, 9, 0, 0, 0, 0, time.Local)
	appt := testAppointment(t, "prov-1", day.Add(9*time.Hour), 45)
	store := &fakeStore{providers: testProviders(), appts: []*clinic.Appointment{appt}}
	m := testModel(t, store)

	m.cursor = Position{Day: m.dayIndexOf(appt.Start), Slot: m.slotIndexOf(appt.Start)}
	m, _ = pressKey(t, m, "m")
	if m.mode != ModeMove {
		t.Fatalf("mode = %v, want ModeMove", m.mode)
	}

	// Two slots down: 09:00 -> 10:00.
	m, _ = pressKey(t, m, "j", "j")
	m, cmd := pressKey(t, m, "enter")
	if m.mode != ModeNormal {
		t.Errorf("mode after drop = %v", m.mode)
	}
	if cmd == nil {
		t.Fatal("drop should produce a command")
	}

	msg := cmd()
	done, ok := msg.(commands.RescheduleDoneMsg)
	if !ok {
		t.Fatalf("msg = %T, want RescheduleDoneMsg", msg)
	}
	if done.Err != nil || !done.Moved {
		t.Fatalf("done = %+v", done)
	}
	if len(store.rescheduled) != 1 {
		t.Fatalf("rescheduled = %d requests", len(store.rescheduled))
	}
	req := store.rescheduled[0]
	if req.NewStart.Hour() != 10 || req.NewStart.Minute() != 0 {
		t.Errorf("NewStart = %v, want 10:00", req.NewStart.Format("15:04"))
	}

	// The confirmed move stays overlaid until the next refresh lands.
	var res tea.Model
	res, _ = m.Update(msg)
	m = res.(Model)
	if len(m.pendingAck) != 1 {
		t.Errorf("pendingAck = %v", m.pendingAck)
	}
	res, _ = m.Update(commands.AppointmentsLoadedMsg{Appointments: store.appts})
	m = res.(Model)
	if len(m.pendingAck) != 0 {
		t.Errorf("pendingAck after refresh = %v", m.pendingAck)
	}
}

func TestMoveRejectionKeepsOriginalTime(t *testing.T) {
	day := time.Date(2026, 9, 9, 0, 0, 0, 0, time.Local)
	appt := testAppointment(t, "prov-1", day.Add(9*time.Hour), 45)
	store := &fakeStore{
		providers:     testProviders(),
		appts:         []*clinic.Appointment{appt},
		rescheduleErr: clinic.ErrScheduleConflict,
	}
	m := testModel(t, store)

	m.cursor = Position{Day: m.dayIndexOf(appt.Start), Slot: m.slotIndexOf(appt.Start)}
	m, _ = pressKey(t, m, "m", "j")
	m, cmd := pressKey(t, m, "enter")

	msg := cmd()
	done := msg.(commands.RescheduleDoneMsg)
	if !errors.Is(done.Err, clinic.ErrScheduleConflict) {
		t.Fatalf("Err = %v, want conflict", done.Err)
	}

	var res tea.Model
	res, _ = m.Update(msg)
	m = res.(Model)
	// Overlay rolled back: the visible row keeps its pre-drag time.
	visible := m.visibleAppointments()
	if len(visible) != 1 || visible[0].Start.Hour() != 9 {
		t.Errorf("visible after rejection = %+v", visible)
	}
}

func TestMoveCancelRestoresCursor(t *testing.T) {
	day := time.Date(2026, 9, 9, 0, 0, 0, 0, time.Local)
	appt := testAppointment(t, "prov-1", day.Add(9*time.Hour), 45)
	store := &fakeStore{providers: testProviders(), appts: []*clinic.Appointment{appt}}
	m := testModel(t, store)

	origin := Position{Day: m.dayIndexOf(appt.Start), Slot: m.slotIndexOf(appt.Start)}
	m.cursor = origin
	m, _ = pressKey(t, m, "m", "j", "j", "esc")
	if m.mode != ModeNormal {
		t.Errorf("mode = %v", m.mode)
	}
	if m.cursor != origin {
		t.Errorf("cursor = %+v, want %+v", m.cursor, origin)
	}
	if m.session.Dragging() != nil {
		t.Error("session still dragging after cancel")
	}
}

func TestDetailModalActions(t *testing.T) {
	appt := testAppointment(t, "prov-1", testNow.Add(2*time.Hour), 45)
	store := &fakeStore{providers: testProviders(), appts: []*clinic.Appointment{appt}}
	m := testModel(t, store)

	m.mode = ModeModal
	m.modalType = ModalDetail
	m.modalAppt = appt

	m2, cmd := pressKey(t, m, "c")
	if m2.mode != ModeNormal {
		t.Errorf("mode after action = %v", m2.mode)
	}
	if msg := cmd(); msg == nil {
		t.Fatal("expected a command message")
	}
	if store.statusSet[appt.ID] != clinic.StatusCompleted {
		t.Errorf("status = %v, want completed", store.statusSet[appt.ID])
	}

	// Cancellation asks for confirmation first.
	m.modalAppt = appt
	m3, _ := pressKey(t, m, "x")
	if m3.modalType != ModalConfirmCancel {
		t.Fatalf("modal = %v, want confirm", m3.modalType)
	}
	_, cmd = pressKey(t, m3, "y")
	_ = cmd()
	if store.statusSet[appt.ID] != clinic.StatusCanceled {
		t.Errorf("status = %v, want canceled", store.statusSet[appt.ID])
	}
}

func TestViewRendersWithoutPanicking(t *testing.T) {
	day := time.Date(2026, 9, 9, 0, 0, 0, 0, time.Local)
	store := &fakeStore{
		providers: testProviders(),
		appts: []*clinic.Appointment{
			testAppointment(t, "prov-1", day.Add(9*time.Hour), 45),
			testAppointment(t, "prov-2", day.Add(9*time.Hour), 60),
		},
	}
	m := testModel(t, store)

	for _, mode := range []viewctrl.ViewMode{viewctrl.ModeDay, viewctrl.ModeWeek, viewctrl.ModeMonth, viewctrl.ModeList} {
		m.ctrl.SetMode(mode)
		m.recalcLayout()
		if out := m.View(); out == "" {
			t.Errorf("empty render in %v mode", mode)
		}
	}
}
