package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/config"
	"github.com/jortegam/clinicgrid/internal/dateutil"
	"github.com/jortegam/clinicgrid/internal/layout"
	"github.com/jortegam/clinicgrid/internal/logx"
	"github.com/jortegam/clinicgrid/internal/nav"
	"github.com/jortegam/clinicgrid/internal/reschedule"
	"github.com/jortegam/clinicgrid/internal/timegrid"
	"github.com/jortegam/clinicgrid/internal/tui/commands"
	"github.com/jortegam/clinicgrid/internal/tui/theme"
	"github.com/jortegam/clinicgrid/internal/viewctrl"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMove        // Dragging an appointment to a new slot
	ModeSearch      // Editing the free-text filter
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalDetail
	ModalBookForm
	ModalConfirmCancel
)

// Duration options for the booking form, in minutes.
var durationOptions = []int{30, 45, 60}

// How long a drop commit may take before the overlay rolls back.
const commitTimeout = 5 * time.Second

// Position is a cursor position in the visible grid: a day (or
// provider) column and a slot row.
type Position struct {
	Day  int
	Slot int
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store     clinic.Repository
	config    *config.Config
	navigator nav.Navigator

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Calendar engine
	grid        *timegrid.Grid
	ctrl        *viewctrl.Controller
	layoutCache *layout.Cache
	session     *reschedule.Session

	// Loaded data for the visible range
	appts     []*clinic.Appointment
	providers []*clinic.Provider
	loading   bool

	// Confirmed moves awaiting a refresh before their overlay entries
	// are released.
	pendingAck []string

	// State
	cursor Position
	mode   Mode

	// Move mode
	dragOrigin      Position
	dragTarget      Position
	dragProviderIdx int // provider column targeted in day view

	// Modal state
	modalType      ModalType
	modalAppt      *clinic.Appointment
	confirmMessage string

	// Booking form
	formPatient  textinput.Model
	formNote     textinput.Model
	formProvider int // index into providers
	formDuration int // index into durationOptions
	formFocus    int // 0=patient, 1=note, 2=provider, 3=duration

	// Components
	search textinput.Model

	// Terminal dimensions and layout
	width        int
	height       int
	rowsPerSlot  int
	colWidth     int
	scrollOffset int

	// Cached render data
	styleCache StyleCache
	overlay    OverlayModel

	// Messages
	statusMsg  string
	statusTime time.Time

	// Error state
	err error

	now func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a new TUI model.
func New(store clinic.Repository, cfg *config.Config, user clinic.User, navigator nav.Navigator, opts ...ModelOption) (*Model, error) {
	rowsPerSlot := cfg.UI.RowsPerSlot
	if rowsPerSlot < 1 {
		rowsPerSlot = 1
	}

	grid, err := timegrid.New(timegrid.Config{
		StartHour:       cfg.Schedule.StartHour,
		EndHour:         cfg.Schedule.EndHour,
		SlotMinutes:     cfg.Schedule.SlotMinutes,
		PixelsPerMinute: float64(rowsPerSlot) / float64(cfg.Schedule.SlotMinutes),
	})
	if err != nil {
		return nil, err
	}

	weekStartName, err := cfg.WeekStart()
	if err != nil {
		return nil, err
	}
	weekStart, err := dateutil.ParseWeekday(weekStartName)
	if err != nil {
		return nil, err
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	search := textinput.New()
	search.Placeholder = "patient, note, or provider..."
	search.CharLimit = 64

	formPatient := textinput.New()
	formPatient.Placeholder = "Patient name"
	formPatient.CharLimit = 128
	formPatient.Width = 32

	formNote := textinput.New()
	formNote.Placeholder = "Note (optional)"
	formNote.CharLimit = 256
	formNote.Width = 32

	for _, ti := range []*textinput.Model{&search, &formPatient, &formNote} {
		ti.PlaceholderStyle = styles.ModalPlaceholderStyle
		ti.TextStyle = styles.ModalInputTextStyle
		ti.PromptStyle = styles.ModalInputTextStyle
		ti.Cursor.Style = styles.ModalInputCursorStyle
		ti.Cursor.TextStyle = styles.ModalInputTextStyle
	}

	nowFn := time.Now

	m := &Model{
		store:        store,
		config:       cfg,
		navigator:    navigator,
		theme:        t,
		styles:       styles,
		grid:         grid,
		layoutCache:  layout.NewCache(),
		session:      reschedule.NewSession(grid, store, commitTimeout),
		mode:         ModeNormal,
		search:       search,
		formPatient:  formPatient,
		formNote:     formNote,
		formDuration: 1, // 45 min
		rowsPerSlot:  rowsPerSlot,
		colWidth:     defaultColWidth,
		styleCache:   NewStyleCache(styles, defaultColWidth),
		overlay:      NewOverlayModel(),
		loading:      true,
		now:          nowFn,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.ctrl = viewctrl.New(viewctrl.Config{
		WeekStart:       weekStart,
		IncludeWeekTail: cfg.Schedule.IncludeWeekTail,
	}, user, m.now())
	m.ctrl.SetMode(viewctrl.ModeWeek)
	m.cursor = Position{Day: m.dayIndexOf(m.now()), Slot: m.slotIndexOf(m.now())}

	return m, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadProviders(m.store),
		commands.LoadAppointments(m.store, m.ctrl.VisibleRange()),
	)
}

// Run starts the TUI.
func Run(store clinic.Repository, cfg *config.Config, user clinic.User, navigator nav.Navigator) error {
	return RunWithDebug(store, cfg, user, navigator, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(store clinic.Repository, cfg *config.Config, user clinic.User, navigator nav.Navigator, debug bool) error {
	if err := logx.Init(debug); err != nil {
		return err
	}
	defer logx.Close()

	model, err := New(store, cfg, user, navigator)
	if err != nil {
		return err
	}

	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// visibleDays lists the day columns of the current range. Day mode has
// a single column; week and list modes span the controller's range.
func (m *Model) visibleDays() []time.Time {
	r := m.ctrl.VisibleRange()
	if m.ctrl.Mode() == viewctrl.ModeMonth {
		r = dateutil.WeekRange(m.ctrl.CurrentDate(), m.weekStartDay())
	}
	days := make([]time.Time, 0, r.Days())
	for day := r.Start; !day.After(r.End); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

func (m *Model) weekStartDay() time.Weekday {
	name, err := m.config.WeekStart()
	if err != nil {
		return time.Monday
	}
	day, err := dateutil.ParseWeekday(name)
	if err != nil {
		return time.Monday
	}
	return day
}

// visibleAppointments applies the controller's filters and the drag
// overlay to the loaded rows.
func (m *Model) visibleAppointments() []*clinic.Appointment {
	return m.session.Apply(m.ctrl.Filter(m.appts))
}

// displayable splits the visible set into rows the grid can place and
// rows that fall outside the configured day window.
func (m *Model) displayable() (inGrid, clipped []*clinic.Appointment) {
	return m.ctrl.Partition(m.visibleAppointments(), m.grid)
}

// dayIndexOf maps a time to its visible day column, clamped into range.
func (m *Model) dayIndexOf(t time.Time) int {
	if m.ctrl == nil {
		return 0
	}
	days := m.visibleDays()
	for i, day := range days {
		if dateutil.SameDay(day, t) {
			return i
		}
	}
	return 0
}

// slotIndexOf maps a time to its slot row, clamped into the grid.
func (m *Model) slotIndexOf(t time.Time) int {
	offset, ok := m.grid.TimeToOffset(t)
	if !ok {
		return 0
	}
	slot := m.grid.SlotIndexAt(offset)
	if slot < 0 {
		slot = 0
	}
	if max := m.grid.SlotCount() - 1; slot > max {
		slot = max
	}
	return slot
}

// cursorDay returns the date under the cursor.
func (m *Model) cursorDay() time.Time {
	days := m.visibleDays()
	if len(days) == 0 {
		return m.ctrl.CurrentDate()
	}
	i := m.cursor.Day
	if i < 0 {
		i = 0
	}
	if i >= len(days) {
		i = len(days) - 1
	}
	return days[i]
}

// cursorTime returns the slot-start time under the cursor.
func (m *Model) cursorTime() time.Time {
	day := m.cursorDay()
	slots := m.grid.Slots()
	i := m.cursor.Slot
	if i < 0 || i >= len(slots) {
		i = 0
	}
	cfg := m.grid.Config()
	minutes := cfg.StartHour*60 + i*cfg.SlotMinutes
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, day.Location())
}

// appointmentAt returns the first displayable appointment covering the
// given day and slot row, preferring later starts (the visually
// innermost box of an overlap cluster).
func (m *Model) appointmentAt(day time.Time, slot int) *clinic.Appointment {
	inGrid, _ := m.displayable()
	var found *clinic.Appointment
	for _, a := range inGrid {
		if !a.OnDay(day) {
			continue
		}
		startOffset, ok := m.grid.TimeToOffset(a.Start)
		if !ok {
			continue
		}
		startSlot := m.grid.SlotIndexAt(startOffset)
		endSlot := m.endSlotOf(a, startSlot)
		if slot >= startSlot && slot <= endSlot {
			if found == nil || a.Start.After(found.Start) {
				found = a
			}
		}
	}
	return found
}

// endSlotOf returns the last slot row an appointment occupies.
func (m *Model) endSlotOf(a *clinic.Appointment, startSlot int) int {
	cfg := m.grid.Config()
	slots := int(a.Duration().Minutes()) / cfg.SlotMinutes
	if slots < 1 {
		slots = 1
	}
	end := startSlot + slots - 1
	if max := m.grid.SlotCount() - 1; end > max {
		end = max
	}
	return end
}

// selectedAppointment returns the appointment under the cursor, if any.
func (m *Model) selectedAppointment() *clinic.Appointment {
	switch m.ctrl.Mode() {
	case viewctrl.ModeList:
		rows := m.listRows()
		if m.cursor.Slot >= 0 && m.cursor.Slot < len(rows) {
			return rows[m.cursor.Slot]
		}
		return nil
	case viewctrl.ModeMonth:
		return nil
	default:
		return m.appointmentAt(m.cursorDay(), m.cursor.Slot)
	}
}

// listRows returns the list view's visible rows in start order.
func (m *Model) listRows() []*clinic.Appointment {
	return m.visibleAppointments()
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTime = m.now().Add(3 * time.Second)
}
