// Package viewctrl owns what is currently being viewed: date, view
// mode, search text and structural filters, and the derived visible
// range, filtered appointment set, and aggregates the renderers consume.
package viewctrl

import (
	"errors"
	"strings"
	"time"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/dateutil"
	"github.com/jortegam/clinicgrid/internal/timegrid"
)

// ErrInvalidViewMode is returned when parsing an unknown mode name.
var ErrInvalidViewMode = errors.New("invalid view mode")

// ViewMode selects the visible date range and renderer.
type ViewMode string

const (
	ModeDay   ViewMode = "day"
	ModeWeek  ViewMode = "week"
	ModeMonth ViewMode = "month"
	ModeList  ViewMode = "list"
)

// modeCycle is the order the TUI cycles through with the view key.
var modeCycle = []ViewMode{ModeDay, ModeWeek, ModeMonth, ModeList}

// Valid returns true if the mode is a known value.
func (m ViewMode) Valid() bool {
	switch m {
	case ModeDay, ModeWeek, ModeMonth, ModeList:
		return true
	default:
		return false
	}
}

// Next returns the next mode in the cycle.
func (m ViewMode) Next() ViewMode {
	for i, mode := range modeCycle {
		if mode == m {
			return modeCycle[(i+1)%len(modeCycle)]
		}
	}
	return ModeDay
}

// ParseViewMode parses a mode name, case-insensitive.
func ParseViewMode(s string) (ViewMode, error) {
	m := ViewMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", ErrInvalidViewMode
	}
	return m, nil
}

// Filters is the structural (non-text) narrowing applied after the role
// floor and the free-text query.
type Filters struct {
	ProviderID string // empty means all providers
}

// Config holds the controller's calendar conventions.
type Config struct {
	WeekStart       time.Weekday // default Monday
	IncludeWeekTail bool         // include the 7th day column in week view
	ListWeeks       int          // rolling list window, default 2 weeks
	MonthDayCap     int          // appointments shown per month cell, default 3
}

// withDefaults fills zero values.
func (c Config) withDefaults() Config {
	if c.ListWeeks <= 0 {
		c.ListWeeks = 2
	}
	if c.MonthDayCap <= 0 {
		c.MonthDayCap = 3
	}
	return c
}

// Stats are pure aggregates over a filtered appointment set.
type Stats struct {
	Appointments int
	Patients     int // distinct patient ids
	TotalValue   float64
}

// Controller is the single source of truth for the current view. It is
// mutated only through its methods; renderers receive derived values.
type Controller struct {
	cfg         Config
	user        clinic.User
	currentDate time.Time
	mode        ViewMode
	query       string
	filters     Filters
	providers   []*clinic.Provider
}

// New creates a controller focused on the given date in day view.
func New(cfg Config, user clinic.User, today time.Time) *Controller {
	return &Controller{
		cfg:         cfg.withDefaults(),
		user:        user,
		currentDate: dateutil.TruncateToDay(today),
		mode:        ModeDay,
	}
}

// CurrentDate returns the focused date.
func (c *Controller) CurrentDate() time.Time {
	return c.currentDate
}

// SetDate focuses a new date, truncated to midnight.
func (c *Controller) SetDate(t time.Time) {
	c.currentDate = dateutil.TruncateToDay(t)
}

// Mode returns the active view mode.
func (c *Controller) Mode() ViewMode {
	return c.mode
}

// SetMode switches the view mode. The focused date never changes with
// the mode.
func (c *Controller) SetMode(m ViewMode) {
	if m.Valid() {
		c.mode = m
	}
}

// CycleMode advances to the next view mode.
func (c *Controller) CycleMode() {
	c.mode = c.mode.Next()
}

// Step moves the focused date by n units of the active mode: days in
// day view, weeks in week and list views, months in month view.
func (c *Controller) Step(n int) {
	switch c.mode {
	case ModeWeek, ModeList:
		c.currentDate = c.currentDate.AddDate(0, 0, 7*n)
	case ModeMonth:
		c.currentDate = c.currentDate.AddDate(0, n, 0)
	default:
		c.currentDate = c.currentDate.AddDate(0, 0, n)
	}
}

// Query returns the free-text search query.
func (c *Controller) Query() string {
	return c.query
}

// SetQuery sets the free-text search query.
func (c *Controller) SetQuery(q string) {
	c.query = strings.TrimSpace(q)
}

// Filters returns the structural filter set.
func (c *Controller) Filters() Filters {
	return c.filters
}

// SetProviderFilter narrows the view to one provider; empty clears it.
func (c *Controller) SetProviderFilter(providerID string) {
	c.filters.ProviderID = providerID
}

// SetProviders supplies the provider read models used for column order
// and provider-name search matching.
func (c *Controller) SetProviders(providers []*clinic.Provider) {
	c.providers = providers
}

// Providers returns the known providers.
func (c *Controller) Providers() []*clinic.Provider {
	return c.providers
}

// ProviderOrder returns provider ids in display-column order.
func (c *Controller) ProviderOrder() []string {
	ids := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		if c.filters.ProviderID != "" && p.ID != c.filters.ProviderID {
			continue
		}
		ids = append(ids, p.ID)
	}
	return ids
}

// User returns the current identity.
func (c *Controller) User() clinic.User {
	return c.user
}

// VisibleRange derives the date range the active mode displays.
//   - day: the focused date only
//   - week: the week containing the focused date, optionally without
//     the trailing day
//   - month: the focused month expanded to full displayed weeks
//   - list: a rolling window of ListWeeks weeks from the week start
func (c *Controller) VisibleRange() dateutil.DateRange {
	switch c.mode {
	case ModeWeek:
		r := dateutil.WeekRange(c.currentDate, c.cfg.WeekStart)
		if !c.cfg.IncludeWeekTail {
			r.End = r.End.AddDate(0, 0, -1)
		}
		return r
	case ModeMonth:
		return dateutil.MonthGridRange(c.currentDate, c.cfg.WeekStart)
	case ModeList:
		start := dateutil.StartOfWeek(c.currentDate, c.cfg.WeekStart)
		return dateutil.DateRange{Start: start, End: start.AddDate(0, 0, c.cfg.ListWeeks*7-1)}
	default:
		return dateutil.DateRange{Start: c.currentDate, End: c.currentDate}
	}
}

// Filter derives the visible appointment set. Role-based visibility is
// a hard floor applied first; the free-text query and structural
// filters only narrow further.
func (c *Controller) Filter(raw []*clinic.Appointment) []*clinic.Appointment {
	visible := make([]*clinic.Appointment, 0, len(raw))
	query := strings.ToLower(c.query)

	for _, a := range raw {
		if a == nil || !c.user.CanSee(a) {
			continue
		}
		if query != "" && !c.matchesQuery(a, query) {
			continue
		}
		if c.filters.ProviderID != "" && a.ProviderID != c.filters.ProviderID {
			continue
		}
		visible = append(visible, a)
	}
	return visible
}

// matchesQuery does a case-insensitive substring match against the
// patient name, the appointment note, and the provider name.
func (c *Controller) matchesQuery(a *clinic.Appointment, query string) bool {
	if strings.Contains(strings.ToLower(a.PatientName), query) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Note), query) {
		return true
	}
	if p := c.providerByID(a.ProviderID); p != nil {
		if strings.Contains(strings.ToLower(p.Name), query) {
			return true
		}
	}
	return false
}

func (c *Controller) providerByID(id string) *clinic.Provider {
	for _, p := range c.providers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Stats aggregates the filtered set. Pure computation, no side effects.
func (c *Controller) Stats(filtered []*clinic.Appointment) Stats {
	s := Stats{Appointments: len(filtered)}
	patients := make(map[string]bool)
	for _, a := range filtered {
		patients[a.PatientID] = true
		s.TotalValue += a.Value
	}
	s.Patients = len(patients)
	return s
}

// Partition splits appointments into those displayable inside the time
// grid window and those clipped by it. Clipped appointments are never
// dropped silently; the list view is their fallback surface.
func (c *Controller) Partition(appts []*clinic.Appointment, grid *timegrid.Grid) (displayable, clipped []*clinic.Appointment) {
	for _, a := range appts {
		if a == nil {
			continue
		}
		if grid.Contains(a.Start) && grid.Contains(a.End) {
			displayable = append(displayable, a)
		} else {
			clipped = append(clipped, a)
		}
	}
	return displayable, clipped
}

// MonthCell is one day in the month grid: up to MonthDayCap
// appointments plus an overflow count rendered as "+N more".
type MonthCell struct {
	Date    time.Time
	Visible []*clinic.Appointment
	More    int
}

// MonthCells groups filtered appointments into the month grid's day
// cells, in range order.
func (c *Controller) MonthCells(filtered []*clinic.Appointment) []MonthCell {
	r := dateutil.MonthGridRange(c.currentDate, c.cfg.WeekStart)
	cells := make([]MonthCell, 0, r.Days())

	for day := r.Start; !day.After(r.End); day = day.AddDate(0, 0, 1) {
		var todays []*clinic.Appointment
		for _, a := range filtered {
			if a.OnDay(day) {
				todays = append(todays, a)
			}
		}

		cell := MonthCell{Date: day, Visible: todays}
		if len(todays) > c.cfg.MonthDayCap {
			cell.Visible = todays[:c.cfg.MonthDayCap]
			cell.More = len(todays) - c.cfg.MonthDayCap
		}
		cells = append(cells, cell)
	}
	return cells
}
