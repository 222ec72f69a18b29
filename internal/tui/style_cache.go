package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

type apptStyleKey struct {
	color  string
	index  int
	status clinic.Status
	width  int
}

// StyleCache stores width-specific styles to avoid per-cell mutations.
type StyleCache struct {
	DayHeader      lipgloss.Style
	DayHeaderToday lipgloss.Style
	EmptyCell      lipgloss.Style
	Cursor         lipgloss.Style
	DragPreview    lipgloss.Style
	Selected       lipgloss.Style

	styles *Styles
	appt   map[apptStyleKey]lipgloss.Style
}

// NewStyleCache precomputes all width-dependent styles for the grid.
func NewStyleCache(styles *Styles, width int) StyleCache {
	return StyleCache{
		DayHeader:      styles.DayHeaderStyleWidth(width),
		DayHeaderToday: styles.DayHeaderTodayStyleWidth(width),
		EmptyCell:      styles.EmptyCellStyleWidth(width),
		Cursor:         styles.CursorStyleWidth(width),
		DragPreview:    styles.DragPreviewStyleWidth(width),
		Selected:       styles.SelectedStyleWidth(width),
		styles:         styles,
		appt:           make(map[apptStyleKey]lipgloss.Style),
	}
}

// Appointment returns the memoized cell style for a provider color and
// session status at the given width.
func (c *StyleCache) Appointment(colorName string, index int, status clinic.Status, width int) lipgloss.Style {
	key := apptStyleKey{color: colorName, index: index, status: status, width: width}
	if style, ok := c.appt[key]; ok {
		return style
	}
	sw := c.styles.ProviderSwatch(colorName, index)
	style := c.styles.AppointmentStyle(sw, status, width)
	c.appt[key] = style
	return style
}
