// Package tui provides the terminal user interface for clinicgrid.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/tui/theme"
)

// Default column width - will be recalculated dynamically.
const defaultColWidth = 18

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Theme colors as lipgloss colors
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorToday       lipgloss.Color
	colorWarning     lipgloss.Color
	colorPaid        lipgloss.Color

	// Title style
	TitleStyle lipgloss.Style

	// Header styles
	HeaderStyle         lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	ModeTabStyle        lipgloss.Style
	ModeTabActiveStyle  lipgloss.Style

	// Time column
	TimeColumnStyle lipgloss.Style

	// Appointment cell styles not tied to a provider
	DragPreviewStyle lipgloss.Style
	SelectedStyle    lipgloss.Style
	NoShowStyle      lipgloss.Style

	// Empty cell
	EmptyCellStyle lipgloss.Style

	// Cursor style
	CursorStyle lipgloss.Style

	// Clipped ("+N more" / outside window) indicator
	ClippedStyle lipgloss.Style

	// Stats bar
	StatsBarStyle   lipgloss.Style
	StatsValueStyle lipgloss.Style
	PaidStyle       lipgloss.Style

	// Search box
	SearchStyle        lipgloss.Style
	SearchFocusedStyle lipgloss.Style

	// Status message
	StatusStyle lipgloss.Style

	// Help text
	HelpStyle lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalBackdropColor     lipgloss.Color
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalHintStyle         lipgloss.Style

	// Table container
	TableStyle lipgloss.Style

	// App container
	AppStyle lipgloss.Style

	// Separator style
	SeparatorStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)
	s.palette = palette

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorToday = palette.Today
	s.colorWarning = palette.Warning
	s.colorPaid = palette.Paid

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Background(s.colorBg).
		Width(defaultColWidth)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(s.colorToday).
		Bold(true)

	s.ModeTabStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg).
		Padding(0, 1)

	s.ModeTabActiveStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnAccent).
		Background(s.colorAccent).
		Bold(true).
		Padding(0, 1)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Width(6)

	s.DragPreviewStyle = lipgloss.NewStyle().
		Width(defaultColWidth).
		Background(s.colorAccent).
		Foreground(palette.TextOnAccent).
		Bold(true)

	s.SelectedStyle = lipgloss.NewStyle().
		Width(defaultColWidth).
		Background(s.colorBgSelection).
		Foreground(s.colorFg).
		Bold(true)

	s.NoShowStyle = lipgloss.NewStyle().
		Width(defaultColWidth).
		Background(s.colorWarning).
		Foreground(palette.TextOnWarning)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Width(defaultColWidth).
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.CursorStyle = lipgloss.NewStyle().
		Width(defaultColWidth).
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.ClippedStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Italic(true)

	s.StatsBarStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.StatsValueStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Bold(true)

	s.PaidStyle = lipgloss.NewStyle().
		Foreground(s.colorPaid).
		Background(s.colorBg).
		Bold(true)

	s.SearchStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorFgMuted).
		BorderBackground(s.colorBg).
		Background(s.colorBgHighlight).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.SearchFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.colorBg).
		Background(s.colorBgSelection).
		Foreground(s.colorFg).
		Bold(true).
		Padding(0, 1)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	modal := palette.Modal
	s.ModalBackdropColor = modal.Backdrop
	s.ModalBgColor = modal.Bg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 1).
		Width(60).
		Align(lipgloss.Left)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Bold(true).
		Width(10).
		Background(modal.Bg)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(modal.ReverseText).
		Background(modal.Highlight)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Background(modal.Panel).
		Foreground(modal.Text).
		Padding(0, 3)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Background(modal.Highlight).
		Foreground(modal.ReverseText).
		Padding(0, 3).
		Underline(true)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.TableStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		Background(s.colorBg).
		Padding(0, 1)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		PaddingTop(1).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingBottom(1)

	s.SeparatorStyle = lipgloss.NewStyle().
		Foreground(s.colorBgSelection).
		Background(s.colorBg)

	return s
}

// ProviderSwatch resolves the theme swatch for a provider color name.
func (s *Styles) ProviderSwatch(colorName string, index int) theme.ProviderSwatch {
	return s.palette.Provider(colorName, index)
}

// AppointmentStyle builds the cell style for one appointment given its
// provider swatch and session status.
func (s *Styles) AppointmentStyle(sw theme.ProviderSwatch, status clinic.Status, width int) lipgloss.Style {
	base := lipgloss.NewStyle().Width(width).Align(lipgloss.Left)
	switch status {
	case clinic.StatusCompleted:
		return base.Background(sw.BgDone).Foreground(s.colorFg)
	case clinic.StatusCanceled:
		return base.Background(sw.BgDone).Foreground(s.colorFgMuted).Strikethrough(true)
	case clinic.StatusNoShow:
		return base.Background(sw.BgDone).Foreground(s.colorWarning)
	default:
		return base.Background(sw.Bg).Foreground(sw.Text).Bold(true)
	}
}

// LegendEntryStyle renders a provider name in its accent color.
func (s *Styles) LegendEntryStyle(sw theme.ProviderSwatch) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(sw.Accent).
		Background(s.colorBg).
		Bold(true)
}

// EmptyCellStyleWidth returns the empty cell style with specified width.
func (s *Styles) EmptyCellStyleWidth(width int) lipgloss.Style {
	return s.EmptyCellStyle.Width(width)
}

// CursorStyleWidth returns the cursor style with specified width.
func (s *Styles) CursorStyleWidth(width int) lipgloss.Style {
	return s.CursorStyle.Width(width)
}

// DragPreviewStyleWidth returns the drag preview style with specified width.
func (s *Styles) DragPreviewStyleWidth(width int) lipgloss.Style {
	return s.DragPreviewStyle.Width(width)
}

// SelectedStyleWidth returns the selection style with specified width.
func (s *Styles) SelectedStyleWidth(width int) lipgloss.Style {
	return s.SelectedStyle.Width(width)
}

// DayHeaderStyleWidth returns the day header style with specified width.
func (s *Styles) DayHeaderStyleWidth(width int) lipgloss.Style {
	return s.DayHeaderStyle.Width(width)
}

// DayHeaderTodayStyleWidth returns the today header style with specified width.
func (s *Styles) DayHeaderTodayStyleWidth(width int) lipgloss.Style {
	return s.DayHeaderTodayStyle.Width(width)
}
