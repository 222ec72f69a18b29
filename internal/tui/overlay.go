package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jortegam/clinicgrid/internal/tui/view"
)

// OverlayModel splices a modal on top of the calendar. Modals arrive
// already framed by the modal styles, so the overlay only centers them
// and paints the backdrop behind any transparent cells.
type OverlayModel struct {
	active  bool
	bgColor lipgloss.Color
}

// NewOverlayModel initializes an inactive overlay.
func NewOverlayModel() OverlayModel {
	return OverlayModel{}
}

// Active reports whether the overlay is visible.
func (o OverlayModel) Active() bool {
	return o.active
}

// SetBackground updates the backdrop color behind the modal frame.
func (o *OverlayModel) SetBackground(color lipgloss.Color) {
	o.bgColor = color
}

// Render draws the modal centered over the base content. An inactive
// overlay or an empty viewport passes the base through untouched.
func (o OverlayModel) Render(base string, width, height int, content string) string {
	if !o.active || width <= 0 || height <= 0 || content == "" {
		return base
	}
	return view.RenderModalOverlay(base, content, width, height, o.bgColor)
}
