// Package view provides view composition helpers for the TUI.
package view

// OverlayRenderer splices modal content over the calendar.
type OverlayRenderer interface {
	Render(base string, width, height int, content string) string
}

// ViewState carries the pre-rendered calendar and, when a modal is
// open, its content. The model renders sections; composition of the
// final frame happens here.
type ViewState struct {
	Width            int
	Height           int
	BaseContent      string
	ModalContent     string
	Overlay          OverlayRenderer
	EmptyPlaceholder string
}

// Render composes the final frame. Before the first WindowSizeMsg the
// viewport is zero-sized and only the placeholder is shown.
func Render(state ViewState) string {
	if state.Width == 0 || state.Height == 0 {
		if state.EmptyPlaceholder != "" {
			return state.EmptyPlaceholder
		}
		return "Loading..."
	}

	if state.ModalContent != "" && state.Overlay != nil {
		return state.Overlay.Render(state.BaseContent, state.Width, state.Height, state.ModalContent)
	}

	return state.BaseContent
}
