package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

// PlaceBox places content in a w×h box, filling the surrounding
// whitespace with the theme background.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(
		w,
		h,
		lipgloss.Left,
		vAlign,
		content,
		lipgloss.WithWhitespaceBackground(bg),
	)
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground squares content off to exactly width×height,
// painting the padding with the background color. Lines wider than the
// target are left alone; the grid renderer already truncates its cells.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}

	pad := lipgloss.NewStyle().Background(bg)
	lines := strings.Split(content, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if short := width - lipgloss.Width(line); short > 0 {
			line += pad.Render(strings.Repeat(" ", short))
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// RenderModalOverlay centers the modal over the calendar and splices it
// into the base lines, reapplying the backdrop color wherever an ANSI
// reset would let the calendar bleed through the modal frame.
func RenderModalOverlay(baseContent, modalContent string, width, height int, modalBg lipgloss.Color) string {
	modalLines := strings.Split(modalContent, "\n")
	modalWidth := 0
	for _, line := range modalLines {
		if w := lipgloss.Width(line); w > modalWidth {
			modalWidth = w
		}
	}
	if modalWidth == 0 {
		return baseContent
	}
	if modalWidth > width {
		modalWidth = width
	}

	top := max0((height - len(modalLines)) / 2)
	left := max0((width - modalWidth) / 2)

	for i, line := range modalLines {
		modalLines[i] = backdropLine(line, modalWidth, modalBg)
	}

	baseLines := strings.Split(PadLinesWithBackground(baseContent, width, height, lipgloss.Color("")), "\n")
	out := make([]string, height)
	for row := 0; row < height; row++ {
		base := ""
		if row < len(baseLines) {
			base = baseLines[row]
		}
		mi := row - top
		if mi < 0 || mi >= len(modalLines) {
			out[row] = base
			continue
		}
		out[row] = ansi.Cut(base, 0, left) + modalLines[mi] + ansi.Cut(base, left+modalWidth, width)
	}
	return strings.Join(out, "\n")
}

// backdropLine fits one modal line to the modal width and pins the
// backdrop color across resets inside it.
func backdropLine(line string, width int, bg lipgloss.Color) string {
	if lipgloss.Width(line) > width {
		line = ansi.Cut(line, 0, width)
	}
	if short := width - lipgloss.Width(line); short > 0 {
		line += lipgloss.NewStyle().Background(bg).Render(strings.Repeat(" ", short))
	}
	if seq := backgroundSeq(bg); seq != "" {
		for _, reset := range []string{ansi.ResetStyle, "\x1b[0m", "\x1b[49m"} {
			line = strings.ReplaceAll(line, reset, reset+seq)
		}
	}
	return line + ansi.ResetStyle
}

func backgroundSeq(bg lipgloss.Color) string {
	if bg == "" {
		return ""
	}
	c, _ := colorful.Hex(string(bg))
	return ansi.Style{}.BackgroundColor(c).String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
