package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jortegam/clinicgrid/internal/tui/view"
	"github.com/jortegam/clinicgrid/internal/viewctrl"
)

const (
	timeGutterWidth = 6
	minColWidth     = 8
	footerMinHeight = 4
	titleHeight     = 1
)

// View renders the TUI using a boxed, parent-controlled layout.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	base := m.renderAppContent()
	modal := ""
	if m.mode == ModeModal && m.modalType != ModalNone {
		modal = m.renderModal()
		m.overlay.active = true
		m.overlay.SetBackground(m.styles.ModalBackdropColor)
	} else {
		m.overlay.active = false
	}

	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      base,
		ModalContent:     modal,
		Overlay:          m.overlay,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	innerW, innerH := m.innerSize()
	if innerW <= 0 || innerH <= 0 {
		return "Terminal too small"
	}

	footerH := m.footerHeight(innerH)
	gridH := innerH - titleHeight - footerH
	if gridH < 0 {
		gridH = 0
	}

	title := m.renderTitleBar(innerW)
	grid := m.renderGrid(innerW, gridH)
	footer := m.renderFooter(innerW, footerH)

	content := lipgloss.JoinVertical(lipgloss.Left, title, grid, footer)
	app := m.styles.AppStyle.Render(content)
	return view.PadLinesWithBackground(app, m.width, m.height, m.styles.colorBg)
}

// innerSize returns the content area inside the app frame.
func (m Model) innerSize() (int, int) {
	frameW, frameH := m.styles.AppStyle.GetFrameSize()
	return m.width - frameW, m.height - frameH
}

func (m Model) footerHeight(innerH int) int {
	h := footerMinHeight
	if m.mode == ModeSearch || m.ctrl.Query() != "" {
		h++
	}
	if innerH < 14 {
		h = 2
	}
	if h > innerH-titleHeight {
		h = innerH - titleHeight
	}
	if h < 0 {
		h = 0
	}
	return h
}

// gridHeight is the vertical space the calendar grid occupies.
func (m Model) gridHeight() int {
	_, innerH := m.innerSize()
	h := innerH - titleHeight - m.footerHeight(innerH)
	if h < 0 {
		h = 0
	}
	return h
}

// visibleRows is how many slot rows fit on screen at once, after the
// grid borders and header line.
func (m *Model) visibleRows() int {
	lines := m.gridHeight() - 3
	if lines <= 0 {
		return 0
	}
	rows := lines / m.rowsPerSlot
	if rows > m.grid.SlotCount() {
		rows = m.grid.SlotCount()
	}
	return rows
}

// columnCount is the number of day (or provider) columns in the
// current mode.
func (m Model) columnCount() int {
	switch m.ctrl.Mode() {
	case viewctrl.ModeDay:
		if n := len(m.providers); n > 0 {
			return n
		}
		return 1
	case viewctrl.ModeMonth:
		return 7
	case viewctrl.ModeList:
		return 1
	default:
		return len(m.visibleDays())
	}
}

// calculateColWidth divides the grid width across the visible columns.
func (m Model) calculateColWidth() int {
	cols := m.columnCount()
	if cols <= 0 {
		return defaultColWidth
	}
	innerW, _ := m.innerSize()
	gutter := timeGutterWidth
	if m.ctrl.Mode() == viewctrl.ModeMonth {
		gutter = 0
	}
	avail := innerW - 2 - gutter - (cols + 1)
	w := avail / cols
	if w < minColWidth {
		w = minColWidth
	}
	return w
}

// recalcLayout refreshes the width-dependent caches after a resize or
// mode change.
func (m *Model) recalcLayout() {
	m.colWidth = m.calculateColWidth()
	m.styleCache = NewStyleCache(m.styles, m.colWidth)
	m.ensureCursorVisible()
}

func (m Model) renderTitleBar(innerW int) string {
	tabs := make([]string, 0, 4)
	for _, mode := range []viewctrl.ViewMode{viewctrl.ModeDay, viewctrl.ModeWeek, viewctrl.ModeMonth, viewctrl.ModeList} {
		style := m.styles.ModeTabStyle
		if m.ctrl.Mode() == mode {
			style = m.styles.ModeTabActiveStyle
		}
		tabs = append(tabs, style.Render(modeLabel(mode)))
	}

	left := m.styles.TitleStyle.Render("clinicgrid") +
		m.styles.SeparatorStyle.Render(" | ") +
		strings.Join(tabs, "")

	right := m.styles.HeaderStyle.Render(m.rangeLabel())
	if f := m.filterLabel(); f != "" {
		right = m.styles.ClippedStyle.Render(f) + m.styles.SeparatorStyle.Render("  ") + right
	}

	gap := innerW - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Background(m.styles.colorBg).Render(strings.Repeat(" ", gap))
	return left + spacer + right
}

func modeLabel(mode viewctrl.ViewMode) string {
	switch mode {
	case viewctrl.ModeDay:
		return "Day"
	case viewctrl.ModeMonth:
		return "Month"
	case viewctrl.ModeList:
		return "List"
	default:
		return "Week"
	}
}

func (m Model) rangeLabel() string {
	r := m.ctrl.VisibleRange()
	switch m.ctrl.Mode() {
	case viewctrl.ModeDay:
		return m.ctrl.CurrentDate().Format("Mon, Jan 2 2006")
	case viewctrl.ModeMonth:
		return m.ctrl.CurrentDate().Format("January 2006")
	default:
		return r.Start.Format("Jan 2") + " - " + r.End.Format("Jan 2, 2006")
	}
}

func (m Model) filterLabel() string {
	parts := make([]string, 0, 2)
	if q := m.ctrl.Query(); q != "" {
		parts = append(parts, "/"+q)
	}
	if id := m.ctrl.Filters().ProviderID; id != "" {
		name := id
		for _, p := range m.providers {
			if p.ID == id {
				name = p.Name
				break
			}
		}
		parts = append(parts, "@"+name)
	}
	return strings.Join(parts, " ")
}

func (m Model) renderGrid(innerW, gridH int) string {
	switch m.ctrl.Mode() {
	case viewctrl.ModeDay:
		return m.renderDayGrid(innerW, gridH)
	case viewctrl.ModeMonth:
		return m.renderMonthGrid(innerW, gridH)
	case viewctrl.ModeList:
		return m.renderListGrid(innerW, gridH)
	default:
		return m.renderWeekGrid(innerW, gridH)
	}
}

func (m Model) renderFooter(innerW, footerH int) string {
	return view.RenderFooter(view.FooterModel{
		InnerW:      innerW,
		FooterH:     footerH,
		FullFooter:  footerH >= footerMinHeight,
		StatsLine:   m.renderStatsBar(innerW),
		LegendText:  m.renderLegend(),
		SearchLine:  m.renderSearchLine(innerW),
		ShowSearch:  m.mode == ModeSearch || m.ctrl.Query() != "",
		StatusText:  m.statusMsgOrDefault(),
		HelpText:    m.renderHelp(),
		FooterStyle: m.styles.StatsBarStyle,
		StatusStyle: m.styles.StatusStyle,
		HelpStyle:   m.styles.HelpStyle,
		VAlign:      lipgloss.Bottom,
		Bg:          m.styles.colorBg,
	})
}

// renderStatsBar summarizes the filtered range: session count, distinct
// patients, total value, and how many rows fall outside the day window.
func (m Model) renderStatsBar(innerW int) string {
	visible := m.visibleAppointments()
	stats := m.ctrl.Stats(visible)
	_, clipped := m.displayable()

	s := m.styles.StatsBarStyle.Render("Sessions ") +
		m.styles.StatsValueStyle.Render(fmt.Sprintf("%d", stats.Appointments)) +
		m.styles.StatsBarStyle.Render("  Patients ") +
		m.styles.StatsValueStyle.Render(fmt.Sprintf("%d", stats.Patients)) +
		m.styles.StatsBarStyle.Render("  Value ") +
		m.styles.PaidStyle.Render(view.FormatMoney(stats.TotalValue))

	if len(clipped) > 0 && m.ctrl.Mode() != viewctrl.ModeList && m.ctrl.Mode() != viewctrl.ModeMonth {
		s += m.styles.ClippedStyle.Render(fmt.Sprintf("  %d outside hours", len(clipped)))
	}

	w := lipgloss.Width(s)
	if w < innerW {
		s += m.styles.StatsBarStyle.Render(strings.Repeat(" ", innerW-w))
	}
	return s
}

func (m Model) renderLegend() string {
	if len(m.providers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.providers))
	for i, p := range m.providers {
		sw := m.styles.ProviderSwatch(p.Color, i)
		parts = append(parts, m.styles.LegendEntryStyle(sw).Render("■ "+p.Name))
	}
	return strings.Join(parts, m.styles.StatsBarStyle.Render("  "))
}

func (m Model) renderSearchLine(innerW int) string {
	style := m.styles.SearchStyle
	if m.mode == ModeSearch {
		style = m.styles.SearchFocusedStyle
	}
	content := m.search.View()
	if m.mode != ModeSearch {
		content = "/" + m.ctrl.Query()
	}
	frameW, _ := style.GetFrameSize()
	w := innerW - frameW
	if w < 0 {
		w = 0
	}
	return style.Width(w).Render(content)
}

func (m Model) statusMsgOrDefault() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.loading {
		return "Loading..."
	}
	return ""
}

func (m Model) renderHelp() string {
	switch m.mode {
	case ModeMove:
		return "j/k slot  h/l day  Enter drop  Esc cancel"
	case ModeSearch:
		return "Enter apply  Esc cancel"
	case ModeModal:
		return "Esc close"
	}
	switch m.ctrl.Mode() {
	case viewctrl.ModeList:
		return "j/k row  Enter detail  H/L range  1-4 view  / search  f provider  q quit"
	case viewctrl.ModeMonth:
		return "h/l day  j/k week  Enter day  H/L month  1-4 view  q quit"
	default:
		return "hjkl move  Enter open/book  b book  m move  t today  / search  f provider  v view  q quit"
	}
}
