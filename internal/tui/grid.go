package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/dateutil"
	"github.com/jortegam/clinicgrid/internal/layout"
	"github.com/jortegam/clinicgrid/internal/tui/view"
	"github.com/jortegam/clinicgrid/internal/viewctrl"
)

// slotEntry is one appointment pinned to its slot span for rendering.
type slotEntry struct {
	appt      *clinic.Appointment
	startSlot int
	endSlot   int
}

// dayPlacement indexes a day's displayable appointments by slot row.
// When spans overlap the later start wins the cell, matching the
// innermost box of an overlap cluster.
type dayPlacement struct {
	bySlot []*slotEntry
}

func (m *Model) placementFor(day time.Time, appts []*clinic.Appointment) dayPlacement {
	p := dayPlacement{bySlot: make([]*slotEntry, m.grid.SlotCount())}
	for _, a := range appts {
		if !a.OnDay(day) {
			continue
		}
		offset, ok := m.grid.TimeToOffset(a.Start)
		if !ok {
			continue
		}
		start := m.grid.SlotIndexAt(offset)
		entry := &slotEntry{appt: a, startSlot: start, endSlot: m.endSlotOf(a, start)}
		for s := entry.startSlot; s <= entry.endSlot; s++ {
			current := p.bySlot[s]
			if current == nil || a.Start.After(current.appt.Start) {
				p.bySlot[s] = entry
			}
		}
	}
	return p
}

// providerLookup maps provider ids to their color name and stable index.
type providerLookup struct {
	color map[string]string
	index map[string]int
}

func (m *Model) providerLookup() providerLookup {
	l := providerLookup{color: make(map[string]string), index: make(map[string]int)}
	for i, p := range m.providers {
		l.color[p.ID] = p.Color
		l.index[p.ID] = i
	}
	return l
}

// dragSpan returns the slot span a pending drag would occupy.
func (m *Model) dragSpan() (start, end int, ok bool) {
	dragging := m.session.Dragging()
	if m.mode != ModeMove || dragging == nil {
		return 0, 0, false
	}
	start = m.dragTarget.Slot
	return start, m.endSlotOf(dragging, start), true
}

// renderWeekGrid draws the day columns of the current range with one
// table row per screen line.
func (m Model) renderWeekGrid(innerW, gridH int) string {
	days := m.visibleDays()
	visible := m.visibleRows()
	if len(days) == 0 || visible <= 0 {
		return view.PlaceBox(innerW, gridH, lipgloss.Top, "", m.styles.colorBg)
	}

	colWidth := m.calculateColWidth()
	inGrid, _ := m.displayable()
	lookup := m.providerLookup()

	placements := make([]dayPlacement, len(days))
	for i, day := range days {
		placements[i] = m.placementFor(day, inGrid)
	}

	dragStart, dragEnd, dragActive := m.dragSpan()
	slots := m.grid.Slots()

	var rows [][]string
	var cellStyles [][]lipgloss.Style
	first := m.scrollOffset
	last := first + visible
	if last > m.grid.SlotCount() {
		last = m.grid.SlotCount()
	}
	for slot := first; slot < last; slot++ {
		for line := 0; line < m.rowsPerSlot; line++ {
			row := make([]string, 0, len(days)+1)
			styleRow := make([]lipgloss.Style, 0, len(days)+1)

			label := ""
			if line == 0 {
				label = slots[slot].Label
			}
			row = append(row, label)
			styleRow = append(styleRow, m.styles.TimeColumnStyle.Width(timeGutterWidth))

			for dayIdx, day := range days {
				content, style := m.weekCell(weekCellInput{
					day:        day,
					dayIdx:     dayIdx,
					slot:       slot,
					line:       line,
					colWidth:   colWidth,
					entry:      placements[dayIdx].bySlot[slot],
					lookup:     lookup,
					dragActive: dragActive && m.dragTarget.Day == dayIdx && slot >= dragStart && slot <= dragEnd,
					dragFirst:  dragActive && slot == dragStart && line == 0,
				})
				row = append(row, content)
				styleRow = append(styleRow, style)
			}

			rows = append(rows, row)
			cellStyles = append(cellStyles, styleRow)
		}
	}

	headers, todayCols := view.DayLabels(days, m.now())
	headerStyles := make([]lipgloss.Style, len(headers))
	headerStyles[0] = m.styles.TimeColumnStyle.Width(timeGutterWidth)
	for i := 1; i < len(headers); i++ {
		style := m.styles.DayHeaderStyleWidth(colWidth)
		if todayCols[i] {
			style = m.styles.DayHeaderTodayStyleWidth(colWidth)
		}
		headerStyles[i] = style
	}

	return view.RenderGrid(view.GridViewState{
		InnerW:       innerW,
		GridH:        gridH,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content:      view.GridContent{Rows: rows, CellStyles: cellStyles},
		BorderStyle:  m.gridBorderStyle(),
		VAlign:       lipgloss.Top,
		Bg:           m.styles.colorBg,
		Render:       true,
	})
}

type weekCellInput struct {
	day        time.Time
	dayIdx     int
	slot       int
	line       int
	colWidth   int
	entry      *slotEntry
	lookup     providerLookup
	dragActive bool
	dragFirst  bool
}

func (m Model) weekCell(in weekCellInput) (string, lipgloss.Style) {
	if in.dragActive {
		content := ""
		if in.dragFirst {
			content = truncateCell("◆ "+m.session.Dragging().DisplayPatient(), in.colWidth)
		}
		return content, m.styles.DragPreviewStyleWidth(in.colWidth)
	}

	underCursor := m.mode == ModeNormal && m.cursor.Day == in.dayIdx && m.cursor.Slot == in.slot

	if in.entry != nil {
		a := in.entry.appt
		content := ""
		switch {
		case in.slot == in.entry.startSlot && in.line == 0:
			content = truncateCell(statusGlyph(a.Status)+a.DisplayPatient()+paidMark(a), in.colWidth)
		case in.slot == in.entry.startSlot && in.line == 1:
			content = truncateCell(view.FormatTimeRange(a.Start, a.End), in.colWidth)
		}
		if underCursor {
			return content, m.styles.SelectedStyleWidth(in.colWidth)
		}
		style := m.styleCache.Appointment(in.lookup.color[a.ProviderID], in.lookup.index[a.ProviderID], a.Status, in.colWidth)
		return content, style
	}

	if underCursor {
		return "", m.styles.CursorStyleWidth(in.colWidth)
	}
	return "", m.styles.EmptyCellStyleWidth(in.colWidth)
}

// renderDayGrid draws one column per provider for the focused date,
// splitting overlap clusters side by side inside a column.
func (m Model) renderDayGrid(innerW, gridH int) string {
	visible := m.visibleRows()
	if visible <= 0 {
		return view.PlaceBox(innerW, gridH, lipgloss.Top, "", m.styles.colorBg)
	}

	day := m.cursorDay()
	colWidth := m.calculateColWidth()
	inGrid, _ := m.displayable()
	lookup := m.providerLookup()

	dayAppts := make([]*clinic.Appointment, 0, len(inGrid))
	for _, a := range inGrid {
		if a.OnDay(day) {
			dayAppts = append(dayAppts, a)
		}
	}
	columns := m.layoutCache.Day(day, dayAppts, m.ctrl.ProviderOrder())
	columnByProvider := make(map[string][]layoutBoxSpan)
	for _, col := range columns {
		columnByProvider[col.ProviderID] = m.boxSpans(col.Boxes)
	}

	dragStart, dragEnd, dragActive := m.dragSpan()
	slots := m.grid.Slots()

	var rows [][]string
	var cellStyles [][]lipgloss.Style
	first := m.scrollOffset
	last := first + visible
	if last > m.grid.SlotCount() {
		last = m.grid.SlotCount()
	}
	for slot := first; slot < last; slot++ {
		for line := 0; line < m.rowsPerSlot; line++ {
			row := make([]string, 0, len(m.providers)+1)
			styleRow := make([]lipgloss.Style, 0, len(m.providers)+1)

			label := ""
			if line == 0 {
				label = slots[slot].Label
			}
			row = append(row, label)
			gutterStyle := m.styles.TimeColumnStyle.Width(timeGutterWidth)
			if m.mode == ModeNormal && m.cursor.Slot == slot {
				gutterStyle = m.styles.CursorStyleWidth(timeGutterWidth)
			}
			styleRow = append(styleRow, gutterStyle)

			for provIdx, p := range m.providers {
				drag := dragActive && m.dragProviderIdx == provIdx && slot >= dragStart && slot <= dragEnd
				// Cell content arrives pre-styled; the table only sizes it.
				content := m.dayCell(columnByProvider[p.ID], slot, line, colWidth, lookup, drag, dragActive && slot == dragStart && line == 0)
				row = append(row, content)
				styleRow = append(styleRow, lipgloss.NewStyle())
			}

			rows = append(rows, row)
			cellStyles = append(cellStyles, styleRow)
		}
	}

	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name
	}
	headers := view.ProviderLabels(names, day)
	headerStyles := make([]lipgloss.Style, len(headers))
	headerStyles[0] = m.styles.TimeColumnStyle.Width(timeGutterWidth)
	for i := 1; i < len(headers); i++ {
		style := m.styles.DayHeaderStyleWidth(colWidth)
		if dateutil.SameDay(day, m.now()) {
			style = m.styles.DayHeaderTodayStyleWidth(colWidth)
		}
		headerStyles[i] = style
	}

	return view.RenderGrid(view.GridViewState{
		InnerW:       innerW,
		GridH:        gridH,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content:      view.GridContent{Rows: rows, CellStyles: cellStyles},
		BorderStyle:  m.gridBorderStyle(),
		VAlign:       lipgloss.Top,
		Bg:           m.styles.colorBg,
		Render:       true,
	})
}

// layoutBoxSpan is a layout box resolved to slot rows and character
// columns within its provider column.
type layoutBoxSpan struct {
	entry    slotEntry
	leftPct  float64
	widthPct float64
}

func (m *Model) boxSpans(boxes []layout.Box) []layoutBoxSpan {
	spans := make([]layoutBoxSpan, 0, len(boxes))
	for _, b := range boxes {
		offset, ok := m.grid.TimeToOffset(b.Appointment.Start)
		if !ok {
			continue
		}
		start := m.grid.SlotIndexAt(offset)
		spans = append(spans, layoutBoxSpan{
			entry:    slotEntry{appt: b.Appointment, startSlot: start, endSlot: m.endSlotOf(b.Appointment, start)},
			leftPct:  b.LeftPct,
			widthPct: b.WidthPct,
		})
	}
	return spans
}

// dayCell composes the side-by-side box segments covering one slot line
// of a provider column.
func (m Model) dayCell(spans []layoutBoxSpan, slot, line, colWidth int, lookup providerLookup, drag, dragFirst bool) string {
	if drag {
		content := ""
		if dragFirst {
			content = truncateCell("◆ "+m.session.Dragging().DisplayPatient(), colWidth)
		}
		return m.styles.DragPreviewStyleWidth(colWidth).Render(content)
	}

	type segment struct {
		left  int
		width int
		span  layoutBoxSpan
	}
	var segs []segment
	for _, s := range spans {
		if slot < s.entry.startSlot || slot > s.entry.endSlot {
			continue
		}
		left := int(float64(colWidth) * s.leftPct / 100.0)
		width := int(float64(colWidth) * s.widthPct / 100.0)
		if width < 1 {
			width = 1
		}
		if left >= colWidth {
			left = colWidth - 1
		}
		if left+width > colWidth {
			width = colWidth - left
		}
		segs = append(segs, segment{left: left, width: width, span: s})
	}

	empty := m.styles.EmptyCellStyleWidth(1)
	var b strings.Builder
	col := 0
	for _, seg := range segs {
		if seg.left > col {
			b.WriteString(empty.Width(seg.left - col).Render(""))
			col = seg.left
		}
		if seg.left < col {
			// Cluster widths may not tile exactly; later boxes win the
			// contested columns.
			seg.width -= col - seg.left
			if seg.width < 1 {
				continue
			}
		}
		a := seg.span.entry.appt
		content := ""
		if slot == seg.span.entry.startSlot && line == 0 {
			content = truncateCell(statusGlyph(a.Status)+a.DisplayPatient()+paidMark(a), seg.width)
		}
		style := m.styleCache.Appointment(lookup.color[a.ProviderID], lookup.index[a.ProviderID], a.Status, seg.width)
		b.WriteString(style.Render(content))
		col += seg.width
	}
	if col < colWidth {
		b.WriteString(empty.Width(colWidth - col).Render(""))
	}
	return b.String()
}

// renderMonthGrid draws the month as week rows of day cells, each cell
// listing a capped number of sessions.
func (m Model) renderMonthGrid(innerW, gridH int) string {
	cells := m.ctrl.MonthCells(m.visibleAppointments())
	if len(cells) == 0 {
		return view.PlaceBox(innerW, gridH, lipgloss.Top, "", m.styles.colorBg)
	}

	colWidth := m.calculateColWidth()
	weeks := len(cells) / 7

	var rows [][]string
	var cellStyles [][]lipgloss.Style
	for week := 0; week < weeks; week++ {
		row := make([]string, 0, 7)
		styleRow := make([]lipgloss.Style, 0, 7)
		for dayIdx := 0; dayIdx < 7; dayIdx++ {
			cell := cells[week*7+dayIdx]
			row = append(row, m.monthCellContent(cell, colWidth))

			style := m.styles.EmptyCellStyleWidth(colWidth)
			switch {
			case m.mode == ModeNormal && m.cursor.Day == dayIdx && m.cursor.Slot == week:
				style = m.styles.SelectedStyleWidth(colWidth)
			case dateutil.SameDay(cell.Date, m.now()):
				style = m.styles.EmptyCellStyleWidth(colWidth).Foreground(m.styles.colorToday)
			case cell.Date.Month() != m.ctrl.CurrentDate().Month():
				style = m.styles.EmptyCellStyleWidth(colWidth).Foreground(m.styles.colorFgMuted)
			}
			styleRow = append(styleRow, style)
		}
		rows = append(rows, row)
		cellStyles = append(cellStyles, styleRow)
	}

	headers := view.WeekdayLabels(m.weekStartDay())
	headerStyles := make([]lipgloss.Style, len(headers))
	for i := range headerStyles {
		headerStyles[i] = m.styles.DayHeaderStyleWidth(colWidth)
	}

	return view.RenderGrid(view.GridViewState{
		InnerW:       innerW,
		GridH:        gridH,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content:      view.GridContent{Rows: rows, CellStyles: cellStyles},
		BorderStyle:  m.gridBorderStyle(),
		RowBorders:   true,
		VAlign:       lipgloss.Top,
		Bg:           m.styles.colorBg,
		Render:       true,
	})
}

func (m Model) monthCellContent(cell viewctrl.MonthCell, colWidth int) string {
	lines := make([]string, 0, len(cell.Visible)+2)
	lines = append(lines, strconv.Itoa(cell.Date.Day()))
	for _, a := range cell.Visible {
		lines = append(lines, truncateCell(a.Start.Format("15:04")+" "+a.DisplayPatient(), colWidth))
	}
	if cell.More > 0 {
		lines = append(lines, fmt.Sprintf("+%d more", cell.More))
	}
	return strings.Join(lines, "\n")
}

// renderListGrid draws the rolling agenda as a flat table.
func (m Model) renderListGrid(innerW, gridH int) string {
	items := m.listRows()

	base := lipgloss.NewStyle().Foreground(m.styles.colorFg).Background(m.styles.colorBg).Padding(0, 1)
	muted := base.Foreground(m.styles.colorFgMuted)
	selected := base.Background(m.styles.colorBgSelection).Bold(true)

	var rows [][]string
	var cellStyles [][]lipgloss.Style
	for i, a := range items {
		paid := ""
		if a.PaymentStatus == clinic.PaymentPaid {
			paid = "paid"
		}
		row := []string{
			a.Start.Format("Mon Jan 2"),
			view.FormatTimeRange(a.Start, a.End),
			a.DisplayPatient(),
			m.providerName(a.ProviderID),
			string(a.Status),
			paid,
			view.FormatMoney(a.Value),
		}

		style := base
		switch {
		case m.mode == ModeNormal && m.cursor.Slot == i:
			style = selected
		case a.Status == clinic.StatusCanceled:
			style = muted.Strikethrough(true)
		case a.Status.Terminal() || a.Status == clinic.StatusCompleted:
			style = muted
		}
		styleRow := make([]lipgloss.Style, len(row))
		for c := range styleRow {
			styleRow[c] = style
		}
		if paid != "" && style.GetBackground() != m.styles.colorBgSelection {
			styleRow[5] = m.styles.PaidStyle.Padding(0, 1)
		}
		rows = append(rows, row)
		cellStyles = append(cellStyles, styleRow)
	}

	headers := []string{"Date", "Time", "Patient", "Provider", "Status", "Paid", "Value"}
	headerStyles := make([]lipgloss.Style, len(headers))
	for i := range headerStyles {
		headerStyles[i] = m.styles.HeaderStyle.Padding(0, 1)
	}

	return view.RenderGrid(view.GridViewState{
		InnerW:       innerW,
		GridH:        gridH,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content:      view.GridContent{Rows: rows, CellStyles: cellStyles},
		BorderStyle:  m.gridBorderStyle(),
		VAlign:       lipgloss.Top,
		Bg:           m.styles.colorBg,
		Render:       true,
	})
}

func (m Model) gridBorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.styles.colorAccent).
		Background(m.styles.colorBg)
}

func (m Model) providerName(id string) string {
	for _, p := range m.providers {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func statusGlyph(s clinic.Status) string {
	switch s {
	case clinic.StatusCompleted:
		return "✓ "
	case clinic.StatusCanceled:
		return "✗ "
	case clinic.StatusNoShow:
		return "! "
	default:
		return ""
	}
}

func paidMark(a *clinic.Appointment) string {
	if a.PaymentStatus == clinic.PaymentPaid {
		return " €"
	}
	return ""
}

func truncateCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
