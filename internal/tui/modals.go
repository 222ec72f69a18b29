package tui

import (
	"strings"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/tui/view"
)

func (m Model) modalStyles() view.ModalStyles {
	return view.ModalStyles{
		ModalStyle:             m.styles.ModalStyle,
		ModalTitleStyle:        m.styles.ModalTitleStyle,
		ModalBodyStyle:         m.styles.ModalBodyStyle,
		ModalHintStyle:         m.styles.ModalHintStyle,
		ModalButtonStyle:       m.styles.ModalButtonStyle,
		ModalButtonActiveStyle: m.styles.ModalButtonActiveStyle,
	}
}

func (m Model) renderModal() string {
	switch m.modalType {
	case ModalDetail:
		return m.renderDetailModal()
	case ModalBookForm:
		return m.renderBookFormModal()
	case ModalConfirmCancel:
		return m.renderConfirmCancelModal()
	default:
		return ""
	}
}

func (m Model) renderDetailModal() string {
	a := m.modalAppt
	if a == nil {
		return ""
	}

	label := func(s string) string { return m.styles.ModalLabelStyle.Render(s) }
	value := func(s string) string { return m.styles.ModalBodyStyle.Render(s) }

	paid := "pending"
	if a.PaymentStatus == clinic.PaymentPaid {
		paid = "paid"
	}

	lines := []string{
		label("Patient") + value(a.DisplayPatient()),
		label("Provider") + value(m.providerName(a.ProviderID)),
		label("When") + value(a.Start.Format("Mon, Jan 2")+"  "+view.FormatTimeRange(a.Start, a.End)),
		label("Length") + value(view.FormatDuration(int(a.Duration().Minutes()))),
		label("Status") + value(string(a.Status)),
		label("Payment") + value(paid),
		label("Value") + value(view.FormatMoney(a.Value)),
	}
	if a.Note != "" {
		lines = append(lines, label("Note")+value(a.Note))
	}
	if a.SeriesID != "" {
		lines = append(lines, label("Series")+m.styles.ModalMetaStyle.Render(a.SeriesID))
	}

	hint := "c complete  n no-show  p payment  x cancel  o record  y copy  Esc close"
	return view.RenderModalFrame("Session", strings.Join(lines, "\n"), hint, m.modalStyles())
}

func (m Model) renderBookFormModal() string {
	label := func(s string, focused bool) string {
		style := m.styles.ModalLabelStyle
		if focused {
			style = style.Foreground(m.styles.colorAccent)
		}
		return style.Render(s)
	}

	providerLabels := make([]string, len(m.providers))
	for i, p := range m.providers {
		providerLabels[i] = p.Name
	}

	durations := make([]string, len(durationOptions))
	for i, d := range durationOptions {
		durations[i] = view.FormatDuration(d)
	}

	when := m.cursorTime()
	meta := m.styles.ModalMetaStyle.Render(when.Format("Mon, Jan 2") + " at " + when.Format("15:04"))

	lines := []string{
		meta,
		"",
		label("Patient", m.formFocus == 0) + m.formPatient.View(),
		label("Note", m.formFocus == 1) + m.formNote.View(),
		label("Provider", m.formFocus == 2) + view.RenderModalButtons(m.modalStyles(), m.formProvider, providerLabels...),
		label("Length", m.formFocus == 3) + view.RenderModalButtons(m.modalStyles(), m.formDuration, durations...),
	}

	hint := "Tab field  h/l choose  Enter save  Esc cancel"
	return view.RenderModalFrame("Book session", strings.Join(lines, "\n"), hint, m.modalStyles())
}

func (m Model) renderConfirmCancelModal() string {
	body := m.styles.ModalBodyStyle.Render(m.confirmMessage) + "\n\n" +
		view.RenderModalButtons(m.modalStyles(), 0, "Yes", "No")
	return view.RenderModalFrame("Cancel session", body, "y/Enter confirm  n/Esc back", m.modalStyles())
}
