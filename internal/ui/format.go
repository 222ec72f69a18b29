package ui

import (
	"fmt"
	"strings"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

// statusSymbol returns the one-character marker for a session status.
func statusSymbol(s clinic.Status) string {
	switch s {
	case clinic.StatusScheduled:
		return "○"
	case clinic.StatusCompleted:
		return "✓"
	case clinic.StatusCanceled:
		return "✗"
	case clinic.StatusNoShow:
		return "!"
	default:
		return "?"
	}
}

// formatStatus colors a status marker plus label.
func formatStatus(s clinic.Status) string {
	text := statusSymbol(s) + " " + string(s)
	switch s {
	case clinic.StatusScheduled:
		return colorScheduled.Sprint(text)
	case clinic.StatusCompleted:
		return colorPaid.Sprint(text)
	case clinic.StatusNoShow:
		return colorWarn.Sprint(text)
	default:
		return colorMuted.Sprint(text)
	}
}

// formatPayment colors the payment flag.
func formatPayment(p clinic.PaymentStatus) string {
	if p == clinic.PaymentPaid {
		return colorPaid.Sprint("paid")
	}
	return colorWarn.Sprint("pending")
}

// formatMoney renders a fee amount.
func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f€", v)
}

// printAppointmentRow prints one agenda line for an appointment.
func printAppointmentRow(a *clinic.Appointment, providerName string, maxNameWidth int) {
	name := a.DisplayPatient()
	if len(name) > maxNameWidth {
		name = name[:maxNameWidth-1] + "…"
	}

	line := fmt.Sprintf("  %s  %s-%s  %-*s  %-12s %s  %s",
		formatStatus(a.Status),
		a.Start.Format("15:04"),
		a.End.Format("15:04"),
		maxNameWidth, name,
		providerName,
		formatPayment(a.PaymentStatus),
		formatMoney(a.Value),
	)
	if a.Note != "" {
		line += colorMuted.Sprintf("  (%s)", a.Note)
	}
	fmt.Println(line)
}

// paidBar renders a fixed-width bar showing collected vs outstanding
// value for the period.
func paidBar(paid, total float64, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := int(paid / total * float64(width))
	if filled > width {
		filled = width
	}
	bar := colorPaid.Sprint(strings.Repeat("█", filled)) +
		colorMuted.Sprint(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %.0f%%", bar, paid/total*100)
}
