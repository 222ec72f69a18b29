package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

func TestStatusSymbol(t *testing.T) {
	tests := []struct {
		status clinic.Status
		want   string
	}{
		{clinic.StatusScheduled, "○"},
		{clinic.StatusCompleted, "✓"},
		{clinic.StatusCanceled, "✗"},
		{clinic.StatusNoShow, "!"},
		{clinic.Status("bogus"), "?"},
	}
	for _, tt := range tests {
		if got := statusSymbol(tt.status); got != tt.want {
			t.Errorf("statusSymbol(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := formatMoney(45); got != "45.00€" {
		t.Errorf("formatMoney(45) = %q", got)
	}
	if got := formatMoney(37.5); got != "37.50€" {
		t.Errorf("formatMoney(37.5) = %q", got)
	}
}

func TestPaidBar(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name        string
		paid, total float64
		width       int
		wantFilled  int
		wantPct     string
	}{
		{"half", 50, 100, 10, 5, "50%"},
		{"all", 100, 100, 10, 10, "100%"},
		{"none", 0, 100, 10, 0, "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paidBar(tt.paid, tt.total, tt.width)
			if !strings.HasSuffix(got, tt.wantPct) {
				t.Errorf("paidBar = %q, want suffix %q", got, tt.wantPct)
			}
			if n := strings.Count(got, "█"); n != tt.wantFilled {
				t.Errorf("filled cells = %d, want %d", n, tt.wantFilled)
			}
		})
	}
}

func TestPaidBarDegenerate(t *testing.T) {
	if got := paidBar(10, 0, 10); got != "" {
		t.Errorf("zero total should render nothing, got %q", got)
	}
	if got := paidBar(10, 100, 0); got != "" {
		t.Errorf("zero width should render nothing, got %q", got)
	}
}
