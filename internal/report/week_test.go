package report

import (
	"testing"
	"time"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/dateutil"
)

func testAppt(t *testing.T, provider string, day int, hour int, status clinic.Status, paid clinic.PaymentStatus, value float64) *clinic.Appointment {
	t.Helper()
	start := time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
	a, err := clinic.New("pat-1", "Marta", provider, start, start.Add(45*time.Minute))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Status = status
	a.PaymentStatus = paid
	a.Value = value
	return a
}

func TestSummarize(t *testing.T) {
	providers := []*clinic.Provider{
		{ID: "prov-b", Name: "Berta", Color: "peach"},
		{ID: "prov-a", Name: "Alba", Color: "blue"},
	}
	appts := []*clinic.Appointment{
		testAppt(t, "prov-a", 2, 9, clinic.StatusCompleted, clinic.PaymentPaid, 45),
		testAppt(t, "prov-a", 2, 10, clinic.StatusScheduled, clinic.PaymentPending, 45),
		testAppt(t, "prov-a", 3, 9, clinic.StatusCanceled, clinic.PaymentPending, 45),
		testAppt(t, "prov-b", 3, 9, clinic.StatusNoShow, clinic.PaymentPending, 60),
	}
	r := dateutil.WeekRange(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), time.Monday)

	rep := Summarize(r, appts, providers)

	if rep.Overall.Sessions != 4 {
		t.Errorf("Overall.Sessions = %d, want 4", rep.Overall.Sessions)
	}
	// Canceled sessions carry no value; 45 + 45 + 60.
	if rep.Overall.Value != 150 {
		t.Errorf("Overall.Value = %v, want 150", rep.Overall.Value)
	}
	if rep.Overall.PaidValue != 45 {
		t.Errorf("Overall.PaidValue = %v, want 45", rep.Overall.PaidValue)
	}

	if len(rep.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(rep.Providers))
	}
	// Ordered by name: Alba before Berta.
	alba := rep.Providers[0]
	if alba.ProviderName != "Alba" {
		t.Fatalf("Providers[0] = %q, want Alba", alba.ProviderName)
	}
	if alba.Sessions != 3 || alba.Completed != 1 || alba.Canceled != 1 {
		t.Errorf("Alba totals = %+v", alba)
	}
	if alba.Value != 90 {
		t.Errorf("Alba.Value = %v, want 90", alba.Value)
	}

	berta := rep.Providers[1]
	if berta.NoShows != 1 || berta.Value != 60 {
		t.Errorf("Berta totals = %+v", berta)
	}
}

func TestSummarizeUnknownProvider(t *testing.T) {
	appts := []*clinic.Appointment{
		testAppt(t, "ghost", 2, 9, clinic.StatusScheduled, clinic.PaymentPending, 30),
	}
	r := dateutil.WeekRange(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), time.Monday)

	rep := Summarize(r, appts, nil)
	if len(rep.Providers) != 1 {
		t.Fatalf("len(Providers) = %d, want 1", len(rep.Providers))
	}
	if rep.Providers[0].ProviderName != "ghost" {
		t.Errorf("ProviderName = %q, want id fallback", rep.Providers[0].ProviderName)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	r := dateutil.WeekRange(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), time.Monday)
	rep := Summarize(r, nil, nil)
	if rep.Overall.Sessions != 0 || len(rep.Providers) != 0 {
		t.Errorf("empty week should have zero totals, got %+v", rep)
	}
}
