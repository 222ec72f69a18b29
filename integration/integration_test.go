package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/dateutil"
	"github.com/jortegam/clinicgrid/internal/report"
	"github.com/jortegam/clinicgrid/internal/reschedule"
	"github.com/jortegam/clinicgrid/internal/store"
	"github.com/jortegam/clinicgrid/internal/timegrid"
	"github.com/jortegam/clinicgrid/internal/viewctrl"
)

// openStore creates a fresh database for each test with automatic cleanup.
func openStore(t *testing.T) *store.SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newGrid(t *testing.T) *timegrid.Grid {
	t.Helper()
	g, err := timegrid.New(timegrid.Config{
		StartHour:       7,
		EndHour:         21,
		SlotMinutes:     30,
		PixelsPerMinute: 1,
	})
	if err != nil {
		t.Fatalf("failed to build grid: %v", err)
	}
	return g
}

func bookSession(t *testing.T, s *store.SQLite, patient, provider string, start time.Time, minutes int) *clinic.Appointment {
	t.Helper()
	a, err := clinic.New("pat-"+patient, patient, provider, start, start.Add(time.Duration(minutes)*time.Minute))
	if err != nil {
		t.Fatalf("failed to build appointment: %v", err)
	}
	a.Value = 45
	if err := s.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("failed to insert appointment: %v", err)
	}
	return a
}

func addProvider(t *testing.T, s *store.SQLite, id, name string) {
	t.Helper()
	err := s.CreateProvider(context.Background(), &clinic.Provider{ID: id, Name: name, Color: "blue"})
	if err != nil {
		t.Fatalf("failed to insert provider: %v", err)
	}
}

func TestBookAndListFlow(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	addProvider(t, s, "prov-1", "Alba")

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.Local)
	booked := bookSession(t, s, "Marta", "prov-1", day.Add(9*time.Hour), 45)

	got, err := s.GetAppointment(ctx, booked.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.PatientName != "Marta" || !got.Start.Equal(booked.Start) {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// A same-provider overlap is rejected outright.
	conflict, err := clinic.New("pat-x", "Xavi", "prov-1", day.Add(9*time.Hour+15*time.Minute), day.Add(10*time.Hour))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.CreateAppointment(ctx, conflict); !errors.Is(err, clinic.ErrScheduleConflict) {
		t.Errorf("overlap create err = %v, want ErrScheduleConflict", err)
	}
}

func TestMoveSessionCommit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	addProvider(t, s, "prov-1", "Alba")

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.Local)
	a := bookSession(t, s, "Marta", "prov-1", day.Add(9*time.Hour), 45)

	grid := newGrid(t)
	session := reschedule.NewSession(grid, s, 5*time.Second)

	if err := session.Begin(a); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// Offset 240 = 11:00 with the 7:00 window at one row per minute.
	moved, err := session.Drop(ctx, reschedule.Target{Day: day, OffsetY: 240})
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if !moved {
		t.Fatal("Drop reported no move")
	}

	got, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	want := day.Add(11 * time.Hour)
	if !got.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", got.Start, want)
	}
	if got.Duration() != 45*time.Minute {
		t.Errorf("Duration = %v, want 45m", got.Duration())
	}
}

func TestMoveSessionConflictRollsBack(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	addProvider(t, s, "prov-1", "Alba")

	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.Local)
	a := bookSession(t, s, "Marta", "prov-1", day.Add(9*time.Hour), 45)
	bookSession(t, s, "Xavi", "prov-1", day.Add(11*time.Hour), 45)

	grid := newGrid(t)
	session := reschedule.NewSession(grid, s, 5*time.Second)

	if err := session.Begin(a); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	_, err := session.Drop(ctx, reschedule.Target{Day: day, OffsetY: 240})
	if !errors.Is(err, clinic.ErrScheduleConflict) {
		t.Fatalf("Drop err = %v, want ErrScheduleConflict", err)
	}

	// The overlay rolled back: the calendar shows the pre-drag time.
	overlaid := session.Apply([]*clinic.Appointment{a})
	if !overlaid[0].Start.Equal(day.Add(9 * time.Hour)) {
		t.Errorf("overlay Start = %v, want original 9:00", overlaid[0].Start)
	}

	got, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if !got.Start.Equal(day.Add(9 * time.Hour)) {
		t.Errorf("store Start = %v, want untouched 9:00", got.Start)
	}
}

func TestWeekViewAndReportFlow(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	addProvider(t, s, "prov-1", "Alba")
	addProvider(t, s, "prov-2", "Berta")

	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.Local)
	a1 := bookSession(t, s, "Marta", "prov-1", monday.Add(9*time.Hour), 45)
	a2 := bookSession(t, s, "Xavi", "prov-2", monday.AddDate(0, 0, 1).Add(10*time.Hour), 60)
	bookSession(t, s, "Clara", "prov-1", monday.AddDate(0, 0, 2).Add(16*time.Hour), 45)

	if err := s.SetStatus(ctx, a1.ID, clinic.StatusCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := s.SetPaymentStatus(ctx, a1.ID, clinic.PaymentPaid); err != nil {
		t.Fatalf("SetPaymentStatus: %v", err)
	}

	ctrl := viewctrl.New(viewctrl.Config{WeekStart: time.Monday, IncludeWeekTail: true},
		clinic.User{Role: clinic.RoleAdmin}, monday)
	ctrl.SetMode(viewctrl.ModeWeek)

	r := ctrl.VisibleRange()
	appts, err := s.ListByDateRange(ctx, r.Start, r.End)
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}
	if len(appts) != 3 {
		t.Fatalf("week rows = %d, want 3", len(appts))
	}

	// A provider identity only sees its own column.
	provCtrl := viewctrl.New(viewctrl.Config{WeekStart: time.Monday},
		clinic.User{SubjectID: "prov-2", Role: clinic.RoleProvider}, monday)
	visible := provCtrl.Filter(appts)
	if len(visible) != 1 || visible[0].ID != a2.ID {
		t.Errorf("provider filter kept %d rows, want just the provider's own", len(visible))
	}

	rep, err := report.BuildWeek(ctx, s, monday, time.Monday)
	if err != nil {
		t.Fatalf("BuildWeek: %v", err)
	}
	if rep.Overall.Sessions != 3 {
		t.Errorf("report sessions = %d, want 3", rep.Overall.Sessions)
	}
	if rep.Overall.Value != 150 {
		t.Errorf("report value = %v, want 150", rep.Overall.Value)
	}
	if rep.Overall.PaidValue != 45 {
		t.Errorf("report paid = %v, want 45", rep.Overall.PaidValue)
	}
	if rep.Overall.Completed != 1 {
		t.Errorf("report completed = %d, want 1", rep.Overall.Completed)
	}
}

func TestSeededCalendarIsUsable(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	around := time.Date(2026, 9, 9, 12, 0, 0, 0, time.Local)
	if err := s.Seed(ctx, around); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	providers, err := s.ListProviders(ctx)
	if err != nil {
		t.Fatalf("ListProviders: %v", err)
	}
	if len(providers) == 0 {
		t.Fatal("seed created no providers")
	}

	r := dateutil.WeekRange(around, time.Monday)
	appts, err := s.ListByDateRange(ctx, r.Start, r.End)
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}
	if len(appts) == 0 {
		t.Fatal("seed created no sessions for the current week")
	}
	for _, a := range appts {
		if a.ProviderID == "" {
			t.Errorf("seeded session %s has no provider", a.ID)
		}
	}
}
