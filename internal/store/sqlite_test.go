package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "clinicgrid.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newStoredAppointment(t *testing.T, s *SQLite, providerID string, start time.Time, minutes int) *clinic.Appointment {
	t.Helper()
	a, err := clinic.New("pat-1", "Ana Vidal", providerID, start, start.Add(time.Duration(minutes)*time.Minute))
	if err != nil {
		t.Fatalf("clinic.New: %v", err)
	}
	if err := s.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	return a
}

func ts(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := clinic.New("pat-1", "Ana Vidal", "prov-1", ts(9, 9, 0), ts(9, 10, 0))
	if err != nil {
		t.Fatalf("clinic.New: %v", err)
	}
	a.SeriesID = "series-1"
	a.Value = 45
	a.Note = "shoulder rehab"

	if err := s.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	got, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.PatientName != "Ana Vidal" || got.ProviderID != "prov-1" {
		t.Errorf("got %+v", got)
	}
	if !got.Start.Equal(a.Start) || !got.End.Equal(a.End) {
		t.Errorf("times = %v-%v, want %v-%v", got.Start, got.End, a.Start, a.End)
	}
	if got.SeriesID != "series-1" || got.Value != 45 || got.Note != "shoulder rehab" {
		t.Errorf("optional fields = %q, %v, %q", got.SeriesID, got.Value, got.Note)
	}
	if got.Status != clinic.StatusScheduled || got.PaymentStatus != clinic.PaymentPending {
		t.Errorf("status = %s/%s", got.Status, got.PaymentStatus)
	}
}

func TestGetAppointment_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetAppointment(context.Background(), "missing"); !errors.Is(err, clinic.ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestCreateAppointment_Conflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newStoredAppointment(t, s, "prov-1", ts(9, 9, 0), 60)

	tests := []struct {
		name       string
		providerID string
		start      time.Time
		minutes    int
		wantErr    error
	}{
		{"overlapping same provider", "prov-1", ts(9, 9, 30), 60, clinic.ErrScheduleConflict},
		{"contained same provider", "prov-1", ts(9, 9, 15), 15, clinic.ErrScheduleConflict},
		{"back to back", "prov-1", ts(9, 10, 0), 60, nil},
		{"same time other provider", "prov-2", ts(9, 9, 0), 60, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := clinic.New("pat-2", "Luis Prat", tt.providerID, tt.start, tt.start.Add(time.Duration(tt.minutes)*time.Minute))
			if err != nil {
				t.Fatalf("clinic.New: %v", err)
			}
			if err := s.CreateAppointment(ctx, a); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateAppointment error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestListByDateRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newStoredAppointment(t, s, "prov-1", ts(9, 9, 0), 60)
	newStoredAppointment(t, s, "prov-1", ts(10, 9, 0), 60)
	newStoredAppointment(t, s, "prov-1", ts(12, 9, 0), 60)

	appts, err := s.ListByDateRange(ctx, ts(9, 0, 0), ts(10, 0, 0))
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(appts))
	}
	if !appts[0].Start.Before(appts[1].Start) {
		t.Error("appointments not ordered by start time")
	}

	// End day is inclusive regardless of clock time.
	appts, err = s.ListByDateRange(ctx, ts(12, 23, 0), ts(12, 23, 30))
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}
	if len(appts) != 1 {
		t.Errorf("expected day-inclusive range to return 1, got %d", len(appts))
	}
}

func TestReschedule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := newStoredAppointment(t, s, "prov-1", ts(9, 9, 0), 60)

	req := clinic.RescheduleRequest{
		AppointmentID: a.ID,
		ProviderID:    "prov-2",
		NewStart:      ts(10, 14, 0),
		NewEnd:        ts(10, 15, 0),
	}
	if err := s.Reschedule(ctx, req); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	got, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if !got.Start.Equal(req.NewStart) || !got.End.Equal(req.NewEnd) || got.ProviderID != "prov-2" {
		t.Errorf("after reschedule: %v-%v provider %s", got.Start, got.End, got.ProviderID)
	}
}

func TestReschedule_ConflictLeavesAppointmentUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	blocker := newStoredAppointment(t, s, "prov-1", ts(9, 14, 0), 60)
	_ = blocker
	a := newStoredAppointment(t, s, "prov-1", ts(9, 9, 0), 60)

	req := clinic.RescheduleRequest{
		AppointmentID: a.ID,
		ProviderID:    "prov-1",
		NewStart:      ts(9, 14, 30),
		NewEnd:        ts(9, 15, 30),
	}
	if err := s.Reschedule(ctx, req); !errors.Is(err, clinic.ErrScheduleConflict) {
		t.Fatalf("expected ErrScheduleConflict, got %v", err)
	}

	got, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if !got.Start.Equal(a.Start) || got.ProviderID != "prov-1" {
		t.Errorf("rejected reschedule mutated the appointment: %v %s", got.Start, got.ProviderID)
	}
}

func TestReschedule_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := newStoredAppointment(t, s, "prov-1", ts(9, 9, 0), 60)

	tests := []struct {
		name    string
		req     clinic.RescheduleRequest
		wantErr error
	}{
		{
			"missing appointment",
			clinic.RescheduleRequest{AppointmentID: "missing", ProviderID: "prov-1", NewStart: ts(9, 14, 0), NewEnd: ts(9, 15, 0)},
			clinic.ErrAppointmentNotFound,
		},
		{
			"inverted times",
			clinic.RescheduleRequest{AppointmentID: a.ID, ProviderID: "prov-1", NewStart: ts(9, 15, 0), NewEnd: ts(9, 14, 0)},
			clinic.ErrEndBeforeStart,
		},
		{
			"sliding within itself is allowed",
			clinic.RescheduleRequest{AppointmentID: a.ID, ProviderID: "prov-1", NewStart: ts(9, 9, 30), NewEnd: ts(9, 10, 30)},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Reschedule(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Reschedule error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := newStoredAppointment(t, s, "prov-1", ts(9, 9, 0), 60)

	if err := s.SetStatus(ctx, a.ID, clinic.StatusCompleted); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	// Terminal: no transitions out of completed.
	if err := s.SetStatus(ctx, a.ID, clinic.StatusCanceled); !errors.Is(err, clinic.ErrTerminalStatus) {
		t.Errorf("expected ErrTerminalStatus, got %v", err)
	}

	if err := s.SetStatus(ctx, a.ID, clinic.Status("archived")); !errors.Is(err, clinic.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	if err := s.SetStatus(ctx, "missing", clinic.StatusCompleted); !errors.Is(err, clinic.ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestSetPaymentStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := newStoredAppointment(t, s, "prov-1", ts(9, 9, 0), 60)

	// Cancel first: payment stays independent of the status machine.
	if err := s.SetStatus(ctx, a.ID, clinic.StatusCanceled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if err := s.SetPaymentStatus(ctx, a.ID, clinic.PaymentPaid); err != nil {
		t.Fatalf("SetPaymentStatus: %v", err)
	}

	got, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.Status != clinic.StatusCanceled || got.PaymentStatus != clinic.PaymentPaid {
		t.Errorf("status = %s/%s", got.Status, got.PaymentStatus)
	}

	if err := s.SetPaymentStatus(ctx, "missing", clinic.PaymentPaid); !errors.Is(err, clinic.ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestProviders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, p := range []*clinic.Provider{
		{ID: "prov-2", Name: "Miguel Santos", Color: "peach"},
		{ID: "prov-1", Name: "Carla Fuentes", Color: "blue"},
	} {
		if err := s.CreateProvider(ctx, p); err != nil {
			t.Fatalf("CreateProvider: %v", err)
		}
	}

	providers, err := s.ListProviders(ctx)
	if err != nil {
		t.Fatalf("ListProviders: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(providers))
	}
	if providers[0].Name != "Carla Fuentes" {
		t.Errorf("providers not ordered by name: %s first", providers[0].Name)
	}
}

func TestSeed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Seed(ctx, ts(9, 0, 0)); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	providers, err := s.ListProviders(ctx)
	if err != nil {
		t.Fatalf("ListProviders: %v", err)
	}
	if len(providers) == 0 {
		t.Fatal("expected seeded providers")
	}

	appts, err := s.ListByDateRange(ctx, ts(9, 0, 0), ts(16, 0, 0))
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}
	if len(appts) == 0 {
		t.Fatal("expected seeded appointments")
	}

	// Idempotent: a second seed with providers present is a no-op.
	if err := s.Seed(ctx, ts(9, 0, 0)); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	again, err := s.ListByDateRange(ctx, ts(9, 0, 0), ts(16, 0, 0))
	if err != nil {
		t.Fatalf("ListByDateRange: %v", err)
	}
	if len(again) != len(appts) {
		t.Errorf("second seed added appointments: %d -> %d", len(appts), len(again))
	}
}
