package timegrid

import (
	"errors"
	"testing"
	"time"
)

func mustGrid(t *testing.T, cfg Config) *Grid {
	t.Helper()
	g, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func clinicDay(hour, min int) time.Time {
	return time.Date(2026, 3, 9, hour, min, 0, 0, time.UTC)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid", Config{7, 21, 30, 1}, nil},
		{"inverted window", Config{21, 7, 30, 1}, ErrWindowInverted},
		{"equal window", Config{9, 9, 30, 1}, ErrWindowInverted},
		{"negative start", Config{-1, 8, 30, 1}, ErrWindowInverted},
		{"past midnight", Config{9, 25, 30, 1}, ErrWindowInverted},
		{"zero slot", Config{7, 21, 0, 1}, ErrInvalidSlotDuration},
		{"uneven slots", Config{7, 21, 45, 1}, ErrUnevenSlots},
		{"zero scale", Config{7, 21, 30, 0}, ErrInvalidScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlots_ClinicDay(t *testing.T) {
	// 07:00-21:00 at 30-minute slots is the standard clinic day.
	g := mustGrid(t, Config{StartHour: 7, EndHour: 21, SlotMinutes: 30, PixelsPerMinute: 2})

	slots := g.Slots()
	if len(slots) != 28 {
		t.Fatalf("expected 28 slots, got %d", len(slots))
	}
	if slots[0].Label != "07:00" {
		t.Errorf("first label = %q, want 07:00", slots[0].Label)
	}
	if slots[27].Label != "20:30" {
		t.Errorf("last label = %q, want 20:30", slots[27].Label)
	}
	for i, s := range slots {
		if s.Index != i {
			t.Errorf("slot %d has index %d", i, s.Index)
		}
	}

	// Restartable: a second call yields the same sequence.
	again := g.Slots()
	if len(again) != len(slots) || again[0] != slots[0] {
		t.Error("Slots() is not restartable")
	}
}

func TestSlotCount(t *testing.T) {
	tests := []struct {
		cfg  Config
		want int
	}{
		{Config{7, 21, 30, 1}, 28},
		{Config{8, 18, 15, 1}, 40},
		{Config{9, 17, 60, 1}, 8},
		{Config{0, 24, 30, 1}, 48},
	}

	for _, tt := range tests {
		g := mustGrid(t, tt.cfg)
		if got := g.SlotCount(); got != tt.want {
			t.Errorf("SlotCount(%+v) = %d, want %d", tt.cfg, got, tt.want)
		}
	}
}

func TestTimeToOffset(t *testing.T) {
	g := mustGrid(t, Config{StartHour: 7, EndHour: 21, SlotMinutes: 30, PixelsPerMinute: 2})

	tests := []struct {
		name   string
		t      time.Time
		offset float64
		ok     bool
	}{
		{"window start", clinicDay(7, 0), 0, true},
		{"mid morning", clinicDay(9, 30), 300, true},
		{"window end", clinicDay(21, 0), 1680, true},
		{"before window", clinicDay(6, 30), -60, false},
		{"after window", clinicDay(22, 0), 1800, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.TimeToOffset(tt.t)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.offset {
				// Out-of-window offsets must not be clamped.
				t.Errorf("offset = %v, want %v", got, tt.offset)
			}
		})
	}
}

func TestOffsetToTime_SnapsDown(t *testing.T) {
	g := mustGrid(t, Config{StartHour: 7, EndHour: 21, SlotMinutes: 30, PixelsPerMinute: 2})
	day := clinicDay(0, 0)

	tests := []struct {
		name   string
		offset float64
		want   time.Time
		ok     bool
	}{
		{"exact boundary", 0, clinicDay(7, 0), true},
		{"inside first slot", 40, clinicDay(7, 0), true},
		{"exact second slot", 60, clinicDay(7, 30), true},
		{"14:05 snaps to 14:00", 850, clinicDay(14, 0), true},
		{"negative offset", -10, time.Time{}, false},
		{"past window", 1680, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.OffsetToTime(tt.offset, day)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("OffsetToTime = %v, want %v", got, tt.want)
			}
		})
	}
}

// Round-trip law: OffsetToTime(TimeToOffset(t)) equals the start of the
// slot containing t, for every minute inside the window.
func TestRoundTrip(t *testing.T) {
	configs := []Config{
		{7, 21, 30, 2},
		{8, 18, 15, 1},
		{9, 17, 60, 3.5},
	}

	for _, cfg := range configs {
		g := mustGrid(t, cfg)
		for mins := cfg.StartHour * 60; mins < cfg.EndHour*60; mins++ {
			tm := clinicDay(mins/60, mins%60)

			offset, ok := g.TimeToOffset(tm)
			if !ok {
				t.Fatalf("cfg %+v: %v unexpectedly outside window", cfg, tm)
			}
			back, ok := g.OffsetToTime(offset, tm)
			if !ok {
				t.Fatalf("cfg %+v: offset %v unexpectedly outside window", cfg, offset)
			}
			if want := g.SlotStart(tm); !back.Equal(want) {
				t.Fatalf("cfg %+v: round trip of %v = %v, want slot start %v", cfg, tm, back, want)
			}
		}
	}
}

func TestSlotIndexAt(t *testing.T) {
	g := mustGrid(t, Config{StartHour: 7, EndHour: 21, SlotMinutes: 30, PixelsPerMinute: 2})

	tests := []struct {
		offset float64
		want   int
	}{
		{0, 0},
		{59, 0},
		{60, 1},
		{850, 14}, // 14:05
		{-1, -1},
		{1680, -1},
	}

	for _, tt := range tests {
		if got := g.SlotIndexAt(tt.offset); got != tt.want {
			t.Errorf("SlotIndexAt(%v) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}
