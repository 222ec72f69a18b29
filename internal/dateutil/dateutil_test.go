package dateutil

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Weekday
		wantErr bool
	}{
		{"monday", time.Monday, false},
		{"Sunday", time.Sunday, false},
		{" friday ", time.Friday, false},
		{"funday", time.Sunday, true},
		{"", time.Sunday, true},
	}

	for _, tt := range tests {
		got, err := ParseWeekday(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWeekday(%q) error = %v", tt.input, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	// Wednesday, March 11, 2026
	wed := time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		t         time.Time
		weekStart time.Weekday
		want      time.Time
	}{
		{"monday start from wednesday", wed, time.Monday, date(2026, 3, 9)},
		{"sunday start from wednesday", wed, time.Sunday, date(2026, 3, 8)},
		{"monday start from monday", date(2026, 3, 9), time.Monday, date(2026, 3, 9)},
		{"monday start from sunday", date(2026, 3, 15), time.Monday, date(2026, 3, 9)},
		{"saturday start from wednesday", wed, time.Saturday, date(2026, 3, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.t, tt.weekStart)
			if !got.Equal(tt.want) {
				t.Errorf("StartOfWeek = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekRange(t *testing.T) {
	r := WeekRange(date(2026, 3, 11), time.Monday)
	if !r.Start.Equal(date(2026, 3, 9)) || !r.End.Equal(date(2026, 3, 15)) {
		t.Errorf("WeekRange = [%v, %v]", r.Start, r.End)
	}
	if r.Days() != 7 {
		t.Errorf("Days = %d, want 7", r.Days())
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		t          time.Time
		start, end time.Time
	}{
		{date(2026, 3, 11), date(2026, 3, 1), date(2026, 3, 31)},
		{date(2026, 2, 1), date(2026, 2, 1), date(2026, 2, 28)},
		{date(2024, 2, 29), date(2024, 2, 1), date(2024, 2, 29)},
		{date(2026, 12, 31), date(2026, 12, 1), date(2026, 12, 31)},
	}

	for _, tt := range tests {
		r := MonthRange(tt.t)
		if !r.Start.Equal(tt.start) || !r.End.Equal(tt.end) {
			t.Errorf("MonthRange(%v) = [%v, %v], want [%v, %v]", tt.t, r.Start, r.End, tt.start, tt.end)
		}
	}
}

func TestMonthGridRange(t *testing.T) {
	// March 2026: the 1st is a Sunday, the 31st a Tuesday.
	r := MonthGridRange(date(2026, 3, 15), time.Monday)
	if !r.Start.Equal(date(2026, 2, 23)) {
		t.Errorf("grid start = %v, want 2026-02-23", r.Start)
	}
	if !r.End.Equal(date(2026, 4, 5)) {
		t.Errorf("grid end = %v, want 2026-04-05", r.End)
	}
	if r.Days()%7 != 0 {
		t.Errorf("grid covers %d days, want a multiple of 7", r.Days())
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: date(2026, 3, 9), End: date(2026, 3, 15)}

	if !r.Contains(date(2026, 3, 9)) {
		t.Error("range should contain its start")
	}
	if !r.Contains(time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)) {
		t.Error("range should contain its end day regardless of time")
	}
	if r.Contains(date(2026, 3, 16)) {
		t.Error("range should not contain the day after its end")
	}
}

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange("2026-03-09", "2026-03-15")
	if err != nil {
		t.Fatalf("NewDateRange: %v", err)
	}
	if r.Days() != 7 {
		t.Errorf("Days = %d, want 7", r.Days())
	}

	if _, err := NewDateRange("2026-03-15", "2026-03-09"); !errors.Is(err, ErrEndDateBeforeStart) {
		t.Errorf("expected ErrEndDateBeforeStart, got %v", err)
	}
	if _, err := NewDateRange("15-03-2026", ""); !errors.Is(err, ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Wednesday, March 11, 2026
	now := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"", date(2026, 3, 11), false},
		{"today", date(2026, 3, 11), false},
		{"tomorrow", date(2026, 3, 12), false},
		{"friday", date(2026, 3, 13), false},
		{"wednesday", date(2026, 3, 18), false}, // same weekday rolls a week
		{"next-week", date(2026, 3, 18), false},
		{"next-monday", date(2026, 3, 16), false},
		{"2026-04-01", date(2026, 4, 1), false},
		{"not-a-date", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := ParseRelativeDate(tt.input, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRelativeDate(%q) error = %v", tt.input, err)
			continue
		}
		if err == nil && !got.Equal(tt.want) {
			t.Errorf("ParseRelativeDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
