// Package timegrid converts between calendar time and vertical grid
// offsets for a configurable visible day window.
package timegrid

import (
	"errors"
	"math"
	"time"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

// Configuration errors.
var (
	ErrWindowInverted      = errors.New("end hour must be after start hour")
	ErrInvalidSlotDuration = errors.New("slot duration must be positive")
	ErrUnevenSlots         = errors.New("visible window is not divisible into whole slots")
	ErrInvalidScale        = errors.New("pixels per minute must be positive")
)

// Config describes the visible window and its resolution.
type Config struct {
	StartHour       int     // first visible hour, e.g. 7
	EndHour         int     // first hour past the window, e.g. 21
	SlotMinutes     int     // snapping granularity, e.g. 30
	PixelsPerMinute float64 // vertical scale, rows or pixels per minute
}

// Slot is one fixed-duration subdivision of the visible window.
type Slot struct {
	Label string // "HH:MM"
	Index int
}

// Grid is an immutable time/offset mapper. A partial trailing slot is a
// configuration error: the window must divide evenly into slots.
type Grid struct {
	cfg       Config
	slotCount int
}

// New validates the configuration and builds a Grid.
func New(cfg Config) (*Grid, error) {
	if cfg.StartHour < 0 || cfg.EndHour > 24 || cfg.EndHour <= cfg.StartHour {
		return nil, ErrWindowInverted
	}
	if cfg.SlotMinutes <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	if cfg.PixelsPerMinute <= 0 {
		return nil, ErrInvalidScale
	}

	windowMinutes := (cfg.EndHour - cfg.StartHour) * 60
	if windowMinutes%cfg.SlotMinutes != 0 {
		return nil, ErrUnevenSlots
	}

	return &Grid{cfg: cfg, slotCount: windowMinutes / cfg.SlotMinutes}, nil
}

// Config returns the grid configuration.
func (g *Grid) Config() Config {
	return g.cfg
}

// SlotCount returns the number of slots in the visible window.
func (g *Grid) SlotCount() int {
	return g.slotCount
}

// Slots returns the ordered slot labels covering [StartHour, EndHour).
// Each call returns a fresh slice.
func (g *Grid) Slots() []Slot {
	slots := make([]Slot, g.slotCount)
	for i := range slots {
		mins := g.cfg.StartHour*60 + i*g.cfg.SlotMinutes
		slots[i] = Slot{Label: clinic.MinutesToTime(mins), Index: i}
	}
	return slots
}

// Height returns the full vertical extent of the window.
func (g *Grid) Height() float64 {
	return float64((g.cfg.EndHour-g.cfg.StartHour)*60) * g.cfg.PixelsPerMinute
}

// Contains returns true if t's clock time falls inside the visible window.
func (g *Grid) Contains(t time.Time) bool {
	mins := t.Hour()*60 + t.Minute()
	return mins >= g.cfg.StartHour*60 && mins <= g.cfg.EndHour*60
}

// TimeToOffset maps a time to its vertical offset within the window.
// Times outside the window are not displayable: ok is false and the
// offset is not clamped into range.
func (g *Grid) TimeToOffset(t time.Time) (offset float64, ok bool) {
	mins := (t.Hour()-g.cfg.StartHour)*60 + t.Minute()
	offset = float64(mins) * g.cfg.PixelsPerMinute
	if offset < 0 || offset > g.Height() {
		return offset, false
	}
	return offset, true
}

// OffsetToTime maps a vertical offset back to a time on the given day,
// snapping down to the nearest slot boundary. ok is false when the offset
// lies outside the window.
func (g *Grid) OffsetToTime(offset float64, day time.Time) (time.Time, bool) {
	if offset < 0 || offset >= g.Height() {
		return time.Time{}, false
	}

	rawMinutes := offset / g.cfg.PixelsPerMinute
	snapped := int(math.Floor(rawMinutes/float64(g.cfg.SlotMinutes))) * g.cfg.SlotMinutes
	mins := g.cfg.StartHour*60 + snapped

	return time.Date(day.Year(), day.Month(), day.Day(),
		mins/60, mins%60, 0, 0, day.Location()), true
}

// SlotStart returns the start of the slot containing t, on t's day.
// The result is only meaningful for times inside the visible window.
func (g *Grid) SlotStart(t time.Time) time.Time {
	minsIntoWindow := (t.Hour()-g.cfg.StartHour)*60 + t.Minute()
	snapped := (minsIntoWindow / g.cfg.SlotMinutes) * g.cfg.SlotMinutes
	mins := g.cfg.StartHour*60 + snapped
	return time.Date(t.Year(), t.Month(), t.Day(),
		mins/60, mins%60, 0, 0, t.Location())
}

// SlotIndexAt returns the slot index covering the given offset, or -1
// when the offset is outside the window.
func (g *Grid) SlotIndexAt(offset float64) int {
	if offset < 0 || offset >= g.Height() {
		return -1
	}
	rawMinutes := offset / g.cfg.PixelsPerMinute
	return int(math.Floor(rawMinutes / float64(g.cfg.SlotMinutes)))
}
