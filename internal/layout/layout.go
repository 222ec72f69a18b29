// Package layout computes the side-by-side visual placement of
// overlapping appointments within a provider's day column.
package layout

import (
	"sort"
	"strings"
	"time"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

// Box is the computed placement for one appointment within its provider
// column. Width and left offset are percentages of the column width.
type Box struct {
	Appointment *clinic.Appointment
	WidthPct    float64
	LeftPct     float64
	ProviderID  string
}

// Column holds the layout for a single provider on a single day.
// ColumnIndex is the provider's position in the day view, assigned in
// provider order, so renderers can offset columns side by side.
type Column struct {
	ProviderID  string
	ColumnIndex int
	Boxes       []Box
}

// Day partitions a day's appointments by provider and computes each
// provider's column layout. providerOrder fixes column assignment; any
// provider present in appts but missing from providerOrder is appended
// after the known ones, ordered by id.
func Day(appts []*clinic.Appointment, providerOrder []string) []Column {
	byProvider := make(map[string][]*clinic.Appointment)
	for _, a := range appts {
		if a == nil {
			continue
		}
		byProvider[a.ProviderID] = append(byProvider[a.ProviderID], a)
	}

	order := make([]string, 0, len(byProvider))
	seen := make(map[string]bool)
	for _, id := range providerOrder {
		if _, ok := byProvider[id]; ok && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	var extra []string
	for id := range byProvider {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	columns := make([]Column, 0, len(order))
	for i, id := range order {
		columns = append(columns, Column{
			ProviderID:  id,
			ColumnIndex: i,
			Boxes:       providerColumn(byProvider[id], id),
		})
	}
	return columns
}

// providerColumn computes box widths and offsets for one provider's
// appointments.
//
// Each appointment's cluster size is its own pairwise overlap count plus
// one, and its left offset is its positional index modulo that cluster
// size. For a two-way overlap this yields an exact 50/50 split. For three
// or more appointments with partial, non-transitive overlaps the widths
// within a connected cluster do not necessarily sum to 100 - that is
// long-standing behavior the rest of the system expects, so keep it.
func providerColumn(appts []*clinic.Appointment, providerID string) []Box {
	sorted := make([]*clinic.Appointment, len(appts))
	copy(sorted, appts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].ID < sorted[j].ID
	})

	boxes := make([]Box, 0, len(sorted))
	for i, a := range sorted {
		overlaps := 0
		for j, b := range sorted {
			if i == j {
				continue
			}
			if a.OverlapsInTime(b) {
				overlaps++
			}
		}

		clusterSize := overlaps + 1
		width := 100.0 / float64(clusterSize)
		left := float64(i%clusterSize) * width

		boxes = append(boxes, Box{
			Appointment: a,
			WidthPct:    width,
			LeftPct:     left,
			ProviderID:  providerID,
		})
	}
	return boxes
}

// dayKey identifies a memoized day layout.
type dayKey struct {
	day         string
	fingerprint string
}

// Cache memoizes Day results. Invalidation is purely "inputs changed":
// the key folds in every appointment's id and time range, so any edit,
// reschedule, or refresh produces a new key.
type Cache struct {
	entries map[dayKey][]Column
}

// NewCache creates an empty layout cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[dayKey][]Column)}
}

// Day returns the memoized layout for the given day, computing it on miss.
func (c *Cache) Day(day time.Time, appts []*clinic.Appointment, providerOrder []string) []Column {
	key := dayKey{
		day:         day.Format("2006-01-02"),
		fingerprint: fingerprint(appts, providerOrder),
	}
	if cols, ok := c.entries[key]; ok {
		return cols
	}

	cols := Day(appts, providerOrder)
	c.entries[key] = cols
	return cols
}

// Reset drops all memoized layouts.
func (c *Cache) Reset() {
	c.entries = make(map[dayKey][]Column)
}

// Len returns the number of memoized day layouts.
func (c *Cache) Len() int {
	return len(c.entries)
}

func fingerprint(appts []*clinic.Appointment, providerOrder []string) string {
	parts := make([]string, 0, len(appts)+len(providerOrder))
	for _, a := range appts {
		if a == nil {
			continue
		}
		parts = append(parts, a.ID+"@"+a.Start.Format(time.RFC3339)+"-"+a.End.Format(time.RFC3339)+"/"+a.ProviderID)
	}
	sort.Strings(parts)
	parts = append(parts, providerOrder...)
	return strings.Join(parts, "|")
}
