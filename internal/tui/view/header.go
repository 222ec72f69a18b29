package view

import (
	"strconv"
	"time"
)

// DayLabels builds one column label per visible day and marks today's
// column. Column 0 is the time gutter.
func DayLabels(days []time.Time, today time.Time) ([]string, map[int]bool) {
	labels := make([]string, 0, len(days)+1)
	todayCols := make(map[int]bool)

	gutter := ""
	if len(days) > 0 {
		yearSuffix := days[0].Year() % 100
		gutter = days[0].Format("Jan") + " " + strconv.Itoa(yearSuffix/10) + strconv.Itoa(yearSuffix%10)
	}
	labels = append(labels, gutter)

	for i, day := range days {
		label := day.Format("Mon") + " " + strconv.Itoa(day.Day())
		if sameDay(day, today) {
			label = "*" + label + "*"
			todayCols[i+1] = true
		}
		labels = append(labels, label)
	}

	return labels, todayCols
}

// ProviderLabels builds one column label per provider for the day view.
// Column 0 is the time gutter, labelled with the focused date.
func ProviderLabels(names []string, day time.Time) []string {
	labels := make([]string, 0, len(names)+1)
	labels = append(labels, day.Format("Mon 2"))
	labels = append(labels, names...)
	return labels
}

// WeekdayLabels builds the seven month-view column labels starting from
// the given weekday.
func WeekdayLabels(weekStart time.Weekday) []string {
	labels := make([]string, 7)
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(weekStart) + i) % 7)
		labels[i] = day.String()[:3]
	}
	return labels
}

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
