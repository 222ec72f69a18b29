package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

// Seed populates an empty database with demo providers and a week of
// appointments around the given date, so the calendar is explorable
// right after setup. It is a no-op when providers already exist.
func (s *SQLite) Seed(ctx context.Context, around time.Time) error {
	existing, err := s.ListProviders(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	providers := []*clinic.Provider{
		{ID: uuid.NewString(), Name: "Carla Fuentes", Color: "blue"},
		{ID: uuid.NewString(), Name: "Miguel Santos", Color: "peach"},
		{ID: uuid.NewString(), Name: "Nuria Pons", Color: "green"},
	}
	for _, p := range providers {
		if err := s.CreateProvider(ctx, p); err != nil {
			return fmt.Errorf("seeding provider %s: %w", p.Name, err)
		}
	}

	patients := []struct {
		id, name string
	}{
		{uuid.NewString(), "Ana Vidal"},
		{uuid.NewString(), "Luis Prat"},
		{uuid.NewString(), "Eva Soto"},
		{uuid.NewString(), "Pau Roca"},
		{uuid.NewString(), "Marta Gil"},
		{uuid.NewString(), "Jordi Mas"},
	}

	type slot struct {
		dayOffset int
		hour, min int
		minutes   int
		provider  int
		patient   int
		note      string
		value     float64
	}
	slots := []slot{
		{0, 9, 0, 60, 0, 0, "shoulder rehab", 45},
		{0, 9, 30, 60, 1, 1, "lower back", 45},
		{0, 11, 0, 30, 0, 2, "post-op knee", 38},
		{0, 16, 0, 60, 2, 3, "sports massage", 50},
		{1, 8, 30, 45, 0, 4, "cervical pain", 45},
		{1, 10, 0, 60, 1, 5, "ankle sprain follow-up", 45},
		{1, 10, 0, 60, 2, 0, "shoulder rehab", 45},
		{2, 12, 0, 30, 1, 2, "post-op knee", 38},
		{3, 9, 0, 60, 0, 1, "lower back", 45},
		{3, 17, 30, 60, 2, 4, "cervical pain", 50},
		{4, 9, 0, 30, 1, 3, "gait analysis", 38},
	}

	day := time.Date(around.Year(), around.Month(), around.Day(), 0, 0, 0, 0, around.Location())
	seriesID := uuid.NewString() // Ana's recurring shoulder sessions
	for i, sl := range slots {
		start := day.AddDate(0, 0, sl.dayOffset).
			Add(time.Duration(sl.hour)*time.Hour + time.Duration(sl.min)*time.Minute)
		a, err := clinic.New(patients[sl.patient].id, patients[sl.patient].name, providers[sl.provider].ID,
			start, start.Add(time.Duration(sl.minutes)*time.Minute))
		if err != nil {
			return fmt.Errorf("seeding appointment %d: %w", i, err)
		}
		a.Note = sl.note
		a.Value = sl.value
		if sl.note == "shoulder rehab" {
			a.SeriesID = seriesID
		}
		if err := s.CreateAppointment(ctx, a); err != nil {
			return fmt.Errorf("seeding appointment %d: %w", i, err)
		}
	}
	return nil
}
