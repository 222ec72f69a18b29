package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/google/uuid"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/dateutil"
)

func (a *App) bookCmd() *cobra.Command {
	var (
		provider string
		date     string
		start    string
		duration int
		note     string
		value    float64
	)

	cmd := &cobra.Command{
		Use:   "book [patient-name]",
		Short: "Book a new session",
		Long: `Book a session for a patient.

The date accepts YYYY-MM-DD or a relative form (today, tomorrow, monday).

Example:
  clinicgrid book "Marta Ruiz" --with=alba --date=tomorrow --start=09:30 --length=45`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()

			p, err := a.resolveProvider(ctx, provider)
			if err != nil {
				return err
			}

			day, err := dateutil.ParseRelativeDate(date, time.Now())
			if err != nil {
				return err
			}
			startTime, err := time.ParseInLocation("15:04", start, time.Local)
			if err != nil {
				return fmt.Errorf("invalid start time %q: use HH:MM", start)
			}
			begin := time.Date(day.Year(), day.Month(), day.Day(),
				startTime.Hour(), startTime.Minute(), 0, 0, time.Local)

			if duration <= 0 {
				duration = a.config.Schedule.SlotMinutes
			}
			if value == 0 {
				value = a.config.UI.DefaultRate
			}

			appt, err := clinic.New(uuid.NewString(), args[0], p.ID, begin, begin.Add(time.Duration(duration)*time.Minute))
			if err != nil {
				return err
			}
			appt.Note = note
			appt.Value = value

			if err := a.store.CreateAppointment(ctx, appt); err != nil {
				return fmt.Errorf("booking session: %w", err)
			}

			fmt.Printf("Booked %s with %s: %s %s-%s (%s)\n",
				appt.DisplayPatient(),
				p.Name,
				begin.Format("2006-01-02"),
				begin.Format("15:04"),
				appt.End.Format("15:04"),
				appt.ID,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "with", "", "Provider id or name (required)")
	cmd.Flags().StringVar(&date, "date", "today", "Session date (YYYY-MM-DD or relative)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().IntVar(&duration, "length", 0, "Session length in minutes (default: slot length)")
	cmd.Flags().StringVar(&note, "note", "", "Treatment note")
	cmd.Flags().Float64Var(&value, "value", 0, "Session fee (default: configured rate)")

	_ = cmd.MarkFlagRequired("with")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// resolveProvider matches an id exactly or a name case-insensitively,
// accepting an unambiguous prefix.
func (a *App) resolveProvider(ctx context.Context, key string) (*clinic.Provider, error) {
	providers, err := a.store.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing providers: %w", err)
	}

	var matches []*clinic.Provider
	lower := strings.ToLower(key)
	for _, p := range providers {
		if p.ID == key {
			return p, nil
		}
		if strings.HasPrefix(strings.ToLower(p.Name), lower) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no provider matches %q", key)
	default:
		names := make([]string, len(matches))
		for i, p := range matches {
			names[i] = p.Name
		}
		return nil, fmt.Errorf("provider %q is ambiguous: %s", key, strings.Join(names, ", "))
	}
}
