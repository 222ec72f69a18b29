package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jortegam/clinicgrid/internal/clinic"
	"github.com/jortegam/clinicgrid/internal/dateutil"
)

func (a *App) agendaCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List sessions in a date range",
		Long: `List all sessions scheduled within a date range, grouped by day.

If no dates are specified, lists today's sessions.
If only --start is specified, lists sessions for that single day.
If both --start and --end are specified, lists sessions in that range (inclusive).`,
		Example: `  clinicgrid agenda
  clinicgrid agenda --start=2026-09-07
  clinicgrid agenda --start=2026-09-07 --end=2026-09-11`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			ctx := context.Background()
			appts, err := a.store.ListByDateRange(ctx, dateRange.Start, dateRange.End)
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}
			appts = a.visibleTo(appts)

			if len(appts) == 0 {
				fmt.Println("No sessions found in the specified date range.")
				return nil
			}

			providers, err := a.store.ListProviders(ctx)
			if err != nil {
				return fmt.Errorf("listing providers: %w", err)
			}
			names := providerNames(providers)

			maxNameWidth := 4
			for _, appt := range appts {
				if l := len(appt.DisplayPatient()); l > maxNameWidth {
					maxNameWidth = l
				}
			}
			if maxNameWidth > 24 {
				maxNameWidth = 24
			}

			var currentDate string
			for _, appt := range appts {
				date := appt.Start.Format("2006-01-02")
				if date != currentDate {
					if currentDate != "" {
						fmt.Println()
					}
					fmt.Printf("%s\n", colorHeader.Sprintf("=== %s ===", appt.Start.Format("Mon, Jan 2 2006")))
					currentDate = date
				}
				printAppointmentRow(appt, names[appt.ProviderID], maxNameWidth)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")

	return cmd
}

// visibleTo applies the --provider visibility floor to raw rows.
func (a *App) visibleTo(appts []*clinic.Appointment) []*clinic.Appointment {
	user := a.user()
	out := appts[:0]
	for _, appt := range appts {
		if user.CanSee(appt) {
			out = append(out, appt)
		}
	}
	return out
}

func providerNames(providers []*clinic.Provider) map[string]string {
	names := make(map[string]string, len(providers))
	for _, p := range providers {
		names[p.ID] = p.Name
	}
	return names
}
