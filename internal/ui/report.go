package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jortegam/clinicgrid/internal/dateutil"
	"github.com/jortegam/clinicgrid/internal/report"
)

func (a *App) reportCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show this week's sessions and collections",
		Long: `Display per-provider totals for one week: sessions held,
cancellations, no-shows, and how much of the week's value has been
collected.`,
		Example: `  clinicgrid report
  clinicgrid report --date=2026-09-07`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			ref := time.Now()
			if date != "" {
				parsed, err := dateutil.ParseDate(date)
				if err != nil {
					return err
				}
				ref = parsed
			}

			weekStartName, err := a.config.WeekStart()
			if err != nil {
				return err
			}
			weekStart, err := dateutil.ParseWeekday(weekStartName)
			if err != nil {
				return err
			}

			rep, err := report.BuildWeek(context.Background(), a.store, ref, weekStart)
			if err != nil {
				return fmt.Errorf("building report: %w", err)
			}

			header := fmt.Sprintf("WEEK: %s - %s", rep.Start.Format("Mon Jan 2"), rep.End.Format("Mon Jan 2, 2006"))
			fmt.Printf("\n  %s\n", colorHeader.Sprint(header))
			ruler := strings.Repeat("─", minInt(74, termWidth()-2))
			fmt.Println(ruler)

			if rep.Overall.Sessions == 0 {
				fmt.Println("  No sessions this week.")
				return nil
			}

			fmt.Printf("  %-14s %9s %10s %8s %9s %10s %10s\n",
				"Provider", "Sessions", "Completed", "Missed", "Canceled", "Value", "Collected")
			for _, t := range rep.Providers {
				fmt.Printf("  %-14s %9d %10d %8d %9d %10s %10s\n",
					t.ProviderName, t.Sessions, t.Completed, t.NoShows, t.Canceled,
					formatMoney(t.Value), colorPaid.Sprint(formatMoney(t.PaidValue)))
			}

			fmt.Println(ruler)
			o := rep.Overall
			fmt.Printf("  %-14s %9d %10d %8d %9d %10s %10s\n",
				"Total", o.Sessions, o.Completed, o.NoShows, o.Canceled,
				formatMoney(o.Value), colorPaid.Sprint(formatMoney(o.PaidValue)))

			if o.Value > 0 {
				fmt.Printf("  Collected: %s\n", paidBar(o.PaidValue, o.Value, 20))
			}

			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any date inside the week to report (default: today)")
	return cmd
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
