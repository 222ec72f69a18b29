package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [appointment-id] [completed|canceled|no_show]",
		Short: "Record how a session ended",
		Long: `Record the outcome of a session.

Statuses:
  completed - The patient attended and the session took place
  canceled  - The session was called off in advance
  no_show   - The patient did not attend

Example:
  clinicgrid status 6f1b2c... completed`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			status := clinic.Status(args[1])
			if !status.Valid() || status == clinic.StatusScheduled {
				return fmt.Errorf("invalid status %q: must be completed, canceled, or no_show", args[1])
			}

			ctx := context.Background()
			if err := a.store.SetStatus(ctx, args[0], status); err != nil {
				return fmt.Errorf("setting status: %w", err)
			}

			fmt.Printf("Session %s marked %s\n", args[0], status)
			return nil
		},
	}
}
