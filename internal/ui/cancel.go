package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

func (a *App) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [appointment-id]",
		Short: "Cancel a scheduled session",
		Long: `Cancel a session by its id.

Example:
  clinicgrid cancel 6f1b2c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			ctx := context.Background()
			if err := a.store.SetStatus(ctx, args[0], clinic.StatusCanceled); err != nil {
				return fmt.Errorf("cancelling session: %w", err)
			}

			fmt.Printf("Cancelled session %s\n", args[0])
			return nil
		},
	}
}
