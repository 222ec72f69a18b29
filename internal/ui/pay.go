package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

func (a *App) payCmd() *cobra.Command {
	var pending bool

	cmd := &cobra.Command{
		Use:   "pay [appointment-id]",
		Short: "Mark a session as paid",
		Long: `Mark a session's fee as collected. Payment is tracked
independently of the session status, so canceled sessions can still be
settled.

Example:
  clinicgrid pay 6f1b2c...
  clinicgrid pay 6f1b2c... --pending`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			payment := clinic.PaymentPaid
			if pending {
				payment = clinic.PaymentPending
			}

			ctx := context.Background()
			if err := a.store.SetPaymentStatus(ctx, args[0], payment); err != nil {
				return fmt.Errorf("setting payment: %w", err)
			}

			fmt.Printf("Session %s marked %s\n", args[0], payment)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "Mark the fee as outstanding instead")
	return cmd
}
