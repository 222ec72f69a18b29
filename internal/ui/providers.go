package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/google/uuid"

	"github.com/jortegam/clinicgrid/internal/clinic"
)

func (a *App) providersCmd() *cobra.Command {
	var (
		add      string
		colorArg string
	)

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List or register providers",
		Example: `  clinicgrid providers
  clinicgrid providers --add "Alba Soler" --color=blue`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			ctx := context.Background()

			if add != "" {
				p := &clinic.Provider{ID: uuid.NewString(), Name: add, Color: colorArg}
				if err := a.store.CreateProvider(ctx, p); err != nil {
					return fmt.Errorf("creating provider: %w", err)
				}
				fmt.Printf("Registered %s (%s)\n", p.Name, p.ID)
				return nil
			}

			providers, err := a.store.ListProviders(ctx)
			if err != nil {
				return fmt.Errorf("listing providers: %w", err)
			}
			if len(providers) == 0 {
				fmt.Println("No providers registered. Use --add or run: clinicgrid seed")
				return nil
			}
			for _, p := range providers {
				fmt.Printf("  %-12s %-36s %s\n", p.Name, p.ID, colorMuted.Sprint(p.Color))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&add, "add", "", "Register a provider with the given name")
	cmd.Flags().StringVar(&colorArg, "color", "blue", "Theme color token for the provider")
	return cmd
}

func (a *App) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo providers and sessions",
		Long: `Insert a demo roster of three providers and a spread of sessions
around today. Running it twice is a no-op.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			if err := a.store.Seed(context.Background(), time.Now()); err != nil {
				return fmt.Errorf("seeding: %w", err)
			}
			fmt.Println("Seeded demo data.")
			return nil
		},
	}
}
