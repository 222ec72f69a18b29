package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jortegam/clinicgrid/internal/config"
	"github.com/jortegam/clinicgrid/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  clinicgrid config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	printConfig(cfg)

	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.Schedule.StartHour = promptInt(reader, "Day starts at (hour)", cfg.Schedule.StartHour)
	cfg.Schedule.EndHour = promptInt(reader, "Day ends at (hour)", cfg.Schedule.EndHour)
	cfg.Schedule.SlotMinutes = promptInt(reader, "Slot length (minutes)", cfg.Schedule.SlotMinutes)
	cfg.Schedule.WeekStartDay = promptValue(reader, "Week starts on (monday/sunday)", cfg.Schedule.WeekStartDay)
	cfg.Schedule.IncludeWeekTail = promptBool(reader, "Show the weekend tail column", cfg.Schedule.IncludeWeekTail)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)
	cfg.UI.RowsPerSlot = promptInt(reader, "Rows per slot", cfg.UI.RowsPerSlot)
	cfg.UI.DefaultRate = promptFloat(reader, "Default session fee", cfg.UI.DefaultRate)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[schedule]")
	fmt.Printf("  start_hour             = %d\n", cfg.Schedule.StartHour)
	fmt.Printf("  end_hour               = %d\n", cfg.Schedule.EndHour)
	fmt.Printf("  slot_duration_minutes  = %d\n", cfg.Schedule.SlotMinutes)
	fmt.Printf("  week_start_day         = %s\n", cfg.Schedule.WeekStartDay)
	fmt.Printf("  include_week_tail      = %t\n", cfg.Schedule.IncludeWeekTail)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path                = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[ui]")
	fmt.Printf("  theme                  = %s\n", cfg.UI.Theme)
	fmt.Printf("  rows_per_slot          = %d\n", cfg.UI.RowsPerSlot)
	fmt.Printf("  default_rate           = %.2f\n", cfg.UI.DefaultRate)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		input := promptValue(reader, label, strconv.Itoa(current))
		v, err := strconv.Atoi(input)
		if err == nil {
			return v
		}
		fmt.Printf("  Not a number: %q\n", input)
	}
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	for {
		input := promptValue(reader, label, strconv.FormatFloat(current, 'f', 2, 64))
		v, err := strconv.ParseFloat(input, 64)
		if err == nil {
			return v
		}
		fmt.Printf("  Not a number: %q\n", input)
	}
}

func promptBool(reader *bufio.Reader, label string, current bool) bool {
	for {
		input := strings.ToLower(promptValue(reader, label, strconv.FormatBool(current)))
		switch input {
		case "true", "yes", "y":
			return true
		case "false", "no", "n":
			return false
		}
		fmt.Printf("  Answer true or false, got %q\n", input)
	}
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
