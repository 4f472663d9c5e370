package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/experience"
)

var yearsAt string

var yearsCmd = &cobra.Command{
	Use:   "years <start-year> <start-month>",
	Short: "Print the whole years elapsed since a start month",
	Long: `Print how many whole years have passed since the first day of the
given month. Use --at to evaluate on another date (YYYY-MM-DD).`,
	Example: "  portfolio years 2022 12 --at 2025-12-15",
	Args:    cobra.ExactArgs(2),
	RunE:    runYears,
}

func init() {
	yearsCmd.Flags().StringVar(&yearsAt, "at", "", "evaluation date (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(yearsCmd)
}

func runYears(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid start year %q", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil || month < 1 || month > 12 {
		return fmt.Errorf("invalid start month %q", args[1])
	}

	now := time.Now()
	if yearsAt != "" {
		now, err = time.ParseInLocation(time.DateOnly, yearsAt, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at date: %w", err)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), experience.YearsSince(year, month, now))
	return nil
}
