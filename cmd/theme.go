package cmd

import (
	"fmt"
	"log"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/storage"
	"github.com/Zachkp/portfolio/internal/theme"
)

// cliScope keys the terminal's preference apart from anything else stored.
const cliScope = "cli"

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or toggle the stored display mode",
	Long: `Show or toggle the display mode stored for the command line.

The mode is kept in the portfolio database (PORTFOLIO_DB_PATH). When
nothing is stored yet, the terminal background decides, and dark is the
fallback. If the database cannot be opened the mode is only kept for the
current run.`,
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current display mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemeController(cmd, func(ctrl *theme.Controller) {
			ctrl.Initialize(cmd.Context())
		})
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between dark and light mode",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemeController(cmd, func(ctrl *theme.Controller) {
			ctrl.Initialize(cmd.Context())
			ctrl.Toggle(cmd.Context())
		})
	},
}

func init() {
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeToggleCmd)
	rootCmd.AddCommand(themeCmd)
}

// withThemeController runs fn against a controller backed by the database
// and prints the resulting mode.
func withThemeController(cmd *cobra.Command, fn func(*theme.Controller)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var store theme.Store
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		// The mode still applies for this run, it just is not remembered.
		log.Printf("Theme will not be persisted: %v", err)
		store = theme.NewMemoryStore()
	} else {
		defer db.Close()
		store = db.Preference(cliScope, theme.StorageKey)
	}

	ctrl := theme.NewController(store, theme.WithPreference(terminalPreference))
	fn(ctrl)

	fmt.Fprintln(cmd.OutOrStdout(), renderMode(ctrl.Current()))
	return nil
}

// terminalPreference reports the terminal background as the preferred mode.
func terminalPreference() (theme.Mode, bool) {
	if lipgloss.HasDarkBackground() {
		return theme.Dark, true
	}
	return theme.Light, true
}

func renderMode(m theme.Mode) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	if m == theme.Dark {
		style = style.Foreground(lipgloss.Color("86"))
	}
	return style.Render(m.String())
}
