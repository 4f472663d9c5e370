package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/content"
)

var contentPath string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site and tooling",
	Long: `Portfolio serves a single-page personal portfolio with a persisted
light/dark theme, hover-reveal project cards and an experience counter.

The page content comes from a YAML file. Without one, the built-in
content is used.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentPath, "content", "", "content YAML file (overrides PORTFOLIO_CONTENT)")
}

// loadContent reads the content file, or the built-in content when path is empty.
func loadContent(path string) (*content.Content, error) {
	if contentPath != "" {
		path = contentPath
	}
	if path == "" {
		return content.Default()
	}
	return content.Load(path)
}
