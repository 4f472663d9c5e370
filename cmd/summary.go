package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/experience"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print an overview of the page content",
	Long: `Validate the content file and print what the page will show: the
headline, hero counters, projects and experience entries.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadContent("")
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderSummary(c, time.Now()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func renderSummary(c *content.Content, now time.Time) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("86")).
		Padding(0, 1)

	stats := experience.Compute(experience.Counts{
		StartYear:    c.Stats.StartYear,
		StartMonth:   c.Stats.StartMonth,
		YearsFloor:   c.Stats.YearsFloor,
		ProjectBonus: c.Stats.ProjectBonus,
		TechBonus:    c.Stats.TechBonus,
	}, len(c.Projects), len(c.Skills), now)

	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Site.Name) + "  " + dimStyle.Render(c.Site.Role) + "\n")
	b.WriteString(c.Site.Headline + "\n\n")
	b.WriteString(boxStyle.Render(fmt.Sprintf("%d+ Years Exp   %d+ Projects   %d+ Techs",
		stats.Years, stats.Projects, stats.Techs)) + "\n\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Projects (%d)", len(c.Projects))) + "\n")
	for i, p := range c.Projects {
		b.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, p.Title, dimStyle.Render(p.Link)))
	}

	b.WriteString("\n" + sectionStyle.Render("Experience") + "\n")
	for _, j := range c.Experience {
		b.WriteString(fmt.Sprintf("  %s %s\n", j.Title, dimStyle.Render(j.Period)))
	}

	b.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Skills (%d)", len(c.Skills))) + "\n")
	b.WriteString("  " + strings.Join(c.Skills, ", ") + "\n")
	return b.String()
}
