package web

import (
	"html/template"
	"strings"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/experience"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/theme"
)

// card is a project card with its current layer.
type card struct {
	Index    int
	Project  content.Project
	Revealed bool
}

type pageView struct {
	Content  *content.Content
	Mode     theme.Mode
	Nav      []content.Section
	Stats    experience.Stats
	Cards    []card
	Year     int
	Section  string
	Keywords string
}

type gridView struct {
	Cards []card
}

func cards(projects []content.Project, r *reveal.Controller) []card {
	out := make([]card, len(projects))
	for i, p := range projects {
		out[i] = card{Index: i, Project: p, Revealed: r != nil && r.Revealed(i)}
	}
	return out
}

func (s *Server) page(mode theme.Mode, r *reveal.Controller) pageView {
	c := s.content
	now := s.now()
	return pageView{
		Content: c,
		Mode:    mode,
		Nav:     content.NavSections(),
		Stats: experience.Compute(experience.Counts{
			StartYear:    c.Stats.StartYear,
			StartMonth:   c.Stats.StartMonth,
			YearsFloor:   c.Stats.YearsFloor,
			ProjectBonus: c.Stats.ProjectBonus,
			TechBonus:    c.Stats.TechBonus,
		}, len(c.Projects), len(c.Skills), now),
		Cards:    cards(c.Projects, r),
		Year:     now.Year(),
		Keywords: strings.Join(c.Site.Keywords, ", "),
	}
}

var templateFuncs = template.FuncMap{
	// toggleLabel is the affordance the toggle button offers.
	"toggleLabel": func(m theme.Mode) string {
		return "Switch to " + string(m.Toggle()) + " mode"
	},
	"isDark": func(m theme.Mode) bool { return m == theme.Dark },
	// url marks configured link targets as trusted so tel: and deep links survive escaping.
	"url": func(s string) template.URL { return template.URL(s) },
}
