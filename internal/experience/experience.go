// Package experience computes the headline statistics shown in the hero section.
package experience

import "time"

// YearsSince returns the whole years elapsed between the first day of
// startMonth in startYear and now. A year only counts once its anniversary
// (same month, day on or after the 1st) has been reached. The result is never
// negative.
func YearsSince(startYear, startMonth int, now time.Time) int {
	start := time.Date(startYear, time.Month(startMonth), 1, 0, 0, 0, 0, now.Location())

	years := now.Year() - start.Year()
	monthDiff := int(now.Month()) - int(start.Month())
	if monthDiff < 0 || (monthDiff == 0 && now.Day() < start.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Stats are the three hero counters.
type Stats struct {
	Years    int
	Projects int
	Techs    int
}

// Counts configures how the hero counters are derived.
type Counts struct {
	StartYear  int
	StartMonth int
	// YearsFloor is shown when the computed years come out as zero.
	YearsFloor   int
	ProjectBonus int
	TechBonus    int
}

// Compute derives the hero counters for the given content sizes at now.
func Compute(c Counts, projects, skills int, now time.Time) Stats {
	years := YearsSince(c.StartYear, c.StartMonth, now)
	if years == 0 {
		years = c.YearsFloor
	}
	return Stats{
		Years:    years,
		Projects: projects + c.ProjectBonus,
		Techs:    skills + c.TechBonus,
	}
}
