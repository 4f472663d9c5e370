package content

// Section is an anchor target on the page.
type Section struct {
	ID    string
	Label string
	// Nav marks sections listed in the navigation bar.
	Nav bool
}

// Sections lists the page sections in document order.
var Sections = []Section{
	{ID: "hero", Label: "Home"},
	{ID: "about", Label: "About", Nav: true},
	{ID: "skills", Label: "Skills", Nav: true},
	{ID: "projects", Label: "Projects", Nav: true},
	{ID: "experience", Label: "Experience", Nav: true},
	{ID: "contact", Label: "Contact", Nav: true},
}

// FindSection looks up a section by anchor id.
func FindSection(id string) (Section, bool) {
	for _, s := range Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// NavSections returns the sections shown in the navigation bar.
func NavSections() []Section {
	var out []Section
	for _, s := range Sections {
		if s.Nav {
			out = append(out, s)
		}
	}
	return out
}
