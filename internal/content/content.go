// Package content holds the fixed data the portfolio page is rendered from.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Site is the page metadata.
type Site struct {
	Name        string   `yaml:"name" validate:"required"`
	Title       string   `yaml:"title" validate:"required"`
	Role        string   `yaml:"role" validate:"required"`
	Headline    string   `yaml:"headline" validate:"required"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	URL         string   `yaml:"url" validate:"omitempty,url"`
	Image       string   `yaml:"image" validate:"required"`
	Resume      string   `yaml:"resume" validate:"required"`
	Footer      string   `yaml:"footer"`
}

// Link is an outbound link. URLs are opaque: mailto, tel and deep links pass through.
type Link struct {
	Label    string `yaml:"label" validate:"required"`
	URL      string `yaml:"url" validate:"required"`
	Icon     string `yaml:"icon"`
	Primary  bool   `yaml:"primary"`
	Download bool   `yaml:"download"`
}

// External reports whether the link should open in a new tab.
func (l Link) External() bool {
	return len(l.URL) > 4 && l.URL[:4] == "http"
}

// Project is one project card.
type Project struct {
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description" validate:"required"`
	Link        string `yaml:"link" validate:"required,url"`
	Image       string `yaml:"image" validate:"required"`
}

// Job is one experience timeline entry.
type Job struct {
	Title    string   `yaml:"title" validate:"required"`
	Period   string   `yaml:"period" validate:"required"`
	Location string   `yaml:"location"`
	Bullets  []string `yaml:"bullets"`
}

// Contact is the closing section.
type Contact struct {
	Heading string `yaml:"heading" validate:"required"`
	Blurb   string `yaml:"blurb"`
	Details string `yaml:"details"`
	Links   []Link `yaml:"links" validate:"dive"`
	// Form enables the contact form below the links.
	Form bool `yaml:"form"`

	DetailsHTML template.HTML `yaml:"-"`
}

// Stats configures the hero counters.
type Stats struct {
	StartYear    int `yaml:"start_year" validate:"required,gte=1970"`
	StartMonth   int `yaml:"start_month" validate:"required,gte=1,lte=12"`
	YearsFloor   int `yaml:"years_floor" validate:"gte=0"`
	ProjectBonus int `yaml:"project_bonus" validate:"gte=0"`
	TechBonus    int `yaml:"tech_bonus" validate:"gte=0"`
}

// Content is everything the page shows.
type Content struct {
	Site       Site      `yaml:"site"`
	About      string    `yaml:"about" validate:"required"`
	Links      []Link    `yaml:"links" validate:"dive"`
	Skills     []string  `yaml:"skills" validate:"dive,required"`
	Projects   []Project `yaml:"projects" validate:"dive"`
	Experience []Job     `yaml:"experience" validate:"dive"`
	Contact    Contact   `yaml:"contact"`
	Stats      Stats     `yaml:"stats"`

	AboutHTML template.HTML `yaml:"-"`
}

// LoadError describes why content could not be loaded.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("content %s: %s: %v", e.Source, e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Default returns the embedded content.
func Default() (*Content, error) {
	return Parse("embedded", defaultYAML)
}

// Load reads content from path, or the embedded default when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "failed to read file", Err: err}
	}
	return Parse(path, data)
}

// Parse decodes, validates and renders content from YAML.
func Parse(source string, data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &LoadError{Source: source, Reason: "invalid yaml", Err: err}
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, &LoadError{Source: source, Reason: "validation failed", Err: err}
	}

	var err error
	if c.AboutHTML, err = Markdown(c.About); err != nil {
		return nil, &LoadError{Source: source, Reason: "rendering about", Err: err}
	}
	if c.Contact.DetailsHTML, err = Markdown(c.Contact.Details); err != nil {
		return nil, &LoadError{Source: source, Reason: "rendering contact details", Err: err}
	}
	return &c, nil
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders trusted markdown copy to HTML. Raw HTML in the source is
// not passed through.
func Markdown(src string) (template.HTML, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ContactEmail is the first mailto address among the contact links.
func (c *Content) ContactEmail() string {
	for _, l := range c.Contact.Links {
		if addr, ok := strings.CutPrefix(l.URL, "mailto:"); ok {
			return addr
		}
	}
	return ""
}
