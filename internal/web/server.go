// Package web serves the portfolio page and the HTMX fragment endpoints that
// drive the theme toggle and the project card hover reveal.
package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
)

// Options configures a Server.
type Options struct {
	Content *content.Content
	// AssetsDir holds the profile image, résumé and project thumbnails.
	AssetsDir    string
	CookieSecure bool
	Mailer       contact.Mailer
	// Tracker and Admin are optional.
	Tracker *analytics.Tracker
	Admin   *analytics.Admin
	Now     func() time.Time
}

// Server is the portfolio HTTP server.
type Server struct {
	content  *content.Content
	mailer   contact.Mailer
	secure   bool
	now      func() time.Time
	visitors *registry
	router   *gin.Engine
}

// New builds the router.
func New(opts Options) (*Server, error) {
	if opts.Content == nil {
		return nil, fmt.Errorf("content is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		content:  opts.Content,
		mailer:   opts.Mailer,
		secure:   opts.CookieSecure,
		now:      opts.Now,
		visitors: newRegistry(len(opts.Content.Projects), opts.Now),
	}

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)
	if opts.Tracker != nil {
		r.Use(opts.Tracker.Middleware())
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))
	if opts.AssetsDir != "" {
		s.mountAssets(r, opts.AssetsDir)
	}

	r.GET("/", s.handleIndex)
	r.GET("/sections/:id", s.handleSection)
	r.POST("/theme/toggle", s.handleThemeToggle)
	r.POST("/projects/:index/pointer", s.handlePointerMove)
	r.POST("/projects/:index/leave", s.handlePointerLeave)
	r.POST("/contact", s.handleContact)

	if opts.Admin != nil {
		opts.Admin.Register(r)
	}

	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// mountAssets serves the site's fixed-path files. Missing files get the
// router's plain 404.
func (s *Server) mountAssets(r *gin.Engine, dir string) {
	site := s.content.Site
	for _, p := range []string{site.Image, site.Resume} {
		if path.IsAbs(p) && path.Ext(p) != "" {
			r.StaticFile(p, filepath.Join(dir, filepath.FromSlash(p)))
		}
	}
	r.Static("/projects", filepath.Join(dir, "projects"))
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}
