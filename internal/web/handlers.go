package web

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/theme"
)

// pointerForm is the pointer position within a card, in CSS pixels.
type pointerForm struct {
	Offset float64 `form:"offset"`
	Height float64 `form:"height" binding:"required,gt=0"`
}

func (f pointerForm) finite() bool {
	return !math.IsNaN(f.Offset) && !math.IsInf(f.Offset, 0) &&
		!math.IsNaN(f.Height) && !math.IsInf(f.Height, 0)
}

func (s *Server) handleIndex(c *gin.Context) {
	requestThemeHints(c)
	var mode theme.Mode
	s.themeFor(c, &mode)

	// Hover state never survives a reload.
	s.visitors.reset(s.visitorID(c))

	c.HTML(http.StatusOK, "index.html", s.page(mode, nil))
}

// handleSection renders one section. Unknown anchors are a no-op.
func (s *Server) handleSection(c *gin.Context) {
	sec, ok := content.FindSection(c.Param("id"))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	var mode theme.Mode
	s.themeFor(c, &mode)

	v := s.visitorFor(c)
	view := s.page(mode, v.reveal)
	v.mu.Unlock()

	view.Section = sec.ID
	c.HTML(http.StatusOK, "section.html", view)
}

func (s *Server) handleThemeToggle(c *gin.Context) {
	requestThemeHints(c)
	var mode theme.Mode
	ctrl := s.themeFor(c, &mode)
	ctrl.Toggle(c.Request.Context())

	trigger, _ := json.Marshal(map[string]any{
		"themeChanged": map[string]string{"theme": string(mode), "class": mode.Class()},
	})
	c.Header("HX-Trigger", string(trigger))
	c.HTML(http.StatusOK, "theme-toggle.html", pageView{Mode: mode})
}

func (s *Server) handlePointerMove(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid card index")
		return
	}
	var form pointerForm
	if err := c.ShouldBind(&form); err != nil || !form.finite() {
		c.String(http.StatusBadRequest, "invalid pointer position")
		return
	}

	v := s.visitorFor(c)
	defer v.mu.Unlock()

	before := v.reveal.State()
	after, err := v.reveal.PointerMove(index, form.Offset, form.Height)
	if errors.Is(err, reveal.ErrIndexOutOfRange) {
		c.String(http.StatusBadRequest, "unknown card")
		return
	}
	s.renderGrid(c, v, before, after)
}

func (s *Server) handlePointerLeave(c *gin.Context) {
	if _, err := strconv.Atoi(c.Param("index")); err != nil {
		c.String(http.StatusBadRequest, "invalid card index")
		return
	}

	v := s.visitorFor(c)
	defer v.mu.Unlock()

	before := v.reveal.State()
	after := v.reveal.PointerLeave()
	s.renderGrid(c, v, before, after)
}

// renderGrid answers with the project grid, or 204 when nothing changed so
// the client skips the swap. A throwaway visitor has no earlier state to
// compare against, so it always gets the grid.
func (s *Server) renderGrid(c *gin.Context, v *visitor, before, after reveal.State) {
	if v.kept && before == after {
		c.Status(http.StatusNoContent)
		return
	}
	c.HTML(http.StatusOK, "project-grid.html", gridView{Cards: cards(s.content.Projects, v.reveal)})
}

func (s *Server) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email address and a message.",
		})
		return
	}
	if s.mailer == nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "The contact form is not available right now. Please use email instead.",
		})
		return
	}
	if err := s.mailer.Send(form); err != nil {
		log.Printf("Contact form delivery failed: %v", err)
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
		return
	}
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Thank you for your message! I'll get back to you soon.",
	})
}
