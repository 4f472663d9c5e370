package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/theme"
)

// Client hint carrying the browser's color scheme preference.
const prefersColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

const themeCookieMaxAge = 365 * 24 * 60 * 60

// cookieStore persists the display mode in the "theme" cookie of one request.
type cookieStore struct {
	c      *gin.Context
	secure bool
}

func (s cookieStore) Load(context.Context) (string, error) {
	return s.c.Cookie(theme.StorageKey)
}

// Save sets the cookie, replacing one already set on this response.
func (s cookieStore) Save(_ context.Context, value string) error {
	h := s.c.Writer.Header()
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, theme.StorageKey+"=") {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}

	// Readable by the page script so it can restore the class before paint.
	http.SetCookie(s.c.Writer, &http.Cookie{
		Name:     theme.StorageKey,
		Value:    value,
		Path:     "/",
		MaxAge:   themeCookieMaxAge,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: false,
	})
	return nil
}

// clientHintPreference reads the Sec-CH-Prefers-Color-Scheme request header.
func clientHintPreference(c *gin.Context) theme.Preference {
	return func() (theme.Mode, bool) {
		v := strings.Trim(strings.TrimSpace(c.GetHeader(prefersColorSchemeHint)), `"`)
		return theme.ParseMode(v)
	}
}

// requestThemeHints asks the browser to send its color scheme preference.
func requestThemeHints(c *gin.Context) {
	c.Header("Accept-CH", prefersColorSchemeHint)
	c.Header("Critical-CH", prefersColorSchemeHint)
	c.Writer.Header().Add("Vary", prefersColorSchemeHint)
}

// themeFor returns an initialized controller for the request together with
// the mode it applied.
func (s *Server) themeFor(c *gin.Context, applied *theme.Mode) *theme.Controller {
	ctrl := theme.NewController(
		cookieStore{c: c, secure: s.secure},
		theme.WithPreference(clientHintPreference(c)),
		theme.WithApply(func(m theme.Mode) { *applied = m }),
	)
	ctrl.Initialize(c.Request.Context())
	return ctrl
}
