package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

type fakeMailer struct {
	sent []contact.Form
	err  error
}

func (m *fakeMailer) Send(f contact.Form) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, f)
	return nil
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Content == nil {
		c, err := content.Default()
		require.NoError(t, err)
		opts.Content = c
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

// client replays cookies between requests like a browser.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
	header  http.Header
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, h: s.Handler(), cookies: map[string]*http.Cookie{}, header: http.Header{}}
}

func (c *client) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, ck := range c.cookies {
		req.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
	}

	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func themeCookies(w *httptest.ResponseRecorder) []*http.Cookie {
	var out []*http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "theme" {
			out = append(out, ck)
		}
	}
	return out
}

var revealedRe = regexp.MustCompile(`id="project-(\d+)"[^>]*revealed"`)

func revealed(t *testing.T, body string) []int {
	t.Helper()
	var out []int
	for _, m := range revealedRe.FindAllStringSubmatch(body, -1) {
		i, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func pointer(offset, height float64) url.Values {
	return url.Values{
		"offset": {strconv.FormatFloat(offset, 'f', -1, 64)},
		"height": {strconv.FormatFloat(height, 'f', -1, 64)},
	}
}

func TestIndex_DarkHintThenToggle(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))
	c.header.Set(prefersColorSchemeHint, `"dark"`)

	w := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<html lang="en" class="dark">`)
	assert.Contains(t, body, `data-icon="sun"`)
	assert.Contains(t, body, `title="Switch to light mode"`)
	assert.Equal(t, prefersColorSchemeHint, w.Header().Get("Accept-CH"))

	cookies := themeCookies(w)
	require.Len(t, cookies, 1)
	assert.Equal(t, "dark", cookies[0].Value)
	assert.False(t, cookies[0].HttpOnly)

	w = c.do(http.MethodPost, "/theme/toggle", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)

	cookies = themeCookies(w)
	require.Len(t, cookies, 1, "initialize and toggle write a single cookie")
	assert.Equal(t, "light", cookies[0].Value)

	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("HX-Trigger")), &trigger))
	assert.Equal(t, "light", trigger["themeChanged"]["theme"])
	assert.Equal(t, "", trigger["themeChanged"]["class"])
	assert.Contains(t, w.Body.String(), `data-icon="moon"`)

	w = c.do(http.MethodGet, "/", nil)
	assert.Contains(t, w.Body.String(), `<html lang="en" class="">`)
}

func TestIndex_ThemeResolution(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		hint   string
		want   string
	}{
		{"no cookie no hint", "", "", "dark"},
		{"light hint", "", `"light"`, "light"},
		{"unquoted hint", "", "light", "light"},
		{"cookie beats hint", "light", `"dark"`, "light"},
		{"dark cookie", "dark", `"light"`, "dark"},
		{"invalid cookie falls back to hint", "sepia", `"light"`, "light"},
		{"invalid cookie and hint", "sepia", "no-preference", "dark"},
	}
	s := newTestServer(t, Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, s)
			if tt.cookie != "" {
				c.cookies["theme"] = &http.Cookie{Name: "theme", Value: tt.cookie}
			}
			if tt.hint != "" {
				c.header.Set(prefersColorSchemeHint, tt.hint)
			}
			w := c.do(http.MethodGet, "/", nil)
			require.Equal(t, http.StatusOK, w.Code)

			class := ""
			if tt.want == "dark" {
				class = "dark"
			}
			assert.Contains(t, w.Body.String(), `<html lang="en" class="`+class+`">`)
			assert.Equal(t, tt.want, c.cookies["theme"].Value)
		})
	}
}

func TestThemeToggle_Involution(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))
	c.cookies["theme"] = &http.Cookie{Name: "theme", Value: "light"}

	c.do(http.MethodPost, "/theme/toggle", url.Values{})
	assert.Equal(t, "dark", c.cookies["theme"].Value)
	c.do(http.MethodPost, "/theme/toggle", url.Values{})
	assert.Equal(t, "light", c.cookies["theme"].Value)
}

func TestIndex_Content(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))
	w := c.do(http.MethodGet, "/", nil)
	body := w.Body.String()

	assert.Contains(t, body, `id="stat-years">2+`)
	assert.Contains(t, body, `id="stat-projects">19+`)
	assert.Contains(t, body, `id="stat-techs">30+`)
	assert.Contains(t, body, "&copy; 2025")
	for _, id := range []string{"hero", "about", "skills", "projects", "experience", "contact"} {
		assert.Contains(t, body, `id="`+id+`"`)
	}
	assert.Contains(t, body, `href="https://wa.me/919048402133" target="_blank"`)
	assert.Contains(t, body, `href="tel:`)
	assert.Contains(t, body, `href="mailto:edwinsibycareer@gmail.com"`)
	assert.Empty(t, revealed(t, body))
}

func TestHoverReveal(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))
	c.do(http.MethodGet, "/", nil)
	require.Contains(t, c.cookies, visitorCookie)

	w := c.do(http.MethodPost, "/projects/2/pointer", pointer(10, 260))
	assert.Equal(t, http.StatusNoContent, w.Code, "top band keeps the image")

	w = c.do(http.MethodPost, "/projects/2/pointer", pointer(78, 260))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{2}, revealed(t, w.Body.String()))

	w = c.do(http.MethodPost, "/projects/2/pointer", pointer(200, 260))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = c.do(http.MethodPost, "/projects/5/pointer", pointer(200, 260))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{5}, revealed(t, w.Body.String()))

	w = c.do(http.MethodPost, "/projects/5/pointer", pointer(20, 260))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, revealed(t, w.Body.String()), "moving back into the band restores the image")

	c.do(http.MethodPost, "/projects/5/pointer", pointer(200, 260))
	w = c.do(http.MethodPost, "/projects/5/leave", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, revealed(t, w.Body.String()))

	w = c.do(http.MethodPost, "/projects/5/leave", url.Values{})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHoverReveal_ResetOnReload(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))
	c.do(http.MethodGet, "/", nil)
	w := c.do(http.MethodPost, "/projects/1/pointer", pointer(200, 260))
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/sections/projects", nil)
	assert.Equal(t, []int{1}, revealed(t, w.Body.String()))

	w = c.do(http.MethodGet, "/", nil)
	assert.Empty(t, revealed(t, w.Body.String()))
}

func TestHoverReveal_VisitorsAreIndependent(t *testing.T) {
	s := newTestServer(t, Options{})
	a, b := newClient(t, s), newClient(t, s)
	a.do(http.MethodGet, "/", nil)
	b.do(http.MethodGet, "/", nil)

	w := a.do(http.MethodPost, "/projects/0/pointer", pointer(200, 260))
	require.Equal(t, http.StatusOK, w.Code)

	w = b.do(http.MethodGet, "/sections/projects", nil)
	assert.Empty(t, revealed(t, w.Body.String()))
}

func TestPointer_BadInput(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))
	tests := []struct {
		target string
		form   url.Values
	}{
		{"/projects/x/pointer", pointer(200, 260)},
		{"/projects/99/pointer", pointer(200, 260)},
		{"/projects/-1/pointer", pointer(200, 260)},
		{"/projects/1/pointer", url.Values{"offset": {"10"}}},
		{"/projects/1/pointer", pointer(10, 0)},
		{"/projects/1/pointer", url.Values{"offset": {"abc"}, "height": {"260"}}},
		{"/projects/x/leave", url.Values{}},
	}
	for _, tt := range tests {
		w := c.do(http.MethodPost, tt.target, tt.form)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%s %v", tt.target, tt.form)
	}
}

func TestSection(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))

	w := c.do(http.MethodGet, "/sections/skills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="skills"`)
	assert.Contains(t, w.Body.String(), "Terraform")
	assert.NotContains(t, w.Body.String(), `id="about"`)

	w = c.do(http.MethodGet, "/sections/blog", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestContact(t *testing.T) {
	valid := url.Values{"fullName": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi"}}

	t.Run("sends", func(t *testing.T) {
		m := &fakeMailer{}
		c := newClient(t, newTestServer(t, Options{Mailer: m}))
		w := c.do(http.MethodPost, "/contact", valid)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Thank you for your message")
		require.Len(t, m.sent, 1)
		assert.Equal(t, "Ada", m.sent[0].Name)
	})

	t.Run("invalid email", func(t *testing.T) {
		m := &fakeMailer{}
		c := newClient(t, newTestServer(t, Options{Mailer: m}))
		w := c.do(http.MethodPost, "/contact", url.Values{"fullName": {"Ada"}, "email": {"nope"}, "message": {"Hi"}})
		assert.Contains(t, w.Body.String(), "valid email address")
		assert.Empty(t, m.sent)
	})

	t.Run("delivery failure", func(t *testing.T) {
		c := newClient(t, newTestServer(t, Options{Mailer: &fakeMailer{err: errors.New("smtp down")}}))
		w := c.do(http.MethodPost, "/contact", valid)
		assert.Contains(t, w.Body.String(), "error sending your message")
	})

	t.Run("no mailer", func(t *testing.T) {
		c := newClient(t, newTestServer(t, Options{}))
		w := c.do(http.MethodPost, "/contact", valid)
		assert.Contains(t, w.Body.String(), "not available")
	})
}

func TestAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.jpg"), []byte("jpeg"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "projects"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "cli.jpg"), []byte("cli"), 0o644))

	c := newClient(t, newTestServer(t, Options{AssetsDir: dir}))

	w := c.do(http.MethodGet, "/profile.jpg", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg", w.Body.String())

	w = c.do(http.MethodGet, "/projects/cli.jpg", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/resume.pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodGet, "/static/js/app.js", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RequiresContent(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestRegistrySweep(t *testing.T) {
	now := fixedNow
	r := newRegistry(3, func() time.Time { return now })

	v := r.get("a")
	v.mu.Unlock()
	now = now.Add(30 * time.Minute)
	v = r.get("b")
	v.mu.Unlock()
	assert.Equal(t, 2, r.len())

	now = now.Add(45 * time.Minute)
	v = r.get("b")
	v.mu.Unlock()
	assert.Equal(t, 1, r.len(), "a idled for 75 minutes and is swept")
}

func TestPointer_CookielessRequestsAreNotStored(t *testing.T) {
	s := newTestServer(t, Options{})
	for i := 0; i < 50; i++ {
		c := newClient(t, s)
		w := c.do(http.MethodPost, "/projects/1/pointer", pointer(200, 260))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []int{1}, revealed(t, w.Body.String()))
		assert.NotContains(t, c.cookies, visitorCookie, "pointer events never issue a visitor id")
	}

	forged := newClient(t, s)
	forged.cookies[visitorCookie] = &http.Cookie{Name: visitorCookie, Value: "6f1c1a0e-3b8a-4d4e-9d3c-2f7b8f0a9c11"}
	w := forged.do(http.MethodPost, "/projects/1/leave", url.Values{})
	require.Equal(t, http.StatusOK, w.Code, "an unknown visitor always gets the grid")
	assert.Empty(t, revealed(t, w.Body.String()))

	assert.Equal(t, 0, s.visitors.len())
}

func TestPointer_RejectsNonFinitePositions(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))
	c.do(http.MethodGet, "/", nil)

	for _, form := range []url.Values{
		{"offset": {"NaN"}, "height": {"260"}},
		{"offset": {"+Inf"}, "height": {"260"}},
		{"offset": {"200"}, "height": {"Inf"}},
	} {
		w := c.do(http.MethodPost, "/projects/1/pointer", form)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", form)
	}

	w := c.do(http.MethodGet, "/sections/projects", nil)
	assert.Empty(t, revealed(t, w.Body.String()))
}

func TestRegistryLookupKeepsVisitorAlive(t *testing.T) {
	now := fixedNow
	r := newRegistry(3, func() time.Time { return now })

	v := r.get("a")
	v.mu.Unlock()

	now = now.Add(50 * time.Minute)
	v = r.lookup("a")
	assert.True(t, v.kept)
	v.mu.Unlock()

	now = now.Add(50 * time.Minute)
	v = r.lookup("b")
	assert.False(t, v.kept)
	v.mu.Unlock()

	assert.Equal(t, 1, r.len(), "a was seen 50 minutes ago")
}

func TestAppScript_SendsTrailingPointerPosition(t *testing.T) {
	c := newClient(t, newTestServer(t, Options{}))
	w := c.do(http.MethodGet, "/static/js/app.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	script := w.Body.String()

	assert.Contains(t, script, "setTimeout(sendPending, wait)", "the last move in a throttle window is sent when it closes")
	leave := script[strings.Index(script, `"mouseout"`):]
	assert.Contains(t, leave[:strings.Index(leave, "/leave")], "cancelPending()", "a queued move never follows a leave")
}
