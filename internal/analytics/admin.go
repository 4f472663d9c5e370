package analytics

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/storage"
)

const (
	adminCookie     = "admin_token"
	adminCookiePath = "/admin"
	adminSession    = 24 * time.Hour
)

// Admin serves the privacy page and the token-protected stats dashboard.
type Admin struct {
	tracker  *Tracker
	token    string
	username string
	password string
	secure   bool
}

// NewAdmin returns admin routes guarded by the given credentials. A fresh
// session token is generated per process.
func NewAdmin(tracker *Tracker, username, password string, secureCookie bool) *Admin {
	a := &Admin{
		tracker:  tracker,
		token:    GenerateToken(),
		username: username,
		password: password,
		secure:   secureCookie,
	}
	log.Printf("Visit dashboard: sign in at /admin/login (visitor IPs are stored hashed)")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Dashboard session token for this process: %s", a.token)
	}
	return a
}

// Register mounts the privacy and admin routes.
func (a *Admin) Register(r *gin.Engine) {
	r.GET("/privacy", a.privacyPage)
	r.GET("/admin/login", a.loginPage)
	r.POST("/admin/login", a.login)
	r.GET("/admin/logout", a.logout)

	g := r.Group(adminCookiePath, a.requireSession)
	g.GET("/dashboard", a.dashboard)
	g.GET("/api/stats", a.statsJSON)
	g.GET("/export/stats", a.exportStats)
	g.POST("/retention/purge", a.purge)
}

func (a *Admin) requireSession(c *gin.Context) {
	token, err := c.Cookie(adminCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
		c.Redirect(http.StatusFound, "/admin/login")
		c.Abort()
		return
	}
	c.Next()
}

func (a *Admin) setSession(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     adminCookie,
		Value:    value,
		Path:     adminCookiePath,
		MaxAge:   maxAge,
		Secure:   a.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (a *Admin) privacyPage(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{"title": "Privacy"})
}

func (a *Admin) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Sign in"})
}

func (a *Admin) login(c *gin.Context) {
	userOK := subtle.ConstantTimeCompare([]byte(c.PostForm("username")), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(c.PostForm("password")), []byte(a.password)) == 1
	visitor := a.tracker.HashIP(c.ClientIP())

	if !userOK || !passOK {
		log.Printf("Dashboard sign-in rejected for visitor %s", visitor)
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Sign in",
			"error": "Wrong username or password",
		})
		return
	}
	a.setSession(c, a.token, int(adminSession.Seconds()))
	log.Printf("Dashboard sign-in for visitor %s", visitor)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *Admin) logout(c *gin.Context) {
	a.setSession(c, "", -1)
	c.Redirect(http.StatusFound, "/admin/login")
}

// stats loads the visit summary, answering the request itself on failure.
func (a *Admin) stats(c *gin.Context) (*storage.VisitStats, bool) {
	stats, err := a.tracker.store.Stats(c.Request.Context(), a.tracker.now())
	if err != nil {
		log.Printf("Loading visit stats: %v", err)
		return nil, false
	}
	return stats, true
}

func (a *Admin) dashboard(c *gin.Context) {
	stats, ok := a.stats(c)
	if !ok {
		c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
			"error": "Visit statistics are unavailable right now",
		})
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
		"title": "Visits",
		"stats": stats,
	})
}

func (a *Admin) statsJSON(c *gin.Context) {
	stats, ok := a.stats(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (a *Admin) exportStats(c *gin.Context) {
	stats, ok := a.stats(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	name := "visits-" + a.tracker.now().Format(time.DateOnly) + ".json"
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.JSON(http.StatusOK, stats)
}

// purge applies the retention policy now instead of waiting for the daily run.
func (a *Admin) purge(c *gin.Context) {
	n, err := a.tracker.Purge(c.Request.Context())
	if err != nil {
		log.Printf("Manual retention purge: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purge failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"removed": n,
		"cutoff":  a.tracker.RetentionCutoff().Format(time.RFC3339),
	})
}
