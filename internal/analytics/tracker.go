// Package analytics is the privacy-conscious visitor tracking and the admin
// pages that read it.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/storage"
)

// Retention is how long visits are kept.
const Retention = 12 * 30 * 24 * time.Hour

// Store is the persistence the tracker needs.
type Store interface {
	RecordVisit(ctx context.Context, v storage.Visit) error
	CleanupVisits(ctx context.Context, cutoff time.Time) (int64, error)
	Stats(ctx context.Context, now time.Time) (*storage.VisitStats, error)
}

// skipPrefixes are never tracked. Pointer events fire continuously while a
// card is hovered.
var skipPrefixes = []string{
	"/static/",
	"/images/",
	"/projects/",
	"/admin/",
	"/favicon",
	"/privacy",
	"/profile.jpg",
	"/resume.pdf",
}

// Tracker records page views with hashed IP addresses.
type Tracker struct {
	store Store
	salt  string
	now   func() time.Time
	wg    sync.WaitGroup
}

// NewTracker returns a tracker with a fresh per-process hashing salt.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, salt: GenerateToken(), now: time.Now}
}

// GenerateToken returns 32 random bytes, hex encoded.
func GenerateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate token:", err)
	}
	return hex.EncodeToString(bytes)
}

// HashIP hashes an IP address (consistent per IP for the process lifetime).
func (t *Tracker) HashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + t.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// Middleware tracks every page view except assets, admin pages and requests
// carrying Do Not Track.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipped(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		visit := storage.Visit{
			HashedIP:  t.HashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: t.now(),
		}
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			if err := t.store.RecordVisit(context.Background(), visit); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// Wait blocks until in-flight visit writes finish.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// RetentionCutoff is the oldest visit time still kept.
func (t *Tracker) RetentionCutoff() time.Time {
	return t.now().Add(-Retention)
}

// Purge deletes visits older than the retention cutoff and reports how many
// were removed.
func (t *Tracker) Purge(ctx context.Context) (int64, error) {
	n, err := t.store.CleanupVisits(ctx, t.RetentionCutoff())
	if err != nil {
		return 0, fmt.Errorf("purging visits: %w", err)
	}
	return n, nil
}

// Cleanup runs Purge and logs the outcome.
func (t *Tracker) Cleanup(ctx context.Context) {
	n, err := t.Purge(ctx)
	if err != nil {
		log.Printf("Retention purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Retention purge removed %d visits recorded before %s", n, t.RetentionCutoff().Format(time.DateOnly))
	}
}

func skipped(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
