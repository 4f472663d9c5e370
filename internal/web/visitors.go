package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/reveal"
)

const (
	visitorCookie = "visitor"
	visitorIdle   = time.Hour
	sweepEvery    = 10 * time.Minute
)

// visitor is one browser's hover state. Its controller is only touched with
// mu held. Visitors not kept in the registry are throwaway.
type visitor struct {
	mu     sync.Mutex
	reveal *reveal.Controller
	kept   bool
	// lastSeen is guarded by the registry lock.
	lastSeen time.Time
}

// registry maps visitor ids to their hover state.
type registry struct {
	mu        sync.Mutex
	cards     int
	now       func() time.Time
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newRegistry(cards int, now func() time.Time) *registry {
	return &registry{
		cards:     cards,
		now:       now,
		visitors:  make(map[string]*visitor),
		lastSweep: now(),
	}
}

// get returns the visitor for id, creating it if needed, and locks it.
// Callers must unlock v.mu.
func (r *registry) get(id string) *visitor {
	v, _ := r.load(id, true)
	return v
}

// lookup returns the known visitor for id, locked. Unknown ids get a locked
// throwaway visitor that is never stored.
func (r *registry) lookup(id string) *visitor {
	v, ok := r.load(id, false)
	if !ok {
		v = &visitor{reveal: reveal.NewController(r.cards)}
		v.mu.Lock()
	}
	return v
}

func (r *registry) load(id string, create bool) (*visitor, bool) {
	now := r.now()

	r.mu.Lock()
	if now.Sub(r.lastSweep) >= sweepEvery {
		r.sweepLocked(now)
	}
	v, ok := r.visitors[id]
	if !ok && create {
		v = &visitor{reveal: reveal.NewController(r.cards), kept: true}
		r.visitors[id] = v
		ok = true
	}
	if ok {
		// Set before releasing r.mu so a sweep cannot drop v in between.
		v.lastSeen = now
	}
	r.mu.Unlock()

	if !ok {
		return nil, false
	}
	v.mu.Lock()
	return v, true
}

// reset gives id a fresh controller with nothing revealed.
func (r *registry) reset(id string) {
	v := r.get(id)
	v.reveal = reveal.NewController(r.cards)
	v.mu.Unlock()
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

func (r *registry) sweepLocked(now time.Time) {
	for id, v := range r.visitors {
		if now.Sub(v.lastSeen) > visitorIdle {
			delete(r.visitors, id)
		}
	}
	r.lastSweep = now
}

// requestVisitorID returns the id from the visitor cookie, if valid.
func requestVisitorID(c *gin.Context) (string, bool) {
	id, err := c.Cookie(visitorCookie)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// visitorFor returns the locked hover state for the request without issuing
// an id. Callers must unlock v.mu.
func (s *Server) visitorFor(c *gin.Context) *visitor {
	id, _ := requestVisitorID(c)
	return s.visitors.lookup(id)
}

// visitorID returns the request's visitor id, issuing a new session cookie
// when it has none. Only page loads call it.
func (s *Server) visitorID(c *gin.Context) string {
	if id, ok := requestVisitorID(c); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
	})
	return id
}
