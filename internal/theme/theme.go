// Package theme resolves, applies and persists the page's dark/light display mode.
package theme

import (
	"context"
	"errors"
	"sync"
)

// Mode is the display mode applied to the whole page.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// StorageKey is the key the persisted mode lives under.
const StorageKey = "theme"

// ParseMode accepts only the two literal mode strings.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case Dark, Light:
		return Mode(s), true
	}
	return "", false
}

// Toggle returns the opposite mode. Anything that is not Light counts as Dark.
func (m Mode) Toggle() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Class is the observable attribute for the mode: the root element carries
// the "dark" class in dark mode and nothing in light mode.
func (m Mode) Class() string {
	if m == Light {
		return ""
	}
	return string(Dark)
}

func (m Mode) String() string { return string(m) }

// Store persists the chosen mode between page loads.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
}

// Preference reports the environment's preferred mode, if it has one.
type Preference func() (Mode, bool)

// Controller owns one visitor's display mode. It is not safe for concurrent use.
type Controller struct {
	store       Store
	preference  Preference
	apply       func(Mode)
	mode        Mode
	initialized bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPreference sets the system preference consulted when nothing is persisted.
func WithPreference(p Preference) Option {
	return func(c *Controller) { c.preference = p }
}

// WithApply registers the observer that receives every applied mode.
func WithApply(fn func(Mode)) Option {
	return func(c *Controller) { c.apply = fn }
}

// NewController returns a controller in the default Dark mode. A nil store
// gives session-only behaviour.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{store: store, mode: Dark}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize resolves the mode from storage, then the preference, then the
// Dark default, applies it and persists it. Only the first call does any work.
func (c *Controller) Initialize(ctx context.Context) Mode {
	if c.initialized {
		return c.mode
	}
	c.initialized = true
	c.set(ctx, c.resolve(ctx))
	return c.mode
}

// Toggle flips the mode, applies it and persists it.
func (c *Controller) Toggle(ctx context.Context) Mode {
	c.initialized = true
	c.set(ctx, c.mode.Toggle())
	return c.mode
}

// Current returns the in-memory mode without touching storage.
func (c *Controller) Current() Mode {
	return c.mode
}

func (c *Controller) resolve(ctx context.Context) Mode {
	if c.store != nil {
		if v, err := c.store.Load(ctx); err == nil {
			if m, ok := ParseMode(v); ok {
				return m
			}
		}
	}
	if c.preference != nil {
		if m, ok := c.preference(); ok {
			return m
		}
	}
	return Dark
}

func (c *Controller) set(ctx context.Context, m Mode) {
	c.mode = m
	if c.apply != nil {
		c.apply(m)
	}
	if c.store != nil {
		// Storage failures leave the in-memory mode and the attribute alone.
		_ = c.store.Save(ctx, string(m))
	}
}

// MemoryStore keeps the persisted mode in memory.
type MemoryStore struct {
	mu    sync.Mutex
	value string
	set   bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ErrNotFound is returned by stores that hold no value yet.
var ErrNotFound = errors.New("theme: no persisted mode")

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", ErrNotFound
	}
	return s.value, nil
}

func (s *MemoryStore) Save(_ context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.set = true
	return nil
}
