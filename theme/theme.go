// Package theme keeps the light/dark preference for one visitor.
//
// The state machine has two states. The initial state is the persisted
// preference when one is stored and valid, otherwise the system preference.
// An explicit toggle flips the state and always persists it. A change of the
// system preference only applies while nothing has been persisted.
package theme

import (
	"context"
	"strings"
	"sync"
)

// Key is the storage key the preference is kept under.
const Key = "theme"

// Preference is the visitor's colour scheme.
type Preference string

// Preference values.
const (
	Light Preference = "light"
	Dark  Preference = "dark"
)

// Parse returns the Preference named by s.
func Parse(s string) (Preference, bool) {
	switch Preference(s) {
	case Light, Dark:
		return Preference(s), true
	}
	return "", false
}

// FromClientHint reads a Sec-CH-Prefers-Color-Scheme header value.
func FromClientHint(v string) (Preference, bool) {
	return Parse(strings.Trim(strings.TrimSpace(v), `"`))
}

// Toggle returns the other preference.
func (p Preference) Toggle() Preference {
	if p == Dark {
		return Light
	}
	return Dark
}

func (p Preference) String() string {
	return string(p)
}

// Store persists the raw preference value. Load returns "" when nothing is
// stored.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
}

// Logger receives storage read failures.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Observer is called synchronously after every transition.
type Observer func(Preference)

// Manager is the theme state machine for one visitor.
type Manager struct {
	mu        sync.Mutex
	store     Store
	log       Logger
	current   Preference
	observers []Observer
}

// NewManager loads the persisted preference from store, falling back to
// system. A read failure counts as "no preference" and is logged.
func NewManager(ctx context.Context, store Store, system Preference, log Logger) *Manager {
	if _, ok := Parse(string(system)); !ok {
		system = Light
	}
	m := &Manager{store: store, log: log, current: system}
	if saved, ok := m.saved(ctx); ok {
		m.current = saved
	}
	return m
}

// saved reads the store and reports whether a valid preference is persisted.
func (m *Manager) saved(ctx context.Context) (Preference, bool) {
	raw, ok := m.load(ctx)
	if !ok {
		return "", false
	}
	return Parse(raw)
}

// load returns the raw stored value and whether anything is stored at all.
func (m *Manager) load(ctx context.Context) (string, bool) {
	raw, err := m.store.Load(ctx)
	if err != nil {
		if m.log != nil {
			m.log.Warnf("theme: read preference: %v", err)
		}
		return "", false
	}
	return raw, raw != ""
}

// Current returns the active preference.
func (m *Manager) Current() Preference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Observe registers fn for every later transition.
func (m *Manager) Observe(fn Observer) {
	m.mu.Lock()
	m.observers = append(m.observers, fn)
	m.mu.Unlock()
}

// Toggle flips the preference and persists the new value. The in-memory
// state changes even when the write fails; the error is returned.
func (m *Manager) Toggle(ctx context.Context) (Preference, error) {
	m.mu.Lock()
	next := m.current.Toggle()
	m.current = next
	observers := m.observers
	m.mu.Unlock()

	notify(observers, next)
	return next, m.store.Save(ctx, string(next))
}

// Set applies p as an explicit choice and persists it.
func (m *Manager) Set(ctx context.Context, p Preference) error {
	m.mu.Lock()
	m.current = p
	observers := m.observers
	m.mu.Unlock()

	notify(observers, p)
	return m.store.Save(ctx, string(p))
}

// SystemChanged applies a new system preference unless a preference has been
// persisted. It reports whether the state changed.
func (m *Manager) SystemChanged(ctx context.Context, p Preference) bool {
	if _, ok := Parse(string(p)); !ok {
		return false
	}
	if _, stored := m.load(ctx); stored {
		return false
	}
	m.mu.Lock()
	if m.current == p {
		m.mu.Unlock()
		return false
	}
	m.current = p
	observers := m.observers
	m.mu.Unlock()

	notify(observers, p)
	return true
}

func notify(observers []Observer, p Preference) {
	for _, fn := range observers {
		fn(p)
	}
}
