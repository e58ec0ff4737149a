package theme

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type failingStore struct{ saves int }

func (s *failingStore) Load(context.Context) (string, error) {
	return "", errors.New("storage unavailable")
}

func (s *failingStore) Save(context.Context, string) error {
	s.saves++
	return errors.New("storage unavailable")
}

type recordingLogger struct{ lines []string }

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Preference
		ok    bool
	}{
		{"light", Light, true},
		{"dark", Dark, true},
		{"Dark", "", false},
		{"", "", false},
		{"sepia", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Parse(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFromClientHint(t *testing.T) {
	if p, ok := FromClientHint(` "dark" `); !ok || p != Dark {
		t.Errorf("FromClientHint(dark) = %q, %v", p, ok)
	}
	if _, ok := FromClientHint("no-preference"); ok {
		t.Error("unexpected preference for no-preference")
	}
}

func TestInitialStatePrefersPersistedValue(t *testing.T) {
	m := NewManager(context.Background(), NewMemoryStore("dark"), Light, nil)
	if m.Current() != Dark {
		t.Errorf("Current = %q, want dark", m.Current())
	}
}

func TestInitialStateFallsBackToSystem(t *testing.T) {
	tests := []struct {
		stored string
		system Preference
		want   Preference
	}{
		{"", Dark, Dark},
		{"", Light, Light},
		{"purple", Dark, Dark},
		{"", "bogus", Light},
	}
	for _, tt := range tests {
		m := NewManager(context.Background(), NewMemoryStore(tt.stored), tt.system, nil)
		if m.Current() != tt.want {
			t.Errorf("stored=%q system=%q: Current = %q, want %q", tt.stored, tt.system, m.Current(), tt.want)
		}
	}
}

func TestReadFailureIsNoPreference(t *testing.T) {
	log := &recordingLogger{}
	m := NewManager(context.Background(), &failingStore{}, Dark, log)
	if m.Current() != Dark {
		t.Errorf("Current = %q, want system preference", m.Current())
	}
	if len(log.lines) != 1 {
		t.Errorf("expected one warning, got %v", log.lines)
	}
}

func TestToggleTwiceRestoresAndWritesEachTime(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("")
	m := NewManager(ctx, store, Light, nil)

	if p, err := m.Toggle(ctx); err != nil || p != Dark {
		t.Fatalf("first Toggle = %q, %v", p, err)
	}
	if p, err := m.Toggle(ctx); err != nil || p != Light {
		t.Fatalf("second Toggle = %q, %v", p, err)
	}
	if m.Current() != Light {
		t.Errorf("Current = %q, want light", m.Current())
	}
	if diff := cmp.Diff([]string{"dark", "light"}, store.Writes()); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleSaveFailureStillTransitions(t *testing.T) {
	store := &failingStore{}
	m := NewManager(context.Background(), store, Light, nil)
	p, err := m.Toggle(context.Background())
	if err == nil {
		t.Error("expected save error")
	}
	if p != Dark || m.Current() != Dark {
		t.Errorf("state = %q/%q, want dark", p, m.Current())
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestSystemChangedOnlyWithoutPersistedPreference(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("")
	m := NewManager(ctx, store, Light, nil)

	if !m.SystemChanged(ctx, Dark) {
		t.Fatal("expected system change to apply")
	}
	if m.Current() != Dark {
		t.Errorf("Current = %q, want dark", m.Current())
	}
	if len(store.Writes()) != 0 {
		t.Errorf("system change must not persist, writes = %v", store.Writes())
	}

	if _, err := m.Toggle(ctx); err != nil {
		t.Fatal(err)
	}
	if m.SystemChanged(ctx, Dark) {
		t.Error("system change must be ignored after an explicit toggle")
	}
	if m.Current() != Light {
		t.Errorf("Current = %q, want light", m.Current())
	}
}

func TestSystemChangedIgnoresSameOrInvalid(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, NewMemoryStore(""), Dark, nil)
	if m.SystemChanged(ctx, Dark) {
		t.Error("same preference should not report a change")
	}
	if m.SystemChanged(ctx, "sepia") {
		t.Error("invalid preference should be ignored")
	}
}

func TestObserversSeeEveryTransition(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, NewMemoryStore(""), Light, nil)
	var seen []Preference
	m.Observe(func(p Preference) { seen = append(seen, p) })

	m.Toggle(ctx)
	m.SystemChanged(ctx, Light) // ignored: a preference is persisted
	if err := m.Set(ctx, Light); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Preference{Dark, Light}, seen); diff != "" {
		t.Errorf("observed mismatch (-want +got):\n%s", diff)
	}
}
