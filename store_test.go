package inkwell

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/eringen/inkwell/theme"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test.db")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)

	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	v, err := s.GetSetting(context.Background(), "schema_version")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if v != "1" {
		t.Errorf("schema_version = %q, want %q", v, "1")
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetSetting(context.Background(), "nope")
	if !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestSetSettingUpserts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.SetSetting(ctx, "theme", "light"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	v, err := s.GetSetting(ctx, "theme")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if v != "light" {
		t.Errorf("theme = %q, want %q", v, "light")
	}
}

func TestStoreReopenKeepsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	ctx := context.Background()

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s.SetSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	s.Close()

	s, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	v, err := s.GetSetting(ctx, "theme")
	if err != nil || v != "dark" {
		t.Fatalf("after reopen got (%q, %v), want dark", v, err)
	}
}

func TestSettingStoreDrivesThemeManager(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	store := SettingStore{Store: s, Key: theme.Key}

	m := theme.NewManager(ctx, store, theme.Light, nil)
	if got := m.Current(); got != theme.Light {
		t.Fatalf("initial = %q, want light", got)
	}
	next, err := m.Toggle(ctx)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if next != theme.Dark {
		t.Fatalf("toggled = %q, want dark", next)
	}

	reloaded := theme.NewManager(ctx, store, theme.Light, nil)
	if got := reloaded.Current(); got != theme.Dark {
		t.Errorf("reloaded = %q, want dark", got)
	}
}
