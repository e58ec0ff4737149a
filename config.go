package inkwell

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/eringen/inkwell/comments"
	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/theme"
)

// EnvPrefix is the prefix of environment variables that override the config
// file. INKWELL_NAME sets name; a double underscore descends into a section,
// so INKWELL_COMMENTS__REPO sets comments.repo.
const EnvPrefix = "INKWELL_"

// SiteConfig holds all configuration for an inkwell site.
type SiteConfig struct {
	Name        string `koanf:"name"`        // Site name (default "Blog")
	URL         string `koanf:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `koanf:"description"` // Site description for RSS and meta tags
	Author      string `koanf:"author"`      // Author name for JSON-LD
	Lang        string `koanf:"lang"`        // UI and date language, "ko" or "en" (default "ko")

	Addr string `koanf:"addr"` // Listen address (default ":3000")

	ContentDir string `koanf:"content_dir"` // Local content root (default "content")
	ContentURL string `koanf:"content_url"` // Remote content root; takes precedence over ContentDir
	IndexName  string `koanf:"index_name"`  // Index file inside the root (default "posts.json")
	PagesDir   string `koanf:"pages_dir"`   // Markdown directory inside the root (default "pages")

	DatabasePath string `koanf:"database_path"` // SQLite settings path (default "data/inkwell.db")
	DefaultTheme string `koanf:"default_theme"` // Used when neither visitor nor site chose (default "light")

	SessionSecret string `koanf:"session_secret"` // Cookie signing secret; random per process when empty
	CookieSecure  bool   `koanf:"cookie_secure"`  // Set true for HTTPS

	IndexCacheTTL time.Duration `koanf:"index_cache_ttl"` // Index cache TTL (default 5m, negative caches until invalidated)
	WatchContent  bool          `koanf:"watch_content"`   // Reload the index when the file changes
	SearchLimit   int           `koanf:"search_limit"`    // Search requests per window and IP (default 120, negative disables)
	SearchWindow  time.Duration `koanf:"search_window"`   // Search limiter window (default 1m)

	HighlightLight string `koanf:"highlight_light"` // chroma style for light mode (default "github")
	HighlightDark  string `koanf:"highlight_dark"`  // chroma style for dark mode (default "monokai")
	UnsafeHTML     bool   `koanf:"unsafe_html"`     // Pass raw HTML in posts through
	HardWraps      bool   `koanf:"hard_wraps"`      // Render single newlines as <br>

	Comments comments.Config `koanf:"comments"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Lang == "" {
		c.Lang = "ko"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.IndexName == "" {
		c.IndexName = content.DefaultIndexName
	}
	if c.PagesDir == "" {
		c.PagesDir = content.DefaultPagesDir
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/inkwell.db"
	}
	if c.DefaultTheme == "" {
		c.DefaultTheme = string(theme.Light)
	}
	if c.IndexCacheTTL == 0 {
		c.IndexCacheTTL = 5 * time.Minute
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = 120
	}
	if c.SearchWindow == 0 {
		c.SearchWindow = time.Minute
	}
	if c.HighlightLight == "" {
		c.HighlightLight = "github"
	}
	if c.HighlightDark == "" {
		c.HighlightDark = "monokai"
	}
	if c.Comments.Lang == "" {
		c.Comments.Lang = c.Lang
	}
	c.Comments.SetDefaults()
}

// Validate checks that the configuration contains usable values.
func (c *SiteConfig) Validate() error {
	if _, ok := theme.Parse(c.DefaultTheme); !ok {
		return fmt.Errorf("invalid default_theme %q: must be light or dark", c.DefaultTheme)
	}
	if c.SearchLimit > 0 && c.SearchWindow <= 0 {
		return fmt.Errorf("search_window must be positive when search_limit is set")
	}
	if c.Comments.Repo != "" && c.Comments.RepoID == "" {
		return fmt.Errorf("comments.repo_id is required when comments.repo is set")
	}
	return nil
}

// LoadConfig reads configuration from the YAML file at path, when it exists,
// then overlays INKWELL_* environment variables.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return SiteConfig{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return SiteConfig{}, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return SiteConfig{}, fmt.Errorf("loading env overrides: %w", err)
	}

	var cfg SiteConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("inkwell: generate session secret: %v", err))
	}
	return hex.EncodeToString(b)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithSource replaces the content source derived from the configuration.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.Source = src
	}
}

// WithStore uses an already opened settings store.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
