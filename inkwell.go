// Package inkwell is a blog front-end server built with Go, Echo, and templ.
// It reads a static post index and Markdown pages from a content source and
// serves a filterable, searchable post list, rendered posts with giscus
// comments, a per-visitor light/dark theme, RSS, and a sitemap.
package inkwell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/markdown"
	"github.com/eringen/inkwell/theme"
	"github.com/eringen/inkwell/views"
)

// App is the central inkwell application. It wires together the content
// source, index cache, settings store, handlers, and middleware.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Source    content.Source
	Store     *Store
	Cache     *IndexCache
	Converter markdown.Converter

	limiter      *RateLimiter
	watcher      *Watcher
	highlightCSS string
	customRoutes []func(*App)
	staticDir    string
	ownsStore    bool
}

// New creates a new inkwell App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init prepares the content source, store, cache, middleware, and routes
// without listening. Start calls it; tests call it directly.
func (a *App) Init() error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("inkwell: %w", err)
	}
	if a.Config.SessionSecret == "" {
		a.Echo.Logger.Warn("inkwell: session_secret is empty, visitor theme cookies will not survive a restart")
		a.Config.SessionSecret = randomSecret()
	}

	if a.Source == nil {
		src, err := a.newSource()
		if err != nil {
			return fmt.Errorf("inkwell: init content source: %w", err)
		}
		a.Source = src
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("inkwell: init store: %w", err)
		}
		a.Store = store
		a.ownsStore = true
	}

	if a.Converter == nil {
		var mdOpts []markdown.Option
		if a.Config.UnsafeHTML {
			mdOpts = append(mdOpts, markdown.WithUnsafeHTML())
		}
		if a.Config.HardWraps {
			mdOpts = append(mdOpts, markdown.WithHardWraps())
		}
		a.Converter = markdown.New(mdOpts...)
	}

	css, err := markdown.HighlightCSS(a.Config.HighlightLight, a.Config.HighlightDark)
	if err != nil {
		return fmt.Errorf("inkwell: highlight css: %w", err)
	}
	a.highlightCSS = css

	a.Cache = NewIndexCache(a.Source, a.Config.IndexCacheTTL)
	a.limiter = NewRateLimiter(a.Config.SearchLimit, a.Config.SearchWindow)

	if a.Config.WatchContent && a.Config.ContentURL == "" {
		w, err := WatchIndex(a.Config.ContentDir, a.Config.IndexName, a.Echo.Logger, func() {
			a.Cache.Invalidate()
			a.Echo.Logger.Infof("inkwell: %s changed, index cache invalidated", a.Config.IndexName)
		})
		if err != nil {
			return fmt.Errorf("inkwell: watch content: %w", err)
		}
		a.watcher = w
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) newSource() (content.Source, error) {
	layout := content.Layout{IndexName: a.Config.IndexName, PagesDir: a.Config.PagesDir}
	if a.Config.ContentURL != "" {
		return content.NewHTTPSource(a.Config.ContentURL, nil, layout)
	}
	dir, err := filepath.Abs(a.Config.ContentDir)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return content.NewFSSource(os.DirFS(dir), layout), nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets are served under /public/ and fall through to the
	// user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/app.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/style.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/highlight.css", a.handleHighlightCSS)

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/post/", a.handlePost)
	e.POST("/theme/toggle/", a.handleThemeToggle)
	e.POST("/theme/system/", a.handleThemeSystem)
	e.GET("/api/posts", a.handleAPIPosts)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.Store != nil && a.ownsStore {
		a.Store.Close()
	}
	return nil
}

// siteConfig is the subset of the configuration the views need.
func (a *App) siteConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Lang:        a.Config.Lang,
	}
}

// siteTheme is the site-wide default: the stored setting when valid, else
// the configured default.
func (a *App) siteTheme(ctx context.Context) theme.Preference {
	if v, err := a.Store.GetSetting(ctx, theme.Key); err == nil {
		if p, ok := theme.Parse(v); ok {
			return p
		}
	} else if !errors.Is(err, ErrSettingNotFound) {
		a.Echo.Logger.Warnf("inkwell: read site theme: %v", err)
	}
	p, _ := theme.Parse(a.Config.DefaultTheme)
	return p
}
