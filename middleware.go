package inkwell

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/inkwell/comments"
	"github.com/eringen/inkwell/theme"
)

const (
	sessionName = "inkwell_prefs"

	// clientHintHeader carries the visitor's OS color scheme when the
	// browser honors Accept-CH.
	clientHintHeader = "Sec-CH-Prefers-Color-Scheme"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasPrefix(path, "/public") ||
				strings.HasPrefix(path, "/api/") ||
				path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt"
		},
	}))

	e.Use(clientHintMiddleware)
	e.Use(cacheControlMiddleware)
}

var contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' " + comments.Origin + "; " +
	"style-src 'self' 'unsafe-inline' " + comments.Origin + "; " +
	"frame-src " + comments.Origin + "; " +
	"img-src 'self' https: data:; font-src 'self'; connect-src 'self'"

// clientHintMiddleware asks the browser for its color scheme and marks
// responses as varying on it. Critical-CH lets supporting browsers retry the
// first request with the hint attached.
func clientHintMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Accept-CH", clientHintHeader)
		h.Set("Critical-CH", clientHintHeader)
		h.Add("Vary", clientHintHeader)
		return next(c)
	}
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case path == "/public/highlight.css":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/theme/"):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			// Pages depend on the visitor's theme cookie.
			c.Response().Header().Set("Cache-Control", "private, max-age=0, must-revalidate")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// sessionThemeStore persists one visitor's theme preference in the signed
// session cookie.
type sessionThemeStore struct {
	c echo.Context
}

func (s sessionThemeStore) Load(context.Context) (string, error) {
	sess, err := session.Get(sessionName, s.c)
	if err != nil {
		return "", err
	}
	v, _ := sess.Values[theme.Key].(string)
	return v, nil
}

func (s sessionThemeStore) Save(_ context.Context, value string) error {
	sess, err := session.Get(sessionName, s.c)
	if err != nil && sess == nil {
		return err
	}
	sess.Values[theme.Key] = value
	return sess.Save(s.c.Request(), s.c.Response())
}

// themeManager builds the theme state machine for the current visitor. The
// system preference is the color-scheme client hint, else the site default.
func (a *App) themeManager(c echo.Context) *theme.Manager {
	return theme.NewManager(c.Request().Context(), sessionThemeStore{c: c}, a.systemTheme(c), c.Logger())
}

func (a *App) systemTheme(c echo.Context) theme.Preference {
	if p, ok := theme.FromClientHint(c.Request().Header.Get(clientHintHeader)); ok {
		return p
	}
	return a.siteTheme(c.Request().Context())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
