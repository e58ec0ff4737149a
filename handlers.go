package inkwell

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/comments"
	"github.com/eringen/inkwell/frontmatter"
	"github.com/eringen/inkwell/index"
	"github.com/eringen/inkwell/search"
	"github.com/eringen/inkwell/theme"
	"github.com/eringen/inkwell/views"
)

// page builds the layout shell for the current request.
func (a *App) page(c echo.Context, meta views.PageMeta) views.Page {
	return views.Page{
		Site:  a.siteConfig(),
		Meta:  meta,
		Theme: a.themeManager(c).Current().String(),
		CSRF:  CsrfToken(c),
		Path:  c.Request().URL.RequestURI(),
	}
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func wantsJSON(c echo.Context) bool {
	return isHTMX(c) || strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// renderError logs err and renders the matching inline message: as a
// replacement list section for partial requests, inside the layout otherwise.
func (a *App) renderError(c echo.Context, err error, p views.Page, partial bool) error {
	code, msg := errorStatus(err, views.MessagesFor(a.Config.Lang))
	if code >= 500 {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	} else {
		c.Logger().Warnf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	if partial {
		return RenderStatus(c, code, views.ListError(msg))
	}
	return RenderStatus(c, code, views.ErrorPage(p, msg))
}

func (a *App) handleHome(c echo.Context) error {
	tag := c.QueryParam("tag")
	term := c.QueryParam("q")
	partial := isHTMX(c) && c.QueryParam("partial") == "list"

	if partial && !a.limiter.Allow(c.RealIP()) {
		msgs := views.MessagesFor(a.Config.Lang)
		return RenderStatus(c, http.StatusTooManyRequests, views.ListError(msgs.TooManyRequests))
	}

	p := a.page(c, views.PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		URL:         strings.TrimRight(a.Config.URL, "/") + views.ListURL(tag, term),
		OGType:      "website",
		JSONLD:      views.WebsiteJsonLD(a.siteConfig()),
	})

	posts, tags, err := a.Cache.Index(c.Request().Context())
	if err != nil {
		return a.renderError(c, err, p, partial)
	}

	list := views.ListData{
		Posts:     index.Filter(posts, index.NewFilterState(tag, term)),
		Tags:      tags,
		ActiveTag: tag,
		Term:      strings.TrimSpace(term),
		Lang:      a.Config.Lang,
	}
	if partial {
		return Render(c, views.ListSection(list))
	}
	return Render(c, views.Home(views.HomeData{Page: p, List: list}))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	file := c.QueryParam("file")
	p := a.page(c, views.PageMeta{
		Title:  a.Config.Name,
		URL:    views.AbsPostURL(a.Config.URL, file),
		OGType: "article",
	})

	if file == "" {
		return a.renderError(c, ErrMissingFile, p, false)
	}

	posts, _, err := a.Cache.Index(ctx)
	if err != nil {
		return a.renderError(c, err, p, false)
	}
	entry, ok := posts.Find(file)
	if !ok {
		return a.renderError(c, fmt.Errorf("%w: %q", ErrPostNotFound, file), p, false)
	}

	raw, err := a.Source.Page(ctx, entry.File)
	if err != nil {
		return a.renderError(c, fmt.Errorf("%w: %s: %w", ErrMarkdownFetch, entry.File, err), p, false)
	}

	body, meta := frontmatter.Parse(string(raw))
	article, err := views.NewArticle(body, meta, entry, a.Converter, a.Config.Lang)
	if err != nil {
		return a.renderError(c, fmt.Errorf("render %s: %w", entry.File, err), p, false)
	}

	p.Meta.Title = article.Title
	p.Meta.Description = article.Description
	if p.Meta.Description == "" {
		p.Meta.Description = entry.Excerpt
	}
	p.Meta.JSONLD = views.BlogPostingJsonLD(a.siteConfig(), article)

	return Render(c, views.PostPage(views.PostData{
		Page:     p,
		Article:  article,
		Related:  views.RelatedPosts(entry, article.Tags, posts),
		Comments: a.Config.Comments,
	}))
}

// themeResponse is the JSON answer to a theme change. Giscus is the message
// the page forwards to the comment iframe; it is absent when nothing changed.
type themeResponse struct {
	Theme   string          `json:"theme"`
	Changed bool            `json:"changed"`
	Giscus  json.RawMessage `json:"giscus,omitempty"`
}

func (a *App) handleThemeToggle(c echo.Context) error {
	m := a.themeManager(c)
	var resp themeResponse
	m.Observe(func(p theme.Preference) {
		resp.Changed = true
		resp.Giscus = comments.SetConfigMessage(p.String())
	})

	next, err := m.Toggle(c.Request().Context())
	if err != nil {
		// The page still flips for this response; only persistence failed.
		c.Logger().Errorf("theme: save preference: %v", err)
	}
	resp.Theme = next.String()

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, resp)
	}
	return c.Redirect(http.StatusSeeOther, safeReturn(c.FormValue("return")))
}

// handleThemeSystem receives OS color-scheme changes from the page. They
// only apply while the visitor has never chosen a theme.
func (a *App) handleThemeSystem(c echo.Context) error {
	p, ok := theme.Parse(c.FormValue("theme"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "theme must be light or dark")
	}
	// The page reports the theme it shows so the comparison is against what
	// the visitor sees, not against a possibly updated client hint.
	shown, ok := theme.Parse(c.FormValue("current"))
	if !ok {
		shown = a.systemTheme(c)
	}
	m := theme.NewManager(c.Request().Context(), sessionThemeStore{c: c}, shown, c.Logger())
	resp := themeResponse{}
	if m.SystemChanged(c.Request().Context(), p) {
		resp.Changed = true
		resp.Giscus = comments.SetConfigMessage(p.String())
	}
	resp.Theme = m.Current().String()
	return c.JSON(http.StatusOK, resp)
}

// safeReturn keeps redirects on this site.
func safeReturn(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || raw == "" || u.IsAbs() || u.Host != "" ||
		!strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	return raw
}

type apiPost struct {
	index.PostSummary
	Score int `json:"score"`
}

type apiPostsResponse struct {
	Tag   string    `json:"tag"`
	Query string    `json:"q"`
	Tags  []string  `json:"tags"`
	Posts []apiPost `json:"posts"`
}

func (a *App) handleAPIPosts(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, views.MessagesFor(a.Config.Lang).TooManyRequests)
	}
	posts, tags, err := a.Cache.Index(c.Request().Context())
	if err != nil {
		code, msg := errorStatus(err, views.MessagesFor(a.Config.Lang))
		c.Logger().Errorf("api posts: %v", err)
		return echo.NewHTTPError(code, msg)
	}

	state := index.NewFilterState(c.QueryParam("tag"), c.QueryParam("q"))
	filtered := index.Filter(posts, state)
	out := apiPostsResponse{
		Tag:   state.ActiveTag,
		Query: strings.TrimSpace(c.QueryParam("q")),
		Tags:  tags,
		Posts: make([]apiPost, 0, len(filtered)),
	}
	for _, p := range filtered {
		out.Posts = append(out.Posts, apiPost{PostSummary: p, Score: search.Score(p.SearchText(), out.Query)})
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleHighlightCSS(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(a.highlightCSS))
}

func (a *App) handleRobots(c echo.Context) error {
	robots, err := os.ReadFile(filepath.Join(a.staticDir, "robots.txt"))
	if err != nil {
		robots = defaultRobots(a.Config.URL)
	}
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", robots)
}

func defaultRobots(base string) []byte {
	var b bytes.Buffer
	b.WriteString("User-agent: *\nAllow: /\n\nSitemap: ")
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/sitemap.xml\n")
	return b.Bytes()
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.page(c, views.PageMeta{Title: a.Config.Name})))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	} else if errors.Is(err, ErrIndexFetch) {
		code, _ = errorStatus(err, views.MessagesFor(a.Config.Lang))
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.page(c, views.PageMeta{Title: a.Config.Name})))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
