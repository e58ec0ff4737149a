package inkwell

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/inkwell/index"
	"github.com/eringen/inkwell/views"
)

const (
	rssContentType     = "application/rss+xml; charset=utf-8"
	sitemapContentType = "application/xml; charset=utf-8"
	sitemapNamespace   = "http://www.sitemaps.org/schemas/sitemap/0.9"
	atomNamespace      = "http://www.w3.org/2005/Atom"
)

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Self          atomLink  `xml:"atom:link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

type sitemapDoc struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildRSS turns the post index into an RSS 2.0 channel. Items keep index
// order; lastBuildDate is the newest parseable post date.
func buildRSS(site views.SiteConfig, posts index.PostIndex) rssDoc {
	var newest time.Time
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := views.AbsPostURL(site.URL, p.File)
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Excerpt,
			Categories:  p.Tags,
			GUID:        link,
		}
		if t, ok := views.ParseDate(p.Date); ok {
			item.PubDate = t.Format(time.RFC1123Z)
			if t.After(newest) {
				newest = t
			}
		}
		items = append(items, item)
	}

	ch := rssChannel{
		Title:       site.Name,
		Link:        views.BuildURL(site.URL),
		Self:        atomLink{Href: strings.TrimRight(site.URL, "/") + "/feed.xml", Rel: "self", Type: "application/rss+xml"},
		Description: site.Description,
		Language:    site.Lang,
		Items:       items,
	}
	if !newest.IsZero() {
		ch.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	return rssDoc{Version: "2.0", AtomNS: atomNamespace, Channel: ch}
}

// buildSitemap lists the home page and every post.
func buildSitemap(base string, posts index.PostIndex) sitemapDoc {
	urls := make([]sitemapURL, 0, len(posts)+1)
	urls = append(urls, sitemapURL{Loc: views.BuildURL(base)})
	for _, p := range posts {
		u := sitemapURL{Loc: views.AbsPostURL(base, p.File)}
		if t, ok := views.ParseDate(p.Date); ok {
			u.LastMod = t.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	return sitemapDoc{XMLNS: sitemapNamespace, URLs: urls}
}

func (a *App) handleFeed(c echo.Context) error {
	posts, _, err := a.Cache.Index(c.Request().Context())
	if err != nil {
		return err
	}
	return renderXML(c, rssContentType, buildRSS(a.siteConfig(), posts))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, _, err := a.Cache.Index(c.Request().Context())
	if err != nil {
		return err
	}
	return renderXML(c, sitemapContentType, buildSitemap(a.Config.URL, posts))
}
