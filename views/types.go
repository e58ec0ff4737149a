package views

// SiteConfig holds the site-wide settings templates need. It mirrors the
// root package's configuration to avoid an import cycle.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
	Lang        string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// Page is the shell every full page is rendered into.
type Page struct {
	Site  SiteConfig
	Meta  PageMeta
	Theme string
	CSRF  string
	Path  string // current request path, used to return after a theme toggle
}
