package views

import (
	"context"

	"github.com/a-h/templ"
)

// Layout renders the full HTML document around body. The data-theme
// attribute on <html> is what the stylesheets and the comment widget follow.
func Layout(p Page, body templ.Component) templ.Component {
	msgs := MessagesFor(p.Site.Lang)
	return component(func(ctx context.Context, h *htmlWriter) {
		title := p.Site.Name
		if p.Meta.Title != "" && p.Meta.Title != p.Site.Name {
			title = p.Meta.Title + " | " + p.Site.Name
		}
		ogType := p.Meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		h.raw(`<!DOCTYPE html><html lang="`)
		h.text(msgs.Lang)
		h.raw(`" data-theme="`)
		h.text(p.Theme)
		h.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		if p.Meta.Description != "" {
			h.raw(`<meta name="description" content="`)
			h.text(p.Meta.Description)
			h.raw(`"><meta property="og:description" content="`)
			h.text(p.Meta.Description)
			h.raw(`">`)
		}
		h.raw(`<meta property="og:title" content="`)
		h.text(title)
		h.raw(`"><meta property="og:type" content="`)
		h.text(ogType)
		h.raw(`">`)
		if p.Meta.URL != "" {
			h.raw(`<link rel="canonical" href="`)
			h.text(p.Meta.URL)
			h.raw(`"><meta property="og:url" content="`)
			h.text(p.Meta.URL)
			h.raw(`">`)
		}
		h.raw(`<meta name="csrf-token" content="`)
		h.text(p.CSRF)
		h.raw(`">`)
		h.raw(`<link rel="alternate" type="application/rss+xml" title="`)
		h.text(p.Site.Name)
		h.raw(`" href="/feed.xml">`)
		h.raw(`<link rel="stylesheet" href="/public/style.css"><link rel="stylesheet" href="/public/highlight.css">`)
		if p.Meta.JSONLD != "" {
			// json.Marshal escapes <, > and &, so the block cannot close the script early.
			h.raw(`<script type="application/ld+json">`, p.Meta.JSONLD, `</script>`)
		}
		h.raw(`</head><body>`)
		h.component(ctx, header(p, msgs))
		h.raw(`<main id="content" class="container">`)
		h.component(ctx, body)
		h.raw(`</main><script src="/public/app.js" defer></script></body></html>`)
	})
}

func header(p Page, msgs Messages) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		label, icon := msgs.ToDark, "🌙"
		if p.Theme == "dark" {
			label, icon = msgs.ToLight, "☀️"
		}
		ret := p.Path
		if ret == "" {
			ret = "/"
		}
		h.raw(`<header class="site-header"><a class="site-title" href="/">`)
		h.text(p.Site.Name)
		h.raw(`</a><form class="theme-form" method="post" action="/theme/toggle/">`)
		h.raw(`<input type="hidden" name="_csrf" value="`)
		h.text(p.CSRF)
		h.raw(`"><input type="hidden" name="return" value="`)
		h.text(ret)
		h.raw(`"><button id="theme-toggle" type="submit" aria-label="`)
		h.text(label)
		h.raw(`" data-to-dark="`)
		h.text(msgs.ToDark)
		h.raw(`" data-to-light="`)
		h.text(msgs.ToLight)
		h.raw(`">`, icon, `</button></form></header>`)
	})
}

// ErrorMessage is the inline message that replaces the content area when a
// page cannot be produced.
func ErrorMessage(msg string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="error" role="alert">`)
		h.text(msg)
		h.raw(`</div>`)
	})
}

// ErrorPage renders msg inside the full layout.
func ErrorPage(p Page, msg string) templ.Component {
	return Layout(p, ErrorMessage(msg))
}

// NotFound renders the 404 page.
func NotFound(p Page) templ.Component {
	return ErrorPage(p, MessagesFor(p.Site.Lang).PageNotFound)
}

// ServerError renders the 500 page.
func ServerError(p Page) templ.Component {
	return ErrorPage(p, MessagesFor(p.Site.Lang).ServerError)
}
