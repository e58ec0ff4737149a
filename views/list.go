package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/inkwell/index"
	"github.com/eringen/inkwell/search"
)

// ListData is everything the list projection needs. Posts is the filtered
// view; Tags is the vocabulary of the whole index.
type ListData struct {
	Posts     index.PostIndex
	Tags      []string
	ActiveTag string
	Term      string // raw search input, used for highlighting and links
	Lang      string
}

// HomeData is the list page.
type HomeData struct {
	Page Page
	List ListData
}

// Home renders the list page: search box, tag bar and post list.
func Home(d HomeData) templ.Component {
	return Layout(d.Page, component(func(ctx context.Context, h *htmlWriter) {
		msgs := MessagesFor(d.List.Lang)
		h.raw(`<form class="search" method="get" action="/" role="search">`)
		if d.List.ActiveTag != "" {
			h.raw(`<input type="hidden" name="tag" value="`)
			h.text(d.List.ActiveTag)
			h.raw(`">`)
		}
		h.raw(`<label class="visually-hidden" for="search-input">`)
		h.text(msgs.SearchLabel)
		h.raw(`</label><input id="search-input" type="search" name="q" autocomplete="off" value="`)
		h.text(d.List.Term)
		h.raw(`" placeholder="`)
		h.text(msgs.SearchHint)
		h.raw(`"></form>`)
		h.component(ctx, ListSection(d.List))
	}))
}

// ListSection is the part of the list page re-rendered on every tag click or
// debounced keystroke.
func ListSection(d ListData) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div id="list-section">`)
		h.component(ctx, TagBar(d.Tags, d.ActiveTag, d.Term, d.Lang))
		h.component(ctx, PostList(d))
		h.raw(`</div>`)
	})
}

// ListError stands in for ListSection when a partial list request fails, so
// the next filter change still finds #list-section.
func ListError(msg string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div id="list-section">`)
		h.component(ctx, ErrorMessage(msg))
		h.raw(`</div>`)
	})
}

// TagBar renders the "all" button followed by one button per tag. The
// button matching active carries the active class. Nothing is rendered for
// an empty vocabulary.
func TagBar(tags []string, active, term, lang string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<nav id="tag-filter" class="tag-filter">`)
		if len(tags) > 0 {
			msgs := MessagesFor(lang)
			tagButton(h, "", msgs.AllTags, active == "", term)
			for _, t := range tags {
				tagButton(h, t, t, t == active, term)
			}
		}
		h.raw(`</nav>`)
	})
}

func tagButton(h *htmlWriter, tag, label string, active bool, term string) {
	h.raw(`<a class="`, TagClass(active), `" data-tag="`)
	h.text(tag)
	h.raw(`" href="`)
	h.text(ListURL(tag, term))
	h.raw(`">`)
	h.text(label)
	h.raw(`</a>`)
}

// PostList renders the cards of the filtered view, or the empty-state marker
// when there is nothing to show.
func PostList(d ListData) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div id="posts-list">`)
		if len(d.Posts) == 0 {
			h.raw(`<div class="empty">`)
			h.text(MessagesFor(d.Lang).NoPosts)
			h.raw(`</div>`)
		}
		for _, p := range d.Posts {
			h.component(ctx, PostCard(p, d.Term, d.Lang))
		}
		h.raw(`</div>`)
	})
}

// PostCard renders one list entry. Title and excerpt get the search term
// highlighted.
func PostCard(p index.PostSummary, term, lang string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		msgs := MessagesFor(lang)
		h.raw(`<article class="post-card"><h2 class="post-title"><a href="`)
		h.text(PostURL(p.File))
		h.raw(`">`, search.Highlight(p.Title, term), `</a></h2>`)
		h.raw(`<div class="post-meta"><time>`)
		h.text(FormatDate(p.Date, msgs))
		h.raw(`</time>`)
		if p.Category != "" {
			h.raw(`<span class="post-category"> • `)
			h.text(p.Category)
			h.raw(`</span>`)
		}
		h.raw(`</div><p class="post-excerpt">`, search.Highlight(p.Excerpt, term), `</p>`)
		tagLinks(h, p.Tags)
		h.raw(`</article>`)
	})
}

func tagLinks(h *htmlWriter, tags []string) {
	if len(tags) == 0 {
		return
	}
	h.raw(`<div class="post-tags">`)
	for _, t := range tags {
		h.raw(`<a class="tag-button" href="`)
		h.text(ListURL(t, ""))
		h.raw(`">`)
		h.text(t)
		h.raw(`</a>`)
	}
	h.raw(`</div>`)
}
