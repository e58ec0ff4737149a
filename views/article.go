package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/eringen/inkwell/comments"
	"github.com/eringen/inkwell/frontmatter"
	"github.com/eringen/inkwell/index"
	"github.com/eringen/inkwell/markdown"
)

// Article is a post ready for display. Body is converter output and is
// written without escaping; every other field is escaped on render.
type Article struct {
	File        string
	Title       string
	RawDate     string
	Date        string
	Category    string
	Description string
	Tags        []string
	Body        string
}

// NewArticle merges the front matter of a post with its index entry and
// converts the body. Front matter wins wherever it has a value.
func NewArticle(body string, meta frontmatter.Metadata, fallback index.PostSummary, conv markdown.Converter, lang string) (Article, error) {
	html, err := conv.Convert(body)
	if err != nil {
		return Article{}, err
	}
	a := Article{
		File:        fallback.File,
		Title:       pick(meta.String("title"), fallback.Title),
		RawDate:     pick(meta.String("date"), fallback.Date),
		Category:    pick(meta.String("category"), fallback.Category),
		Description: meta.String("description"),
		Tags:        fallback.Tags,
		Body:        html,
	}
	if meta.Has(frontmatter.TagsKey) {
		a.Tags = meta.Strings(frontmatter.TagsKey)
		if a.Tags == nil {
			a.Tags = []string{}
		}
	}
	a.Date = FormatDate(a.RawDate, MessagesFor(lang))
	return a, nil
}

func pick(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

// ArticleView renders the article header and body.
func ArticleView(a Article) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<article class="post"><header class="post-header"><h1 class="post-title">`)
		h.text(a.Title)
		h.raw(`</h1><div class="post-meta"><time class="post-date">`)
		h.text(a.Date)
		h.raw(`</time>`)
		if a.Category != "" {
			h.raw(`<span class="post-category"> • `)
			h.text(a.Category)
			h.raw(`</span>`)
		}
		if a.Description != "" {
			h.raw(`<p class="post-description">`)
			h.text(a.Description)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
		tagLinks(h, a.Tags)
		h.raw(`</header><div class="post-body">`, a.Body, `</div></article>`)
	})
}

// PostData is the post page.
type PostData struct {
	Page     Page
	Article  Article
	Related  index.PostIndex
	Comments comments.Config
}

// PostPage renders an article, related posts and the comment widget.
func PostPage(d PostData) templ.Component {
	return Layout(d.Page, component(func(ctx context.Context, h *htmlWriter) {
		msgs := MessagesFor(d.Page.Site.Lang)
		h.component(ctx, ArticleView(d.Article))
		if len(d.Related) > 0 {
			h.raw(`<aside class="related"><ul>`)
			for _, p := range d.Related {
				h.raw(`<li><a href="`)
				h.text(PostURL(p.File))
				h.raw(`">`)
				h.text(p.Title)
				h.raw(`</a></li>`)
			}
			h.raw(`</ul></aside>`)
		}
		h.component(ctx, comments.Embed(d.Comments, d.Page.Theme, PostURL(d.Article.File)))
		h.raw(`<p class="back"><a href="/">`)
		h.text(msgs.BackToList)
		h.raw(`</a></p>`)
	}))
}
