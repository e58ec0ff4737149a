package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/inkwell/index"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the site-relative link to a post page.
func PostURL(file string) string {
	return "/post/?file=" + url.QueryEscape(file)
}

// AbsPostURL is the absolute link to a post page on base.
func AbsPostURL(base, file string) string {
	return BuildURL(base, "post") + "?file=" + url.QueryEscape(file)
}

// ListURL links to the list page with the given tag and search term.
func ListURL(tag, term string) string {
	q := url.Values{}
	if tag != "" {
		q.Set("tag", tag)
	}
	if term != "" {
		q.Set("q", term)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// TagClass returns CSS classes for a tag button, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag-button active"
	}
	return "tag-button"
}

// RelatedPosts returns posts sharing at least one tag with current.
func RelatedPosts(current index.PostSummary, tags []string, posts index.PostIndex) index.PostIndex {
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}
	var related index.PostIndex
	for _, p := range posts {
		if p.File == current.File {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[t]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for an article.
func BlogPostingJsonLD(cfg SiteConfig, a Article) string {
	postURL := AbsPostURL(cfg.URL, a.File)
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "BlogPosting",
		"headline": a.Title,
		"url":      postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if a.Description != "" {
		data["description"] = a.Description
	}
	if t, ok := ParseDate(a.RawDate); ok {
		data["datePublished"] = t.Format("2006-01-02")
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(a.Tags) > 0 {
		data["keywords"] = strings.Join(a.Tags, ", ")
	}
	return marshalLD(data)
}

func marshalLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
