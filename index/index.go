// Package index holds the post index loaded from posts.json and derives the
// filtered views shown on the list page.
package index

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tailscale/hujson"
)

// PostSummary is one entry of the post index. File is the unique key and
// names the Markdown page holding the post body.
type PostSummary struct {
	File     string   `json:"file"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Date     string   `json:"date"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags"`
}

// UnmarshalJSON accepts "id" as an alias for "file".
func (p *PostSummary) UnmarshalJSON(data []byte) error {
	type plain PostSummary
	var raw struct {
		plain
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PostSummary(raw.plain)
	if p.File == "" {
		p.File = raw.ID
	}
	return nil
}

// HasTag reports whether the post carries tag. The comparison is exact.
func (p PostSummary) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SearchText is the text the search predicate runs against.
func (p PostSummary) SearchText() string {
	return p.Title + " " + p.Excerpt + " " + strings.Join(p.Tags, " ")
}

// PostIndex is the ordered list of all posts, in source order.
type PostIndex []PostSummary

// Decode reads a post index from r. Comments and trailing commas are allowed.
func Decode(r io.Reader) (PostIndex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	data, err = hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	var idx PostIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if idx == nil {
		idx = PostIndex{}
	}
	return idx, nil
}

// Find returns the entry whose File equals file.
func (idx PostIndex) Find(file string) (PostSummary, bool) {
	for _, p := range idx {
		if p.File == file {
			return p, true
		}
	}
	return PostSummary{}, false
}

// AllTags returns the sorted union of every post's tags.
func AllTags(idx PostIndex) []string {
	set := make(map[string]struct{})
	for _, p := range idx {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
