package index

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/eringen/inkwell/frontmatter"
)

// ExcerptLength is the maximum length, in runes, of a generated excerpt.
const ExcerptLength = 160

// Build scans every .md file under dir in fsys and derives an index from
// the front matter. Pages with "draft: true" are skipped. The result is
// ordered newest first by date string, then by file name.
func Build(fsys fs.FS, dir string) (PostIndex, error) {
	idx := PostIndex{}
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, dir), "/")
		if dir == "." {
			rel = p
		}
		body, meta := frontmatter.Parse(string(raw))
		if strings.EqualFold(meta.String("draft"), "true") {
			return nil
		}
		idx = append(idx, summarize(rel, body, meta))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(idx, func(i, j int) bool {
		if idx[i].Date != idx[j].Date {
			return idx[i].Date > idx[j].Date
		}
		return idx[i].File < idx[j].File
	})
	return idx, nil
}

func summarize(file, body string, meta frontmatter.Metadata) PostSummary {
	title := meta.String("title")
	if title == "" {
		title = strings.TrimSuffix(path.Base(file), ".md")
	}
	excerpt := meta.String("description")
	if excerpt == "" {
		excerpt = firstParagraph(body)
	}
	tags := meta.Strings(frontmatter.TagsKey)
	if tags == nil {
		tags = []string{}
	}
	return PostSummary{
		File:     file,
		Title:    title,
		Excerpt:  truncate(excerpt, ExcerptLength),
		Date:     meta.String("date"),
		Category: meta.String("category"),
		Tags:     tags,
	}
}

// firstParagraph returns the first block of prose in a Markdown body,
// skipping headings, fences, lists, quotes, and images.
func firstParagraph(body string) string {
	var lines []string
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if t == "" {
			if len(lines) > 0 {
				break
			}
			continue
		}
		if len(lines) == 0 && isBlockMarker(t) {
			continue
		}
		lines = append(lines, t)
	}
	return strings.Join(lines, " ")
}

func isBlockMarker(t string) bool {
	for _, p := range []string{"#", ">", "- ", "* ", "+ ", "![", "|", "<"} {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// Encode writes idx as indented JSON.
func Encode(w io.Writer, idx PostIndex) error {
	if idx == nil {
		idx = PostIndex{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(idx)
}
