// Package frontmatter splits a Markdown document into its metadata block and
// body.
//
// The accepted block is deliberately small:
//
//	---
//	title: "Hello"
//	date: 2024-01-15
//	tags: [go, web]
//	---
//	Body text
//
// Every line is a single "key: value" pair. Only the tags key is parsed as a
// list; every other value is kept as a string. Parsing never fails: a
// document without a block is returned whole as the body.
package frontmatter

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// TagsKey is the only key whose bracketed value is parsed as a list.
const TagsKey = "tags"

var reBlock = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n(.*)$`)

// Kind distinguishes the two value shapes a metadata entry can hold.
type Kind uint8

// Kind values.
const (
	KindString Kind = iota
	KindList
)

// Value is a metadata entry: a plain string, or a string list for tags.
type Value struct {
	Kind   Kind     // Kind describes which field is populated.
	String string   // String holds the value when Kind == KindString.
	List   []string // List holds the value when Kind == KindList.
}

// StringValue creates a string Value.
func StringValue(s string) Value {
	return Value{Kind: KindString, String: s}
}

// ListValue creates a list Value.
func ListValue(items []string) Value {
	return Value{Kind: KindList, List: items}
}

// Metadata maps keys from the front-matter block to their values.
type Metadata map[string]Value

// Has reports whether key is present.
func (m Metadata) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// String returns the value for key as a string. List values are joined with
// ", ".
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	if v.Kind == KindList {
		return strings.Join(v.List, ", ")
	}
	return v.String
}

// Strings returns the value for key as a list. A string value is split on
// commas; empty items are dropped.
func (m Metadata) Strings(key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	if v.Kind == KindList {
		return v.List
	}
	var out []string
	for _, part := range strings.Split(v.String, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Parse separates the front-matter block from the body of doc.
func Parse(doc string) (string, Metadata) {
	meta := Metadata{}
	match := reBlock.FindStringSubmatch(strings.ReplaceAll(doc, "\r\n", "\n"))
	if match == nil {
		return doc, meta
	}
	for _, line := range strings.Split(match[1], "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := unquote(strings.TrimSpace(line[idx+1:]))
		if key == TagsKey && strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			meta[key] = ListValue(parseList(value))
			continue
		}
		meta[key] = StringValue(value)
	}
	return match[2], meta
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// parseList reads a bracketed list as a YAML flow sequence, falling back to a
// plain comma split when that fails.
func parseList(value string) []string {
	var items []string
	if err := yaml.Unmarshal([]byte(value), &items); err == nil {
		if items == nil {
			items = []string{}
		}
		return items
	}
	parts := strings.Split(value[1:len(value)-1], ",")
	items = make([]string, 0, len(parts))
	for _, p := range parts {
		items = append(items, trimQuoteChars(strings.TrimSpace(p)))
	}
	return items
}

// trimQuoteChars drops at most one quote character from each end of s.
func trimQuoteChars(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
