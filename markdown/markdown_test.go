package markdown

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func convert(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	out, err := New(opts...).Convert(src)
	if err != nil {
		t.Fatalf("Convert(%q) failed: %v", src, err)
	}
	return out
}

func TestConvertHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", `<h1 id="heading-1">Heading 1</h1>`},
		{"## Heading 2", `<h2 id="heading-2">Heading 2</h2>`},
		{"### Heading 3", `<h3 id="heading-3">Heading 3</h3>`},
	}
	for _, tt := range tests {
		got := convert(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Convert(%q) = %q, want to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestConvertInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"`code`", "<code>code</code>"},
		{"~~gone~~", "<del>gone</del>"},
		{"[link](https://example.com)", `<a href="https://example.com">link</a>`},
	}
	for _, tt := range tests {
		got := convert(t, tt.input)
		if !strings.Contains(got, tt.expected) {
			t.Errorf("Convert(%q) = %q, want to contain %q", tt.input, got, tt.expected)
		}
	}
}

func TestConvertTable(t *testing.T) {
	got := convert(t, "| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{"<table>", "<th>a</th>", "<td>2</td>"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q: %q", want, got)
		}
	}
}

func TestConvertHighlightsCodeWithClasses(t *testing.T) {
	got := convert(t, "```go\nfunc main() {}\n```")
	if !strings.Contains(got, `class="chroma"`) {
		t.Errorf("code block should carry the chroma class: %q", got)
	}
	if strings.Contains(got, "style=\"color") {
		t.Errorf("code block should not use inline colours: %q", got)
	}
}

func TestConvertOmitsRawHTMLByDefault(t *testing.T) {
	got := convert(t, "<script>alert(1)</script>\n\ntext")
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML should be omitted: %q", got)
	}
	got = convert(t, "<div class=\"note\">hi</div>", WithUnsafeHTML())
	if !strings.Contains(got, `<div class="note">hi</div>`) {
		t.Errorf("raw HTML should pass with WithUnsafeHTML: %q", got)
	}
}

func TestConvertHardWraps(t *testing.T) {
	got := convert(t, "line one\nline two", WithHardWraps())
	if !strings.Contains(got, "<br") {
		t.Errorf("expected <br> with hard wraps: %q", got)
	}
}

type failingConverter struct{}

func (failingConverter) Convert(string) (string, error) {
	return "", errors.New("boom")
}

func TestMarkdownComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown(New(), "hello *there*").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<em>there</em>") {
		t.Errorf("unexpected output: %q", buf.String())
	}
	if err := Markdown(failingConverter{}, "x").Render(context.Background(), &buf); err == nil {
		t.Error("expected converter error to propagate")
	}
}

func TestHighlightCSSScopesDarkStyle(t *testing.T) {
	css, err := HighlightCSS("github", "monokai")
	if err != nil {
		t.Fatalf("HighlightCSS failed: %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("expected chroma rules: %q", css)
	}
	if !strings.Contains(css, `[data-theme="dark"] .chroma`) {
		t.Errorf("expected dark rules scoped by data-theme: %q", css)
	}
	if strings.Contains(css, ".bg ") {
		t.Errorf("unscoped .bg rules should be dropped: %q", css)
	}
}
