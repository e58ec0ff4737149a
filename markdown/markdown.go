// Package markdown converts post bodies to HTML. Code blocks are highlighted
// with chroma at conversion time and carry CSS classes, so the light and dark
// stylesheets from HighlightCSS can switch colours without re-rendering.
package markdown

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter turns Markdown source into an HTML fragment.
type Converter interface {
	Convert(src string) (string, error)
}

// Goldmark is the default Converter.
type Goldmark struct {
	md goldmark.Markdown
}

type options struct {
	unsafeHTML bool
	hardWraps  bool
}

// Option configures a Goldmark converter.
type Option func(*options)

// WithUnsafeHTML passes raw HTML in the Markdown source through to the output.
func WithUnsafeHTML() Option {
	return func(o *options) { o.unsafeHTML = true }
}

// WithHardWraps renders single newlines inside paragraphs as <br>.
func WithHardWraps() Option {
	return func(o *options) { o.hardWraps = true }
}

// New creates a goldmark converter with GFM, heading IDs and code highlighting.
func New(opts ...Option) *Goldmark {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var rendererOpts []goldmark.Option
	var htmlOpts []renderer.Option
	if o.unsafeHTML {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	if len(htmlOpts) > 0 {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlOpts...))
	}
	md := goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}, rendererOpts...)...)
	return &Goldmark{md: md}
}

// Convert renders src as HTML.
func (g *Goldmark) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Markdown returns a templ.Component that renders src through conv.
func Markdown(conv Converter, src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := conv.Convert(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}

// HighlightCSS returns the chroma stylesheet for the light style, followed by
// the dark style scoped under [data-theme="dark"]. Unknown style names fall
// back to chroma's default style.
func HighlightCSS(light, dark string) (string, error) {
	var b strings.Builder
	if err := writeStyle(&b, light, ""); err != nil {
		return "", err
	}
	if err := writeStyle(&b, dark, `[data-theme="dark"] `); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeStyle(w io.StringWriter, name, scope string) error {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(name)); err != nil {
		return fmt.Errorf("write %s css: %w", name, err)
	}
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		line := sc.Text()
		// .bg rules are unscoped and would collide between the two styles.
		if !strings.Contains(line, ".chroma") {
			continue
		}
		if scope != "" {
			line = strings.Replace(line, ".chroma", scope+".chroma", 1)
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return sc.Err()
}
