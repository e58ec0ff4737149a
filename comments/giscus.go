// Package comments embeds the giscus discussion widget and builds the
// messages that keep its theme in sync with the page.
package comments

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Giscus endpoints.
const (
	Origin    = "https://giscus.app"
	ClientURL = Origin + "/client.js"
)

// Config is the giscus attribute set. Repo and RepoID identify the GitHub
// repository; Category and CategoryID the discussion category. With the
// "specific" mapping each page passes its own term; "pathname", "url" and
// "title" let giscus derive the thread from the page itself.
type Config struct {
	Repo             string `koanf:"repo"`
	RepoID           string `koanf:"repo_id"`
	Category         string `koanf:"category"`
	CategoryID       string `koanf:"category_id"`
	Mapping          string `koanf:"mapping"`
	Strict           bool   `koanf:"strict"`
	ReactionsEnabled bool   `koanf:"reactions_enabled"`
	EmitMetadata     bool   `koanf:"emit_metadata"`
	InputPosition    string `koanf:"input_position"`
	Lang             string `koanf:"lang"`
}

// SetDefaults fills the fields giscus requires with its usual values.
func (c *Config) SetDefaults() {
	if c.Mapping == "" {
		c.Mapping = "specific"
	}
	if c.InputPosition == "" {
		c.InputPosition = "bottom"
	}
	if c.Lang == "" {
		c.Lang = "en"
	}
}

// Enabled reports whether the widget is configured.
func (c Config) Enabled() bool {
	return c.Repo != "" && c.RepoID != ""
}

// Attr is one data-* attribute on the giscus script tag.
type Attr struct {
	Name  string
	Value string
}

// Attributes returns the script attributes in a stable order. term is only
// emitted for the mappings that need one.
func (c Config) Attributes(theme, term string) []Attr {
	attrs := []Attr{
		{"data-repo", c.Repo},
		{"data-repo-id", c.RepoID},
		{"data-category", c.Category},
		{"data-category-id", c.CategoryID},
		{"data-mapping", c.Mapping},
	}
	if c.Mapping == "specific" || c.Mapping == "number" {
		attrs = append(attrs, Attr{"data-term", term})
	}
	return append(attrs, []Attr{
		{"data-strict", flag(c.Strict)},
		{"data-reactions-enabled", flag(c.ReactionsEnabled)},
		{"data-emit-metadata", flag(c.EmitMetadata)},
		{"data-input-position", c.InputPosition},
		{"data-theme", theme},
		{"data-lang", c.Lang},
	}...)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Embed renders the giscus script tag inside the comment thread container.
// term identifies the page's thread. An empty container is rendered when the
// widget is not configured.
func Embed(cfg Config, theme, term string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="giscus-thread" class="comments">`)
		if cfg.Enabled() {
			b.WriteString(`<script src="` + ClientURL + `" async crossorigin="anonymous"`)
			for _, a := range cfg.Attributes(theme, term) {
				b.WriteString(" " + a.Name + `="` + templ.EscapeString(a.Value) + `"`)
			}
			b.WriteString(`></script>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

type setConfigMessage struct {
	Giscus struct {
		SetConfig struct {
			Theme string `json:"theme"`
		} `json:"setConfig"`
	} `json:"giscus"`
}

// SetConfigMessage builds the payload posted to the giscus frame (at Origin)
// to switch its theme.
func SetConfigMessage(theme string) json.RawMessage {
	var m setConfigMessage
	m.Giscus.SetConfig.Theme = theme
	b, err := json.Marshal(m)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}
