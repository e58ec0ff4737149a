package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/inkwell/frontmatter"
	"github.com/eringen/inkwell/index"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-blog")
	var out bytes.Buffer

	require.NoError(t, Generate(dir, NewData(dir, "en", fixedNow), &out))

	cfg, err := os.ReadFile(filepath.Join(dir, "inkwell.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), `name: "My Blog"`)
	assert.Contains(t, string(cfg), "lang: en")

	raw, err := os.ReadFile(filepath.Join(dir, "content", "posts.json"))
	require.NoError(t, err)
	idx, err := index.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, idx, 1)
	assert.Equal(t, "hello-world.md", idx[0].File)
	assert.Equal(t, "2024-06-01", idx[0].Date)

	page, err := os.ReadFile(filepath.Join(dir, "content", "pages", "hello-world.md"))
	require.NoError(t, err)
	_, meta := frontmatter.Parse(string(page))
	assert.Equal(t, []string{"hello"}, meta.Strings("tags"))

	_, err = os.Stat(filepath.Join(dir, "public", "robots.txt"))
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "created")
}

func TestGenerateRefusesExistingDir(t *testing.T) {
	dir := t.TempDir()
	err := Generate(dir, NewData(dir, "", fixedNow), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewPost(t *testing.T) {
	pages := filepath.Join(t.TempDir(), "pages")

	path, err := NewPost(pages, "Hello, Go World!", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pages, "hello-go-world.md"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	_, meta := frontmatter.Parse(string(raw))
	assert.Equal(t, "Hello, Go World!", meta.String("title"))
	assert.Equal(t, "2024-06-01", meta.String("date"))

	_, err = NewPost(pages, "Hello, Go World!", fixedNow)
	assert.Error(t, err, "existing post must not be overwritten")
}

func TestNewPostNonASCIITitle(t *testing.T) {
	pages := t.TempDir()
	path, err := NewPost(pages, "한글 제목", fixedNow)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "2024-06-01-093000.md"), path)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":      "hello-world",
		"  Go 1.24 notes ": "go-1-24-notes",
		"---":              "",
		"C++ & Rust":       "c-rust",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
