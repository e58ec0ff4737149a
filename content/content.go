// Package content reads the post index and Markdown pages from a directory or
// from a remote static site.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Default locations relative to the content root.
const (
	DefaultIndexName = "posts.json"
	DefaultPagesDir  = "pages"
)

// ErrInvalidName is returned for page names that would escape the pages
// directory.
var ErrInvalidName = errors.New("content: invalid page name")

// Source provides the raw post index and page bodies.
type Source interface {
	Index(ctx context.Context) ([]byte, error)
	Page(ctx context.Context, name string) ([]byte, error)
}

// Layout names the index file and pages directory inside a source.
type Layout struct {
	IndexName string
	PagesDir  string
}

func (l Layout) withDefaults() Layout {
	if l.IndexName == "" {
		l.IndexName = DefaultIndexName
	}
	if l.PagesDir == "" {
		l.PagesDir = DefaultPagesDir
	}
	return l
}

func (l Layout) pagePath(name string) (string, error) {
	p := path.Join(l.PagesDir, name)
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) || !fs.ValidPath(p) || !strings.HasPrefix(p, l.PagesDir+"/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return p, nil
}

// FSSource reads from a file system, usually os.DirFS of the content root.
type FSSource struct {
	fsys   fs.FS
	layout Layout
}

// NewFSSource creates a Source over fsys.
func NewFSSource(fsys fs.FS, layout Layout) *FSSource {
	return &FSSource{fsys: fsys, layout: layout.withDefaults()}
}

// Index reads the index file.
func (s *FSSource) Index(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.fsys, s.layout.IndexName)
}

// Page reads one page from the pages directory.
func (s *FSSource) Page(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.layout.pagePath(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(s.fsys, p)
}

// StatusError reports a non-2xx response from an HTTPSource.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.Code, e.Status)
}

// HTTPSource fetches from a static site over HTTP.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
	layout Layout
}

// NewHTTPSource creates a Source rooted at base. A nil client gets a default
// with a 10 second timeout.
func NewHTTPSource(base string, client *http.Client, layout Layout) (*HTTPSource, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("content: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("content: base url %q must be http or https", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{base: u, client: client, layout: layout.withDefaults()}, nil
}

// Index fetches the index file.
func (s *HTTPSource) Index(ctx context.Context) ([]byte, error) {
	return s.get(ctx, s.layout.IndexName)
}

// Page fetches one page.
func (s *HTTPSource) Page(ctx context.Context, name string) ([]byte, error) {
	p, err := s.layout.pagePath(name)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, p)
}

func (s *HTTPSource) get(ctx context.Context, rel string) ([]byte, error) {
	u := s.base.JoinPath(rel).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	return io.ReadAll(resp.Body)
}
