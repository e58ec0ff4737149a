package index

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func samplePosts() PostIndex {
	return PostIndex{
		{File: "one.md", Title: "Hello Go", Excerpt: "hello world from go", Date: "2024-01-15", Tags: []string{"go", "web"}},
		{File: "two.md", Title: "Rust notes", Excerpt: "ownership and borrowing", Date: "2024-02-01", Tags: []string{"rust"}},
		{File: "three.md", Title: "Untagged", Excerpt: "no tags at all", Date: "2024-03-01"},
	}
}

func files(idx PostIndex) []string {
	out := make([]string, 0, len(idx))
	for _, p := range idx {
		out = append(out, p.File)
	}
	return out
}

func TestDecode(t *testing.T) {
	input := `[
		// comments are allowed
		{"file": "a.md", "title": "A", "excerpt": "first", "date": "2024-01-01", "tags": ["x"]},
		{"id": "b.md", "title": "B", "excerpt": "second", "date": "2024-01-02", "category": "dev", "tags": []},
	]`
	idx, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := PostIndex{
		{File: "a.md", Title: "A", Excerpt: "first", Date: "2024-01-01", Tags: []string{"x"}},
		{File: "b.md", Title: "B", Excerpt: "second", Date: "2024-01-02", Category: "dev", Tags: []string{}},
	}
	if diff := cmp.Diff(want, idx); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEmptyAndInvalid(t *testing.T) {
	idx, err := Decode(strings.NewReader("[]"))
	if err != nil {
		t.Fatalf("Decode empty failed: %v", err)
	}
	if idx == nil || len(idx) != 0 {
		t.Errorf("expected empty non-nil index, got %#v", idx)
	}
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for invalid input")
	}
	if _, err := Decode(strings.NewReader(`{"file": "a.md"}`)); err == nil {
		t.Error("expected error for non-array input")
	}
}

func TestFind(t *testing.T) {
	idx := samplePosts()
	p, ok := idx.Find("two.md")
	if !ok || p.Title != "Rust notes" {
		t.Errorf("Find(two.md) = %+v, %v", p, ok)
	}
	if _, ok := idx.Find("missing.md"); ok {
		t.Error("Find(missing.md) should fail")
	}
}

func TestAllTags(t *testing.T) {
	idx := PostIndex{
		{File: "a", Tags: []string{"web", "go"}},
		{File: "b", Tags: []string{"go", "Go"}},
		{File: "c"},
	}
	want := []string{"Go", "go", "web"}
	if diff := cmp.Diff(want, AllTags(idx)); diff != "" {
		t.Errorf("AllTags mismatch (-want +got):\n%s", diff)
	}
	if got := AllTags(nil); len(got) != 0 {
		t.Errorf("AllTags(nil) = %v", got)
	}
}
