package inkwell

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingSource struct {
	calls atomic.Int32
	index []byte
	err   error
}

func (s *countingSource) Index(context.Context) ([]byte, error) {
	s.calls.Add(1)
	return s.index, s.err
}

func (s *countingSource) Page(context.Context, string) ([]byte, error) {
	return nil, errors.New("not used")
}

func TestIndexCacheLoadsOnce(t *testing.T) {
	src := &countingSource{index: []byte(`[{"file":"a.md","title":"A","tags":["x"]},{"file":"b.md","title":"B","tags":["w","x"]}]`)}
	c := NewIndexCache(src, time.Minute)

	for i := 0; i < 3; i++ {
		posts, tags, err := c.Index(context.Background())
		if err != nil {
			t.Fatalf("Index failed: %v", err)
		}
		if len(posts) != 2 || len(tags) != 2 || tags[0] != "w" {
			t.Fatalf("posts=%v tags=%v", posts, tags)
		}
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("source calls = %d, want 1", got)
	}

	c.Invalidate()
	if _, _, err := c.Index(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source calls after invalidate = %d, want 2", got)
	}
}

func TestIndexCacheExpires(t *testing.T) {
	src := &countingSource{index: []byte(`[]`)}
	c := NewIndexCache(src, 20*time.Millisecond)

	if _, _, err := c.Index(context.Background()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, _, err := c.Index(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source calls = %d, want 2", got)
	}
}

func TestIndexCacheNegativeTTLNeverExpires(t *testing.T) {
	src := &countingSource{index: []byte(`[]`)}
	c := NewIndexCache(src, -1)

	for i := 0; i < 3; i++ {
		if _, _, err := c.Index(context.Background()); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := src.calls.Load(); got != 1 {
		t.Errorf("source calls = %d, want 1", got)
	}
	c.Invalidate()
	if _, _, err := c.Index(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source calls after invalidate = %d, want 2", got)
	}
}

func TestIndexCacheWrapsFailures(t *testing.T) {
	boom := errors.New("boom")
	c := NewIndexCache(&countingSource{err: boom}, time.Minute)

	_, _, err := c.Index(context.Background())
	if !errors.Is(err, ErrIndexFetch) || !errors.Is(err, boom) {
		t.Fatalf("err = %v, want ErrIndexFetch wrapping boom", err)
	}

	c = NewIndexCache(&countingSource{index: []byte(`{"not": "a list"}`)}, time.Minute)
	if _, _, err := c.Index(context.Background()); !errors.Is(err, ErrIndexFetch) {
		t.Fatalf("err = %v, want ErrIndexFetch", err)
	}
}

func TestIndexCacheFailureNotCached(t *testing.T) {
	src := &countingSource{err: errors.New("down")}
	c := NewIndexCache(src, time.Minute)

	c.Index(context.Background())
	src.err = nil
	src.index = []byte(`[]`)
	posts, _, err := c.Index(context.Background())
	if err != nil {
		t.Fatalf("second Index failed: %v", err)
	}
	if posts == nil {
		t.Error("empty index should be non-nil once loaded")
	}
}
