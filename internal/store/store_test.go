package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestMemStoreReadReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	s.Seed("note.md", "original")

	text, err := s.Read(ctx, "note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if text != "original" {
		t.Errorf("Read = %q, want %q", text, "original")
	}

	if err := s.Replace(ctx, "note.md", "updated"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	text, _ = s.Read(ctx, "note.md")
	if text != "updated" {
		t.Errorf("Read after Replace = %q, want %q", text, "updated")
	}
}

func TestMemStoreMissing(t *testing.T) {
	s := NewMemStore()

	_, err := s.Read(context.Background(), "absent.md")
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("Read(absent) error = %v, want ErrNotExist", err)
	}

	_, err = s.Read(context.Background(), "")
	if !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Read(empty handle) error = %v, want ErrInvalidHandle", err)
	}
}

func TestMemStoreCancelledContext(t *testing.T) {
	s := NewMemStore()
	s.Seed("note.md", "text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Read(ctx, "note.md"); !errors.Is(err, context.Canceled) {
		t.Errorf("Read error = %v, want context.Canceled", err)
	}
	if err := s.Replace(ctx, "note.md", "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Replace error = %v, want context.Canceled", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFileStore(root)

	if err := os.WriteFile(filepath.Join(root, "note.md"), []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := s.Read(ctx, "note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if text != "hello" {
		t.Errorf("Read = %q, want %q", text, "hello")
	}

	if err := s.Replace(ctx, "note.md", "hello ==there=="); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "note.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello ==there==" {
		t.Errorf("file content = %q, want %q", data, "hello ==there==")
	}

	// No temp files left behind.
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("root has %d entries after Replace, want 1", len(entries))
	}
}

func TestFileStoreMissing(t *testing.T) {
	s := NewFileStore(t.TempDir())

	_, err := s.Read(context.Background(), "absent.md")
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("Read(absent) error = %v, want ErrNotExist", err)
	}
}

func TestFileStoreRejectsEscapingHandles(t *testing.T) {
	s := NewFileStore(t.TempDir())

	for _, h := range []Handle{"", "../outside.md", "../../etc/passwd", "/abs.md"} {
		t.Run(string(h), func(t *testing.T) {
			if _, err := s.Read(context.Background(), h); !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("Read(%q) error = %v, want ErrInvalidHandle", h, err)
			}
			if err := s.Replace(context.Background(), h, "x"); !errors.Is(err, ErrInvalidHandle) {
				t.Errorf("Replace(%q) error = %v, want ErrInvalidHandle", h, err)
			}
		})
	}
}

func TestFileStoreSerializesPerHandle(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewFileStore(root)

	if err := os.WriteFile(filepath.Join(root, "note.md"), []byte("0"), 0644); err != nil {
		t.Fatal(err)
	}

	// Concurrent replaces on one handle must not corrupt the file: after all
	// writers finish, the content is exactly one of the written values.
	var wg sync.WaitGroup
	values := []string{"aaaa", "bbbb", "cccc", "dddd"}
	for _, v := range values {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			if err := s.Replace(ctx, "note.md", v); err != nil {
				t.Errorf("Replace(%q): %v", v, err)
			}
		}(v)
	}
	wg.Wait()

	text, err := s.Read(ctx, "note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	found := false
	for _, v := range values {
		if text == v {
			found = true
		}
	}
	if !found {
		t.Errorf("final content %q is not any written value", text)
	}
}
