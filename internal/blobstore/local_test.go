package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func testLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return s
}

func TestPutOpenRoundTrip(t *testing.T) {
	s := testLocalStore(t)
	ctx := context.Background()

	res, err := s.Put(ctx, "123456", strings.NewReader("hello bytes"), "report.pdf")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if res.SizeBytes != int64(len("hello bytes")) {
		t.Fatalf("size: got %d", res.SizeBytes)
	}
	if !strings.HasPrefix(res.Key, "123456/") {
		t.Fatalf("key not namespaced by owner: %q", res.Key)
	}
	if !strings.HasSuffix(res.Key, "-report.pdf") {
		t.Fatalf("key lost original name: %q", res.Key)
	}

	ok, err := s.Exists(ctx, res.Key)
	if err != nil || !ok {
		t.Fatalf("exists: ok=%v err=%v", ok, err)
	}

	rc, err := s.Open(ctx, res.Key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello bytes" {
		t.Fatalf("content: got %q", data)
	}
}

func TestPutGeneratesUniqueKeys(t *testing.T) {
	s := testLocalStore(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 25; i++ {
		res, err := s.Put(ctx, "123456", strings.NewReader("x"), "same.txt")
		if err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
		if seen[res.Key] {
			t.Fatalf("duplicate key generated: %q", res.Key)
		}
		seen[res.Key] = true
	}
}

func TestOpenMissingIsNotFound(t *testing.T) {
	s := testLocalStore(t)
	_, err := s.Open(context.Background(), "123456/absent.bin")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := testLocalStore(t)
	ctx := context.Background()

	res, err := s.Put(ctx, "123456", strings.NewReader("bye"), "gone.txt")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Delete(ctx, res.Key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, res.Key); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	ok, err := s.Exists(ctx, res.Key)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatal("blob still present after delete")
	}
}

func TestKeyValidation(t *testing.T) {
	s := testLocalStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "/abs/path", "../escape", "a/../../b"} {
		if _, err := s.Open(ctx, key); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("open %q: expected validation error, got %v", key, err)
		}
	}

	if _, err := s.Put(ctx, "../123456", strings.NewReader("x"), "f"); err == nil {
		t.Fatal("expected invalid owner id error")
	}
}

func TestSanitizeStoredName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{"we ird name!.png", "we_ird_name_.png"},
		{"", "upload"},
		{"...", "upload"},
	}
	for _, tc := range cases {
		if got := sanitizeStoredName(tc.in); got != tc.want {
			t.Errorf("sanitizeStoredName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
