package server

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"filedrop/internal/blobstore"
	"filedrop/internal/store"
)

type testEnv struct {
	server *Server
	store  *store.Store
	blobs  *blobstore.LocalStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	blobs, err := blobstore.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("open test blob store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New("127.0.0.1:0", st, blobs, nil, logger, Options{})
	return &testEnv{server: srv, store: st, blobs: blobs}
}

// uploadText runs one batch upload of plain-text files plus an
// optional note and fails the test on any member error.
func (env *testEnv) uploadText(t *testing.T, ownerID, note string, contents ...string) *UploadOutcome {
	t.Helper()

	files := make([]UploadFile, 0, len(contents))
	for i, body := range contents {
		files = append(files, UploadFile{
			Reader:            strings.NewReader(body),
			OriginalName:      "file-" + string(rune('a'+i)) + ".txt",
			DeclaredMediaType: "text/plain",
		})
	}
	outcome, err := env.server.uploadService.Upload(context.Background(), ownerID, files, note)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	for _, fo := range outcome.Files {
		if fo.Err != nil {
			t.Fatalf("upload %s: %v", fo.OriginalName, fo.Err)
		}
	}
	if outcome.NoteErr != nil {
		t.Fatalf("store note: %v", outcome.NoteErr)
	}
	return outcome
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", want)
	}
	if got := httpStatusFromError(err); got != want {
		t.Fatalf("status = %d, want %d (error: %v)", got, want, err)
	}
}
