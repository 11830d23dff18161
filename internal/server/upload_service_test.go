package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestUploadBatchSharesOneGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "shared note", "alpha", "beta", "gamma")
	if outcome.GroupID == "" {
		t.Fatal("expected a group id")
	}
	if outcome.NoteID == "" {
		t.Fatal("expected a note id")
	}

	for _, fo := range outcome.Files {
		file, err := env.store.GetFile(ctx, fo.FileID)
		if err != nil {
			t.Fatalf("get file: %v", err)
		}
		if file.GroupID != outcome.GroupID {
			t.Fatalf("file %s group = %q, want %q", fo.FileID, file.GroupID, outcome.GroupID)
		}
	}
	note, err := env.store.GetNote(ctx, outcome.NoteID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if note.GroupID != outcome.GroupID {
		t.Fatalf("note group = %q, want %q", note.GroupID, outcome.GroupID)
	}
}

func TestUploadNewBatchNewGroup(t *testing.T) {
	env := newTestEnv(t)

	first := env.uploadText(t, "111111", "", "one")
	second := env.uploadText(t, "111111", "", "two")
	if first.GroupID == second.GroupID {
		t.Fatal("separate batches must not share a group id")
	}
}

func TestUploadEmptyBatchRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.server.uploadService.Upload(context.Background(), "111111", nil, "   ")
	assertStatus(t, err, http.StatusBadRequest)
	if errorNumericCode(http.StatusBadRequest, err) != ErrCodeEmptyBatch {
		t.Fatalf("error code = %d, want %d", errorNumericCode(http.StatusBadRequest, err), ErrCodeEmptyBatch)
	}
}

func TestUploadTooManyFilesRejected(t *testing.T) {
	env := newTestEnv(t)

	files := make([]UploadFile, 11)
	for i := range files {
		files[i] = UploadFile{Reader: strings.NewReader("x"), OriginalName: "f.txt"}
	}
	_, err := env.server.uploadService.Upload(context.Background(), "111111", files, "")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestUploadPartialFailureKeepsSuccesses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	files := []UploadFile{
		{Reader: strings.NewReader("good"), OriginalName: "good.txt", DeclaredMediaType: "text/plain"},
		{Reader: nil, OriginalName: "broken.txt"},
		{Reader: strings.NewReader("also good"), OriginalName: "good2.txt", DeclaredMediaType: "text/plain"},
	}
	outcome, err := env.server.uploadService.Upload(ctx, "111111", files, "note survives too")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if outcome.Files[0].Err != nil || outcome.Files[2].Err != nil {
		t.Fatalf("healthy files failed: %v, %v", outcome.Files[0].Err, outcome.Files[2].Err)
	}
	if outcome.Files[1].Err == nil {
		t.Fatal("expected the broken file to fail")
	}
	if outcome.NoteErr != nil {
		t.Fatalf("note failed: %v", outcome.NoteErr)
	}

	stored, err := env.store.ListFilesByOwner(ctx, "111111")
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d files, want 2", len(stored))
	}
}

func TestUploadNoteOnlyBatch(t *testing.T) {
	env := newTestEnv(t)

	outcome := env.uploadText(t, "111111", "just a note")
	if outcome.NoteID == "" {
		t.Fatal("expected a note id")
	}
	if len(outcome.Files) != 0 {
		t.Fatalf("expected no file outcomes, got %d", len(outcome.Files))
	}
}

func TestUploadDerivesCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	files := []UploadFile{
		{Reader: strings.NewReader("# notes"), OriginalName: "notes.md", DeclaredMediaType: "text/markdown"},
		{Reader: strings.NewReader("\x89PNG\r\n\x1a\n"), OriginalName: "pic.png", DeclaredMediaType: "image/png"},
	}
	outcome, err := env.server.uploadService.Upload(ctx, "111111", files, "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	wantCategory := []string{"document", "image"}
	for i, fo := range outcome.Files {
		if fo.Err != nil {
			t.Fatalf("upload %s: %v", fo.OriginalName, fo.Err)
		}
		file, err := env.store.GetFile(ctx, fo.FileID)
		if err != nil {
			t.Fatalf("get file: %v", err)
		}
		if string(file.Category) != wantCategory[i] {
			t.Fatalf("%s category = %q, want %q", fo.OriginalName, file.Category, wantCategory[i])
		}
	}
}

func TestResolveMediaTypeSniffsGenericDeclaration(t *testing.T) {
	body := "%PDF-1.4 minimal"
	mediaType, r, err := resolveMediaType("application/octet-stream", strings.NewReader(body))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if mediaType != "application/pdf" {
		t.Fatalf("media type = %q, want application/pdf", mediaType)
	}

	// The sniffed head must be replayed, not consumed.
	buf := make([]byte, len(body))
	n, _ := r.Read(buf)
	if got := string(buf[:n]); got != body {
		t.Fatalf("reader replays %q, want %q", got, body)
	}
}

func TestResolveMediaTypeKeepsDeclaration(t *testing.T) {
	mediaType, _, err := resolveMediaType("Text/Plain; charset=utf-8", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if mediaType != "text/plain" {
		t.Fatalf("media type = %q, want text/plain", mediaType)
	}
}
