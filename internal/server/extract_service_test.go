package server

import (
	"context"
	"io"
	"net/http"
	"reflect"
	"testing"
)

// passthroughExtractor treats the blob bytes as plain text.
type passthroughExtractor struct{}

func (passthroughExtractor) ExtractText(_ context.Context, r io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(r)
	return string(b), err
}

func TestExtractWithoutExtractorUnavailable(t *testing.T) {
	env := newTestEnv(t)

	outcome := env.uploadText(t, "111111", "", "call me at (555) 123-4567")
	_, err := env.server.extractService.Extract(context.Background(), "111111", outcome.Files[0].FileID)
	assertStatus(t, err, http.StatusServiceUnavailable)
}

func TestExtractPersistsNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "", "call (555) 123-4567 or 555.987.6543")
	fileID := outcome.Files[0].FileID

	svc := NewExtractService(env.store, env.blobs, passthroughExtractor{})
	numbers, err := svc.Extract(ctx, "111111", fileID)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := []string{"15551234567", "15559876543"}
	if !reflect.DeepEqual(numbers, want) {
		t.Fatalf("numbers = %v, want %v", numbers, want)
	}

	file, err := env.store.GetFile(ctx, fileID)
	if err != nil {
		t.Fatalf("get file: %v", err)
	}
	if !reflect.DeepEqual(file.ExtractedNumbers, want) {
		t.Fatalf("stored numbers = %v, want %v", file.ExtractedNumbers, want)
	}
}

func TestExtractReplacesPreviousNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "", "no numbers here")
	fileID := outcome.Files[0].FileID
	if err := env.store.UpdateFileExtractedNumbers(ctx, fileID, []string{"15550000000"}); err != nil {
		t.Fatalf("seed numbers: %v", err)
	}

	svc := NewExtractService(env.store, env.blobs, passthroughExtractor{})
	numbers, err := svc.Extract(ctx, "111111", fileID)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(numbers) != 0 {
		t.Fatalf("numbers = %v, want none", numbers)
	}

	file, err := env.store.GetFile(ctx, fileID)
	if err != nil {
		t.Fatalf("get file: %v", err)
	}
	if len(file.ExtractedNumbers) != 0 {
		t.Fatalf("stored numbers = %v, want none", file.ExtractedNumbers)
	}
}

func TestExtractForeignOwnerLooksMissing(t *testing.T) {
	env := newTestEnv(t)

	outcome := env.uploadText(t, "111111", "", "(555) 123-4567")
	svc := NewExtractService(env.store, env.blobs, passthroughExtractor{})
	_, err := svc.Extract(context.Background(), "222222", outcome.Files[0].FileID)
	assertStatus(t, err, http.StatusNotFound)
}
