package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"filedrop/internal/blobstore"
)

func TestDeleteItemRemovesBlobAndRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "", "doomed")
	fileID := outcome.Files[0].FileID
	file, err := env.store.GetFile(ctx, fileID)
	if err != nil {
		t.Fatalf("get file: %v", err)
	}

	if err := env.server.deleteService.DeleteItem(ctx, "111111", fileID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	if got, err := env.store.GetFile(ctx, fileID); err != nil || got != nil {
		t.Fatalf("record still present (file=%v err=%v)", got, err)
	}
	if _, err := env.blobs.Open(ctx, file.StorageKey); !errors.Is(err, blobstore.ErrNotFound) {
		t.Fatalf("blob still present, open err = %v", err)
	}
}

func TestDeleteItemForeignOwnerLooksMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "", "mine")
	fileID := outcome.Files[0].FileID

	err := env.server.deleteService.DeleteItem(ctx, "222222", fileID)
	assertStatus(t, err, http.StatusNotFound)

	// The record is untouched.
	if got, gerr := env.store.GetFile(ctx, fileID); gerr != nil || got == nil {
		t.Fatalf("record missing after foreign delete (file=%v err=%v)", got, gerr)
	}
}

func TestDeleteItemUnknownID(t *testing.T) {
	env := newTestEnv(t)

	err := env.server.deleteService.DeleteItem(context.Background(), "111111", "fi-zzzzzz")
	assertStatus(t, err, http.StatusNotFound)
}

func TestDeleteItemSurvivesMissingBlob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "", "orphaned")
	fileID := outcome.Files[0].FileID
	file, err := env.store.GetFile(ctx, fileID)
	if err != nil {
		t.Fatalf("get file: %v", err)
	}
	if err := env.blobs.Delete(ctx, file.StorageKey); err != nil {
		t.Fatalf("delete blob: %v", err)
	}

	// An already-missing blob must not block the record cleanup.
	if err := env.server.deleteService.DeleteItem(ctx, "111111", fileID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if got, gerr := env.store.GetFile(ctx, fileID); gerr != nil || got != nil {
		t.Fatalf("record still present (file=%v err=%v)", got, gerr)
	}
}

func TestDeleteNoteByItemID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "to be removed")
	if err := env.server.deleteService.DeleteItem(ctx, "111111", outcome.NoteID); err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if got, err := env.store.GetNote(ctx, outcome.NoteID); err != nil || got != nil {
		t.Fatalf("note still present (note=%v err=%v)", got, err)
	}
}

func TestDeleteGroupRemovesEveryMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "group note", "one", "two", "three")
	keep := env.uploadText(t, "111111", "", "unrelated")

	result, err := env.server.deleteService.DeleteGroup(ctx, "111111", outcome.GroupID)
	if err != nil {
		t.Fatalf("delete group: %v", err)
	}
	if result.Deleted != 4 || len(result.Failed) != 0 {
		t.Fatalf("deleted %d with %d failures, want 4 and 0", result.Deleted, len(result.Failed))
	}

	files, err := env.store.ListFilesByOwner(ctx, "111111")
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 1 || files[0].ID != keep.Files[0].FileID {
		t.Fatalf("unexpected survivors: %+v", files)
	}
	notes, err := env.store.ListNotesByOwner(ctx, "111111")
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("notes survived group delete: %+v", notes)
	}
}

func TestDeleteGroupSingletonKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "", "solo")
	fileID := outcome.Files[0].FileID

	result, err := env.server.deleteService.DeleteGroup(ctx, "111111", "single-"+fileID)
	if err != nil {
		t.Fatalf("delete singleton group: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("deleted %d, want 1", result.Deleted)
	}
	if got, gerr := env.store.GetFile(ctx, fileID); gerr != nil || got != nil {
		t.Fatalf("record still present (file=%v err=%v)", got, gerr)
	}
}

func TestDeleteGroupForeignOwnerLooksMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	outcome := env.uploadText(t, "111111", "", "mine")

	_, err := env.server.deleteService.DeleteGroup(ctx, "222222", outcome.GroupID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestDeleteGroupInvalidKey(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.server.deleteService.DeleteGroup(context.Background(), "111111", "single-")
	assertStatus(t, err, http.StatusBadRequest)
}
