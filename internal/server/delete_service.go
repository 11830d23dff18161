package server

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"filedrop/internal/blobstore"
	"filedrop/internal/models"
	"filedrop/internal/store"
)

const deleteConcurrency = 4

// DeleteService removes items and groups, keeping metadata and blob
// state consistent: the blob goes first, so a crash mid-operation
// leaves at worst a dangling record for the read path to heal, never
// an unreferenced blob.
type DeleteService struct {
	items store.ItemStore
	blobs blobstore.BlobStore
}

// GroupDeleteOutcome reports a best-effort group deletion.
type GroupDeleteOutcome struct {
	Deleted int
	Failed  []string
}

// NewDeleteService constructs a DeleteService.
func NewDeleteService(items store.ItemStore, blobs blobstore.BlobStore) *DeleteService {
	return &DeleteService{items: items, blobs: blobs}
}

// DeleteItem removes one record owned by ownerID, plus its blob for
// file records. A missing record and a foreign-owned record are the
// same NotFound answer.
func (s *DeleteService) DeleteItem(ctx context.Context, ownerID, recordID string) error {
	if s == nil || s.items == nil || s.blobs == nil {
		return internalError(fmt.Errorf("delete service is not configured"))
	}
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return badRequestCode(fmt.Errorf("record id is required"), ErrCodeInvalidID)
	}

	file, err := s.items.GetFile(ctx, recordID)
	if err != nil {
		return storeFailure(err)
	}
	if file != nil {
		if file.OwnerID != ownerID {
			return notFound(fmt.Errorf("item %s not found", recordID))
		}
		return s.deleteFile(ctx, file)
	}

	note, err := s.items.GetNote(ctx, recordID)
	if err != nil {
		return storeFailure(err)
	}
	if note == nil || note.OwnerID != ownerID {
		return notFound(fmt.Errorf("item %s not found", recordID))
	}
	if err := s.items.DeleteNote(ctx, note.ID); err != nil {
		return storeFailure(err)
	}
	return nil
}

// DeleteGroup removes every member of a group. Singleton keys decode
// to their embedded record id. Member deletions are attempted
// independently: one failure never stops the rest.
func (s *DeleteService) DeleteGroup(ctx context.Context, ownerID, rawKey string) (*GroupDeleteOutcome, error) {
	if s == nil || s.items == nil || s.blobs == nil {
		return nil, internalError(fmt.Errorf("delete service is not configured"))
	}

	key, err := models.ParseGroupKey(rawKey)
	if err != nil {
		return nil, badRequestCode(err, ErrCodeInvalidGroupKey)
	}

	if key.IsSingleton() {
		if err := s.DeleteItem(ctx, ownerID, key.RecordID()); err != nil {
			return nil, err
		}
		return &GroupDeleteOutcome{Deleted: 1}, nil
	}

	files, err := s.items.ListFilesByGroup(ctx, ownerID, key.GroupID())
	if err != nil {
		return nil, storeFailure(err)
	}
	notes, err := s.items.ListNotesByGroup(ctx, ownerID, key.GroupID())
	if err != nil {
		return nil, storeFailure(err)
	}
	if len(files) == 0 && len(notes) == 0 {
		return nil, notFoundCode(fmt.Errorf("group %s not found", key.String()), ErrCodeGroupNotFound)
	}

	outcome := &GroupDeleteOutcome{}
	var mu sync.Mutex
	record := func(id string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			outcome.Failed = append(outcome.Failed, id)
			return
		}
		outcome.Deleted++
	}

	var g errgroup.Group
	g.SetLimit(deleteConcurrency)
	for i := range files {
		g.Go(func() error {
			record(files[i].ID, s.deleteFile(ctx, &files[i]))
			return nil
		})
	}
	for i := range notes {
		g.Go(func() error {
			record(notes[i].ID, s.items.DeleteNote(ctx, notes[i].ID))
			return nil
		})
	}
	_ = g.Wait()

	return outcome, nil
}

// deleteFile removes blob then record. The blob delete is idempotent,
// so an already-missing blob does not block the record cleanup.
func (s *DeleteService) deleteFile(ctx context.Context, file *models.FileItem) error {
	if err := s.blobs.Delete(ctx, file.StorageKey); err != nil {
		return storageIO(err)
	}
	if err := s.items.DeleteFile(ctx, file.ID); err != nil {
		return storeFailure(err)
	}
	return nil
}
