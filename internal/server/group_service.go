package server

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"filedrop/internal/blobstore"
	"filedrop/internal/models"
	"filedrop/internal/store"
)

// GroupService assembles the per-owner grouped display view.
type GroupService struct {
	items  store.ItemStore
	blobs  blobstore.BlobStore
	logger *slog.Logger
}

// NewGroupService constructs a GroupService.
func NewGroupService(items store.ItemStore, blobs blobstore.BlobStore, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupService{items: items, blobs: blobs, logger: logger}
}

// ListGrouped returns the owner's items partitioned into groups,
// ordered by each group's earliest member timestamp, oldest first.
// File records whose backing blob has gone missing are purged and
// omitted rather than served broken.
func (s *GroupService) ListGrouped(ctx context.Context, ownerID string) ([]models.Group, error) {
	if s == nil || s.items == nil || s.blobs == nil {
		return nil, internalError(fmt.Errorf("group service is not configured"))
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, internalError(fmt.Errorf("owner id is required"))
	}

	files, err := s.items.ListFilesByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeFailure(err)
	}
	notes, err := s.items.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeFailure(err)
	}

	files, err = s.healFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	return foldGroups(files, notes), nil
}

// healFiles drops records whose blob is missing, deleting the orphaned
// metadata as a side effect of the read.
func (s *GroupService) healFiles(ctx context.Context, files []models.FileItem) ([]models.FileItem, error) {
	healthy := files[:0]
	for _, file := range files {
		ok, err := s.blobs.Exists(ctx, file.StorageKey)
		if err != nil {
			return nil, storageIO(err)
		}
		if !ok {
			s.logger.Warn("purging orphaned file record",
				"file_id", file.ID, "storage_key", file.StorageKey)
			if err := s.items.DeleteFile(ctx, file.ID); err != nil {
				return nil, storeFailure(err)
			}
			continue
		}
		healthy = append(healthy, file)
	}
	return healthy, nil
}

// foldGroups partitions records by effective group key. Inputs arrive
// oldest first with stable ties, so appending members preserves the
// deterministic order the store returned, and the first member seen
// for a key carries its earliest timestamp.
func foldGroups(files []models.FileItem, notes []models.NoteItem) []models.Group {
	index := map[string]int{}
	groups := []models.Group{}

	groupAt := func(key models.GroupKey, first models.Group) int {
		k := key.String()
		if i, ok := index[k]; ok {
			return i
		}
		index[k] = len(groups)
		first.Key = k
		groups = append(groups, first)
		return len(groups) - 1
	}

	for _, file := range files {
		i := groupAt(models.GroupKeyForFile(file), models.Group{CreatedAt: file.CreatedAt})
		groups[i].Files = append(groups[i].Files, file)
		if file.CreatedAt.Before(groups[i].CreatedAt) {
			groups[i].CreatedAt = file.CreatedAt
		}
	}
	for _, note := range notes {
		i := groupAt(models.GroupKeyForNote(note), models.Group{CreatedAt: note.CreatedAt})
		groups[i].Notes = append(groups[i].Notes, note)
		if note.CreatedAt.Before(groups[i].CreatedAt) {
			groups[i].CreatedAt = note.CreatedAt
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
	return groups
}
