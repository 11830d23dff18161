package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"filedrop/internal/blobstore"
	"filedrop/internal/models"
	"filedrop/internal/store"
)

const (
	sniffHeaderSize         = 3072
	fallbackUploadMediaType = "application/octet-stream"
)

// UploadFile describes one incoming file in a batch.
type UploadFile struct {
	Reader            io.Reader
	OriginalName      string
	DeclaredMediaType string
}

// UploadFileOutcome reports one file's result. Err is nil on success.
type UploadFileOutcome struct {
	OriginalName string
	FileID       string
	Err          error
}

// UploadOutcome reports a whole batch. Partial success is expected:
// the batch never rolls back members that already succeeded.
type UploadOutcome struct {
	GroupID string
	Files   []UploadFileOutcome
	NoteID  string
	NoteErr error
}

// UploadPolicy tunes batch limits.
type UploadPolicy struct {
	MaxFilesPerBatch  int
	Concurrency       int
	AllowedMediaTypes []string
}

// UploadService orchestrates multi-item uploads: one fresh group id
// per batch, blob write then record create per file, all files
// attempted independently and concurrently.
type UploadService struct {
	items  store.ItemStore
	blobs  blobstore.BlobStore
	policy UploadPolicy

	allowedMediaTypes map[string]struct{}
}

// NewUploadService constructs an UploadService.
func NewUploadService(items store.ItemStore, blobs blobstore.BlobStore, policy UploadPolicy) *UploadService {
	if policy.MaxFilesPerBatch <= 0 {
		policy.MaxFilesPerBatch = 10
	}
	if policy.Concurrency <= 0 {
		policy.Concurrency = 4
	}
	svc := &UploadService{items: items, blobs: blobs, policy: policy}
	if len(policy.AllowedMediaTypes) > 0 {
		svc.allowedMediaTypes = map[string]struct{}{}
		for _, raw := range policy.AllowedMediaTypes {
			mediaType := strings.ToLower(strings.TrimSpace(raw))
			if mediaType != "" {
				svc.allowedMediaTypes[mediaType] = struct{}{}
			}
		}
	}
	return svc
}

// Upload stores a batch for ownerID and returns the per-member
// outcome. A batch with no files and a blank note is rejected.
func (s *UploadService) Upload(ctx context.Context, ownerID string, files []UploadFile, noteText string) (*UploadOutcome, error) {
	if s == nil || s.items == nil || s.blobs == nil {
		return nil, internalError(fmt.Errorf("upload service is not configured"))
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, internalError(fmt.Errorf("owner id is required"))
	}

	noteText = strings.TrimSpace(noteText)
	if len(files) == 0 && noteText == "" {
		return nil, emptyBatch()
	}
	if len(files) > s.policy.MaxFilesPerBatch {
		return nil, badRequestCode(fmt.Errorf("at most %d files per batch", s.policy.MaxFilesPerBatch), ErrCodeTooManyFiles)
	}

	outcome := &UploadOutcome{
		GroupID: uuid.NewString(),
		Files:   make([]UploadFileOutcome, len(files)),
	}

	// Files in one batch have no ordering dependency; run them
	// concurrently. Each member records its own result: one failure
	// must not stop or roll back the rest.
	var g errgroup.Group
	g.SetLimit(s.policy.Concurrency)
	for i := range files {
		g.Go(func() error {
			fileID, err := s.storeOne(ctx, ownerID, outcome.GroupID, files[i])
			outcome.Files[i] = UploadFileOutcome{
				OriginalName: files[i].OriginalName,
				FileID:       fileID,
				Err:          err,
			}
			return nil
		})
	}
	_ = g.Wait()

	if noteText != "" {
		noteID, err := s.storeNote(ctx, ownerID, outcome.GroupID, noteText)
		outcome.NoteID = noteID
		outcome.NoteErr = err
	}

	return outcome, nil
}

func (s *UploadService) storeOne(ctx context.Context, ownerID, groupID string, file UploadFile) (string, error) {
	if file.Reader == nil {
		return "", badRequest(fmt.Errorf("file content is required"))
	}

	mediaType, reader, err := resolveMediaType(file.DeclaredMediaType, file.Reader)
	if err != nil {
		return "", storageIO(err)
	}
	if s.allowedMediaTypes != nil {
		if _, ok := s.allowedMediaTypes[mediaType]; !ok {
			return "", badRequest(fmt.Errorf("media type %s is not allowed", mediaType))
		}
	}

	put, err := s.blobs.Put(ctx, ownerID, reader, file.OriginalName)
	if err != nil {
		return "", storageIO(err)
	}

	fileID, err := store.GenerateFileID(s.items.FileExists)
	if err != nil {
		_ = s.blobs.Delete(ctx, put.Key)
		return "", storeFailure(err)
	}

	record := &models.FileItem{
		ID:           fileID,
		OwnerID:      ownerID,
		GroupID:      groupID,
		StorageKey:   put.Key,
		OriginalName: file.OriginalName,
		SizeBytes:    put.SizeBytes,
		MediaType:    mediaType,
		Category:     models.CategoryForMediaType(mediaType),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.items.CreateFile(ctx, record); err != nil {
		// The blob is unreferenced without its record; remove it so a
		// metadata failure cannot leak bytes.
		_ = s.blobs.Delete(ctx, put.Key)
		return "", storeFailure(err)
	}

	return fileID, nil
}

func (s *UploadService) storeNote(ctx context.Context, ownerID, groupID, text string) (string, error) {
	noteID, err := store.GenerateNoteID(s.items.NoteExists)
	if err != nil {
		return "", storeFailure(err)
	}
	note := &models.NoteItem{
		ID:        noteID,
		OwnerID:   ownerID,
		GroupID:   groupID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.items.CreateNote(ctx, note); err != nil {
		return "", storeFailure(err)
	}
	return noteID, nil
}

// resolveMediaType prefers the declared type; a missing or generic
// declaration falls back to content sniffing.
func resolveMediaType(declared string, r io.Reader) (string, io.Reader, error) {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != fallbackUploadMediaType {
		return declared, r, nil
	}

	head := make([]byte, sniffHeaderSize)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head = head[:n]

	sniffed := mimetype.Detect(head).String()
	if i := strings.IndexByte(sniffed, ';'); i >= 0 {
		sniffed = strings.TrimSpace(sniffed[:i])
	}
	if sniffed == "" {
		sniffed = fallbackUploadMediaType
	}
	return sniffed, io.MultiReader(bytes.NewReader(head), r), nil
}
