package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"filedrop/internal/blobstore"
	"filedrop/internal/extract"
	"filedrop/internal/store"
)

// TextExtractor turns a stored blob into plain text for the pattern
// engine. Implementations are pluggable; the server runs without one
// and reports extraction as unavailable.
type TextExtractor interface {
	ExtractText(ctx context.Context, r io.Reader, mediaType string) (string, error)
}

// ExtractService runs phone-number extraction over a file's text and
// persists the result on the file record.
type ExtractService struct {
	files     store.FileStore
	blobs     blobstore.BlobStore
	extractor TextExtractor
}

// NewExtractService constructs an ExtractService. extractor may be
// nil, in which case every extraction request fails with a 503.
func NewExtractService(files store.FileStore, blobs blobstore.BlobStore, extractor TextExtractor) *ExtractService {
	return &ExtractService{files: files, blobs: blobs, extractor: extractor}
}

// Extract pulls the file's text through the configured extractor,
// scans it for phone numbers, and replaces the stored numbers with
// the new result. Missing and foreign-owned files both come back as
// NotFound.
func (s *ExtractService) Extract(ctx context.Context, ownerID, fileID string) ([]string, error) {
	if s == nil || s.files == nil || s.blobs == nil {
		return nil, internalError(fmt.Errorf("extract service is not configured"))
	}
	if s.extractor == nil {
		return nil, extractionUnavailable()
	}
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return nil, badRequestCode(fmt.Errorf("file id is required"), ErrCodeInvalidID)
	}

	file, err := s.files.GetFile(ctx, fileID)
	if err != nil {
		return nil, storeFailure(err)
	}
	if file == nil || file.OwnerID != ownerID {
		return nil, notFound(fmt.Errorf("file %s not found", fileID))
	}

	rc, err := s.blobs.Open(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, notFound(fmt.Errorf("file %s not found", fileID))
		}
		return nil, storageIO(err)
	}
	defer rc.Close()

	text, err := s.extractor.ExtractText(ctx, rc, file.MediaType)
	if err != nil {
		return nil, internalError(fmt.Errorf("extract text from %s: %w", fileID, err))
	}

	numbers := extract.PhoneNumbers(text)
	if err := s.files.UpdateFileExtractedNumbers(ctx, fileID, numbers); err != nil {
		return nil, storeFailure(err)
	}
	return numbers, nil
}
