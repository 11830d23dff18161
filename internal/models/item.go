package models

import (
	"fmt"
	"strings"
	"time"
)

// ItemKind distinguishes the two stored record variants.
type ItemKind string

const (
	ItemKindFile ItemKind = "file"
	ItemKindNote ItemKind = "note"
)

// FileCategory is the display category derived from a file's media type.
type FileCategory string

const (
	CategoryImage    FileCategory = "image"
	CategoryDocument FileCategory = "document"
	CategoryVideo    FileCategory = "video"
	CategoryAudio    FileCategory = "audio"
	CategoryOther    FileCategory = "other"
)

var documentMediaTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/rtf": {},
}

// CategoryForMediaType maps a media type to its display category.
func CategoryForMediaType(mediaType string) FileCategory {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return CategoryImage
	case strings.HasPrefix(mediaType, "video/"):
		return CategoryVideo
	case strings.HasPrefix(mediaType, "audio/"):
		return CategoryAudio
	case strings.HasPrefix(mediaType, "text/"):
		return CategoryDocument
	}
	if _, ok := documentMediaTypes[mediaType]; ok {
		return CategoryDocument
	}
	return CategoryOther
}

// ParseFileCategory validates a stored category value.
func ParseFileCategory(raw string) (FileCategory, error) {
	value := FileCategory(strings.ToLower(strings.TrimSpace(raw)))
	switch value {
	case CategoryImage, CategoryDocument, CategoryVideo, CategoryAudio, CategoryOther:
		return value, nil
	}
	return "", fmt.Errorf("invalid file category: %s", raw)
}

// FileItem is the persisted metadata record for one uploaded file.
// The bytes themselves live in the blob store under StorageKey.
type FileItem struct {
	ID               string       `json:"id"`
	OwnerID          string       `json:"owner_id"`
	GroupID          string       `json:"group_id,omitempty"`
	StorageKey       string       `json:"storage_key"`
	OriginalName     string       `json:"original_name"`
	SizeBytes        int64        `json:"size_bytes"`
	MediaType        string       `json:"media_type"`
	Category         FileCategory `json:"category"`
	ExtractedNumbers []string     `json:"extracted_numbers,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// NoteItem is the persisted metadata record for one short text note.
type NoteItem struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	GroupID   string    `json:"group_id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
