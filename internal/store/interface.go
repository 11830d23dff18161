package store

import (
	"context"
	"time"

	"filedrop/internal/models"
)

// FileStore is the file-record persistence surface used by services.
type FileStore interface {
	FileExists(id string) (bool, error)
	CreateFile(ctx context.Context, file *models.FileItem) error
	GetFile(ctx context.Context, id string) (*models.FileItem, error)
	ListFilesByOwner(ctx context.Context, ownerID string) ([]models.FileItem, error)
	ListFilesByGroup(ctx context.Context, ownerID, groupID string) ([]models.FileItem, error)
	DeleteFile(ctx context.Context, id string) error
	UpdateFileExtractedNumbers(ctx context.Context, id string, numbers []string) error
}

// NoteStore is the note-record persistence surface used by services.
type NoteStore interface {
	NoteExists(id string) (bool, error)
	CreateNote(ctx context.Context, note *models.NoteItem) error
	GetNote(ctx context.Context, id string) (*models.NoteItem, error)
	ListNotesByOwner(ctx context.Context, ownerID string) ([]models.NoteItem, error)
	ListNotesByGroup(ctx context.Context, ownerID, groupID string) ([]models.NoteItem, error)
	DeleteNote(ctx context.Context, id string) error
}

// ItemStore combines both record kinds.
type ItemStore interface {
	FileStore
	NoteStore
}

// AuthStore is the account/session persistence surface.
type AuthStore interface {
	GetAccountByCode(ctx context.Context, code string) (*Account, error)
	CreateAccount(ctx context.Context, code, passphraseHash string, now time.Time) (*Account, error)
	CreateSession(ctx context.Context, accountID, tokenHash string, expiresAt, now time.Time) error
	GetAccountBySessionTokenHash(ctx context.Context, tokenHash string, now time.Time) (*Account, error)
	RevokeSessionByTokenHash(ctx context.Context, tokenHash string, now time.Time) error
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

var (
	_ ItemStore = (*Store)(nil)
	_ AuthStore = (*Store)(nil)
)
