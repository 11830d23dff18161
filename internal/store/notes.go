package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"filedrop/internal/models"
)

const noteColumns = "id, owner_id, group_id, body, created_at"

// NoteExists checks whether a note record exists by id.
func (s *Store) NoteExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM notes WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateNote inserts one note record.
func (s *Store) CreateNote(ctx context.Context, note *models.NoteItem) error {
	if note == nil {
		return fmt.Errorf("note record is required")
	}
	if strings.TrimSpace(note.ID) == "" || strings.TrimSpace(note.OwnerID) == "" {
		return fmt.Errorf("note id and owner id are required")
	}
	if strings.TrimSpace(note.Text) == "" {
		return fmt.Errorf("note text is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`,
		note.ID,
		note.OwnerID,
		nullableString(note.GroupID),
		note.Text,
		formatTime(note.CreatedAt),
	)
	return err
}

// GetNote returns one note record by id, or nil when absent.
func (s *Store) GetNote(ctx context.Context, id string) (*models.NoteItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	return scanNote(row)
}

// ListNotesByOwner returns all note records for one owner, oldest
// first; ties keep insertion order.
func (s *Store) ListNotesByOwner(ctx context.Context, ownerID string) ([]models.NoteItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE owner_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

// ListNotesByGroup returns the owner's note records in one group.
func (s *Store) ListNotesByGroup(ctx context.Context, ownerID, groupID string) ([]models.NoteItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE owner_id = ? AND group_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, ownerID, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotes(rows)
}

// DeleteNote deletes one note record.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	return err
}

func scanNote(scanner rowScanner) (*models.NoteItem, error) {
	var (
		note      models.NoteItem
		groupID   sql.NullString
		createdAt string
	)
	err := scanner.Scan(&note.ID, &note.OwnerID, &groupID, &note.Text, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	note.GroupID = groupID.String
	if note.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]models.NoteItem, error) {
	notes := []models.NoteItem{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		if note == nil {
			continue
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}
