package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"filedrop/internal/models"
)

const fileColumns = "id, owner_id, group_id, storage_key, original_name, size_bytes, media_type, category, extracted_numbers, created_at"

// FileExists checks whether a file record exists by id.
func (s *Store) FileExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM files WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateFile inserts one file record.
func (s *Store) CreateFile(ctx context.Context, file *models.FileItem) error {
	if file == nil {
		return fmt.Errorf("file record is required")
	}
	if strings.TrimSpace(file.ID) == "" || strings.TrimSpace(file.OwnerID) == "" {
		return fmt.Errorf("file id and owner id are required")
	}
	numbersJSON, err := numbersToJSON(file.ExtractedNumbers)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO files (`+fileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		file.ID,
		file.OwnerID,
		nullableString(file.GroupID),
		file.StorageKey,
		file.OriginalName,
		file.SizeBytes,
		file.MediaType,
		string(file.Category),
		numbersJSON,
		formatTime(file.CreatedAt),
	)
	return err
}

// GetFile returns one file record by id, or nil when absent.
func (s *Store) GetFile(ctx context.Context, id string) (*models.FileItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	return scanFile(row)
}

// ListFilesByOwner returns all file records for one owner, oldest
// first; ties keep insertion order.
func (s *Store) ListFilesByOwner(ctx context.Context, ownerID string) ([]models.FileItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fileColumns+` FROM files
		WHERE owner_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

// ListFilesByGroup returns the owner's file records in one group.
func (s *Store) ListFilesByGroup(ctx context.Context, ownerID, groupID string) ([]models.FileItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+fileColumns+` FROM files
		WHERE owner_id = ? AND group_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, ownerID, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

// DeleteFile deletes one file record.
func (s *Store) DeleteFile(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	return err
}

// UpdateFileExtractedNumbers replaces the stored extraction result.
func (s *Store) UpdateFileExtractedNumbers(ctx context.Context, id string, numbers []string) error {
	numbersJSON, err := numbersToJSON(numbers)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE files SET extracted_numbers = ? WHERE id = ?", numbersJSON, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(scanner rowScanner) (*models.FileItem, error) {
	var (
		file        models.FileItem
		groupID     sql.NullString
		category    string
		numbersJSON string
		createdAt   string
	)
	err := scanner.Scan(
		&file.ID,
		&file.OwnerID,
		&groupID,
		&file.StorageKey,
		&file.OriginalName,
		&file.SizeBytes,
		&file.MediaType,
		&category,
		&numbersJSON,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	file.GroupID = groupID.String
	parsedCategory, err := models.ParseFileCategory(category)
	if err != nil {
		return nil, err
	}
	file.Category = parsedCategory
	if file.ExtractedNumbers, err = numbersFromJSON(numbersJSON); err != nil {
		return nil, err
	}
	if file.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &file, nil
}

func collectFiles(rows *sql.Rows) ([]models.FileItem, error) {
	files := []models.FileItem{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		if file == nil {
			continue
		}
		files = append(files, *file)
	}
	return files, rows.Err()
}

func numbersToJSON(numbers []string) (string, error) {
	if numbers == nil {
		numbers = []string{}
	}
	data, err := json.Marshal(numbers)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func numbersFromJSON(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var numbers []string
	if err := json.Unmarshal([]byte(raw), &numbers); err != nil {
		return nil, fmt.Errorf("decode extracted numbers: %w", err)
	}
	if len(numbers) == 0 {
		return nil, nil
	}
	return numbers, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
