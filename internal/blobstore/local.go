package blobstore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	nameRandAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	nameRandLength   = 6
	putMaxAttempts   = 20
	maxStoredNameLen = 120
)

// LocalStore keeps blob bytes on local disk, one directory per owner.
type LocalStore struct {
	root string
}

// NewLocalStore creates a local blob store rooted at root.
func NewLocalStore(root string) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: abs}, nil
}

// Put streams bytes to a new uniquely named object under the owner's
// namespace. The generated key stays unique even when the same owner
// uploads concurrently within one millisecond: the final link is
// exclusive and a colliding name is simply regenerated.
func (s *LocalStore) Put(ctx context.Context, ownerID string, r io.Reader, suggestedName string) (PutResult, error) {
	var zero PutResult
	if s == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	owner, err := validOwnerSegment(ownerID)
	if err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(filepath.Join(s.root, "tmp"), "put-*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return zero, err
	}

	ownerDir := filepath.Join(s.root, owner)
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return zero, err
	}

	base := sanitizeStoredName(suggestedName)
	for attempt := 0; attempt < putMaxAttempts; attempt++ {
		suffix, err := randomNameComponent(nameRandLength)
		if err != nil {
			return zero, err
		}
		name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), suffix, base)
		dst := filepath.Join(ownerDir, name)
		if err := os.Link(tmpPath, dst); err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return zero, err
		}
		return PutResult{Key: owner + "/" + name, SizeBytes: n}, nil
	}

	return zero, fmt.Errorf("unable to generate unique blob name")
}

// Exists reports whether a blob object is present for key.
func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Open returns a reader for blob key content. A missing object yields
// ErrNotFound.
func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes a blob object. Missing objects are ignored.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) pathFromKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("blob key must be relative")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.Contains(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob key")
	}
	return filepath.Join(s.root, clean), nil
}

func validOwnerSegment(ownerID string) (string, error) {
	owner := strings.TrimSpace(ownerID)
	if owner == "" {
		return "", fmt.Errorf("owner id is required")
	}
	if strings.ContainsAny(owner, "/\\") || owner == "." || owner == ".." || owner == "tmp" {
		return "", fmt.Errorf("invalid owner id")
	}
	return owner, nil
}

func sanitizeStoredName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || strings.Trim(out, "._") == "" {
		out = "upload"
	}
	if len(out) > maxStoredNameLen {
		out = out[len(out)-maxStoredNameLen:]
	}
	return out
}

func randomNameComponent(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i := range buf {
		out[i] = nameRandAlphabet[int(buf[i])%len(nameRandAlphabet)]
	}
	return string(out), nil
}
