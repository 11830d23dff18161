package models

import (
	"fmt"
	"strings"
	"time"
)

const singletonKeyPrefix = "single-"

// GroupKey identifies a display group: either a real shared group id
// assigned at upload time, or a synthetic singleton key derived from
// an ungrouped record's own id.
type GroupKey struct {
	groupID  string
	recordID string
}

// RealGroupKey wraps a stored group id.
func RealGroupKey(groupID string) GroupKey {
	return GroupKey{groupID: groupID}
}

// SingletonGroupKey derives the synthetic key for an ungrouped record.
func SingletonGroupKey(recordID string) GroupKey {
	return GroupKey{recordID: recordID}
}

// IsSingleton reports whether the key is a synthetic singleton key.
func (k GroupKey) IsSingleton() bool {
	return k.recordID != ""
}

// GroupID returns the real group id; empty for singleton keys.
func (k GroupKey) GroupID() string {
	return k.groupID
}

// RecordID returns the embedded record id; empty for real group keys.
func (k GroupKey) RecordID() string {
	return k.recordID
}

// String encodes the key in its wire form.
func (k GroupKey) String() string {
	if k.IsSingleton() {
		return singletonKeyPrefix + k.recordID
	}
	return k.groupID
}

// ParseGroupKey decodes a wire-form group key.
func ParseGroupKey(raw string) (GroupKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return GroupKey{}, fmt.Errorf("group key is required")
	}
	if rest, ok := strings.CutPrefix(raw, singletonKeyPrefix); ok {
		if rest == "" {
			return GroupKey{}, fmt.Errorf("invalid singleton group key")
		}
		return SingletonGroupKey(rest), nil
	}
	return RealGroupKey(raw), nil
}

// GroupKeyForFile returns the effective group key for a file record.
func GroupKeyForFile(f FileItem) GroupKey {
	if f.GroupID != "" {
		return RealGroupKey(f.GroupID)
	}
	return SingletonGroupKey(f.ID)
}

// GroupKeyForNote returns the effective group key for a note record.
func GroupKeyForNote(n NoteItem) GroupKey {
	if n.GroupID != "" {
		return RealGroupKey(n.GroupID)
	}
	return SingletonGroupKey(n.ID)
}

// Group is the derived display view of records created together.
// CreatedAt is the earliest member timestamp and governs group order.
type Group struct {
	Key       string     `json:"key"`
	Files     []FileItem `json:"files"`
	Notes     []NoteItem `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
}
