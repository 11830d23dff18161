// Package api defines the wire types of the filedrop HTTP API.
package api

import "filedrop/internal/models"

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// LoginRequest starts or resumes an access-code account.
type LoginRequest struct {
	AccessCode string `json:"access_code"`
	Passphrase string `json:"passphrase,omitempty"`
}

// LoginResponse returns the session token for subsequent calls.
type LoginResponse struct {
	OwnerID   string `json:"owner_id"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Created   bool   `json:"created"`
}

// UploadFileResult reports the outcome for one file in a batch.
type UploadFileResult struct {
	OriginalName string `json:"original_name"`
	FileID       string `json:"file_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// UploadResponse reports a best-effort batch outcome: the group id,
// per-file results, and the note id when a note was stored.
type UploadResponse struct {
	GroupID string             `json:"group_id"`
	Files   []UploadFileResult `json:"files"`
	NoteID  string             `json:"note_id,omitempty"`
}

// GroupListResponse is the grouped display view, oldest group first.
type GroupListResponse struct {
	Groups []models.Group `json:"groups"`
}

// DeleteGroupResponse reports a best-effort group deletion.
type DeleteGroupResponse struct {
	Deleted int      `json:"deleted"`
	Failed  []string `json:"failed,omitempty"`
}

// ExtractResponse carries the normalized numbers stored on a record.
type ExtractResponse struct {
	FileID  string   `json:"file_id"`
	Numbers []string `json:"numbers"`
}

// InfoResponse describes the running server.
type InfoResponse struct {
	Version string `json:"version"`
}
