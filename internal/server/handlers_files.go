package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"filedrop/internal/api"
	"filedrop/internal/blobstore"
	"filedrop/internal/models"
)

const uploadFieldName = "files"

// handleUpload accepts a multipart batch: repeated "files" parts plus
// an optional "note" field. Files are stored best effort; the response
// reports each file's outcome individually.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBody)
	if err := r.ParseMultipartForm(s.multipartMaxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeServiceError(w, r, badRequestCode(fmt.Errorf("upload body too large"), ErrCodeRequestTooLarge))
			return
		}
		s.writeServiceError(w, r, badRequest(fmt.Errorf("parse multipart form: %w", err)))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	noteText := r.FormValue("note")
	headers := r.MultipartForm.File[uploadFieldName]

	uploads := make([]UploadFile, 0, len(headers))
	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()
	oversized := make(map[int]bool)
	for i, fh := range headers {
		if s.maxFileBytes > 0 && fh.Size > s.maxFileBytes {
			oversized[i] = true
			uploads = append(uploads, UploadFile{OriginalName: fh.Filename})
			continue
		}
		f, err := fh.Open()
		if err != nil {
			s.writeServiceError(w, r, internalError(fmt.Errorf("open multipart file %q: %w", fh.Filename, err)))
			return
		}
		closers = append(closers, f)
		uploads = append(uploads, UploadFile{
			Reader:            f,
			OriginalName:      fh.Filename,
			DeclaredMediaType: fh.Header.Get("Content-Type"),
		})
	}

	outcome, err := s.uploadService.Upload(r.Context(), ownerID, uploads, noteText)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := api.UploadResponse{GroupID: outcome.GroupID, NoteID: outcome.NoteID}
	resp.Files = make([]api.UploadFileResult, 0, len(outcome.Files))
	for i, fo := range outcome.Files {
		result := api.UploadFileResult{OriginalName: fo.OriginalName, FileID: fo.FileID}
		if oversized[i] {
			result.Error = fmt.Sprintf("file exceeds the %d byte limit", s.maxFileBytes)
		} else if fo.Err != nil {
			result.Error = fo.Err.Error()
		}
		resp.Files = append(resp.Files, result)
	}
	if outcome.NoteErr != nil {
		s.log().Warn("note not stored", "owner_id", ownerID, "group_id", outcome.GroupID, "error", outcome.NoteErr)
	}

	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleViewFile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	file, ok := s.fileOr404(w, r, ownerID)
	if !ok {
		return
	}
	if !strings.HasPrefix(file.MediaType, "image/") {
		s.writeServiceError(w, r, makeAPIError(http.StatusBadRequest, "not_an_image", ErrCodeNotAnImage, fmt.Errorf("file %s is not an image", file.ID)))
		return
	}
	s.serveBlob(w, r, file, "inline")
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerOrUnauthorized(w, r)
	if !ok {
		return
	}

	file, ok := s.fileOr404(w, r, ownerID)
	if !ok {
		return
	}
	s.serveBlob(w, r, file, "attachment")
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	s.handleDeleteItem(w, r)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	s.handleDeleteItem(w, r)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerOrUnauthorized(w, r)
	if !ok {
		return
	}
	if err := s.deleteService.DeleteItem(r.Context(), ownerID, r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerOrUnauthorized(w, r)
	if !ok {
		return
	}
	fileID := r.PathValue("id")
	numbers, err := s.extractService.Extract(r.Context(), ownerID, fileID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ExtractResponse{FileID: fileID, Numbers: numbers})
}

// fileOr404 loads the record behind the {id} path segment. Missing
// records and records owned by somebody else both answer 404.
func (s *Server) fileOr404(w http.ResponseWriter, r *http.Request, ownerID string) (*models.FileItem, bool) {
	fileID := strings.TrimSpace(r.PathValue("id"))
	if fileID == "" {
		s.writeServiceError(w, r, badRequestCode(fmt.Errorf("file id is required"), ErrCodeInvalidID))
		return nil, false
	}
	file, err := s.files.GetFile(r.Context(), fileID)
	if err != nil {
		s.writeServiceError(w, r, storeFailure(err))
		return nil, false
	}
	if file == nil || file.OwnerID != ownerID {
		s.writeServiceError(w, r, notFound(fmt.Errorf("file %s not found", fileID)))
		return nil, false
	}
	return file, true
}

// serveBlob streams the blob behind a record. A record whose blob has
// gone missing is purged on the spot and reported as not found, the
// same self-healing the grouped listing applies.
func (s *Server) serveBlob(w http.ResponseWriter, r *http.Request, file *models.FileItem, disposition string) {
	rc, err := s.blobs.Open(r.Context(), file.StorageKey)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			s.log().Warn("purging orphaned file record", "file_id", file.ID, "storage_key", file.StorageKey)
			if delErr := s.files.DeleteFile(r.Context(), file.ID); delErr != nil {
				s.log().Error("purge orphaned file record", "file_id", file.ID, "error", delErr)
			}
			s.writeServiceError(w, r, notFound(fmt.Errorf("file %s not found", file.ID)))
			return
		}
		s.writeServiceError(w, r, storageIO(err))
		return
	}
	defer rc.Close()

	name := file.OriginalName
	if name == "" {
		name = file.ID
	}
	w.Header().Set("Content-Type", file.MediaType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": name}))
	if file.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(file.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.log().Debug("stream blob", "file_id", file.ID, "error", err)
	}
}
