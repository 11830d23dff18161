package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Sessions.
	mux.HandleFunc("POST /v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /v1/auth/logout", s.requireSession(s.handleLogout))

	// Batch upload and grouped view.
	mux.HandleFunc("POST /v1/upload", s.requireSession(s.handleUpload))
	mux.HandleFunc("GET /v1/groups", s.requireSession(s.handleListGroups))
	mux.HandleFunc("DELETE /v1/groups/{key}", s.requireSession(s.handleDeleteGroup))

	// Single items.
	mux.HandleFunc("GET /v1/files/{id}/view", s.requireSession(s.handleViewFile))
	mux.HandleFunc("GET /v1/files/{id}/download", s.requireSession(s.handleDownloadFile))
	mux.HandleFunc("DELETE /v1/files/{id}", s.requireSession(s.handleDeleteFile))
	mux.HandleFunc("DELETE /v1/notes/{id}", s.requireSession(s.handleDeleteNote))

	// Pattern extraction.
	mux.HandleFunc("POST /v1/files/{id}/extract", s.requireSession(s.handleExtract))

	return s.withRequestLogging(mux)
}
