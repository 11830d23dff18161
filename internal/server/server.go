package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"filedrop/internal/blobstore"
	"filedrop/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Options tunes server behavior beyond its collaborators.
type Options struct {
	MaxFilesPerBatch   int
	MaxFileBytes       int64
	MultipartMaxMemory int64
	UploadConcurrency  int
	AllowedMediaTypes  []string
	SessionTTL         time.Duration
}

// Server wraps the filedrop HTTP API.
type Server struct {
	addr   string
	logger *slog.Logger

	authService    *AuthService
	uploadService  *UploadService
	groupService   *GroupService
	deleteService  *DeleteService
	extractService *ExtractService
	blobs          blobstore.BlobStore
	files          store.FileStore

	maxUploadBody      int64
	maxFileBytes       int64
	multipartMaxMemory int64
}

// New creates a new server instance. The text extractor may be nil;
// extraction requests then report the collaborator as unavailable.
func New(addr string, st *store.Store, blobs blobstore.BlobStore, extractor TextExtractor, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxFilesPerBatch <= 0 {
		opts.MaxFilesPerBatch = 10
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = 10 << 20
	}
	if opts.MultipartMaxMemory <= 0 {
		opts.MultipartMaxMemory = 8 << 20
	}
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = 4
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 14 * 24 * time.Hour
	}

	uploadService := NewUploadService(st, blobs, UploadPolicy{
		MaxFilesPerBatch:  opts.MaxFilesPerBatch,
		Concurrency:       opts.UploadConcurrency,
		AllowedMediaTypes: opts.AllowedMediaTypes,
	})
	deleteService := NewDeleteService(st, blobs)

	return &Server{
		addr:           addr,
		logger:         logger,
		authService:    NewAuthService(st, opts.SessionTTL),
		uploadService:  uploadService,
		groupService:   NewGroupService(st, blobs, logger),
		deleteService:  deleteService,
		extractService: NewExtractService(st, blobs, extractor),
		blobs:          blobs,
		files:          st,

		maxUploadBody:      int64(opts.MaxFilesPerBatch)*opts.MaxFileBytes + (1 << 20),
		maxFileBytes:       opts.MaxFileBytes,
		multipartMaxMemory: opts.MultipartMaxMemory,
	}
}

const sessionPurgeInterval = time.Hour

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	go s.purgeSessionsLoop(context.Background())
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	return server.ListenAndServe()
}

func (s *Server) purgeSessionsLoop(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.authService.PurgeExpired(ctx, time.Now().UTC())
			if err != nil {
				s.log().Warn("purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				s.log().Debug("purged expired sessions", "count", n)
			}
		}
	}
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
