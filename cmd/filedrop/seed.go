package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"filedrop/internal/blobstore"
	"filedrop/internal/config"
	"filedrop/internal/server"
	"filedrop/internal/store"
)

// seedManifest describes batches to load straight into the store,
// bypassing the HTTP API. Paths are resolved relative to the manifest.
type seedManifest struct {
	Owner   string      `yaml:"owner"`
	Batches []seedBatch `yaml:"batches"`
}

type seedBatch struct {
	Note  string     `yaml:"note"`
	Files []seedFile `yaml:"files"`
}

type seedFile struct {
	Path      string `yaml:"path"`
	MediaType string `yaml:"media_type"`
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <manifest.yaml>",
		Short: "Load batches of files and notes from a YAML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}

			manifest, baseDir, err := loadSeedManifest(args[0])
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			bs, err := blobstore.NewLocalStore(cfg.BlobRoot)
			if err != nil {
				return err
			}

			uploads := server.NewUploadService(st, bs, server.UploadPolicy{
				MaxFilesPerBatch:  cfg.Upload.MaxFilesPerBatch,
				Concurrency:       cfg.Upload.Concurrency,
				AllowedMediaTypes: cfg.Upload.AllowedMediaTypes,
			})

			logger := slog.Default().With("component", "seed")
			for i, batch := range manifest.Batches {
				if err := seedOneBatch(cmd, uploads, logger, manifest.Owner, baseDir, i, batch); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func loadSeedManifest(path string) (*seedManifest, string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	var manifest seedManifest
	if err := yaml.Unmarshal(body, &manifest); err != nil {
		return nil, "", fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if manifest.Owner == "" {
		return nil, "", errors.New("manifest owner is required")
	}
	if len(manifest.Batches) == 0 {
		return nil, "", errors.New("manifest has no batches")
	}
	return &manifest, filepath.Dir(path), nil
}

func seedOneBatch(cmd *cobra.Command, uploads *server.UploadService, logger *slog.Logger, owner, baseDir string, index int, batch seedBatch) error {
	files := make([]server.UploadFile, 0, len(batch.Files))
	var closers []*os.File
	defer func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}()

	for _, sf := range batch.Files {
		path := sf.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("batch %d: %w", index, err)
		}
		closers = append(closers, f)
		files = append(files, server.UploadFile{
			Reader:            f,
			OriginalName:      filepath.Base(sf.Path),
			DeclaredMediaType: sf.MediaType,
		})
	}

	outcome, err := uploads.Upload(cmd.Context(), owner, files, batch.Note)
	if err != nil {
		return fmt.Errorf("batch %d: %w", index, err)
	}

	stored := 0
	for _, fo := range outcome.Files {
		if fo.Err != nil {
			logger.Warn("file not stored", "batch", index, "name", fo.OriginalName, "error", fo.Err)
			continue
		}
		stored++
	}
	if outcome.NoteErr != nil {
		logger.Warn("note not stored", "batch", index, "error", outcome.NoteErr)
	}

	fmt.Printf("Batch %d: group %s, %d/%d files", index, outcome.GroupID, stored, len(outcome.Files))
	if outcome.NoteID != "" {
		fmt.Printf(", note %s", outcome.NoteID)
	}
	fmt.Println()
	return nil
}
