package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"filedrop/internal/blobstore"
	"filedrop/internal/config"
	"filedrop/internal/server"
	"filedrop/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the filedrop API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default().With("component", "server")

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			bs, err := blobstore.NewLocalStore(cfg.BlobRoot)
			if err != nil {
				return err
			}

			srv := server.New(cfg.ListenAddr, st, bs, nil, logger, server.Options{
				MaxFilesPerBatch:   cfg.Upload.MaxFilesPerBatch,
				MaxFileBytes:       cfg.Upload.MaxFileBytes,
				MultipartMaxMemory: cfg.Upload.MultipartMaxMemory,
				UploadConcurrency:  cfg.Upload.Concurrency,
				AllowedMediaTypes:  cfg.Upload.AllowedMediaTypes,
				SessionTTL:         cfg.SessionTTL(),
			})
			return srv.ListenAndServe()
		},
	}
}
