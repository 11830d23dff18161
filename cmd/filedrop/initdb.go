package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"filedrop/internal/blobstore"
	"filedrop/internal/config"
	"filedrop/internal/store"
)

func newInitCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and blob directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			defer st.Close()

			if _, err := blobstore.NewLocalStore(cfg.BlobRoot); err != nil {
				return fmt.Errorf("initialize blob root: %w", err)
			}

			fmt.Printf("Database: %s\n", cfg.DBPath)
			fmt.Printf("Blob root: %s\n", cfg.BlobRoot)
			return nil
		},
	}
}
