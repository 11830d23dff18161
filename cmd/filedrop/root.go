package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"filedrop/internal/config"
	"filedrop/internal/server"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "filedrop",
		Short: "Filedrop is a grouped file and note drop box with phone-number extraction",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	server.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newInitCmd(cfg),
		newExtractCmd(),
		newSeedCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
