package main

import (
	"github.com/spf13/cobra"

	"recode/internal/deps"
	"recode/internal/media/exiftool"
	"recode/internal/transcoder"
)

func newMetadataCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Rewrite title and comment tags in place for every tracked MP4",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cc.ensureLogger()
			if err != nil {
				return err
			}
			if err := deps.Verify(deps.Required(cfg)); err != nil {
				return err
			}

			lock, err := cc.acquireLock()
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			store, err := cc.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			tool := exiftool.New(cfg.ExiftoolBinary)
			return transcoder.RewriteMetadata(cmd.Context(), store, tool, logger)
		},
	}
}
