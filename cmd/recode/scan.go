package main

import (
	"github.com/spf13/cobra"

	"recode/internal/classify"
	"recode/internal/deps"
	"recode/internal/media/exiftool"
	"recode/internal/scanner"
)

func newScanCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the configured root and insert discovered files into the queue",
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

			prober := exiftool.New(cfg.ExiftoolBinary)
			classifier := classify.New(prober, logger)
			return scanner.New(cfg, store, classifier, logger).Scan(cmd.Context())
		},
	}
}
