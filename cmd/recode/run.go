package main

import (
	"context"

	"github.com/spf13/cobra"

	"recode/internal/classify"
	"recode/internal/deps"
	"recode/internal/encoding"
	"recode/internal/media/exiftool"
	"recode/internal/queue"
	"recode/internal/report"
	"recode/internal/scanner"
	"recode/internal/transcoder"
)

func newRunCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan if the queue is empty, then transcode the next batch and report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cc)
		},
	}
}

func newTranscodeCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcode",
		Short: "Transcode the next batch of queued files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return transcodeBatch(cmd.Context(), cc, selectBatch)
		},
	}
}

func newRetryCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Reprocess every file with a failed status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return transcodeBatch(cmd.Context(), cc, selectRetry)
		},
	}
}

// runPipeline is the full workflow: preflight, crash recovery, scan when
// the queue is empty, batch transcode, final report.
func runPipeline(ctx context.Context, cc *commandContext) error {
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

	if _, err := store.ReclaimActive(ctx); err != nil {
		return err
	}

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		logger.Info("queue is empty, scanning")
		prober := exiftool.New(cfg.ExiftoolBinary)
		classifier := classify.New(prober, logger)
		sc := scanner.New(cfg, store, classifier, logger)
		if err := sc.Scan(ctx); err != nil {
			return err
		}
	} else {
		logger.Info("resuming existing queue", "rows", count)
	}

	engine := encoding.NewFFmpeg(cfg.FFmpegBinary, logger)
	tr := transcoder.New(cfg, store, engine, logger)
	attachProgress(tr)

	if err := tr.SweepIntermediates(ctx); err != nil {
		return err
	}

	entries, err := selectBatch(ctx, cc, store)
	if err != nil {
		return err
	}
	if err := tr.Run(ctx, entries); err != nil {
		return err
	}

	return report.New(store, logger).Report(ctx)
}

type entrySelector func(ctx context.Context, cc *commandContext, store *queue.Store) ([]queue.Entry, error)

func selectBatch(ctx context.Context, cc *commandContext, store *queue.Store) ([]queue.Entry, error) {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cc.ensureLogger()
	if err != nil {
		return nil, err
	}
	entries, err := store.SelectBatch(ctx, cfg.ResolveBatch(logger))
	if err != nil {
		return nil, err
	}
	logger.Info("selected batch", "entries", len(entries))
	return entries, nil
}

func selectRetry(ctx context.Context, cc *commandContext, store *queue.Store) ([]queue.Entry, error) {
	logger, err := cc.ensureLogger()
	if err != nil {
		return nil, err
	}
	entries, err := store.SelectRetry(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logger.Info("no failed transcodes")
	} else {
		logger.Info("retrying failed transcodes", "entries", len(entries))
	}
	return entries, nil
}

// transcodeBatch runs the selector's entries without scanning first.
func transcodeBatch(ctx context.Context, cc *commandContext, selector entrySelector) error {
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

	if _, err := store.ReclaimActive(ctx); err != nil {
		return err
	}

	engine := encoding.NewFFmpeg(cfg.FFmpegBinary, logger)
	tr := transcoder.New(cfg, store, engine, logger)
	attachProgress(tr)

	if err := tr.SweepIntermediates(ctx); err != nil {
		return err
	}

	entries, err := selector(ctx, cc, store)
	if err != nil {
		return err
	}
	if err := tr.Run(ctx, entries); err != nil {
		return err
	}

	return report.New(store, logger).Report(ctx)
}
