package transcoder

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"recode/internal/config"
	"recode/internal/encoding"
	"recode/internal/fileutil"
	"recode/internal/queue"
)

// Store is the queue surface the transcoder drives.
type Store interface {
	UpdateStatus(ctx context.Context, path, filename string, status queue.Status) error
	SelectAll(ctx context.Context) ([]queue.Entry, error)
}

// Transcoder drives queue entries through the per-file state machine.
type Transcoder struct {
	cfg      *config.Config
	store    Store
	engine   encoding.Engine
	logger   *slog.Logger
	printer  *message.Printer
	progress encoding.ProgressFunc
}

// New returns a Transcoder.
func New(cfg *config.Config, store Store, engine encoding.Engine, logger *slog.Logger) *Transcoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcoder{
		cfg:     cfg,
		store:   store,
		engine:  engine,
		logger:  logger,
		printer: message.NewPrinter(language.English),
	}
}

// SetProgressFunc installs a hook invoked with engine progress updates.
func (t *Transcoder) SetProgressFunc(fn encoding.ProgressFunc) {
	t.progress = fn
}

// Run processes entries sequentially. Engine failures mark the entry failed
// and continue with the next file; disposition failures abort the run.
func (t *Transcoder) Run(ctx context.Context, entries []queue.Entry) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := t.Process(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// Process runs one entry through queued → active → done|failed. The entry
// is marked active before the engine is invoked so a crash mid-transcode
// leaves durable evidence. The returned status is the terminal state; the
// error is non-nil only for failures the run cannot continue past
// (disposition of the original after success).
func (t *Transcoder) Process(ctx context.Context, entry queue.Entry) (queue.Status, error) {
	source := entry.SourcePath()

	profile, ok := For(entry.Filename)
	if !ok {
		t.logger.Error("no container profile for file", "path", source)
		t.updateStatus(ctx, entry, queue.StatusUnknown)
		return queue.StatusUnknown, nil
	}
	output := profile.OutputPath(source)

	t.updateStatus(ctx, entry, queue.StatusActive)

	job := encoding.Job{
		Source: source,
		Dest:   output,
		Title:  profile.Stem(entry.Filename),
	}
	t.logger.Info("transcoding", "source", source, "dest", output)

	if err := t.engine.Transcode(ctx, job, t.wrapProgress(entry)); err != nil {
		t.logger.Error("transcode failed", "source", source, "error", err)
		t.cleanupPartial(output)
		t.updateStatus(ctx, entry, queue.StatusFailed)
		return queue.StatusFailed, nil
	}

	t.logger.Info("transcoded successfully", "source", source)
	t.logSizeDelta(source, output)
	t.updateStatus(ctx, entry, queue.StatusDone)

	if t.cfg.DeleteOriginals {
		if err := profile.Dispose(t.logger, source); err != nil {
			return queue.StatusDone, fmt.Errorf("dispose original %s: %w", source, err)
		}
	}
	return queue.StatusDone, nil
}

// SweepIntermediates re-applies the rename-over disposition for MP4 entries
// that finished transcoding but whose intermediate output still exists,
// which happens when a previous run crashed between engine success and the
// rename. With delete disabled the leftovers are only reported.
func (t *Transcoder) SweepIntermediates(ctx context.Context) error {
	entries, err := t.store.SelectAll(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Status != queue.StatusDone {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Filename), ".mp4") {
			continue
		}
		profile, ok := For(entry.Filename)
		if !ok {
			continue
		}
		source := entry.SourcePath()
		intermediate := profile.OutputPath(source)
		if !fileutil.Exists(intermediate) {
			continue
		}
		if !t.cfg.DeleteOriginals {
			t.logger.Warn("leftover intermediate output", "path", intermediate)
			continue
		}
		t.logger.Warn("re-applying disposition for leftover intermediate", "path", intermediate)
		if err := profile.Dispose(t.logger, source); err != nil {
			return fmt.Errorf("sweep intermediate %s: %w", intermediate, err)
		}
	}
	return nil
}

// updateStatus persists a transition. A failed status write is logged and
// the run continues; losing one update must not crash the batch.
func (t *Transcoder) updateStatus(ctx context.Context, entry queue.Entry, status queue.Status) {
	if err := t.store.UpdateStatus(ctx, entry.Path, entry.Filename, status); err != nil {
		t.logger.Error("status update failed",
			"path", entry.Path, "filename", entry.Filename, "status", string(status), "error", err)
	}
}

func (t *Transcoder) cleanupPartial(output string) {
	removed, err := fileutil.RemoveIfExists(output)
	switch {
	case err != nil:
		t.logger.Error("failed to remove partial output", "path", output, "error", err)
	case removed:
		t.logger.Debug("removed partial output", "path", output)
	default:
		t.logger.Debug("nothing to remove, output not found", "path", output)
	}
}

func (t *Transcoder) logSizeDelta(source, output string) {
	inputSize, err := fileutil.Size(source)
	if err != nil {
		t.logger.Warn("could not size input", "path", source, "error", err)
		return
	}
	outputSize, err := fileutil.Size(output)
	if err != nil {
		t.logger.Warn("could not size output", "path", output, "error", err)
		return
	}
	t.logger.Info("size delta",
		"input", humanize.Bytes(uint64(inputSize)),
		"output", humanize.Bytes(uint64(outputSize)),
		"recovered_bytes", t.printer.Sprintf("%d", inputSize-outputSize),
	)
}

func (t *Transcoder) wrapProgress(entry queue.Entry) encoding.ProgressFunc {
	if t.progress == nil {
		return func(update encoding.Progress) {
			t.logger.Debug("transcode progress",
				"file", entry.Filename,
				"frame", update.Frame,
				"fps", update.FPS,
				"size", update.Size,
				"time", update.Time,
				"bitrate", update.Bitrate,
				"speed", update.Speed,
			)
		}
	}
	return t.progress
}
