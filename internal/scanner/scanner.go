package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"recode/internal/classify"
	"recode/internal/config"
	"recode/internal/queue"
)

// ErrNoFiles indicates a scan found nothing, which almost always means the
// volume is not mounted. Callers treat it as fatal.
var ErrNoFiles = errors.New("scan found no video files")

// Store is the queue surface the scanner writes to.
type Store interface {
	InsertBatch(ctx context.Context, entries []queue.Entry) (int, error)
}

// Classifier decides transcode eligibility for ambiguous files.
type Classifier interface {
	Classify(ctx context.Context, path string) classify.Result
}

// Scanner walks the scan root and enqueues discovered video files.
type Scanner struct {
	cfg        *config.Config
	store      Store
	classifier Classifier
	logger     *slog.Logger
}

// New returns a Scanner.
func New(cfg *config.Config, store Store, classifier Classifier, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{cfg: cfg, store: store, classifier: classifier, logger: logger}
}

// Scan walks the configured root, classifies discovered files, and inserts
// the results as one batch. MKV files are queued directly; the extension
// alone is sufficient signal. Everything else goes through the classifier.
func (s *Scanner) Scan(ctx context.Context) error {
	s.logger.Info("beginning scan", "root", s.cfg.ScanRoot)

	found, err := s.collect(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("scan complete", "files", len(found))
	if len(found) == 0 {
		return fmt.Errorf("%w under %s (is the volume mounted?)", ErrNoFiles, s.cfg.ScanRoot)
	}

	entries := make([]queue.Entry, 0, len(found))
	for _, entry := range found {
		if strings.EqualFold(filepath.Ext(entry.Filename), ".mkv") {
			s.logger.Info("needs transcoding", "path", entry.SourcePath())
			entry.Transcode = queue.FlagTranscode
			entry.Status = queue.StatusQueued
		} else {
			result := s.classifier.Classify(ctx, entry.SourcePath())
			entry.Transcode = result.Transcode
			entry.Status = result.Status
		}
		entries = append(entries, entry)
	}

	if _, err := s.store.InsertBatch(ctx, entries); err != nil {
		return fmt.Errorf("insert scan results: %w", err)
	}
	return nil
}

func (s *Scanner) collect(ctx context.Context) ([]queue.Entry, error) {
	var found []queue.Entry
	err := filepath.WalkDir(s.cfg.ScanRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !s.matchesExtension(d.Name()) {
			return nil
		}
		s.logger.Info("found video file", "path", path)
		found = append(found, queue.Entry{
			Path:     filepath.Dir(path),
			Filename: d.Name(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.cfg.ScanRoot, err)
	}
	return found, nil
}

func (s *Scanner) matchesExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range s.cfg.Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
