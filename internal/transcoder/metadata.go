package transcoder

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// TagWriter rewrites metadata tags on a file in place.
type TagWriter interface {
	RewriteTags(ctx context.Context, path, title string) error
}

// RewriteMetadata sets the title tag to the filename stem and clears the
// comment tag for every tracked MP4. Files in other containers are not
// eligible for an in-place rewrite and are reported; a single rewrite
// failure is logged and the loop continues.
func RewriteMetadata(ctx context.Context, store Store, tags TagWriter, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := store.SelectAll(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		source := entry.SourcePath()
		if !strings.EqualFold(filepath.Ext(entry.Filename), ".mp4") {
			logger.Warn("not an mp4, transcode to update its metadata", "path", source)
			continue
		}
		title := strings.TrimSuffix(entry.Filename, filepath.Ext(entry.Filename))
		if err := tags.RewriteTags(ctx, source, title); err != nil {
			logger.Error("metadata rewrite failed, transcode to update it", "path", source, "error", err)
			continue
		}
		logger.Info("metadata updated", "path", source, "title", title)
	}
	return nil
}
