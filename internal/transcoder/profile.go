package transcoder

import (
	"log/slog"
	"path/filepath"
	"strings"

	"recode/internal/fileutil"
)

// Profile supplies the extension-specific rules for one container format:
// how the output path is derived and what happens to the original after a
// successful transcode.
type Profile interface {
	// OutputPath derives the engine destination from the source path.
	OutputPath(source string) string
	// Stem returns the filename without its container extension, used as
	// the output title tag.
	Stem(filename string) string
	// Dispose applies the post-success disposition of the original file.
	Dispose(logger *slog.Logger, source string) error
}

// For returns the container profile for filename, keyed by extension.
func For(filename string) (Profile, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mkv":
		return mkvProfile{}, true
	case ".mp4":
		return mp4Profile{}, true
	default:
		return nil, false
	}
}

// mkvProfile transcodes MKV sources to a sibling MP4. The output already
// carries the final name, so disposition deletes the original.
type mkvProfile struct{}

func (mkvProfile) OutputPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".mp4"
}

func (mkvProfile) Stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func (mkvProfile) Dispose(logger *slog.Logger, source string) error {
	if _, err := fileutil.RemoveIfExists(source); err != nil {
		return err
	}
	logger.Info("deleted original", "path", source)
	return nil
}

// mp4Profile re-encodes MP4 sources into an intermediate ".h265" MP4 so the
// input is never overwritten while it is being read. Disposition renames
// the intermediate over the original.
type mp4Profile struct{}

// IntermediateSuffix is the extension given to in-place MP4 re-encodes
// before they replace the original.
const IntermediateSuffix = ".h265"

func (mp4Profile) OutputPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + IntermediateSuffix
}

func (mp4Profile) Stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func (p mp4Profile) Dispose(logger *slog.Logger, source string) error {
	output := p.OutputPath(source)
	if err := fileutil.ReplaceFile(output, source); err != nil {
		return err
	}
	logger.Info("renamed intermediate over original", "from", output, "to", source)
	return nil
}
