package classify

import (
	"context"
	"log/slog"

	"recode/internal/queue"
)

// TargetCompressor is the codec tag that marks a file as already transcoded.
const TargetCompressor = "hvc1"

// matroskaDocType is the container type the secondary probe reports for MKV
// content hiding behind an .mp4 extension.
const matroskaDocType = "matroska"

// Prober reads metadata tags from a media file.
type Prober interface {
	CompressorID(ctx context.Context, path string) (string, error)
	DocType(ctx context.Context, path string) (string, error)
}

// Result pairs the transcode flag with the initial queue status.
type Result struct {
	Transcode queue.Flag
	Status    queue.Status
}

// Classifier maps probe results onto transcode decisions.
type Classifier struct {
	prober Prober
	logger *slog.Logger
}

// New returns a Classifier backed by the given prober.
func New(prober Prober, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{prober: prober, logger: logger}
}

// Classify decides whether the file at path needs transcoding. Probe
// failures are terminal classifications, not transient errors: an
// unreadable file is marked unknown and never retried at this layer.
func (c *Classifier) Classify(ctx context.Context, path string) Result {
	tag, err := c.prober.CompressorID(ctx, path)
	if err != nil {
		c.logger.Error("not a recognized video file", "path", path, "error", err)
		return Result{Transcode: queue.FlagSkip, Status: queue.StatusUnknown}
	}

	switch tag {
	case TargetCompressor:
		c.logger.Info("already transcoded", "path", path)
		return Result{Transcode: queue.FlagSkip, Status: queue.StatusSkipped}
	case "":
		c.logger.Warn("empty compressor tag, probing container type", "path", path)
		return c.classifyByDocType(ctx, path)
	default:
		c.logger.Info("needs transcoding", "path", path, "compressor", tag)
		return Result{Transcode: queue.FlagTranscode, Status: queue.StatusQueued}
	}
}

func (c *Classifier) classifyByDocType(ctx context.Context, path string) Result {
	docType, err := c.prober.DocType(ctx, path)
	if err != nil {
		c.logger.Error("container type probe failed", "path", path, "error", err)
		return Result{Transcode: queue.FlagSkip, Status: queue.StatusUnknown}
	}
	if docType == matroskaDocType {
		c.logger.Warn("matroska content behind mp4 extension, queued", "path", path)
		return Result{Transcode: queue.FlagTranscode, Status: queue.StatusQueued}
	}
	c.logger.Error("unrecognized container type", "path", path, "doctype", docType)
	return Result{Transcode: queue.FlagSkip, Status: queue.StatusUnknown}
}
