package encoding

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// FFmpeg invokes the ffmpeg binary with fixed h.265/HVC1 MP4 parameters.
type FFmpeg struct {
	binary string
	logger *slog.Logger
}

// NewFFmpeg returns an FFmpeg engine using the provided binary, defaulting
// to "ffmpeg".
func NewFFmpeg(binary string, logger *slog.Logger) *FFmpeg {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpeg{binary: binary, logger: logger}
}

// BuildArgs assembles the ffmpeg argument list for a job: video re-encoded
// to libx265 with the hvc1 compatibility tag, audio passed through, output
// forced to MP4, title set to the filename stem, and any comment cleared.
func BuildArgs(job Job) []string {
	return []string{
		"-y",
		"-i", job.Source,
		"-codec:v", "libx265",
		"-vtag", "hvc1",
		"-codec:a", "copy",
		"-metadata", "title=" + job.Title,
		"-metadata", "comment=",
		"-f", "mp4",
		job.Dest,
	}
}

// Transcode runs ffmpeg to completion, streaming stderr through the
// progress parser. Any non-zero exit is returned as an error with the tail
// of stderr attached.
func (f *FFmpeg) Transcode(ctx context.Context, job Job, progress ProgressFunc) error {
	args := BuildArgs(job)
	f.logger.Debug("ffmpeg command", "binary", f.binary, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, f.binary, args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	var tail strings.Builder
	consumeStderr(stderr, &tail, progress)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("transcode cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLines(tail.String(), 4))
	}
	return nil
}

// consumeStderr splits ffmpeg stderr on both \r and \n so in-place progress
// updates are seen line by line.
func consumeStderr(stderr io.Reader, tail *strings.Builder, progress ProgressFunc) {
	reader := bufio.NewReader(stderr)
	var line strings.Builder
	flush := func() {
		text := line.String()
		line.Reset()
		if text == "" {
			return
		}
		tail.WriteString(text)
		tail.WriteByte('\n')
		if progress == nil {
			return
		}
		if update, ok := ParseProgressLine(text); ok {
			progress(update)
		}
	}
	for {
		b, err := reader.ReadByte()
		if err != nil {
			flush()
			return
		}
		if b == '\r' || b == '\n' {
			flush()
			continue
		}
		line.WriteByte(b)
	}
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
