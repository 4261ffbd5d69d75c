package exiftool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Tool shells out to an exiftool binary for metadata reads and rewrites.
type Tool struct {
	binary string
}

// New returns a Tool using the provided binary, defaulting to "exiftool".
func New(binary string) *Tool {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "exiftool"
	}
	return &Tool{binary: binary}
}

// CompressorID returns the lowercased compressor tag for path. exiftool
// exits non-zero for inputs it does not recognize as media containers; that
// surfaces as an error here.
func (t *Tool) CompressorID(ctx context.Context, path string) (string, error) {
	return t.read(ctx, path, "-api", "largefilesupport", "-s3", "-CompressorID")
}

// DocType returns the lowercased container document type for path.
func (t *Tool) DocType(ctx context.Context, path string) (string, error) {
	return t.read(ctx, path, "-s3", "-DocType")
}

// RewriteTags overwrites the title tag and clears the comment tag in place.
func (t *Tool) RewriteTags(ctx context.Context, path, title string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("exiftool rewrite: empty path")
	}
	cmd := exec.CommandContext(ctx, t.binary,
		"-overwrite_original",
		"-title="+title,
		"-comment=",
		path,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("exiftool rewrite %s: %w: %s", path, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (t *Tool) read(ctx context.Context, path string, args ...string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("exiftool read: empty path")
	}
	cmd := exec.CommandContext(ctx, t.binary, append(args, path)...)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("exiftool read %s: %w", path, err)
	}
	return strings.ToLower(strings.TrimSpace(string(output))), nil
}
