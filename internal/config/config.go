package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ScanRoot string `toml:"scan_root"`
	DataDir  string `toml:"data_dir"`
	LogDir   string `toml:"log_dir"`
}

// Tools contains the external binaries the pipeline shells out to.
type Tools struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	ExiftoolBinary string `toml:"exiftool_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	LogFormat string `toml:"format"`
	LogLevel  string `toml:"level"`
}

// Transcoding contains run controls for the transcode pipeline.
type Transcoding struct {
	// Batch is kept as a string so a malformed value can fail open to
	// unlimited instead of failing the TOML decode.
	Batch           string   `toml:"batch"`
	DeleteOriginals bool     `toml:"delete_originals"`
	Extensions      []string `toml:"extensions"`
}

// Config is the root configuration for the recode pipeline.
type Config struct {
	Paths       `toml:"paths"`
	Tools       `toml:"tools"`
	Logging     `toml:"logging"`
	Transcoding `toml:"transcoding"`
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "recode", "config.toml"), nil
}

// Load reads configuration from path, falling back to the default location
// when path is empty. A missing file yields the defaults. Environment
// overrides are applied after decoding, then paths are normalized and the
// result validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if decodeErr := toml.Unmarshal(data, &cfg); decodeErr != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, decodeErr)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults apply when no config file exists.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if batch, ok := os.LookupEnv("RECODE_BATCH"); ok {
		c.Batch = strings.TrimSpace(batch)
	}
	if del, ok := os.LookupEnv("RECODE_DELETE"); ok {
		c.DeleteOriginals = strings.EqualFold(strings.TrimSpace(del), "true")
	}
	if root, ok := os.LookupEnv("RECODE_SCAN_ROOT"); ok && strings.TrimSpace(root) != "" {
		c.ScanRoot = strings.TrimSpace(root)
	}
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.ScanRoot, &c.DataDir, &c.LogDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if len(c.Extensions) == 0 {
		c.Extensions = defaultExtensions()
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	return nil
}

// DatabasePath returns the queue database location under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "queue.db")
}

// LockPath returns the run lock file location under the data directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "recode.lock")
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the sample configuration to path, refusing to clobber
// an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Render returns the configuration serialized as TOML.
func (c *Config) Render() (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
