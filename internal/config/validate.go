package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateTranscoding()
}

func (c *Config) validatePaths() error {
	if c.ScanRoot == "" {
		return errors.New("paths.scan_root must be set")
	}
	if c.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.FFmpegBinary) == "" {
		return errors.New("tools.ffmpeg_binary must be set")
	}
	if strings.TrimSpace(c.ExiftoolBinary) == "" {
		return errors.New("tools.exiftool_binary must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.LogFormat)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.LogLevel)
	}
	return nil
}

func (c *Config) validateTranscoding() error {
	if len(c.Extensions) == 0 {
		return errors.New("transcoding.extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("transcoding.extensions: invalid extension %q", ext)
		}
	}
	return nil
}
