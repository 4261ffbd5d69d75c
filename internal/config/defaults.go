package config

const (
	defaultScanRoot       = "/mnt"
	defaultDataDir        = "~/.local/share/recode"
	defaultLogDir         = "~/.local/share/recode/logs"
	defaultFFmpegBinary   = "ffmpeg"
	defaultExiftoolBinary = "exiftool"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultBatch          = "0"
)

func defaultExtensions() []string {
	return []string{".mkv", ".mp4"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScanRoot: defaultScanRoot,
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
		},
		Tools: Tools{
			FFmpegBinary:   defaultFFmpegBinary,
			ExiftoolBinary: defaultExiftoolBinary,
		},
		Logging: Logging{
			LogFormat: defaultLogFormat,
			LogLevel:  defaultLogLevel,
		},
		Transcoding: Transcoding{
			Batch:      defaultBatch,
			Extensions: defaultExtensions(),
		},
	}
}
