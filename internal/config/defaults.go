package config

const (
	defaultLogDir       = "~/.local/share/chapterize/logs"
	defaultHistoryPath  = "~/.local/share/chapterize/history.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultFFmpegBinary = "ffmpeg"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Tools: Tools{
			FFmpegBinary: defaultFFmpegBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
