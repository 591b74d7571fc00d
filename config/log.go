package config

type LogConfig struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// LogHandler selects the slog handler: "text" (tint) or "json".
	LogHandler string
}

func NewLogConfig() *LogConfig {
	return &LogConfig{
		LogLevel:   envString("LOG_LEVEL", "info"),
		LogHandler: envString("LOG_HANDLER", "text"),
	}
}
