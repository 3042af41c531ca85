package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"beholder/internal/shared/types"
)

// Init initializes the global logger. The daemon writes to the log file
// named by the configuration; an empty path falls back to stderr so the
// daemon stays observable when run in the foreground.
func Init(cfg types.BeholderConf, runID string) error {
	levelStr := strings.ToLower(cfg.LogLevel)
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
	}

	// Force all timestamps to be in UTC.
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	out := os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file %q: %w", cfg.LogFile, err)
		}
		out = f
	}

	log.Logger = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()

	Info().Msgf("logger initialized with level: %s", level.String())
	return nil
}

// WithComponent returns a child logger tagged with a component name.
// 用于在日志中区分各模块的输出。
func WithComponent(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Debug starts a new message with debug level.
func Debug() *zerolog.Event {
	return log.Debug()
}

// Info starts a new message with info level.
func Info() *zerolog.Event {
	return log.Info()
}

// Warn starts a new message with warning level.
func Warn() *zerolog.Event {
	return log.Warn()
}

// Error starts a new message with error level.
func Error() *zerolog.Event {
	return log.Error()
}

// Fatal starts a new message with fatal level. The program will exit.
func Fatal() *zerolog.Event {
	return log.Fatal()
}
