package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	LOG_LEVEL_DEBUG = "DEBUG"
	LOG_LEVEL_INFO  = "INFO"
	LOG_LEVEL_WARN  = "WARN"
	LOG_LEVEL_ERROR = "ERROR"
	LOG_LEVEL_FATAL = "FATAL"
	LOG_LEVEL_PANIC = "PANIC"

	levelEnv = "PARSER_LOGLEVEL"
)

func SetupLogging() {
	zerolog.LevelFieldName = "level_name"
	zerolog.TimestampFieldName = "timestamp"
}

func Level() zerolog.Level {
	level, ok := os.LookupEnv(levelEnv)
	if !ok {
		level = LOG_LEVEL_INFO
	}
	switch level {
	case LOG_LEVEL_DEBUG:
		return zerolog.DebugLevel
	case LOG_LEVEL_WARN:
		return zerolog.WarnLevel
	case LOG_LEVEL_ERROR:
		return zerolog.ErrorLevel
	case LOG_LEVEL_FATAL:
		return zerolog.FatalLevel
	case LOG_LEVEL_PANIC:
		return zerolog.PanicLevel
	}
	return zerolog.InfoLevel
}

func NewLogger(component string) zerolog.Logger {
	return NewLoggerTo(os.Stderr, component)
}

func NewLoggerTo(w io.Writer, component string) zerolog.Logger {
	return zerolog.New(w).
		With().
		Str("component", component).
		Timestamp().
		Logger().
		Level(Level())
}
