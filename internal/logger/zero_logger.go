package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// ZeroLogger emits JSON log lines through zerolog. The default fields
// identify the service instance and are attached to every entry.
type ZeroLogger struct {
	zl zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

// NewZeroLogger returns a ZeroLogger writing to the given writer at the
// given minimum level.
func NewZeroLogger(writer io.Writer, level Level, defaultFields Fields) *ZeroLogger {
	zl := zerolog.New(writer).
		With().
		Fields(map[string]interface{}(defaultFields)).
		Timestamp().
		Logger().
		Level(zerologLevel(level))
	return &ZeroLogger{zl: zl}
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelOff:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZeroLogger) Debug(message string, fields Fields) {
	l.zl.Debug().Fields(map[string]interface{}(fields)).Msg(message)
}

func (l *ZeroLogger) Info(message string, fields Fields) {
	l.zl.Info().Fields(map[string]interface{}(fields)).Msg(message)
}

func (l *ZeroLogger) Error(err error, fields Fields) {
	l.zl.Error().Fields(map[string]interface{}(fields)).Err(err).Msg(err.Error())
}
