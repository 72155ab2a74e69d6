// Package logger defines the structured logging surface of the settlement
// engine. Handlers and services depend on the Logger interface only; the
// API binary wires in the zerolog implementation, tests use NullLogger.
package logger

// Fields carries structured context for a log entry, such as the market
// and caller involved in a settlement operation.
type Fields map[string]interface{}

// Logger is the logging surface the rest of the engine depends on.
type Logger interface {
	Debug(message string, fields Fields)
	Info(message string, fields Fields)
	Error(err error, fields Fields)
}

// Level sets the minimum severity a logger emits.
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelError
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	default:
		return ""
	}
}
