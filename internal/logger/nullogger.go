package logger

// NullLogger discards every entry. Tests embed it when they only care
// about one method of the Logger surface.
type NullLogger struct{}

var _ Logger = (*NullLogger)(nil)

// NewNullLogger returns a Logger that discards everything.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Debug(_ string, _ Fields) {}

func (l *NullLogger) Info(_ string, _ Fields) {}

func (l *NullLogger) Error(_ error, _ Fields) {}
