package log

// Logger is the event sink the runtime components log through.
// Implementations must be safe for concurrent use and should return
// quickly; the sync cycle logs inline.
type Logger interface {
	Log(event Event)
}

// NoopLogger drops every event. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
