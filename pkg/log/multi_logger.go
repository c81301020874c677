package log

// MultiLogger fans one event stream out to several sinks, typically a
// FileLogger for the .xlog file alongside a SlogAdapter for the
// console. Nil sinks are skipped, so optional outputs can be passed
// straight through.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger builds a fan-out over the given sinks.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	kept := make([]Logger, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &MultiLogger{sinks: kept}
}

// Log forwards the event to every sink in order.
func (m *MultiLogger) Log(event Event) {
	for _, s := range m.sinks {
		s.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
