package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a .xlog file. Safe for concurrent use.
// A failed write is dropped; the sync loop never blocks on the sink.
type FileLogger struct {
	mu  sync.Mutex
	f   *os.File
	enc *cbor.Encoder
}

// NewFileLogger opens path for appending, creating it with mode 0644
// when absent. Events from separate runs accumulate in the same file.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{f: f, enc: NewEncoder(f)}, nil
}

// Log appends one event. Events logged after Close are dropped.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}
	_ = l.enc.Encode(event)
}

// Close closes the underlying file. Calling Close again is a no-op.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

var _ Logger = (*FileLogger)(nil)
