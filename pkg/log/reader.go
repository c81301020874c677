package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter selects which events a Reader returns.
// Zero-value fields match everything.
type Filter struct {
	// SessionID restricts to a single session when non-empty.
	SessionID string

	// Category restricts to a single category when non-nil.
	Category *Category

	// DeviceIndex restricts to events for a single device when non-nil.
	DeviceIndex *uint32

	// TimeStart includes only events at or after this time when non-zero.
	TimeStart time.Time

	// TimeEnd includes only events before this time when non-zero.
	TimeEnd time.Time
}

func (f *Filter) matches(event Event) bool {
	if f == nil {
		return true
	}
	if f.SessionID != "" && event.SessionID != f.SessionID {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.DeviceIndex != nil {
		if event.DeviceIndex == nil || *event.DeviceIndex != *f.DeviceIndex {
			return false
		}
	}
	if !f.TimeStart.IsZero() && event.Timestamp.Before(f.TimeStart) {
		return false
	}
	if !f.TimeEnd.IsZero() && !event.Timestamp.Before(f.TimeEnd) {
		return false
	}
	return true
}

// Reader reads events from a CBOR log file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  *Filter
}

// NewReader opens a log file for reading.
// A nil filter returns all events.
func NewReader(path string, filter *Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next event matching the filter.
// It returns io.EOF when the log is exhausted.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadAll reads all events matching the filter from a log file.
func ReadAll(path string, filter *Filter) ([]Event, error) {
	r, err := NewReader(path, filter)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var events []Event
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}
