package log

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"
)

func u32(v uint32) *uint32 { return &v }

func sampleEvents(session string) []Event {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []Event{
		{
			Timestamp: base,
			SessionID: session,
			Category:  CategoryState,
			StateChange: &StateChangeEvent{
				NewState: "running",
			},
		},
		{
			Timestamp:   base.Add(10 * time.Millisecond),
			SessionID:   session,
			Category:    CategoryDevice,
			DeviceIndex: u32(1),
			Device: &DeviceEvent{
				Entity:   42,
				Class:    "controller",
				NewState: "active",
				Serial:   "LHR-00000001",
			},
		},
		{
			Timestamp: base.Add(20 * time.Millisecond),
			SessionID: session,
			Category:  CategorySync,
			Sync: &SyncEvent{
				Frame:       1,
				Duration:    3 * time.Millisecond,
				ActionCount: 5,
				StaleCount:  1,
			},
		},
		{
			Timestamp: base.Add(30 * time.Millisecond),
			SessionID: session,
			Category:  CategoryError,
			Error: &ErrorEventData{
				Scope:   "sync",
				Message: "backend timeout",
				Action:  "/actions/main/in/fire",
			},
		},
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	events := sampleEvents("session-a")
	for _, want := range events {
		data, err := EncodeEvent(want)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := DecodeEvent(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Category != want.Category {
			t.Errorf("category = %v, want %v", got.Category, want.Category)
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("timestamp = %v, want %v", got.Timestamp, want.Timestamp)
		}
		if got.SessionID != want.SessionID {
			t.Errorf("session = %q, want %q", got.SessionID, want.SessionID)
		}
	}
}

func TestFileLoggerRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.xlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}

	events := sampleEvents("session-b")
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Close is idempotent and logging after close is a no-op.
	if err := logger.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	logger.Log(events[0])

	got, err := ReadAll(path, nil)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}

	if got[1].Device == nil {
		t.Fatal("device payload missing")
	}
	if got[1].Device.Serial != "LHR-00000001" {
		t.Errorf("serial = %q", got[1].Device.Serial)
	}
	if got[2].Sync == nil || got[2].Sync.Frame != 1 {
		t.Error("sync payload wrong")
	}
	if got[3].Error == nil || got[3].Error.Action != "/actions/main/in/fire" {
		t.Error("error payload wrong")
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append.xlog")

	first, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	first.Log(sampleEvents("s1")[0])
	first.Close()

	second, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	second.Log(sampleEvents("s2")[0])
	second.Close()

	got, err := ReadAll(path, nil)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d events, want 2", len(got))
	}
	if got[0].SessionID != "s1" || got[1].SessionID != "s2" {
		t.Errorf("sessions = %q, %q", got[0].SessionID, got[1].SessionID)
	}
}

func TestReaderFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.xlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range sampleEvents("s1") {
		logger.Log(e)
	}
	for _, e := range sampleEvents("s2") {
		logger.Log(e)
	}
	logger.Close()

	t.Run("by session", func(t *testing.T) {
		got, err := ReadAll(path, &Filter{SessionID: "s2"})
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("read %d events, want 4", len(got))
		}
	})

	t.Run("by category", func(t *testing.T) {
		cat := CategoryError
		got, err := ReadAll(path, &Filter{Category: &cat})
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("read %d events, want 2", len(got))
		}
		for _, e := range got {
			if e.Category != CategoryError {
				t.Errorf("category = %v", e.Category)
			}
		}
	})

	t.Run("by device index", func(t *testing.T) {
		got, err := ReadAll(path, &Filter{DeviceIndex: u32(1)})
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("read %d events, want 2", len(got))
		}
	})

	t.Run("by time window", func(t *testing.T) {
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		got, err := ReadAll(path, &Filter{
			SessionID: "s1",
			TimeStart: base.Add(10 * time.Millisecond),
			TimeEnd:   base.Add(30 * time.Millisecond),
		})
		if err != nil {
			t.Fatalf("ReadAll: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("read %d events, want 2", len(got))
		}
	})
}

func TestReaderNextEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eof.xlog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	logger.Close()

	r, err := NewReader(path, nil)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next = %v, want io.EOF", err)
	}
}

type captureLogger struct {
	events []Event
}

func (c *captureLogger) Log(e Event) { c.events = append(c.events, e) }

func TestMultiLogger(t *testing.T) {
	a := &captureLogger{}
	b := &captureLogger{}
	m := NewMultiLogger(a, nil, b, NoopLogger{})

	m.Log(sampleEvents("s")[0])
	m.Log(sampleEvents("s")[1])

	if len(a.events) != 2 || len(b.events) != 2 {
		t.Errorf("fan-out counts = %d, %d", len(a.events), len(b.events))
	}
}

func TestCategoryString(t *testing.T) {
	cases := map[Category]string{
		CategorySync:    "SYNC",
		CategoryDevice:  "DEVICE",
		CategoryBinding: "BINDING",
		CategorySpace:   "SPACE",
		CategoryState:   "STATE",
		CategoryError:   "ERROR",
		Category(99):    "UNKNOWN",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Errorf("Category(%d).String() = %q, want %q", c, got, want)
		}
	}
}
