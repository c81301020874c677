package commands

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testerpester2/xrizer/pkg/log"
)

func writeTestLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer logger.Close()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	idx := uint32(1)
	logger.Log(log.Event{
		Timestamp: base,
		SessionID: "s1",
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			NewState: "running",
			Reason:   "session start",
		},
	})
	logger.Log(log.Event{
		Timestamp:   base.Add(time.Millisecond),
		SessionID:   "s1",
		Category:    log.CategoryDevice,
		DeviceIndex: &idx,
		Device: &log.DeviceEvent{
			Entity:   2,
			Class:    "CONTROLLER",
			NewState: "active",
			Serial:   "LHR-TEST0001",
		},
	})
	logger.Log(log.Event{
		Timestamp: base.Add(2 * time.Millisecond),
		SessionID: "s1",
		Category:  log.CategorySync,
		Sync: &log.SyncEvent{
			Frame:       1,
			Duration:    2 * time.Millisecond,
			ActionCount: 4,
			StaleCount:  1,
		},
	})
	logger.Log(log.Event{
		Timestamp: base.Add(3 * time.Millisecond),
		SessionID: "s1",
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Scope:   "sync",
			Message: "backend timeout",
			Action:  "/actions/main/in/fire",
		},
	})
	return path
}

func TestRunView(t *testing.T) {
	path := writeTestLog(t)

	var buf strings.Builder
	if err := RunView(path, nil, &buf); err != nil {
		t.Fatalf("RunView: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "4 events") {
		t.Errorf("missing event count:\n%s", out)
	}
	if !strings.Contains(out, "serial=LHR-TEST0001") {
		t.Errorf("missing device line:\n%s", out)
	}
	if !strings.Contains(out, "frame=1") || !strings.Contains(out, "stale=1") {
		t.Errorf("missing sync line:\n%s", out)
	}
	if !strings.Contains(out, "action=/actions/main/in/fire") {
		t.Errorf("missing error line:\n%s", out)
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := writeTestLog(t)

	cat, err := ParseCategoryFlag("sync")
	if err != nil {
		t.Fatal(err)
	}
	var buf strings.Builder
	if err := RunView(path, &log.Filter{Category: &cat}, &buf); err != nil {
		t.Fatalf("RunView: %v", err)
	}
	if !strings.Contains(buf.String(), "1 events") {
		t.Errorf("filter did not apply:\n%s", buf.String())
	}
}

func TestParseCategoryFlag(t *testing.T) {
	if _, err := ParseCategoryFlag("bogus"); err == nil {
		t.Error("expected error for unknown category")
	}
	c, err := ParseCategoryFlag("device")
	if err != nil || c != log.CategoryDevice {
		t.Errorf("ParseCategoryFlag(device) = %v, %v", c, err)
	}
}

func TestParseDeviceFlag(t *testing.T) {
	if _, err := ParseDeviceFlag("x"); err == nil {
		t.Error("expected error for non-numeric index")
	}
	v, err := ParseDeviceFlag("3")
	if err != nil || v != 3 {
		t.Errorf("ParseDeviceFlag(3) = %v, %v", v, err)
	}
}
