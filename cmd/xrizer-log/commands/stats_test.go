package commands

import (
	"strings"
	"testing"

	"github.com/testerpester2/xrizer/pkg/log"
)

func TestCollectStats(t *testing.T) {
	path := writeTestLog(t)

	s, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats: %v", err)
	}
	if s.Total != 4 {
		t.Errorf("total = %d", s.Total)
	}
	if s.SyncCycles != 1 || s.StaleActions != 1 {
		t.Errorf("sync = %d cycles, %d stale", s.SyncCycles, s.StaleActions)
	}
	if s.Errors != 1 {
		t.Errorf("errors = %d", s.Errors)
	}
	if len(s.Sessions) != 1 {
		t.Errorf("sessions = %d", len(s.Sessions))
	}
	if s.ByCategory[log.CategoryDevice] != 1 {
		t.Errorf("device events = %d", s.ByCategory[log.CategoryDevice])
	}
	if !s.Last.After(s.First) {
		t.Errorf("span = %v .. %v", s.First, s.Last)
	}
}

func TestRunStats(t *testing.T) {
	path := writeTestLog(t)

	var buf strings.Builder
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Events:   4") {
		t.Errorf("missing total:\n%s", out)
	}
	if !strings.Contains(out, "cycles:        1") {
		t.Errorf("missing sync section:\n%s", out)
	}
	if !strings.Contains(out, "Errors: 1") {
		t.Errorf("missing error count:\n%s", out)
	}
}
