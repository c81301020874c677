package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/testerpester2/xrizer/pkg/log"
)

// Stats summarizes a log file.
type Stats struct {
	Total      int
	ByCategory map[log.Category]int
	Sessions   map[string]int

	First, Last time.Time

	SyncCycles    int
	StaleActions  int
	SyncTotalTime time.Duration
	Errors        int
}

// CollectStats reads a whole log file into summary counters.
func CollectStats(path string) (*Stats, error) {
	events, err := log.ReadAll(path, nil)
	if err != nil {
		return nil, err
	}

	s := &Stats{
		ByCategory: make(map[log.Category]int),
		Sessions:   make(map[string]int),
	}
	for _, e := range events {
		s.Total++
		s.ByCategory[e.Category]++
		s.Sessions[e.SessionID]++

		if s.First.IsZero() || e.Timestamp.Before(s.First) {
			s.First = e.Timestamp
		}
		if e.Timestamp.After(s.Last) {
			s.Last = e.Timestamp
		}

		if e.Sync != nil {
			s.SyncCycles++
			s.StaleActions += e.Sync.StaleCount
			s.SyncTotalTime += e.Sync.Duration
		}
		if e.Category == log.CategoryError {
			s.Errors++
		}
	}
	return s, nil
}

// RunStats prints log file statistics.
func RunStats(path string, w io.Writer) error {
	s, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Events:   %d\n", s.Total)
	if s.Total == 0 {
		return nil
	}
	fmt.Fprintf(w, "Span:     %s .. %s\n", s.First.Format(time.RFC3339), s.Last.Format(time.RFC3339))
	fmt.Fprintf(w, "Sessions: %d\n", len(s.Sessions))

	fmt.Fprintln(w, "\nBy category:")
	cats := make([]log.Category, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		fmt.Fprintf(w, "  %-8s %d\n", c, s.ByCategory[c])
	}

	if s.SyncCycles > 0 {
		fmt.Fprintln(w, "\nSync:")
		fmt.Fprintf(w, "  cycles:        %d\n", s.SyncCycles)
		fmt.Fprintf(w, "  stale actions: %d\n", s.StaleActions)
		fmt.Fprintf(w, "  avg duration:  %s\n", s.SyncTotalTime/time.Duration(s.SyncCycles))
	}
	if s.Errors > 0 {
		fmt.Fprintf(w, "\nErrors: %d\n", s.Errors)
	}
	return nil
}
