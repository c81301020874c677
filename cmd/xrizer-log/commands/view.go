// Package commands implements the xrizer-log subcommands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/testerpester2/xrizer/pkg/log"
)

// ParseCategoryFlag parses a category name into a log.Category.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch s {
	case "sync":
		return log.CategorySync, nil
	case "device":
		return log.CategoryDevice, nil
	case "binding":
		return log.CategoryBinding, nil
	case "space":
		return log.CategorySpace, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q (sync, device, binding, space, state, error)", s)
	}
}

// ParseDeviceFlag parses a device index flag.
func ParseDeviceFlag(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid device index %q", s)
	}
	return uint32(v), nil
}

// RunView prints the events of a log file in human-readable form.
func RunView(path string, filter *log.Filter, w io.Writer) error {
	r, err := log.NewReader(path, filter)
	if err != nil {
		return err
	}
	defer r.Close()

	count := 0
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading event %d: %w", count, err)
		}
		fmt.Fprintln(w, formatEvent(event))
		count++
	}

	fmt.Fprintf(w, "\n%d events\n", count)
	return nil
}

// formatEvent renders one event as a single line.
func formatEvent(e log.Event) string {
	ts := e.Timestamp.Format(time.RFC3339Nano)
	prefix := fmt.Sprintf("%s [%s]", ts, e.Category)
	if e.DeviceIndex != nil {
		prefix += fmt.Sprintf(" dev=%d", *e.DeviceIndex)
	}

	switch {
	case e.Sync != nil:
		return fmt.Sprintf("%s frame=%d duration=%s actions=%d stale=%d",
			prefix, e.Sync.Frame, e.Sync.Duration, e.Sync.ActionCount, e.Sync.StaleCount)
	case e.Device != nil:
		s := fmt.Sprintf("%s entity=%d class=%s %s->%s",
			prefix, e.Device.Entity, e.Device.Class, e.Device.OldState, e.Device.NewState)
		if e.Device.Serial != "" {
			s += " serial=" + e.Device.Serial
		}
		return s
	case e.Binding != nil:
		return fmt.Sprintf("%s profile=%s source=%s bindings=%d",
			prefix, e.Binding.Profile, e.Binding.Source, e.Binding.BindingCount)
	case e.Space != nil:
		s := prefix + " origin=" + e.Space.Origin
		if e.Space.Recentered {
			s += " recentered"
		}
		return s
	case e.StateChange != nil:
		s := fmt.Sprintf("%s %s->%s", prefix, e.StateChange.OldState, e.StateChange.NewState)
		if e.StateChange.Reason != "" {
			s += " (" + e.StateChange.Reason + ")"
		}
		return s
	case e.Error != nil:
		s := fmt.Sprintf("%s scope=%s msg=%q", prefix, e.Error.Scope, e.Error.Message)
		if e.Error.Action != "" {
			s += " action=" + e.Error.Action
		}
		return s
	default:
		return prefix
	}
}
