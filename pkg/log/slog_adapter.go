package log

import (
	"context"
	"log/slog"
)

// SlogAdapter forwards runtime events to a standard library slog.Logger.
// Useful for surfacing events in existing logging pipelines alongside
// the CBOR file log.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a Logger that forwards events to the given
// slog.Logger at the given level. If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger, level slog.Level) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger, level: level}
}

// Log forwards the event as a structured slog record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("category", event.Category.String()),
	}
	if event.DeviceIndex != nil {
		attrs = append(attrs, slog.Uint64("device_index", uint64(*event.DeviceIndex)))
	}

	msg := event.Category.String()
	level := a.level

	switch {
	case event.Sync != nil:
		msg = "sync cycle"
		attrs = append(attrs,
			slog.Uint64("frame", event.Sync.Frame),
			slog.Duration("duration", event.Sync.Duration),
			slog.Int("actions", event.Sync.ActionCount),
		)
		if event.Sync.StaleCount > 0 {
			attrs = append(attrs, slog.Int("stale", event.Sync.StaleCount))
		}
	case event.Device != nil:
		msg = "device " + event.Device.NewState
		attrs = append(attrs,
			slog.Uint64("entity", event.Device.Entity),
			slog.String("class", event.Device.Class),
		)
		if event.Device.Serial != "" {
			attrs = append(attrs, slog.String("serial", event.Device.Serial))
		}
	case event.Binding != nil:
		msg = "bindings loaded"
		attrs = append(attrs,
			slog.String("profile", event.Binding.Profile),
			slog.String("source", event.Binding.Source),
			slog.Int("bindings", event.Binding.BindingCount),
		)
	case event.Space != nil:
		msg = "space changed"
		attrs = append(attrs, slog.String("origin", event.Space.Origin))
		if event.Space.Recentered {
			attrs = append(attrs, slog.Bool("recentered", true))
		}
	case event.StateChange != nil:
		msg = "state changed"
		attrs = append(attrs, slog.String("new_state", event.StateChange.NewState))
		if event.StateChange.OldState != "" {
			attrs = append(attrs, slog.String("old_state", event.StateChange.OldState))
		}
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		msg = "runtime error"
		level = slog.LevelError
		attrs = append(attrs,
			slog.String("scope", event.Error.Scope),
			slog.String("error", event.Error.Message),
		)
		if event.Error.Action != "" {
			attrs = append(attrs, slog.String("action", event.Error.Action))
		}
	}

	a.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
