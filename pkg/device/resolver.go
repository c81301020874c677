package device

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/testerpester2/xrizer/pkg/backend"
	"github.com/testerpester2/xrizer/pkg/log"
	"github.com/testerpester2/xrizer/pkg/pose"
)

// Resolver resolves device poses into caller-facing tracking origins.
// Recenter is owner-thread-only; PoseFor is safe from any goroutine.
type Resolver struct {
	rt       backend.Runtime
	registry *Registry

	// seatedOrigin is the head pose captured in the local space at the
	// last recenter, or nil before the first recenter.
	seatedOrigin atomic.Pointer[pose.Transform]

	logger    log.Logger
	sessionID string
}

// NewResolver creates a resolver over the given backend runtime and
// registry. A nil logger disables logging.
func NewResolver(rt backend.Runtime, registry *Registry, logger log.Logger, sessionID string) *Resolver {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Resolver{
		rt:        rt,
		registry:  registry,
		logger:    logger,
		sessionID: sessionID,
	}
}

// PoseFor resolves the pose of a device index in the requested tracking
// origin, predicted for time at.
//
// The seated origin applies the offset captured by the last Recenter;
// standing and raw are served directly from the backend's stage space.
// A free or retiring index returns ErrNotConnected.
func (r *Resolver) PoseFor(ctx context.Context, index uint32, origin backend.TrackingOrigin, at time.Time) (backend.PoseSample, error) {
	slot, err := r.registry.Get(index)
	if err != nil {
		return backend.PoseSample{}, err
	}

	space := backend.NativeSpace(origin)
	sample, err := r.rt.EntityPose(ctx, slot.Entity, space, at)
	if err != nil {
		if errors.Is(err, backend.ErrEntityUnknown) {
			return backend.PoseSample{}, ErrNotConnected
		}
		return backend.PoseSample{}, err
	}

	if origin == backend.OriginSeated {
		if offset := r.seatedOrigin.Load(); offset != nil {
			inv := offset.Inverse()
			sample.Transform = inv.Mul(sample.Transform)
			sample.Velocity = inv.Rotation.Rotate(sample.Velocity)
			sample.AngularVelocity = inv.Rotation.Rotate(sample.AngularVelocity)
		}
	}
	return sample, nil
}

// Recenter captures the current head pose in the seated origin's native
// space and stores it as the new seated offset. Recentering any other
// origin is a no-op: standing and raw are anchored by the backend.
// Owner-thread-only, serialized with Sync by the session.
func (r *Resolver) Recenter(ctx context.Context, origin backend.TrackingOrigin, at time.Time) error {
	if origin != backend.OriginSeated {
		return nil
	}

	head, err := r.registry.Get(HeadIndex)
	if err != nil {
		return err
	}
	sample, err := r.rt.EntityPose(ctx, head.Entity, backend.SpaceLocal, at)
	if err != nil {
		if errors.Is(err, backend.ErrEntityUnknown) {
			return ErrNotConnected
		}
		return err
	}
	if sample.Validity == backend.PoseNotTracked {
		return ErrNotConnected
	}

	offset := sample.Transform
	r.seatedOrigin.Store(&offset)

	r.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: r.sessionID,
		Category:  log.CategorySpace,
		Space: &log.SpaceEvent{
			Origin:     origin.String(),
			Recentered: true,
		},
	})
	return nil
}

// SeatedOffset returns the stored seated origin offset and whether a
// recenter has happened.
func (r *Resolver) SeatedOffset() (pose.Transform, bool) {
	if t := r.seatedOrigin.Load(); t != nil {
		return *t, true
	}
	return pose.Identity, false
}
