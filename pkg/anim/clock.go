package anim

import (
	"context"
	"time"
)

// DefaultFrameInterval approximates one display refresh at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Clock paces the frame loop so the driver can run against real time in
// production and instantly in tests. Each batch run does its own waiting;
// clocks carry no per-batch state.
type Clock interface {
	// WaitFrame blocks until the next display frame.
	WaitFrame(ctx context.Context) error
}

// RealClock paces frames with wall-clock timers.
type RealClock struct {
	// FrameInterval is the time between frames; zero selects
	// DefaultFrameInterval.
	FrameInterval time.Duration
}

// WaitFrame blocks for one frame interval or until the context is
// cancelled.
func (c RealClock) WaitFrame(ctx context.Context) error {
	interval := c.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// InstantClock never waits. Frame counts and wave ordering are preserved,
// which makes animation runs deterministic and fast in tests.
type InstantClock struct{}

// WaitFrame returns immediately, honoring cancellation.
func (InstantClock) WaitFrame(ctx context.Context) error { return ctx.Err() }
