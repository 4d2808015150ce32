// Package anim stages the visual reveal of newly merged graph elements.
//
// The driver runs one frame loop per batch: waves of nodes are inserted at
// fixed frame offsets, each node's size and opacity are interpolated from
// a seed value to their targets with an ease-out curve, and edges fade in
// a few frames after their endpoints start appearing. The simulation is
// held disabled for the whole run so forces do not fight interpolated
// positions; once every element has settled, the profile for the new total
// node count is applied and the view is asked to frame the new nodes.
//
// Batches are isolated: a run in flight is never torn down by a newer
// batch, only by explicit cancellation (store teardown). Large batches
// skip interpolation entirely and apply final values in one call.
package anim

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphstage/graphstage/pkg/errors"
	"github.com/graphstage/graphstage/pkg/graph"
	"github.com/graphstage/graphstage/pkg/observability"
	"github.com/graphstage/graphstage/pkg/physics"
	"github.com/graphstage/graphstage/pkg/stage"
)

// Animation tuning defaults, all expressed in frames so a single loop
// drives node growth, edge fades, and inter-wave delays.
const (
	// DefaultRevealFrames is how many frames a node takes to reach full
	// size and opacity (~400ms at 60Hz).
	DefaultRevealFrames = 25

	// DefaultWaveLagFrames is the fixed inter-wave delay (~150ms at 60Hz).
	DefaultWaveLagFrames = 9

	// DefaultEdgeLagFrames delays edge fade-in behind the endpoints'
	// appearance.
	DefaultEdgeLagFrames = 4

	// DefaultAnimateMaxNodes is the batch-size policy switch: a batch with
	// at least this many new nodes applies final values immediately to
	// preserve responsiveness.
	DefaultAnimateMaxNodes = 200

	// seedSize and seedOpacity are the initial visual values of a revealed
	// node.
	seedSize    = 1.0
	seedOpacity = 0.05
)

// Canvas is the slice of the rendering substrate the driver needs.
type Canvas interface {
	Insert(nodes []graph.Node, edges []graph.Edge) error
	Update(nodes []graph.Node, edges []graph.Edge) error
	SetSimulationProfile(p physics.Profile) error
	RequestViewFit(ids []string) error
}

// RunState tracks a batch reveal through its lifecycle.
type RunState int32

const (
	RunStaging RunState = iota
	RunAnimating
	RunSettled
	RunAbandoned
)

func (s RunState) String() string {
	switch s {
	case RunStaging:
		return "staging"
	case RunAnimating:
		return "animating"
	case RunSettled:
		return "settled"
	case RunAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Run is the per-batch animation state machine. Each batch gets its own
// Run with its own cancellation flag; cancelling one never affects
// another.
type Run struct {
	state     atomic.Int32
	cancelled atomic.Bool
	done      chan struct{}
}

func newRun() *Run {
	return &Run{done: make(chan struct{})}
}

// State returns the current lifecycle state.
func (r *Run) State() RunState { return RunState(r.state.Load()) }

// Done is closed when the run settles or is abandoned.
func (r *Run) Done() <-chan struct{} { return r.done }

// Cancel marks the run abandoned at the next frame boundary. Used on
// store teardown; newer batches never cancel older ones.
func (r *Run) Cancel() { r.cancelled.Store(true) }

// Plan describes one batch reveal.
type Plan struct {
	Waves   []stage.Wave    // staged node groups, in reveal order
	Nodes   []graph.Node    // newly inserted nodes, batch order
	Edges   []graph.Edge    // newly inserted edges
	Profile physics.Profile // profile for the new total node count
	Animate bool            // interpolate vs. apply final values
	Fit     bool            // request a view-fit once settled
	FitIDs  []string        // fit target; nil fits the whole graph
}

// Driver stages batch reveals against a canvas. Zero-value tuning fields
// select the defaults; the zero Clock is a real 60Hz clock.
type Driver struct {
	Store  *graph.Store
	Canvas Canvas
	Clock  Clock
	Logger *log.Logger

	RevealFrames  int
	WaveLagFrames int
	EdgeLagFrames int
}

func (d *Driver) clock() Clock {
	if d.Clock == nil {
		return RealClock{}
	}
	return d.Clock
}

func (d *Driver) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}

func (d *Driver) tuning() (reveal, waveLag, edgeLag int) {
	reveal, waveLag, edgeLag = d.RevealFrames, d.WaveLagFrames, d.EdgeLagFrames
	if reveal <= 0 {
		reveal = DefaultRevealFrames
	}
	if waveLag <= 0 {
		waveLag = DefaultWaveLagFrames
	}
	if edgeLag < 0 {
		edgeLag = DefaultEdgeLagFrames
	}
	return reveal, waveLag, edgeLag
}

// Start launches one batch plan on its own goroutine and returns its Run
// immediately. Each call gets an independent Run; concurrent batches do
// not share animation state. Wait on Run.Done for completion.
func (d *Driver) Start(ctx context.Context, plan Plan) *Run {
	run := newRun()
	go d.reveal(ctx, run, plan)
	return run
}

// Reveal executes one batch plan to completion and returns its Run. The
// call blocks. Substrate failures are recovered or logged, never fatal:
// the worst case is an unanimated graph.
func (d *Driver) Reveal(ctx context.Context, plan Plan) *Run {
	run := newRun()
	d.reveal(ctx, run, plan)
	return run
}

func (d *Driver) reveal(ctx context.Context, run *Run, plan Plan) {
	defer close(run.done)

	start := time.Now()
	observability.Sync().OnAnimationStart(ctx, len(plan.Nodes), plan.Animate)

	// A batch with no staged waves (edge-only updates) has nothing to
	// interpolate.
	if !plan.Animate || len(plan.Waves) == 0 {
		d.applyImmediate(ctx, plan)
		run.state.Store(int32(RunSettled))
		observability.Sync().OnAnimationSettled(ctx, len(plan.Nodes), time.Since(start))
		return
	}

	if err := d.Canvas.SetSimulationProfile(physics.Disabled()); err != nil {
		d.logger().Warn("suspend simulation", "err", err)
	}

	run.state.Store(int32(RunAnimating))
	if d.animateFrames(ctx, run, plan) {
		run.state.Store(int32(RunAbandoned))
		return
	}

	d.restore(ctx, plan)
	run.state.Store(int32(RunSettled))
	observability.Sync().OnAnimationSettled(ctx, len(plan.Nodes), time.Since(start))
	return
}

// applyImmediate inserts everything at final values in one call.
func (d *Driver) applyImmediate(ctx context.Context, plan Plan) {
	nodes := make([]graph.Node, len(plan.Nodes))
	for i, n := range plan.Nodes {
		n.Opacity = 1
		n.VisualState = graph.VisualSettled
		nodes[i] = n
	}
	edges := make([]graph.Edge, len(plan.Edges))
	for i, e := range plan.Edges {
		e.Opacity = 1
		edges[i] = e
	}
	d.insert(nodes, edges)
	for _, n := range nodes {
		_ = d.Store.SetVisualState(n.ID, graph.VisualSettled)
	}
	d.restore(ctx, plan)
}

// restore re-enables the simulation with the profile selected for the new
// total node count and frames the inserted nodes.
func (d *Driver) restore(ctx context.Context, plan Plan) {
	if err := d.Canvas.SetSimulationProfile(plan.Profile); err != nil {
		// Non-fatal: the canvas keeps whatever profile was active.
		d.logger().Warn("restore simulation profile", "tier", plan.Profile.Tier, "err", err)
	}
	if plan.Fit {
		if err := d.Canvas.RequestViewFit(plan.FitIDs); err != nil {
			d.logger().Warn("view fit", "err", err)
		}
	}
}

// insert pushes a batch to the canvas, converting a duplicate-ID rejection
// into an update of the same payload.
func (d *Driver) insert(nodes []graph.Node, edges []graph.Edge) {
	err := d.Canvas.Insert(nodes, edges)
	if err == nil {
		return
	}
	if errors.Is(err, errors.ErrCodeSubstrateDuplicateID) {
		if err := d.Canvas.Update(nodes, edges); err != nil {
			d.logger().Warn("update after duplicate insert", "err", err)
		}
		return
	}
	d.logger().Warn("canvas insert", "err", err)
}

// frameState tracks one element's interpolation window.
type frameState struct {
	startFrame int
	target     float64 // node target size; unused for edges
}

// animateFrames runs the staged frame loop. It reports whether the run
// was cancelled before settling.
func (d *Driver) animateFrames(ctx context.Context, run *Run, plan Plan) (cancelled bool) {
	revealFrames, waveLag, edgeLag := d.tuning()
	clock := d.clock()

	nodeByID := make(map[string]graph.Node, len(plan.Nodes))
	for _, n := range plan.Nodes {
		nodeByID[n.ID] = n
	}

	waveOf := make(map[string]int, len(plan.Nodes))
	for w, wave := range plan.Waves {
		for _, id := range wave {
			waveOf[id] = w
		}
	}

	// An edge joins the wave of its later endpoint. Endpoints outside the
	// batch are already visible and do not delay it; fully dangling edges
	// go out with the last wave.
	edgeWave := func(e graph.Edge) int {
		w := 0
		known := false
		for _, end := range []string{e.From, e.To} {
			if ew, ok := waveOf[end]; ok {
				known = true
				if ew > w {
					w = ew
				}
			} else if d.Store.HasNode(end) {
				known = true
			}
		}
		if !known {
			return len(plan.Waves) - 1
		}
		return w
	}

	nodeFrames := make(map[string]frameState, len(plan.Nodes))
	edgeFrames := make(map[string]frameState, len(plan.Edges))
	edgesByWave := make(map[int][]graph.Edge)
	for _, e := range plan.Edges {
		edgesByWave[edgeWave(e)] = append(edgesByWave[edgeWave(e)], e)
	}

	lastStart := 0
	totalWaves := len(plan.Waves)
	for frame := 0; ; frame++ {
		if run.cancelled.Load() || ctx.Err() != nil {
			return true
		}

		// Insert the wave scheduled for this frame.
		if frame%waveLag == 0 {
			w := frame / waveLag
			if w < totalWaves {
				d.revealWave(ctx, w, plan.Waves[w], edgesByWave[w], nodeByID, frame, edgeLag, nodeFrames, edgeFrames)
				lastStart = frame + edgeLag
			}
		}

		if d.stepFrame(frame, revealFrames, nodeByID, nodeFrames, edgeFrames) &&
			frame >= lastStart+revealFrames && (frame/waveLag) >= totalWaves {
			return false
		}

		if err := clock.WaitFrame(ctx); err != nil {
			return true
		}
	}
}

// revealWave seeds one wave's nodes and edges into the canvas.
func (d *Driver) revealWave(ctx context.Context, w int, wave stage.Wave, edges []graph.Edge, nodeByID map[string]graph.Node, frame, edgeLag int, nodeFrames, edgeFrames map[string]frameState) {
	nodes := make([]graph.Node, 0, len(wave))
	for _, id := range wave {
		n, ok := nodeByID[id]
		if !ok {
			continue
		}
		nodeFrames[id] = frameState{startFrame: frame, target: n.Size}
		n.Size = seedSize
		n.Opacity = seedOpacity
		n.VisualState = graph.VisualAnimating
		nodes = append(nodes, n)
		_ = d.Store.SetVisualState(id, graph.VisualAnimating)
	}
	seeded := make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		edgeFrames[e.ID] = frameState{startFrame: frame + edgeLag}
		e.Opacity = seedOpacity
		seeded = append(seeded, e)
	}
	d.insert(nodes, seeded)
	observability.Sync().OnWaveRevealed(ctx, w, len(nodes))
}

// stepFrame advances every in-flight interpolation by one frame and
// pushes the changed values as a single update. It reports whether all
// elements have settled.
func (d *Driver) stepFrame(frame, revealFrames int, nodeByID map[string]graph.Node, nodeFrames, edgeFrames map[string]frameState) bool {
	var nodes []graph.Node
	var edges []graph.Edge
	settled := true

	for id, fs := range nodeFrames {
		elapsed := frame - fs.startFrame
		if elapsed < 0 || elapsed > revealFrames {
			continue
		}
		t := easeOutCubic(float64(elapsed) / float64(revealFrames))
		n := nodeByID[id]
		n.Size = seedSize + (fs.target-seedSize)*t
		n.Opacity = seedOpacity + (1-seedOpacity)*t
		if elapsed == revealFrames {
			n.Size = fs.target
			n.Opacity = 1
			n.VisualState = graph.VisualSettled
			_ = d.Store.SetVisualState(id, graph.VisualSettled)
		}
		nodes = append(nodes, n)
	}
	for id, fs := range edgeFrames {
		elapsed := frame - fs.startFrame
		if elapsed < 0 || elapsed > revealFrames {
			continue
		}
		t := easeOutCubic(float64(elapsed) / float64(revealFrames))
		edges = append(edges, graph.Edge{ID: id, Opacity: seedOpacity + (1-seedOpacity)*t})
	}

	for _, fs := range nodeFrames {
		if frame < fs.startFrame+revealFrames {
			settled = false
			break
		}
	}
	if settled {
		for _, fs := range edgeFrames {
			if frame < fs.startFrame+revealFrames {
				settled = false
				break
			}
		}
	}

	if len(nodes) > 0 || len(edges) > 0 {
		if err := d.Canvas.Update(nodes, edges); err != nil {
			d.logger().Warn("frame update", "err", err)
		}
	}
	return settled
}

// easeOutCubic maps linear progress to a fast-start, gentle-stop curve.
func easeOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}
