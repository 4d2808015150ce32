// Package loader is the single entry point of the synchronization
// pipeline. It owns the live graph store and composes normalization,
// chunked processing, merge, wave staging, and animation against an
// abstract rendering substrate.
//
// One Loader serves one canvas. Multiple independent graphs get multiple
// Loaders; nothing is shared between them.
package loader

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/graphstage/graphstage/pkg/anim"
	"github.com/graphstage/graphstage/pkg/cache"
	"github.com/graphstage/graphstage/pkg/chunk"
	"github.com/graphstage/graphstage/pkg/errors"
	"github.com/graphstage/graphstage/pkg/graph"
	"github.com/graphstage/graphstage/pkg/observability"
	"github.com/graphstage/graphstage/pkg/physics"
	"github.com/graphstage/graphstage/pkg/stage"
)

// DefaultGraphID names the snapshot slot when the caller does not
// distinguish multiple graph surfaces.
const DefaultGraphID = "default"

// Hooks are the callbacks external collaborators register. All are
// optional.
type Hooks struct {
	// Counters receives the node/edge totals after every successful merge,
	// for display surfaces.
	Counters func(totalNodes, totalEdges int)

	// Downstream is the refresh hook invoked after a merge when the load
	// requested it, so property and search panels rebuild their indices.
	Downstream func(ctx context.Context, res graph.MergeResult)
}

// Config wires a Loader. Nil or zero fields select working defaults:
// a null snapshot cache, the default keyer, the default theme and tuning,
// a real 60Hz clock, and the package-default logger.
type Config struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Theme   graph.Theme
	Tuning  Tuning
	Clock   anim.Clock
	Hooks   Hooks
	GraphID string
}

// Result summarizes one load. Run is the batch's animation state machine;
// it is non-nil for every load and already settled for loads that skipped
// animation synchronously. Wait on Run.Done to observe settlement.
type Result struct {
	graph.MergeResult
	Waves int
	Run   *anim.Run
}

// Loader owns the live store and drives the substrate.
type Loader struct {
	store     *graph.Store
	substrate Substrate
	cache     cache.Cache
	keyer     cache.Keyer
	logger    *log.Logger
	theme     graph.Theme
	tuning    Tuning
	clock     anim.Clock
	hooks     Hooks
	graphID   string

	mu   sync.Mutex
	runs []*anim.Run
}

// New creates a Loader for the given substrate.
func New(substrate Substrate, cfg Config) *Loader {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = anim.RealClock{}
	}
	if cfg.Theme.NodeColors == nil && cfg.Theme.DefaultNode == "" {
		cfg.Theme = graph.DefaultTheme()
	}
	if cfg.GraphID == "" {
		cfg.GraphID = DefaultGraphID
	}
	return &Loader{
		store:     graph.NewStore(),
		substrate: substrate,
		cache:     cfg.Cache,
		keyer:     cfg.Keyer,
		logger:    cfg.Logger,
		theme:     cfg.Theme,
		tuning:    cfg.Tuning.withDefaults(),
		clock:     cfg.Clock,
		hooks:     cfg.Hooks,
		graphID:   cfg.GraphID,
	}
}

// Store exposes the live store for read access (counters, inspectors).
// Mutation goes through LoadData and Clear only.
func (l *Loader) Store() *graph.Store { return l.store }

// LoadData normalizes raw records, merges them into the live store, and
// stages their reveal on the substrate. It returns once the merge is
// complete; the visual reveal may still be in flight on the returned
// Run.
func (l *Loader) LoadData(ctx context.Context, rawNodes []graph.RawNode, rawEdges []graph.RawEdge, opts Options) (Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Result{}, err
	}

	chunkSize := opts.ChunkSize
	if chunkSize == 0 {
		chunkSize = l.tuning.ChunkSize
	}

	normStart := time.Now()
	observability.Sync().OnNormalizeStart(ctx, len(rawNodes), len(rawEdges))
	proc := chunk.Processor{Size: chunkSize}
	nodes, edges, err := proc.Process(ctx, rawNodes, rawEdges)
	observability.Sync().OnNormalizeComplete(ctx, len(rawNodes), len(rawEdges), time.Since(normStart), err)
	if err != nil {
		return Result{}, err
	}

	batch := graph.Batch{Nodes: nodes, Edges: edges, Mode: graph.ModeIncremental}
	if opts.Replace {
		batch.Mode = graph.ModeReplace
	}
	return l.apply(ctx, batch, opts)
}

// apply merges an already-normalized batch and stages its reveal.
func (l *Loader) apply(ctx context.Context, batch graph.Batch, opts Options) (Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Result{}, err
	}

	mergeStart := time.Now()
	observability.Sync().OnMergeStart(ctx, string(batch.Mode), len(batch.Nodes))
	res := graph.Merge(l.store, batch)
	observability.Sync().OnMergeComplete(ctx, string(res.Mode), res.NodesAdded, res.TotalNodes, time.Since(mergeStart))

	if l.hooks.Counters != nil {
		l.hooks.Counters(res.TotalNodes, res.TotalEdges)
	}

	if res.Mode == graph.ModeReplace {
		if err := l.substrate.Clear(); err != nil {
			l.logger.Warn("clear canvas for replace load", "err", err)
		}
	} else if len(res.UpdatedNodes) > 0 || len(res.UpdatedEdges) > 0 {
		// Refreshed records are pushed as one update; inserts are staged
		// below.
		if err := l.substrate.Update(res.UpdatedNodes, res.UpdatedEdges); err != nil {
			l.logger.Warn("push refreshed records", "err", err)
		}
	}

	profile := physics.SelectProfileWith(res.TotalNodes, l.tuning.Physics)

	animate := len(res.AddedNodes) > 0 && len(res.AddedNodes) < l.tuning.AnimateMaxNodes
	if opts.Animate != nil {
		animate = *opts.Animate && len(res.AddedNodes) > 0
	}

	if opts.ApplyTheme {
		// Before the plan is built: newly added records then stage with
		// their themed colors instead of racing a recolor update.
		l.applyTheme(res)
	}

	var waves []stage.Wave
	if res.Mode == graph.ModeIncremental && animate {
		waves = stage.ComputeWaves(res.AddedNodes, batch.Edges, l.tuning.MaxWaves)
		observability.Sync().OnWavePlanned(ctx, len(waves), len(res.AddedNodes))
	}

	plan := anim.Plan{
		Waves:   waves,
		Nodes:   res.AddedNodes,
		Edges:   res.AddedEdges,
		Profile: profile,
		Animate: animate,
		Fit:     opts.Fit,
		FitIDs:  l.fitTarget(res, opts),
	}
	driver := &anim.Driver{
		Store:         l.store,
		Canvas:        l.substrate,
		Clock:         l.clock,
		Logger:        l.logger,
		RevealFrames:  l.tuning.RevealFrames,
		WaveLagFrames: l.tuning.WaveLagFrames,
		EdgeLagFrames: l.tuning.EdgeLagFrames,
	}
	// The reveal outlives this call on purpose: a later load must not tear
	// it down, and the caller's cancellation no longer applies once the
	// merge has committed.
	run := driver.Start(context.WithoutCancel(ctx), plan)
	l.trackRun(run)

	if opts.UpdateDownstream && l.hooks.Downstream != nil {
		l.hooks.Downstream(ctx, res)
	}

	l.writeSnapshot(ctx)

	l.logger.Info("graph batch merged",
		"mode", res.Mode,
		"nodes_added", res.NodesAdded,
		"edges_added", res.EdgesAdded,
		"total_nodes", res.TotalNodes,
		"total_edges", res.TotalEdges,
		"waves", len(waves))

	return Result{MergeResult: res, Waves: len(waves), Run: run}, nil
}

// fitTarget picks what the post-load view-fit frames.
func (l *Loader) fitTarget(res graph.MergeResult, opts Options) []string {
	if len(opts.FocusNodes) > 0 {
		return opts.FocusNodes
	}
	if res.Mode == graph.ModeReplace {
		return nil // whole graph
	}
	ids := make([]string, len(res.AddedNodes))
	for i, n := range res.AddedNodes {
		ids[i] = n.ID
	}
	return ids
}

// applyTheme recolors the store and reconciles the canvas. Records the
// merge just added are recolored in place on res, so the reveal stages
// them already themed; everything else is pushed as one partial update.
func (l *Loader) applyTheme(res graph.MergeResult) {
	changedNodes, changedEdges := l.theme.Apply(l.store)

	addedNodes := make(map[string]int, len(res.AddedNodes))
	for i, n := range res.AddedNodes {
		addedNodes[n.ID] = i
	}
	addedEdges := make(map[string]int, len(res.AddedEdges))
	for i, e := range res.AddedEdges {
		addedEdges[e.ID] = i
	}

	var nodes []graph.Node
	for _, id := range changedNodes {
		n, ok := l.store.Node(id)
		if !ok {
			continue
		}
		if i, isNew := addedNodes[id]; isNew {
			res.AddedNodes[i].Color = n.Color
			continue
		}
		nodes = append(nodes, graph.Node{ID: n.ID, Color: n.Color})
	}
	var edges []graph.Edge
	for _, id := range changedEdges {
		e, ok := l.store.Edge(id)
		if !ok {
			continue
		}
		if i, isNew := addedEdges[id]; isNew {
			res.AddedEdges[i].Color = e.Color
			continue
		}
		edges = append(edges, graph.Edge{ID: e.ID, From: e.From, To: e.To, Color: e.Color})
	}
	if len(nodes) == 0 && len(edges) == 0 {
		return
	}
	if err := l.substrate.Update(nodes, edges); err != nil {
		l.logger.Warn("apply theme", "err", err)
	}
}

// writeSnapshot stores the current graph for the reload fallback.
// Best-effort: failures are logged, never surfaced.
func (l *Loader) writeSnapshot(ctx context.Context) {
	snap := l.store.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		l.logger.Warn("encode snapshot", "err", err)
		return
	}
	key := l.keyer.SnapshotKey(l.graphID)
	if err := l.cache.Set(ctx, key, data, cache.TTLSnapshot); err != nil {
		l.logger.Warn("store snapshot", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "snapshot", len(data))
}

// Recover replays the last stored snapshot as a replace-mode load. It is
// the coarse fallback when a targeted fetch fails: the mirror falls back
// to the last known-good graph instead of surfacing an error to the user.
func (l *Loader) Recover(ctx context.Context, opts Options) (Result, error) {
	key := l.keyer.SnapshotKey(l.graphID)
	data, hit, err := l.cache.Get(ctx, key)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeSnapshotUnavailable, err, "read snapshot for %s", l.graphID)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "snapshot")
		return Result{}, errors.New(errors.ErrCodeSnapshotUnavailable, "no snapshot stored for %s", l.graphID)
	}
	observability.Cache().OnCacheHit(ctx, "snapshot")

	var batch graph.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		// A corrupt snapshot is useless; drop it so the next recovery
		// fails fast.
		_ = l.cache.Delete(ctx, key)
		return Result{}, errors.Wrap(errors.ErrCodeSnapshotCorrupt, err, "decode snapshot for %s", l.graphID)
	}
	batch.Mode = graph.ModeReplace
	opts.Replace = true
	return l.apply(ctx, batch, opts)
}

// Clear resets the live store, the substrate, and the stored snapshot.
// In-flight reveals are cancelled: their batches no longer exist.
func (l *Loader) Clear(ctx context.Context) error {
	l.mu.Lock()
	for _, run := range l.runs {
		run.Cancel()
	}
	l.runs = nil
	l.mu.Unlock()

	l.store.Clear()
	if err := l.substrate.Clear(); err != nil {
		return errors.Wrap(errors.ErrCodeSubstrateConfig, err, "clear canvas")
	}
	if l.hooks.Counters != nil {
		l.hooks.Counters(0, 0)
	}
	if err := l.cache.Delete(ctx, l.keyer.SnapshotKey(l.graphID)); err != nil {
		l.logger.Warn("drop snapshot", "err", err)
	}
	return nil
}

// Close releases resources held by the loader (primarily the snapshot
// cache).
func (l *Loader) Close() error {
	return l.cache.Close()
}

// trackRun remembers a reveal so Clear can cancel it, and prunes settled
// runs so the slice does not grow without bound.
func (l *Loader) trackRun(run *anim.Run) {
	l.mu.Lock()
	defer l.mu.Unlock()
	live := l.runs[:0]
	for _, r := range l.runs {
		select {
		case <-r.Done():
		default:
			live = append(live, r)
		}
	}
	l.runs = append(live, run)
}
