package loader

import (
	"sync"

	"github.com/graphstage/graphstage/pkg/errors"
	"github.com/graphstage/graphstage/pkg/graph"
	"github.com/graphstage/graphstage/pkg/physics"
)

// Substrate is the rendering surface the pipeline drives: the thing that
// actually draws and simulates the canvas. The pipeline configures it and
// pushes batched changes into it; it never reads layout back. Keeping this
// a small interface makes the surface swappable and mockable.
//
// Insert must reject IDs it already holds with an
// errors.ErrCodeSubstrateDuplicateID error; the pipeline converts such
// rejections into updates. Update upserts. A merge maps to at most one
// Insert or Update call per wave, so a rendering frame never observes a
// partially applied batch.
type Substrate interface {
	Insert(nodes []graph.Node, edges []graph.Edge) error
	Update(nodes []graph.Node, edges []graph.Edge) error
	Clear() error
	SetSimulationProfile(p physics.Profile) error
	RequestViewFit(ids []string) error
}

// MemorySubstrate is an in-memory Substrate that mirrors everything it is
// given and records configuration calls. It backs tests and the CLI
// replay harness.
type MemorySubstrate struct {
	mu    sync.Mutex
	nodes map[string]graph.Node
	edges map[string]graph.Edge

	insertCalls int
	updateCalls int
	profiles    []physics.Profile
	fitRequests [][]string
}

// NewMemorySubstrate creates an empty in-memory substrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{
		nodes: make(map[string]graph.Node),
		edges: make(map[string]graph.Edge),
	}
}

// Insert adds nodes and edges, rejecting the whole call if any ID is
// already present.
func (m *MemorySubstrate) Insert(nodes []graph.Node, edges []graph.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	for _, n := range nodes {
		if _, exists := m.nodes[n.ID]; exists {
			return errors.New(errors.ErrCodeSubstrateDuplicateID, "node %s already on canvas", n.ID)
		}
	}
	for _, e := range edges {
		if _, exists := m.edges[e.ID]; exists {
			return errors.New(errors.ErrCodeSubstrateDuplicateID, "edge %s already on canvas", e.ID)
		}
	}
	for _, n := range nodes {
		m.nodes[n.ID] = n
	}
	for _, e := range edges {
		m.edges[e.ID] = e
	}
	return nil
}

// Update upserts nodes and edges. Fields are merged shallowly: zero
// values in the incoming record keep the mirrored value, matching how a
// canvas treats partial visual updates.
func (m *MemorySubstrate) Update(nodes []graph.Node, edges []graph.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	for _, n := range nodes {
		cur, ok := m.nodes[n.ID]
		if !ok {
			m.nodes[n.ID] = n
			continue
		}
		if n.Label != "" {
			cur.Label = n.Label
		}
		if n.Color != "" {
			cur.Color = n.Color
		}
		if n.Size != 0 {
			cur.Size = n.Size
		}
		if n.Opacity != 0 {
			cur.Opacity = n.Opacity
		}
		if n.VisualState != "" {
			cur.VisualState = n.VisualState
		}
		if n.Position != nil {
			cur.Position = n.Position
		}
		m.nodes[n.ID] = cur
	}
	for _, e := range edges {
		cur, ok := m.edges[e.ID]
		if !ok {
			m.edges[e.ID] = e
			continue
		}
		if e.Label != "" {
			cur.Label = e.Label
		}
		if e.Color != "" {
			cur.Color = e.Color
		}
		if e.Opacity != 0 {
			cur.Opacity = e.Opacity
		}
		m.edges[e.ID] = cur
	}
	return nil
}

// Clear drops the whole mirror.
func (m *MemorySubstrate) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = make(map[string]graph.Node)
	m.edges = make(map[string]graph.Edge)
	return nil
}

// SetSimulationProfile records the profile change.
func (m *MemorySubstrate) SetSimulationProfile(p physics.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, p)
	return nil
}

// RequestViewFit records the fit request. A nil ID list means the whole
// graph.
func (m *MemorySubstrate) RequestViewFit(ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fitRequests = append(m.fitRequests, ids)
	return nil
}

// Node returns the mirrored node, if present.
func (m *MemorySubstrate) Node(id string) (graph.Node, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	return n, ok
}

// Edge returns the mirrored edge, if present.
func (m *MemorySubstrate) Edge(id string) (graph.Edge, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.edges[id]
	return e, ok
}

// NodeCount returns the number of mirrored nodes.
func (m *MemorySubstrate) NodeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nodes)
}

// EdgeCount returns the number of mirrored edges.
func (m *MemorySubstrate) EdgeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.edges)
}

// InsertCalls returns how many Insert calls the substrate has seen.
func (m *MemorySubstrate) InsertCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertCalls
}

// UpdateCalls returns how many Update calls the substrate has seen.
func (m *MemorySubstrate) UpdateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls
}

// Profiles returns the history of applied simulation profiles.
func (m *MemorySubstrate) Profiles() []physics.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]physics.Profile, len(m.profiles))
	copy(out, m.profiles)
	return out
}

// FitRequests returns the history of view-fit requests.
func (m *MemorySubstrate) FitRequests() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.fitRequests))
	copy(out, m.fitRequests)
	return out
}

var _ Substrate = (*MemorySubstrate)(nil)
