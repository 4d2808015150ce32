package graph

import "sync"

// Store is the live in-memory graph mirror being rendered. Nodes and edges
// are indexed by ID with adjacency lists for neighborhood lookups, and
// insertion order is preserved so snapshots are deterministic.
//
// A single mutex guards the store: the merge engine performs each batch as
// one critical section so a concurrently scheduled frame never observes a
// half-merged batch, and the animation driver flips per-node visual state
// under the same lock.
type Store struct {
	mu        sync.RWMutex
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[string]*Edge
	edgeOrder []string
	outgoing  map[string][]string // from node ID -> to node IDs
	incoming  map[string][]string // to node ID -> from node IDs
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

// reset reinitializes all indices. Callers must hold mu.
func (s *Store) reset() {
	s.nodes = make(map[string]*Node)
	s.nodeOrder = nil
	s.edges = make(map[string]*Edge)
	s.edgeOrder = nil
	s.outgoing = make(map[string][]string)
	s.incoming = make(map[string][]string)
}

// Clear removes all nodes and edges. This is the explicit full reset; no
// other operation empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// AddNode inserts a node. Returns ErrInvalidNodeID for an empty ID or
// ErrDuplicateNodeID if the ID is already present.
func (s *Store) AddNode(n Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addNodeLocked(n)
}

func (s *Store) addNodeLocked(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := s.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	s.nodes[node.ID] = &node
	s.nodeOrder = append(s.nodeOrder, node.ID)
	return nil
}

// AddEdge inserts an edge. Returns ErrDuplicateEdgeID if the ID is already
// present. Endpoints are not required to exist: dangling edges are retained
// so a later batch can resolve them.
func (s *Store) AddEdge(e Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addEdgeLocked(e)
}

func (s *Store) addEdgeLocked(e Edge) error {
	if _, exists := s.edges[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	edge := e
	s.edges[edge.ID] = &edge
	s.edgeOrder = append(s.edgeOrder, edge.ID)
	s.outgoing[edge.From] = append(s.outgoing[edge.From], edge.To)
	s.incoming[edge.To] = append(s.incoming[edge.To], edge.From)
	return nil
}

// Node returns a copy of the node with the given ID.
func (s *Store) Node(id string) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether the ID is present.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// Edge returns a copy of the edge with the given ID.
func (s *Store) Edge(id string) (Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.edges[id]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		out = append(out, *s.nodes[id])
	}
	return out
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		out = append(out, *s.edges[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// Neighbors returns the IDs this node has edges to (outgoing direction).
func (s *Store) Neighbors(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.outgoing[id]))
	copy(out, s.outgoing[id])
	return out
}

// Parents returns the IDs that have edges to this node.
func (s *Store) Parents(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.incoming[id]))
	copy(out, s.incoming[id])
	return out
}

// SetVisualState moves a node through its reveal lifecycle. Returns
// ErrUnknownNode if the ID is not present (the node may have been removed
// by a replace-mode load while its animation was in flight; callers treat
// this as a no-op condition, not a failure).
func (s *Store) SetVisualState(id string, vs VisualState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.VisualState = vs
	return nil
}

// SetPosition records a canvas coordinate for a node.
func (s *Store) SetPosition(id string, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	p := pos
	n.Position = &p
	return nil
}

// SetColor overrides a node's color hint. Used by theme application.
func (s *Store) SetColor(id, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	n.Color = color
	return nil
}

// Snapshot returns the full store contents as a replace-mode batch.
// The result is a deep enough copy to be serialized or replayed after
// further store mutation.
func (s *Store) Snapshot() Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := Batch{
		Mode:  ModeReplace,
		Nodes: make([]Node, 0, len(s.nodeOrder)),
		Edges: make([]Edge, 0, len(s.edgeOrder)),
	}
	for _, id := range s.nodeOrder {
		n := *s.nodes[id]
		n.Properties = n.Properties.Clone()
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		b.Nodes = append(b.Nodes, n)
	}
	for _, id := range s.edgeOrder {
		e := *s.edges[id]
		e.Properties = e.Properties.Clone()
		b.Edges = append(b.Edges, e)
	}
	return b
}
