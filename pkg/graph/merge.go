package graph

import "math"

// MergeResult summarizes one reconciliation of a batch against the live
// store. Added slices hold copies of the records as inserted, in batch
// order; downstream stages use them to drive the rendering substrate
// without re-reading the store.
type MergeResult struct {
	Mode       Mode
	NodesAdded int
	EdgesAdded int
	TotalNodes int
	TotalEdges int

	AddedNodes   []Node
	AddedEdges   []Edge
	UpdatedNodes []Node
	UpdatedEdges []Edge
}

// Merge reconciles a batch against the live store as a single transition:
// the store lock is held for the whole batch, so a concurrently rendering
// frame never observes a partially merged state.
//
// Replace mode swaps the store contents wholesale, discarding positions
// and visual state. Incremental mode partitions the batch by ID: new
// records are inserted, existing records receive a property-level upsert
// that never clobbers visual state or a custom position. Merging the same
// batch twice is a no-op the second time.
func Merge(store *Store, batch Batch) MergeResult {
	store.mu.Lock()
	defer store.mu.Unlock()

	mode := batch.Mode
	if mode == "" {
		mode = ModeIncremental
	}
	if mode == ModeReplace {
		store.reset()
	}

	res := MergeResult{Mode: mode}

	for _, n := range batch.Nodes {
		existing, ok := store.nodes[n.ID]
		if !ok {
			node := n
			node.Properties = n.Properties.Clone()
			if node.VisualState == "" {
				node.VisualState = VisualPending
			}
			if err := store.addNodeLocked(node); err != nil {
				continue // empty ID, nothing to mirror
			}
			res.NodesAdded++
			res.AddedNodes = append(res.AddedNodes, node)
			continue
		}
		mergeNodeLocked(existing, n)
		res.UpdatedNodes = append(res.UpdatedNodes, *existing)
	}

	for _, e := range batch.Edges {
		existing, ok := store.edges[e.ID]
		if !ok {
			edge := e
			edge.Properties = e.Properties.Clone()
			if err := store.addEdgeLocked(edge); err != nil {
				continue
			}
			res.EdgesAdded++
			res.AddedEdges = append(res.AddedEdges, edge)
			continue
		}
		mergeEdgeLocked(existing, e)
		res.UpdatedEdges = append(res.UpdatedEdges, *existing)
	}

	if mode == ModeIncremental {
		store.spawnNearParentsLocked(res.AddedNodes, res.AddedEdges)
		// Added copies carry the spawn positions assigned above.
		for i := range res.AddedNodes {
			if n, ok := store.nodes[res.AddedNodes[i].ID]; ok {
				res.AddedNodes[i].Position = n.Position
			}
		}
	}

	res.TotalNodes = len(store.nodes)
	res.TotalEdges = len(store.edges)
	return res
}

// mergeNodeLocked upserts an incoming record into an existing one at
// property level. Visual state and position belong to the live store, not
// the backend, and are never overwritten by a refreshed record.
func mergeNodeLocked(dst *Node, src Node) {
	if src.Label != "" && src.Label != dst.ID {
		dst.Label = src.Label
	}
	if src.Title != "" {
		dst.Title = src.Title
	}
	if len(src.Classification) > 0 {
		dst.Classification = src.Classification
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.Size != 0 {
		dst.Size = src.Size
	}
	dst.Properties.MergeFrom(src.Properties)
}

func mergeEdgeLocked(dst *Edge, src Edge) {
	if src.Label != "" {
		dst.Label = src.Label
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	dst.Properties.MergeFrom(src.Properties)
}

// spawnNearParentsLocked assigns an initial position to newly inserted
// nodes that are connected to a node already placed on the canvas, so they
// grow out of their parent instead of appearing at the origin. Nodes with
// no placed neighbor are left to the simulation.
func (s *Store) spawnNearParentsLocked(added []Node, addedEdges []Edge) {
	isNew := make(map[string]bool, len(added))
	for _, n := range added {
		isNew[n.ID] = true
	}

	ordinal := 0
	for _, e := range addedEdges {
		for _, pair := range [][2]string{{e.From, e.To}, {e.To, e.From}} {
			childID, parentID := pair[0], pair[1]
			if !isNew[childID] {
				continue
			}
			child, ok := s.nodes[childID]
			if !ok || child.Position != nil {
				continue
			}
			parent, ok := s.nodes[parentID]
			if !ok || parent.Position == nil {
				continue
			}
			child.Position = spawnOffset(*parent.Position, ordinal)
			ordinal++
		}
	}
}

// spawnOffset places a child on a ring around its parent. The golden angle
// spreads consecutive spawns so siblings do not stack on one spot.
func spawnOffset(parent Position, ordinal int) *Position {
	const (
		radius      = 80.0
		goldenAngle = 2.399963229728653
	)
	angle := goldenAngle * float64(ordinal)
	return &Position{
		X: parent.X + radius*math.Cos(angle),
		Y: parent.Y + radius*math.Sin(angle),
	}
}
