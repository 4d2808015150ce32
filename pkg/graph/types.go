// Package graph defines the live client-side graph mirror: node and edge
// records, the mutable store that owns them, normalization of raw backend
// payloads, and the merge engine that reconciles incoming batches against
// the store.
//
// The store is the single shared mutable resource of the synchronization
// pipeline. It is owned by the loader facade; every other pipeline stage
// receives it by reference for the duration of one load call and holds no
// state across calls.
package graph

import "errors"

var (
	// ErrInvalidNodeID is returned by [Store.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Store.AddNode] when a node with the
	// same ID is already present. Node IDs are unique within the store.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Store.AddEdge] when an edge with the
	// same ID is already present.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownNode is returned by [Store.SetVisualState] and similar
	// mutators when the target ID is not present in the store.
	ErrUnknownNode = errors.New("unknown node")
)

// VisualState tracks where a node is in its on-canvas reveal lifecycle.
type VisualState string

const (
	// VisualPending marks a node that has been merged into the store but not
	// yet handed to the rendering substrate.
	VisualPending VisualState = "pending"
	// VisualAnimating marks a node whose size/opacity interpolation is in
	// flight.
	VisualAnimating VisualState = "animating"
	// VisualSettled marks a node at its final size and opacity, with the
	// simulation running normally for it.
	VisualSettled VisualState = "settled"
)

// DefaultEdgeLabel is used when an edge record carries no label, no type,
// and no rel/relationship property.
const DefaultEdgeLabel = "RELATED_TO"

// ClassExtractedEntity is the classification tag that forces the
// distinguished entity color regardless of any other hint. This is a fixed
// visual-priority rule, not a per-call option.
const ClassExtractedEntity = "extracted_entity"

// Rendering hint defaults applied by normalization.
const (
	DefaultNodeColor = "#97c2fc"
	DefaultNodeSize  = 25.0
	DefaultEdgeColor = "#848484"

	// ExtractedEntityColor is the fixed color for ClassExtractedEntity nodes.
	ExtractedEntityColor = "#f0a30a"
)

// Position is an optional canvas coordinate, set only when a node is
// spawned near a known parent so that it grows out of it instead of
// appearing at the origin.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is the canonical in-store node record produced by normalization.
type Node struct {
	ID             string      `json:"id"`
	Label          string      `json:"label,omitempty"`
	Title          string      `json:"title,omitempty"`
	Classification []string    `json:"classification,omitempty"`
	Color          string      `json:"color,omitempty"`
	Size           float64     `json:"size,omitempty"`
	Opacity        float64     `json:"opacity,omitempty"` // 0 means substrate default (opaque)
	VisualState    VisualState `json:"visual_state,omitempty"`
	Position       *Position   `json:"position,omitempty"`
	Properties     Properties  `json:"properties,omitzero"`
}

// HasClass reports whether the node carries the given classification tag.
func (n *Node) HasClass(tag string) bool {
	for _, c := range n.Classification {
		if c == tag {
			return true
		}
	}
	return false
}

// Edge is the canonical in-store edge record produced by normalization.
// From and To should reference IDs present in the store or in the same
// batch; dangling edges are retained but contribute nothing to wave
// computation.
type Edge struct {
	ID         string     `json:"id"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	Label      string     `json:"label,omitempty"`
	Color      string     `json:"color,omitempty"`
	Opacity    float64    `json:"opacity,omitempty"` // 0 means substrate default (opaque)
	Properties Properties `json:"properties,omitzero"`
}

// Mode selects how a batch is reconciled against the live store.
type Mode string

const (
	// ModeReplace swaps the store wholesale for the batch contents.
	ModeReplace Mode = "replace"
	// ModeIncremental merges the batch into the existing store contents.
	ModeIncremental Mode = "incremental"
)

// Batch is one delivery of normalized nodes and edges to be merged into
// the live store. Batches are ephemeral and consumed exactly once.
type Batch struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Mode  Mode   `json:"mode,omitempty"`
}
