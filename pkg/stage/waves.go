// Package stage orders newly inserted nodes into causally-staged waves so
// related nodes reveal in a legible sequence instead of all at once.
//
// A node's dependencies are the targets of its outgoing edges that arrived
// in the same batch: wave 0 holds nodes with no same-batch dependency, and
// wave k+1 holds nodes whose dependencies are all in waves <= k. Edges to
// nodes outside the batch contribute nothing. The computation is a bounded
// layer assignment, not a full topological sort: after MaxWaves rounds any
// unassigned remainder (a dependency cycle confined to the batch) is
// flushed into one final catch-all wave so staging always terminates.
package stage

import "github.com/graphstage/graphstage/pkg/graph"

// DefaultMaxWaves bounds the number of causal waves before the catch-all
// flush. The exact value is a tuning knob, not a semantic constant.
const DefaultMaxWaves = 10

// Wave is one ordered group of node IDs revealed together.
type Wave []string

// ComputeWaves partitions the batch's nodes into waves. Every node ID
// appears in exactly one wave, and wave 0 is non-empty for any non-empty
// batch. Node order within a wave follows batch order. maxWaves <= 0
// selects DefaultMaxWaves.
func ComputeWaves(nodes []graph.Node, edges []graph.Edge, maxWaves int) []Wave {
	if maxWaves <= 0 {
		maxWaves = DefaultMaxWaves
	}
	if len(nodes) == 0 {
		return nil
	}

	inBatch := make(map[string]bool, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if !inBatch[n.ID] {
			order = append(order, n.ID)
			inBatch[n.ID] = true
		}
	}

	// depCount counts unassigned same-batch dependencies per node;
	// dependents is the reverse relation used to release them.
	depCount := make(map[string]int, len(order))
	dependents := make(map[string][]string)
	for _, e := range edges {
		if e.From == e.To || !inBatch[e.From] || !inBatch[e.To] {
			continue
		}
		depCount[e.From]++
		dependents[e.To] = append(dependents[e.To], e.From)
	}

	assigned := make(map[string]bool, len(order))
	var waves []Wave

	current := make(Wave, 0)
	for _, id := range order {
		if depCount[id] == 0 {
			current = append(current, id)
		}
	}

	for len(current) > 0 && len(waves) < maxWaves {
		waves = append(waves, current)
		released := make(map[string]bool)
		for _, id := range current {
			assigned[id] = true
			for _, dep := range dependents[id] {
				depCount[dep]--
				if depCount[dep] == 0 {
					released[dep] = true
				}
			}
		}
		current = current[:0:0]
		for _, id := range order {
			if released[id] && !assigned[id] {
				current = append(current, id)
			}
		}
	}

	// Whatever is left is either beyond the wave bound or stuck in a
	// batch-confined cycle; flush it as one final wave.
	var rest Wave
	for _, id := range order {
		if !assigned[id] {
			rest = append(rest, id)
		}
	}
	if len(rest) > 0 {
		waves = append(waves, rest)
	}
	return waves
}
