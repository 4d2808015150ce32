// Package chunk normalizes large raw collections without starving the
// host. Records are processed in fixed-size chunks with a cooperative
// yield between chunks, so a batch of tens of thousands of nodes never
// monopolizes the scheduler that also drives rendering.
package chunk

import (
	"context"
	"runtime"

	"github.com/graphstage/graphstage/pkg/graph"
)

// DefaultSize is the number of records normalized between yields. Larger
// chunks finish sooner but hold the scheduler longer; this is a tuning
// trade-off, not a correctness one.
const DefaultSize = 500

// YieldFunc hands control back to the host between chunks. It is called
// exactly ceil(n/size)-1 times for n records: between chunks, never after
// the last one. Returning an error aborts processing.
type YieldFunc func(ctx context.Context) error

// Gosched is the default YieldFunc: it checks for cancellation and yields
// the processor cooperatively.
func Gosched(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runtime.Gosched()
	return nil
}

// Processor converts raw records into normalized batches chunk by chunk.
type Processor struct {
	Size  int       // chunk size; <= 0 selects DefaultSize
	Yield YieldFunc // nil selects Gosched
}

// Process normalizes all raw nodes and edges in input order. The output
// equals element-wise normalization of the input: no record is skipped,
// duplicated, or reordered, regardless of how the chunking falls. The only
// failure mode is the yield itself (typically context cancellation);
// normalization is total and cannot fail.
func (p Processor) Process(ctx context.Context, rawNodes []graph.RawNode, rawEdges []graph.RawEdge) ([]graph.Node, []graph.Edge, error) {
	size := p.Size
	if size <= 0 {
		size = DefaultSize
	}
	yield := p.Yield
	if yield == nil {
		yield = Gosched
	}

	nodes := make([]graph.Node, 0, len(rawNodes))
	edges := make([]graph.Edge, 0, len(rawEdges))

	// Nodes and edges form one logical sequence: the chunk boundary keeps
	// counting across the transition so the yield total stays exact.
	processed := 0

	for _, raw := range rawNodes {
		if processed > 0 && processed%size == 0 {
			if err := yield(ctx); err != nil {
				return nil, nil, err
			}
		}
		nodes = append(nodes, graph.NormalizeNode(raw))
		processed++
	}
	for ordinal, raw := range rawEdges {
		if processed > 0 && processed%size == 0 {
			if err := yield(ctx); err != nil {
				return nil, nil, err
			}
		}
		edges = append(edges, graph.NormalizeEdge(raw, ordinal))
		processed++
	}
	return nodes, edges, nil
}
