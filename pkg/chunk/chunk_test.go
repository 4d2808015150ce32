package chunk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/graphstage/graphstage/pkg/graph"
)

func rawNodes(n int) []graph.RawNode {
	out := make([]graph.RawNode, n)
	for i := range out {
		out[i] = graph.RawNode{"id": fmt.Sprintf("n%d", i)}
	}
	return out
}

func rawEdges(n int) []graph.RawEdge {
	out := make([]graph.RawEdge, n)
	for i := range out {
		out[i] = graph.RawEdge{"from": fmt.Sprintf("n%d", i), "to": "n0"}
	}
	return out
}

func TestProcessYieldCount(t *testing.T) {
	tests := []struct {
		name       string
		nodes      int
		edges      int
		size       int
		wantYields int
	}{
		{"under one chunk", 10, 0, 100, 0},
		{"exactly one chunk", 100, 0, 100, 0},
		{"two chunks", 101, 0, 100, 1},
		{"nodes and edges share the sequence", 150, 150, 100, 2},
		{"many chunks", 1000, 0, 100, 9},
		{"empty input", 0, 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yields := 0
			p := Processor{
				Size: tt.size,
				Yield: func(ctx context.Context) error {
					yields++
					return nil
				},
			}

			nodes, edges, err := p.Process(context.Background(), rawNodes(tt.nodes), rawEdges(tt.edges))
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if yields != tt.wantYields {
				t.Errorf("yields = %d, want %d", yields, tt.wantYields)
			}
			if len(nodes) != tt.nodes || len(edges) != tt.edges {
				t.Errorf("output = %d nodes, %d edges; want %d, %d", len(nodes), len(edges), tt.nodes, tt.edges)
			}
		})
	}
}

func TestProcessOrderPreserved(t *testing.T) {
	p := Processor{Size: 3}
	nodes, _, err := p.Process(context.Background(), rawNodes(10), nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	for i, n := range nodes {
		if want := fmt.Sprintf("n%d", i); n.ID != want {
			t.Errorf("nodes[%d].ID = %q, want %q", i, n.ID, want)
		}
	}
}

func TestProcessYieldErrorAborts(t *testing.T) {
	sentinel := errors.New("host said stop")
	calls := 0
	p := Processor{
		Size: 5,
		Yield: func(ctx context.Context) error {
			calls++
			if calls == 2 {
				return sentinel
			}
			return nil
		},
	}

	_, _, err := p.Process(context.Background(), rawNodes(50), nil)
	if !errors.Is(err, sentinel) {
		t.Errorf("Process error = %v, want %v", err, sentinel)
	}
}

func TestProcessCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Processor{Size: 5}
	_, _, err := p.Process(ctx, rawNodes(50), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Process error = %v, want context.Canceled", err)
	}
}

func TestProcessEdgeOrdinals(t *testing.T) {
	// Identical raw edges at different positions must not collide on ID.
	raws := []graph.RawEdge{
		{"from": "a", "to": "b"},
		{"from": "a", "to": "b"},
	}
	p := Processor{Size: 1}
	_, edges, err := p.Process(context.Background(), nil, raws)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if edges[0].ID == edges[1].ID {
		t.Errorf("duplicate raw edges share ID %q", edges[0].ID)
	}
}
