package graph

import "testing"

func nodeBatch(ids ...string) []Node {
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = Node{ID: id, Label: id, VisualState: VisualPending}
	}
	return nodes
}

func TestMergeReplaceSwapsStore(t *testing.T) {
	s := NewStore()
	Merge(s, Batch{Mode: ModeReplace, Nodes: nodeBatch("old1", "old2")})

	res := Merge(s, Batch{Mode: ModeReplace, Nodes: nodeBatch("new1")})

	if res.TotalNodes != 1 {
		t.Errorf("TotalNodes = %d, want 1", res.TotalNodes)
	}
	if s.HasNode("old1") || s.HasNode("old2") {
		t.Error("replace load kept prior nodes")
	}
	if !s.HasNode("new1") {
		t.Error("replace load dropped batch node")
	}
}

func TestMergeIncrementalPartition(t *testing.T) {
	s := NewStore()
	Merge(s, Batch{Mode: ModeReplace, Nodes: nodeBatch("a", "b")})

	batch := Batch{
		Mode:  ModeIncremental,
		Nodes: []Node{{ID: "a", Title: "refreshed"}, {ID: "c", Label: "c"}},
		Edges: []Edge{{ID: "e1", From: "c", To: "a"}},
	}
	res := Merge(s, batch)

	if res.NodesAdded != 1 || res.EdgesAdded != 1 {
		t.Errorf("added = %d nodes, %d edges; want 1, 1", res.NodesAdded, res.EdgesAdded)
	}
	if len(res.AddedNodes) != 1 || res.AddedNodes[0].ID != "c" {
		t.Errorf("AddedNodes = %v, want [c]", res.AddedNodes)
	}
	if len(res.UpdatedNodes) != 1 || res.UpdatedNodes[0].ID != "a" {
		t.Errorf("UpdatedNodes = %v, want [a]", res.UpdatedNodes)
	}
	if n, _ := s.Node("a"); n.Title != "refreshed" {
		t.Errorf("upsert did not apply Title: %q", n.Title)
	}
	if res.TotalNodes != 3 || res.TotalEdges != 1 {
		t.Errorf("totals = %d/%d, want 3/1", res.TotalNodes, res.TotalEdges)
	}
}

func TestMergeIdempotent(t *testing.T) {
	s := NewStore()
	batch := Batch{
		Mode:  ModeIncremental,
		Nodes: nodeBatch("a", "b"),
		Edges: []Edge{{ID: "e1", From: "a", To: "b"}},
	}
	Merge(s, batch)
	res := Merge(s, batch)

	if res.NodesAdded != 0 || res.EdgesAdded != 0 {
		t.Errorf("second merge added %d nodes, %d edges; want 0, 0", res.NodesAdded, res.EdgesAdded)
	}
	if res.TotalNodes != 2 || res.TotalEdges != 1 {
		t.Errorf("totals = %d/%d, want 2/1", res.TotalNodes, res.TotalEdges)
	}
}

func TestMergeNeverClobbersVisualState(t *testing.T) {
	s := NewStore()
	Merge(s, Batch{Mode: ModeIncremental, Nodes: nodeBatch("a")})
	_ = s.SetVisualState("a", VisualSettled)
	_ = s.SetPosition("a", Position{X: 10, Y: 20})

	refreshed := Node{ID: "a", Label: "A!", VisualState: VisualPending, Position: &Position{X: 0, Y: 0}}
	Merge(s, Batch{Mode: ModeIncremental, Nodes: []Node{refreshed}})

	n, _ := s.Node("a")
	if n.VisualState != VisualSettled {
		t.Errorf("VisualState = %q, want %q", n.VisualState, VisualSettled)
	}
	if n.Position == nil || n.Position.X != 10 || n.Position.Y != 20 {
		t.Errorf("Position = %v, want {10 20}", n.Position)
	}
	if n.Label != "A!" {
		t.Errorf("Label = %q, want A!", n.Label)
	}
}

func TestMergeEdgeColorUpsert(t *testing.T) {
	s := NewStore()
	Merge(s, Batch{Mode: ModeIncremental, Nodes: nodeBatch("a", "b"),
		Edges: []Edge{{ID: "e1", From: "a", To: "b", Color: "#111111"}}})

	// A refreshed record without a color keeps the existing one.
	Merge(s, Batch{Mode: ModeIncremental, Edges: []Edge{{ID: "e1", From: "a", To: "b"}}})
	if e, _ := s.Edge("e1"); e.Color != "#111111" {
		t.Errorf("Color = %q, want #111111 kept", e.Color)
	}

	Merge(s, Batch{Mode: ModeIncremental, Edges: []Edge{{ID: "e1", From: "a", To: "b", Color: "#222222"}}})
	if e, _ := s.Edge("e1"); e.Color != "#222222" {
		t.Errorf("Color = %q, want #222222 applied", e.Color)
	}
}

func TestMergeLabelEqualToIDDoesNotOverwrite(t *testing.T) {
	s := NewStore()
	Merge(s, Batch{Mode: ModeIncremental, Nodes: []Node{{ID: "a", Label: "Friendly"}}})

	// A refreshed record whose label degraded to the bare ID keeps the
	// existing display label.
	Merge(s, Batch{Mode: ModeIncremental, Nodes: []Node{{ID: "a", Label: "a"}}})

	if n, _ := s.Node("a"); n.Label != "Friendly" {
		t.Errorf("Label = %q, want Friendly", n.Label)
	}
}

func TestMergeSpawnNearParent(t *testing.T) {
	s := NewStore()
	Merge(s, Batch{Mode: ModeIncremental, Nodes: nodeBatch("parent")})
	_ = s.SetPosition("parent", Position{X: 100, Y: 100})

	res := Merge(s, Batch{
		Mode:  ModeIncremental,
		Nodes: nodeBatch("child1", "child2"),
		Edges: []Edge{
			{ID: "e1", From: "child1", To: "parent"},
			{ID: "e2", From: "child2", To: "parent"},
		},
	})

	positions := make(map[string]*Position)
	for _, n := range res.AddedNodes {
		positions[n.ID] = n.Position
	}
	for _, id := range []string{"child1", "child2"} {
		pos := positions[id]
		if pos == nil {
			t.Fatalf("%s has no spawn position", id)
		}
		dx, dy := pos.X-100, pos.Y-100
		if dist := dx*dx + dy*dy; dist < 1 {
			t.Errorf("%s spawned on top of parent", id)
		}
	}
	if p1, p2 := positions["child1"], positions["child2"]; p1.X == p2.X && p1.Y == p2.Y {
		t.Error("siblings stacked on the same spawn point")
	}
}

func TestMergeNoParentNoPosition(t *testing.T) {
	s := NewStore()
	res := Merge(s, Batch{Mode: ModeIncremental, Nodes: nodeBatch("island")})
	if res.AddedNodes[0].Position != nil {
		t.Error("unconnected node received a spawn position")
	}
}

func TestMergeEmptyModeDefaultsIncremental(t *testing.T) {
	s := NewStore()
	Merge(s, Batch{Nodes: nodeBatch("a")})
	res := Merge(s, Batch{Nodes: nodeBatch("b")})
	if res.Mode != ModeIncremental {
		t.Errorf("Mode = %q, want %q", res.Mode, ModeIncremental)
	}
	if res.TotalNodes != 2 {
		t.Errorf("TotalNodes = %d, want 2 (no implicit replace)", res.TotalNodes)
	}
}
