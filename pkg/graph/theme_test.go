package graph

import "testing"

func TestThemeColorFor(t *testing.T) {
	theme := Theme{
		NodeColors:  map[string]string{"service": "#00ff00", "database": "#0000ff"},
		DefaultNode: "#cccccc",
	}

	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "classified tag",
			node: Node{ID: "a", Classification: []string{"service"}},
			want: "#00ff00",
		},
		{
			name: "first matching tag wins",
			node: Node{ID: "a", Classification: []string{"unknown", "database"}},
			want: "#0000ff",
		},
		{
			name: "extracted entity overrides palette",
			node: Node{ID: "a", Classification: []string{ClassExtractedEntity, "service"}},
			want: ExtractedEntityColor,
		},
		{
			name: "default for unmatched",
			node: Node{ID: "a", Classification: []string{"mystery"}},
			want: "#cccccc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := theme.ColorFor(&tt.node); got != tt.want {
				t.Errorf("ColorFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThemeApply(t *testing.T) {
	theme := Theme{
		NodeColors:  map[string]string{"service": "#00ff00"},
		DefaultNode: DefaultNodeColor,
		Edge:        "#112233",
	}

	s := NewStore()
	_ = s.AddNode(Node{ID: "svc", Classification: []string{"service"}, Color: DefaultNodeColor})
	_ = s.AddNode(Node{ID: "plain", Color: DefaultNodeColor})
	_ = s.AddEdge(Edge{ID: "e1", From: "svc", To: "plain", Color: DefaultEdgeColor})
	_ = s.AddEdge(Edge{ID: "e2", From: "plain", To: "svc", Color: "#112233"})

	nodes, edges := theme.Apply(s)

	if len(nodes) != 1 || nodes[0] != "svc" {
		t.Fatalf("Apply() nodes = %v, want [svc]", nodes)
	}
	if len(edges) != 1 || edges[0] != "e1" {
		t.Fatalf("Apply() edges = %v, want [e1]", edges)
	}
	if n, _ := s.Node("svc"); n.Color != "#00ff00" {
		t.Errorf("svc color = %q, want #00ff00", n.Color)
	}
	if e, _ := s.Edge("e1"); e.Color != "#112233" {
		t.Errorf("e1 color = %q, want #112233", e.Color)
	}
	if again, againEdges := theme.Apply(s); len(again) != 0 || len(againEdges) != 0 {
		t.Errorf("second Apply() = %v, %v, want none", again, againEdges)
	}
}

func TestThemeEdgeColor(t *testing.T) {
	if got := (Theme{Edge: "#445566"}).EdgeColor(); got != "#445566" {
		t.Errorf("EdgeColor() = %q, want #445566", got)
	}
	if got := (Theme{}).EdgeColor(); got != DefaultEdgeColor {
		t.Errorf("EdgeColor() zero theme = %q, want default", got)
	}
}
