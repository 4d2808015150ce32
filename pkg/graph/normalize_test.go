package graph

import (
	"strings"
	"testing"
)

func TestNormalizeNodeLabelPriority(t *testing.T) {
	longText := strings.Repeat("a", 80)

	tests := []struct {
		name string
		raw  RawNode
		want string
	}{
		{
			name: "explicit label wins",
			raw:  RawNode{"id": "n1", "label": "Widget", "properties": map[string]any{"text": "ignored", "name": "also ignored"}},
			want: "Widget",
		},
		{
			name: "text preview when no label",
			raw:  RawNode{"id": "n1", "properties": map[string]any{"text": "short body"}},
			want: "short body",
		},
		{
			name: "long text truncated",
			raw:  RawNode{"id": "n1", "properties": map[string]any{"text": longText}},
			want: longText[:LabelPreviewLimit] + "…",
		},
		{
			name: "name when no text",
			raw:  RawNode{"id": "n1", "properties": map[string]any{"name": "Alpha"}},
			want: "Alpha",
		},
		{
			name: "display_name after name",
			raw:  RawNode{"id": "n1", "properties": map[string]any{"display_name": "Alpha Prime"}},
			want: "Alpha Prime",
		},
		{
			name: "id as last resort",
			raw:  RawNode{"id": "n1"},
			want: "n1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeNode(tt.raw).Label; got != tt.want {
				t.Errorf("Label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeNodeClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  RawNode
		want []string
	}{
		{
			name: "type field",
			raw:  RawNode{"id": "n1", "type": "service"},
			want: []string{"service"},
		},
		{
			name: "labels list",
			raw:  RawNode{"id": "n1", "labels": []any{"db", "critical"}},
			want: []string{"db", "critical"},
		},
		{
			name: "property fallback",
			raw:  RawNode{"id": "n1", "properties": map[string]any{"entity_type": "person"}},
			want: []string{"person"},
		},
		{
			name: "none",
			raw:  RawNode{"id": "n1"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNode(tt.raw).Classification
			if len(got) != len(tt.want) {
				t.Fatalf("Classification = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Classification[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeNodeDefaults(t *testing.T) {
	n := NormalizeNode(RawNode{"id": "n1"})

	if n.Color != DefaultNodeColor {
		t.Errorf("Color = %q, want %q", n.Color, DefaultNodeColor)
	}
	if n.Size != DefaultNodeSize {
		t.Errorf("Size = %v, want %v", n.Size, DefaultNodeSize)
	}
	if n.VisualState != VisualPending {
		t.Errorf("VisualState = %q, want %q", n.VisualState, VisualPending)
	}
}

func TestNormalizeNodeExtractedEntityColor(t *testing.T) {
	n := NormalizeNode(RawNode{
		"id":     "n1",
		"labels": []any{ClassExtractedEntity},
		"color":  "#123456", // explicit color loses to the fixed rule
	})
	if n.Color != ExtractedEntityColor {
		t.Errorf("Color = %q, want %q", n.Color, ExtractedEntityColor)
	}
}

func TestNormalizeNodeIdempotent(t *testing.T) {
	raw := RawNode{
		"id":         "n1",
		"label":      "Widget",
		"type":       "service",
		"size":       30.0,
		"properties": map[string]any{"owner": "core-team"},
	}

	first := NormalizeNode(raw)
	second := NormalizeNode(first.Raw())

	if second.ID != first.ID || second.Label != first.Label || second.Color != first.Color || second.Size != first.Size {
		t.Errorf("second pass changed node: first=%+v second=%+v", first, second)
	}
	if got, _ := second.Properties.GetString("owner"); got != "core-team" {
		t.Errorf("Properties[owner] = %q, want %q", got, "core-team")
	}
}

func TestNormalizeEdgeLabelPriority(t *testing.T) {
	tests := []struct {
		name string
		raw  RawEdge
		want string
	}{
		{
			name: "explicit label",
			raw:  RawEdge{"from": "a", "to": "b", "label": "OWNS", "type": "ignored"},
			want: "OWNS",
		},
		{
			name: "type field",
			raw:  RawEdge{"from": "a", "to": "b", "type": "CALLS"},
			want: "CALLS",
		},
		{
			name: "rel property",
			raw:  RawEdge{"from": "a", "to": "b", "properties": map[string]any{"rel": "USES"}},
			want: "USES",
		},
		{
			name: "relationship property",
			raw:  RawEdge{"from": "a", "to": "b", "properties": map[string]any{"relationship": "DEPENDS_ON"}},
			want: "DEPENDS_ON",
		},
		{
			name: "default",
			raw:  RawEdge{"from": "a", "to": "b"},
			want: DefaultEdgeLabel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEdge(tt.raw, 0).Label; got != tt.want {
				t.Errorf("Label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeEdgeEndpointAliases(t *testing.T) {
	e := NormalizeEdge(RawEdge{"start": "a", "end": "b"}, 0)
	if e.From != "a" || e.To != "b" {
		t.Errorf("endpoints = %q->%q, want a->b", e.From, e.To)
	}
}

func TestNormalizeEdgeColor(t *testing.T) {
	if e := NormalizeEdge(RawEdge{"from": "a", "to": "b"}, 0); e.Color != DefaultEdgeColor {
		t.Errorf("color = %q, want default %q", e.Color, DefaultEdgeColor)
	}
	if e := NormalizeEdge(RawEdge{"from": "a", "to": "b", "color": "#123456"}, 0); e.Color != "#123456" {
		t.Errorf("color = %q, want explicit #123456", e.Color)
	}
}

func TestNormalizeEdgeDeterministicID(t *testing.T) {
	raw := RawEdge{"from": "a", "to": "b"}

	first := NormalizeEdge(raw, 3)
	again := NormalizeEdge(raw, 3)
	other := NormalizeEdge(raw, 4)

	if first.ID == "" {
		t.Fatal("fallback ID is empty")
	}
	if first.ID != again.ID {
		t.Errorf("same input produced different IDs: %q vs %q", first.ID, again.ID)
	}
	if first.ID == other.ID {
		t.Errorf("distinct ordinals collided on ID %q", first.ID)
	}

	explicit := NormalizeEdge(RawEdge{"id": "e1", "from": "a", "to": "b"}, 0)
	if explicit.ID != "e1" {
		t.Errorf("explicit ID overridden: got %q", explicit.ID)
	}
}

func TestStringifyNumbers(t *testing.T) {
	e := NormalizeEdge(RawEdge{"from": 12, "to": 34.0}, 0)
	if e.From != "12" || e.To != "34" {
		t.Errorf("numeric endpoints = %q->%q, want 12->34", e.From, e.To)
	}
}
