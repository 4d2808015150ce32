package graph

// Theme maps classification tags to node colors and carries the single
// edge color, so the mirror stays consistent with the active visual theme
// across replace and incremental loads. The extracted-entity override in
// normalization is not part of the theme: it applies regardless of the
// palette.
type Theme struct {
	NodeColors  map[string]string `toml:"node_colors" json:"node_colors"`
	DefaultNode string            `toml:"default_node" json:"default_node"`
	Edge        string            `toml:"edge" json:"edge"`
}

// DefaultTheme matches the normalization defaults.
func DefaultTheme() Theme {
	return Theme{
		NodeColors: map[string]string{
			ClassExtractedEntity: ExtractedEntityColor,
		},
		DefaultNode: DefaultNodeColor,
		Edge:        DefaultEdgeColor,
	}
}

// ColorFor returns the theme color for a node based on its classification.
// The extracted-entity rule wins over any other tag.
func (t Theme) ColorFor(n *Node) string {
	if n.HasClass(ClassExtractedEntity) {
		return ExtractedEntityColor
	}
	for _, tag := range n.Classification {
		if c, ok := t.NodeColors[tag]; ok {
			return c
		}
	}
	if t.DefaultNode != "" {
		return t.DefaultNode
	}
	return DefaultNodeColor
}

// EdgeColor returns the theme's single edge color. Edges have no
// classification; they all share one palette entry.
func (t Theme) EdgeColor() string {
	if t.Edge != "" {
		return t.Edge
	}
	return DefaultEdgeColor
}

// Apply recolors every node and edge in the store according to the theme
// and returns the IDs whose color changed, nodes and edges separately.
// The caller pushes those changes to the substrate as one update.
func (t Theme) Apply(store *Store) (nodes, edges []string) {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, id := range store.nodeOrder {
		n := store.nodes[id]
		if c := t.ColorFor(n); c != n.Color {
			n.Color = c
			nodes = append(nodes, id)
		}
	}
	edgeColor := t.EdgeColor()
	for _, id := range store.edgeOrder {
		e := store.edges[id]
		if e.Color != edgeColor {
			e.Color = edgeColor
			edges = append(edges, id)
		}
	}
	return nodes, edges
}
