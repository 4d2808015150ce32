package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/graphstage/graphstage/pkg/errors"
	"github.com/graphstage/graphstage/pkg/graph"
	"github.com/graphstage/graphstage/pkg/loader"
	"github.com/graphstage/graphstage/pkg/physics"
)

// Substrate is a headless canvas that mirrors the staged graph and can
// export it as Graphviz DOT or SVG. The CLI replay command uses it to
// produce an inspectable picture of what a live canvas would show.
type Substrate struct {
	mu        sync.Mutex
	nodes     map[string]graph.Node
	nodeOrder []string
	edges     map[string]graph.Edge
	edgeOrder []string
	profile   physics.Profile
	closed    bool
}

var _ loader.Substrate = (*Substrate)(nil)

// New creates an empty DOT substrate.
func New() *Substrate {
	return &Substrate{
		nodes: make(map[string]graph.Node),
		edges: make(map[string]graph.Edge),
	}
}

// Insert adds new records. Re-inserting an existing ID is an error so
// callers exercising a real canvas see the same contract.
func (s *Substrate) Insert(nodes []graph.Node, edges []graph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New(errors.ErrCodeSubstrateClosed, "canvas is closed")
	}
	for _, n := range nodes {
		if _, ok := s.nodes[n.ID]; ok {
			return errors.New(errors.ErrCodeSubstrateDuplicateID, "node %s already on canvas", n.ID)
		}
		s.nodes[n.ID] = n
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}
	for _, e := range edges {
		if _, ok := s.edges[e.ID]; ok {
			return errors.New(errors.ErrCodeSubstrateDuplicateID, "edge %s already on canvas", e.ID)
		}
		s.edges[e.ID] = e
		s.edgeOrder = append(s.edgeOrder, e.ID)
	}
	return nil
}

// Update patches existing records; unknown IDs are added. Zero-valued
// fields keep the current value, so animation frames carrying only size
// and opacity do not wipe labels or colors.
func (s *Substrate) Update(nodes []graph.Node, edges []graph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New(errors.ErrCodeSubstrateClosed, "canvas is closed")
	}
	for _, n := range nodes {
		cur, ok := s.nodes[n.ID]
		if !ok {
			s.nodes[n.ID] = n
			s.nodeOrder = append(s.nodeOrder, n.ID)
			continue
		}
		s.nodes[n.ID] = mergeNode(cur, n)
	}
	for _, e := range edges {
		cur, ok := s.edges[e.ID]
		if !ok {
			s.edges[e.ID] = e
			s.edgeOrder = append(s.edgeOrder, e.ID)
			continue
		}
		if e.Label != "" {
			cur.Label = e.Label
		}
		if e.Color != "" {
			cur.Color = e.Color
		}
		if e.Opacity != 0 {
			cur.Opacity = e.Opacity
		}
		s.edges[e.ID] = cur
	}
	return nil
}

func mergeNode(cur, patch graph.Node) graph.Node {
	if patch.Label != "" {
		cur.Label = patch.Label
	}
	if patch.Title != "" {
		cur.Title = patch.Title
	}
	if len(patch.Classification) > 0 {
		cur.Classification = patch.Classification
	}
	if patch.Color != "" {
		cur.Color = patch.Color
	}
	if patch.Size != 0 {
		cur.Size = patch.Size
	}
	if patch.Opacity != 0 {
		cur.Opacity = patch.Opacity
	}
	if patch.VisualState != "" {
		cur.VisualState = patch.VisualState
	}
	if patch.Position != nil {
		cur.Position = patch.Position
	}
	return cur
}

// Close marks the canvas closed. Later inserts and updates fail, which
// surfaces reveals that outlive the replay session.
func (s *Substrate) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Clear drops everything mirrored so far.
func (s *Substrate) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]graph.Node)
	s.nodeOrder = nil
	s.edges = make(map[string]graph.Edge)
	s.edgeOrder = nil
	return nil
}

// SetSimulationProfile records the active profile; a DOT export has no
// live simulation.
func (s *Substrate) SetSimulationProfile(p physics.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	return nil
}

// RequestViewFit is a no-op for a static export.
func (s *Substrate) RequestViewFit(ids []string) error { return nil }

// Profile returns the last simulation profile applied.
func (s *Substrate) Profile() physics.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// NodeCount returns the number of mirrored nodes.
func (s *Substrate) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// EdgeCount returns the number of mirrored edges.
func (s *Substrate) EdgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edges)
}

// DOT exports the mirrored graph as Graphviz DOT source.
func (s *Substrate) DOT() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fontsize=12];\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("\n")

	for _, id := range s.nodeOrder {
		n := s.nodes[id]
		attrs := nodeAttrs(n)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range s.edgeOrder {
		e := s.edges[id]
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node) []string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	color := n.Color
	if color == "" {
		color = graph.DefaultNodeColor
	}
	attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
	if n.VisualState == graph.VisualPending || n.VisualState == graph.VisualAnimating {
		attrs = append(attrs, "style=\"filled,dashed\"")
	}
	return attrs
}

func edgeAttrs(e graph.Edge) []string {
	color := e.Color
	if color == "" {
		color = graph.DefaultEdgeColor
	}
	attrs := []string{fmt.Sprintf("color=%q", color)}
	if e.Label != "" && e.Label != graph.DefaultEdgeLabel {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label), "fontsize=9")
	}
	return attrs
}

// SVG renders the mirrored graph to SVG via Graphviz.
func (s *Substrate) SVG(ctx context.Context) ([]byte, error) {
	dot := s.DOT()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
