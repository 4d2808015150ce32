package graph

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// RawNode and RawEdge are records as delivered by the backend, before
// normalization. Field names vary by source (from/start, to/end, type vs
// labels), values are loosely typed, and anything may be missing.
type (
	RawNode = map[string]any
	RawEdge = map[string]any
)

// LabelPreviewLimit bounds labels derived from a properties.text body.
// Longer text is truncated with an ellipsis.
const LabelPreviewLimit = 60

// edgeIDSpace namespaces deterministic edge IDs so that the same
// endpoints+ordinal always produce the same ID and distinct ordinals never
// collide.
var edgeIDSpace = uuid.MustParse("8f0ca2f1-4b1e-4a46-9c65-2c8dbb2e9d11")

// NormalizeNode canonicalizes a raw node record. It is total: missing
// fields fall back to the ID or to rendering defaults, and it never fails.
// It is also idempotent: normalizing the raw form of an already-normalized
// node changes neither ID, label, nor properties.
func NormalizeNode(raw RawNode) Node {
	n := Node{
		ID:    stringField(raw, "id"),
		Title: stringField(raw, "title"),
		Color: stringField(raw, "color"),
		Size:  numberField(raw, "size"),
	}
	n.Properties = propertiesField(raw)
	n.Classification = classify(raw, n.Properties)
	n.Label = nodeLabel(raw, n.Properties, n.ID)

	if n.Size == 0 {
		n.Size = DefaultNodeSize
	}
	if n.HasClass(ClassExtractedEntity) {
		// Fixed visual-priority rule: extracted entities always stand out.
		n.Color = ExtractedEntityColor
	} else if n.Color == "" {
		n.Color = DefaultNodeColor
	}
	if vs := stringField(raw, "visual_state"); vs != "" {
		n.VisualState = VisualState(vs)
	} else {
		n.VisualState = VisualPending
	}
	return n
}

// NormalizeEdge canonicalizes a raw edge record. The ordinal is the edge's
// position within its batch and feeds the deterministic fallback ID, so
// records without IDs cannot collide with each other.
func NormalizeEdge(raw RawEdge, ordinal int) Edge {
	e := Edge{
		ID:   stringField(raw, "id"),
		From: firstStringField(raw, "from", "start"),
		To:   firstStringField(raw, "to", "end"),
	}
	e.Properties = propertiesField(raw)
	e.Label = edgeLabel(raw, e.Properties)
	e.Color = stringField(raw, "color")
	if e.Color == "" {
		e.Color = DefaultEdgeColor
	}
	if e.ID == "" {
		seed := e.From + "|" + e.To + "|" + strconv.Itoa(ordinal)
		e.ID = uuid.NewSHA1(edgeIDSpace, []byte(seed)).String()
	}
	return e
}

// nodeLabel resolves the display label: explicit label, then a bounded
// preview of properties.text, then properties.name, then
// properties.display_name, then the ID itself.
func nodeLabel(raw RawNode, props Properties, id string) string {
	if label := stringField(raw, "label"); label != "" {
		return label
	}
	if text, ok := props.GetString("text"); ok && text != "" {
		return truncateLabel(text, LabelPreviewLimit)
	}
	if name, ok := props.GetString("name"); ok && name != "" {
		return name
	}
	if name, ok := props.GetString("display_name"); ok && name != "" {
		return name
	}
	return id
}

// edgeLabel resolves the relationship label: explicit label, then explicit
// type, then a rel/relationship property, then DefaultEdgeLabel.
func edgeLabel(raw RawEdge, props Properties) string {
	if label := stringField(raw, "label"); label != "" {
		return label
	}
	if typ := stringField(raw, "type"); typ != "" {
		return typ
	}
	if rel, ok := props.GetString("rel"); ok && rel != "" {
		return rel
	}
	if rel, ok := props.GetString("relationship"); ok && rel != "" {
		return rel
	}
	return DefaultEdgeLabel
}

// classify derives category tags from type, labels, or a property
// fallback, in that order. The first source that yields anything wins.
func classify(raw RawNode, props Properties) []string {
	if typ := stringField(raw, "type"); typ != "" {
		return []string{typ}
	}
	if tags := stringListField(raw, "labels"); len(tags) > 0 {
		return tags
	}
	if tags := stringListField(raw, "classification"); len(tags) > 0 {
		return tags
	}
	for _, key := range []string{"type", "category", "entity_type"} {
		if v, ok := props.GetString(key); ok && v != "" {
			return []string{v}
		}
	}
	return nil
}

func truncateLabel(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

// Raw converts a node back to its raw record form. Useful for substrate
// payloads and for feeding a node through normalization again.
func (n Node) Raw() RawNode {
	raw := RawNode{"id": n.ID}
	if n.Label != "" {
		raw["label"] = n.Label
	}
	if n.Title != "" {
		raw["title"] = n.Title
	}
	if len(n.Classification) > 0 {
		labels := make([]any, len(n.Classification))
		for i, c := range n.Classification {
			labels[i] = c
		}
		raw["labels"] = labels
	}
	if n.Color != "" {
		raw["color"] = n.Color
	}
	if n.Size != 0 {
		raw["size"] = n.Size
	}
	if n.VisualState != "" {
		raw["visual_state"] = string(n.VisualState)
	}
	if n.Properties.Len() > 0 {
		props := make(map[string]any, n.Properties.Len())
		for _, k := range n.Properties.Keys() {
			v, _ := n.Properties.Get(k)
			props[k] = v
		}
		raw["properties"] = props
	}
	return raw
}

// stringField extracts raw[key] as a string, stringifying numeric values.
// Missing keys and unstringifiable values yield "".
func stringField(raw map[string]any, key string) string {
	return stringify(raw[key])
}

// firstStringField returns the first non-empty extraction among keys.
func firstStringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringify(raw[key]); s != "" {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}

// numberField extracts raw[key] as a float64, accepting any numeric
// encoding. Missing or non-numeric values yield 0.
func numberField(raw map[string]any, key string) float64 {
	switch val := raw[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// stringListField extracts raw[key] as a list of strings, accepting both
// []string and []any with string-ish elements.
func stringListField(raw map[string]any, key string) []string {
	switch val := raw[key].(type) {
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case []any:
		var out []string
		for _, item := range val {
			if s := stringify(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	default:
		return nil
	}
}

// propertiesField extracts the properties object from a raw record.
// Normalization never drops properties: whatever the backend sent is
// carried through verbatim.
func propertiesField(raw map[string]any) Properties {
	switch val := raw["properties"].(type) {
	case Properties:
		return val.Clone()
	case map[string]any:
		return PropertiesFromMap(val)
	default:
		return Properties{}
	}
}
