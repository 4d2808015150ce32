package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Properties is a string-keyed, insertion-ordered map of arbitrary values.
// Backend records carry property sets of unbounded size whose key order is
// meaningful for display, so a plain Go map is not enough: Properties
// preserves the order in which keys were first set, including across a JSON
// round-trip.
//
// The zero value is ready to use. Properties is not safe for concurrent
// mutation; the store's locking covers it.
type Properties struct {
	keys []string
	vals map[string]any
}

// Set stores a value under key, appending the key to the order on first
// insertion. Re-setting an existing key overwrites the value in place and
// keeps the original position.
func (p *Properties) Set(key string, value any) {
	if p.vals == nil {
		p.vals = make(map[string]any)
	}
	if _, exists := p.vals[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.vals[key] = value
}

// Get returns the value for key and whether it is present.
func (p *Properties) Get(key string) (any, bool) {
	v, ok := p.vals[key]
	return v, ok
}

// GetString returns the value for key if it is present and a string.
func (p *Properties) GetString(key string) (string, bool) {
	if v, ok := p.vals[key]; ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.vals[key]
	return ok
}

// Len returns the number of keys.
func (p *Properties) Len() int { return len(p.keys) }

// IsZero reports whether no keys are set. It makes the omitzero JSON tag
// work on struct fields of this type.
func (p Properties) IsZero() bool { return len(p.keys) == 0 }

// Keys returns the keys in insertion order. The returned slice is a copy.
func (p *Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Clone returns an independent copy. Values are copied shallowly.
func (p *Properties) Clone() Properties {
	var out Properties
	for _, k := range p.keys {
		out.Set(k, p.vals[k])
	}
	return out
}

// MergeFrom upserts every key of other into p, preserving p's existing key
// positions and appending unseen keys in other's order. This is the
// property-level merge used for refreshed records: it never removes keys.
func (p *Properties) MergeFrom(other Properties) {
	for _, k := range other.keys {
		p.Set(k, other.vals[k])
	}
}

// PropertiesFromMap builds Properties from a plain map. Map iteration order
// is not stable in Go, so keys are sorted to keep the result deterministic.
func PropertiesFromMap(m map[string]any) Properties {
	var p Properties
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// MarshalJSON encodes the properties as a JSON object in insertion order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.vals[k])
		if err != nil {
			return nil, fmt.Errorf("marshal property %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	p.keys = nil
	p.vals = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("properties: non-string key %v", keyTok)
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("properties: decode value for %q: %w", key, err)
		}
		p.Set(key, val)
	}

	// Consume closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
