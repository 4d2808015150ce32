package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/graphstage/graphstage/pkg/graph"
)

// RawBatch is a recorded batch: raw records as the backend sent them,
// before normalization.
type RawBatch struct {
	Mode  string          `json:"mode,omitempty"`
	Nodes []graph.RawNode `json:"nodes"`
	Edges []graph.RawEdge `json:"edges"`
}

// Replace reports whether the batch was recorded as a replace-mode load.
func (b RawBatch) Replace() bool {
	return strings.EqualFold(b.Mode, string(graph.ModeReplace))
}

// ReadBatch decodes a recorded batch from r.
//
// Numbers decode as json.Number so large IDs survive the round trip
// without float truncation. ReadBatch does not close r.
func ReadBatch(r io.Reader) (RawBatch, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var b RawBatch
	if err := dec.Decode(&b); err != nil {
		return RawBatch{}, fmt.Errorf("decode: %w", err)
	}
	return b, nil
}

// ImportBatch reads a recorded batch from the JSON file at path.
func ImportBatch(path string) (RawBatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawBatch{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	b, err := ReadBatch(f)
	if err != nil {
		return RawBatch{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// WriteBatch encodes a batch as indented JSON and writes it to w.
// The output can be re-imported with [ReadBatch].
func WriteBatch(b RawBatch, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportBatch writes a batch to a JSON file at path.
func ExportBatch(b RawBatch, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteBatch(b, f)
}

// ListBatchFiles returns the JSON files in dir, sorted by name so a
// recorded session replays in its original order.
func ListBatchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list batches in %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
