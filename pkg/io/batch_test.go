package io

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/graphstage/graphstage/pkg/graph"
)

func TestBatchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")

	orig := RawBatch{
		Mode: "replace",
		Nodes: []graph.RawNode{
			{"id": "a", "label": "Alpha", "type": "service"},
			{"id": "b"},
		},
		Edges: []graph.RawEdge{
			{"from": "a", "to": "b", "type": "CALLS"},
		},
	}
	if err := ExportBatch(orig, path); err != nil {
		t.Fatalf("ExportBatch: %v", err)
	}

	got, err := ImportBatch(path)
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if got.Mode != "replace" {
		t.Errorf("Mode = %q, want replace", got.Mode)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges; want 2, 1", len(got.Nodes), len(got.Edges))
	}
	if got.Nodes[0]["label"] != "Alpha" {
		t.Errorf("label = %v, want Alpha", got.Nodes[0]["label"])
	}
	if got.Edges[0]["type"] != "CALLS" {
		t.Errorf("edge type = %v, want CALLS", got.Edges[0]["type"])
	}
}

func TestReadBatchLargeNumericID(t *testing.T) {
	// IDs above 2^53 must not pass through float64.
	in := `{"nodes": [{"id": 9007199254740993}], "edges": []}`
	b, err := ReadBatch(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	num, ok := b.Nodes[0]["id"].(json.Number)
	if !ok {
		t.Fatalf("id decoded as %T, want json.Number", b.Nodes[0]["id"])
	}
	if num.String() != "9007199254740993" {
		t.Errorf("id = %s, want 9007199254740993", num)
	}
}

func TestReadBatchInvalidJSON(t *testing.T) {
	if _, err := ReadBatch(strings.NewReader("{nope")); err == nil {
		t.Error("want decode error, got nil")
	}
}

func TestReplaceMode(t *testing.T) {
	tests := []struct {
		mode string
		want bool
	}{
		{"replace", true},
		{"REPLACE", true},
		{"Replace", true},
		{"incremental", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (RawBatch{Mode: tt.mode}).Replace(); got != tt.want {
			t.Errorf("Replace() with mode %q = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestListBatchFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"003-c.json", "001-a.json", "002-b.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "ignored.json"), 0o755); err != nil {
		t.Fatal(err)
	}

	paths, err := ListBatchFiles(dir)
	if err != nil {
		t.Fatalf("ListBatchFiles: %v", err)
	}
	want := []string{"001-a.json", "002-b.json", "003-c.json"}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths %v, want %d", len(paths), paths, len(want))
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, filepath.Base(p), want[i])
		}
	}
}

func TestListBatchFilesMissingDir(t *testing.T) {
	if _, err := ListBatchFiles(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("want error for missing directory, got nil")
	}
}
