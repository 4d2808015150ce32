package graph

import (
	"encoding/json"
	"testing"
)

func TestPropertiesOrderPreserved(t *testing.T) {
	var p Properties
	p.Set("zed", 1)
	p.Set("alpha", 2)
	p.Set("mid", 3)
	p.Set("alpha", 4) // overwrite keeps original position

	want := []string{"zed", "alpha", "mid"}
	got := p.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v, _ := p.Get("alpha"); v != 4 {
		t.Errorf("Get(alpha) = %v, want 4", v)
	}
}

func TestPropertiesJSONRoundTrip(t *testing.T) {
	var p Properties
	p.Set("zulu", "z")
	p.Set("alpha", "a")
	p.Set("count", json.Number("7"))

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `{"zulu":"z","alpha":"a","count":7}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var back Properties
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	gotKeys := back.Keys()
	wantKeys := []string{"zulu", "alpha", "count"}
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, gotKeys[i], wantKeys[i])
		}
	}
}

func TestPropertiesMergeFrom(t *testing.T) {
	var dst Properties
	dst.Set("kept", "old")
	dst.Set("updated", "old")

	var src Properties
	src.Set("updated", "new")
	src.Set("added", "new")

	dst.MergeFrom(src)

	if v, _ := dst.GetString("kept"); v != "old" {
		t.Errorf("kept = %q, want old", v)
	}
	if v, _ := dst.GetString("updated"); v != "new" {
		t.Errorf("updated = %q, want new", v)
	}
	if v, _ := dst.GetString("added"); v != "new" {
		t.Errorf("added = %q, want new", v)
	}
}

func TestPropertiesIsZero(t *testing.T) {
	var p Properties
	if !p.IsZero() {
		t.Error("empty Properties should be zero")
	}
	p.Set("k", "v")
	if p.IsZero() {
		t.Error("populated Properties should not be zero")
	}
}

func TestPropertiesCloneIndependent(t *testing.T) {
	var p Properties
	p.Set("k", "v")

	c := p.Clone()
	c.Set("k", "changed")
	c.Set("extra", 1)

	if v, _ := p.GetString("k"); v != "v" {
		t.Errorf("original mutated through clone: k = %q", v)
	}
	if p.Has("extra") {
		t.Error("original gained key through clone")
	}
}
