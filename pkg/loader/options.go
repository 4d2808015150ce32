package loader

import (
	"github.com/graphstage/graphstage/pkg/anim"
	"github.com/graphstage/graphstage/pkg/chunk"
	"github.com/graphstage/graphstage/pkg/errors"
	"github.com/graphstage/graphstage/pkg/physics"
	"github.com/graphstage/graphstage/pkg/stage"
)

// Options configures one LoadData call.
type Options struct {
	// Replace swaps the live store wholesale instead of merging. This is
	// the cheap path for first load and hard refresh.
	Replace bool `json:"replace,omitempty"`

	// Fit requests a view-fit after the load settles: around FocusNodes if
	// set, around the newly inserted nodes for incremental loads, or
	// around the whole graph for replace loads.
	Fit bool `json:"fit,omitempty"`

	// Animate forces staged animation on or off. Nil selects automatically
	// by batch size: batches of Tuning.AnimateMaxNodes or more skip it.
	Animate *bool `json:"animate,omitempty"`

	// FocusNodes restricts the post-load view-fit to these IDs.
	FocusNodes []string `json:"focus_nodes,omitempty"`

	// ChunkSize overrides the normalization chunk size for this call.
	ChunkSize int `json:"chunk_size,omitempty"`

	// ApplyTheme recolors the graph from the loader's theme after the
	// merge.
	ApplyTheme bool `json:"apply_theme,omitempty"`

	// UpdateDownstream invokes the downstream refresh hook after the
	// merge so property/search panels can rebuild their indices.
	UpdateDownstream bool `json:"update_downstream,omitempty"`

	validated bool
}

// ValidateAndSetDefaults checks the options. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ChunkSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chunk size must not be negative, got %d", o.ChunkSize)
	}
	o.validated = true
	return nil
}

// Bool is a convenience for the tri-state Animate option.
func Bool(v bool) *bool { return &v }

// Tuning carries the pipeline's tunable constants. The zero value selects
// every default; the CLI populates it from a TOML file.
type Tuning struct {
	// ChunkSize is the default normalization chunk size.
	ChunkSize int `toml:"chunk_size"`

	// AnimateMaxNodes is the batch-size bound at or above which staged
	// animation is skipped.
	AnimateMaxNodes int `toml:"animate_max_nodes"`

	// MaxWaves bounds causal wave computation before the catch-all flush.
	MaxWaves int `toml:"max_waves"`

	// RevealFrames, WaveLagFrames, and EdgeLagFrames pace the frame loop.
	RevealFrames  int `toml:"reveal_frames"`
	WaveLagFrames int `toml:"wave_lag_frames"`
	EdgeLagFrames int `toml:"edge_lag_frames"`

	// Physics holds the tier selection thresholds.
	Physics physics.Thresholds `toml:"physics"`
}

func (t Tuning) withDefaults() Tuning {
	if t.ChunkSize <= 0 {
		t.ChunkSize = chunk.DefaultSize
	}
	if t.AnimateMaxNodes <= 0 {
		t.AnimateMaxNodes = anim.DefaultAnimateMaxNodes
	}
	if t.MaxWaves <= 0 {
		t.MaxWaves = stage.DefaultMaxWaves
	}
	if t.RevealFrames <= 0 {
		t.RevealFrames = anim.DefaultRevealFrames
	}
	if t.WaveLagFrames <= 0 {
		t.WaveLagFrames = anim.DefaultWaveLagFrames
	}
	if t.EdgeLagFrames <= 0 {
		t.EdgeLagFrames = anim.DefaultEdgeLagFrames
	}
	return t
}
