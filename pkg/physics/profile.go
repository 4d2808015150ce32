// Package physics selects simulation parameter bundles for the rendering
// substrate based on the current graph scale.
//
// Profiles trade fidelity for throughput as the node count grows: a small
// graph gets the full force model with stabilization, a large one gets a
// cheap forceAtlas-style solver, and past the upper bound the simulation
// is switched off entirely so the canvas stays interactive.
package physics

// Tier names one of the ordered simulation fidelity levels.
type Tier string

const (
	TierFull     Tier = "full"
	TierModerate Tier = "moderate"
	TierMinimal  Tier = "minimal"
	TierDisabled Tier = "disabled"
)

// Default node-count thresholds for tier selection. A graph at or below
// the threshold gets the corresponding tier; above the last one the
// simulation is disabled.
const (
	DefaultFullMax     = 250
	DefaultModerateMax = 1000
	DefaultMinimalMax  = 2500
)

// Profile is an immutable simulation parameter bundle keyed by a scale
// tier. The parameter names follow the substrate's force solver options;
// the profile is opaque to the rest of the pipeline.
type Profile struct {
	Tier    Tier   `json:"tier"`
	Enabled bool   `json:"enabled"`
	Solver  string `json:"solver,omitempty"`

	GravitationalConstant float64 `json:"gravitational_constant,omitempty"`
	CentralGravity        float64 `json:"central_gravity,omitempty"`
	SpringLength          float64 `json:"spring_length,omitempty"`
	SpringConstant        float64 `json:"spring_constant,omitempty"`
	Damping               float64 `json:"damping,omitempty"`

	// StabilizationIterations is how long the substrate may iterate before
	// showing the graph. Zero disables the stabilization phase.
	StabilizationIterations int `json:"stabilization_iterations,omitempty"`
}

// Thresholds carries the tunable tier boundaries. The zero value selects
// the defaults.
type Thresholds struct {
	FullMax     int `toml:"full_max"`
	ModerateMax int `toml:"moderate_max"`
	MinimalMax  int `toml:"minimal_max"`
}

func (t Thresholds) withDefaults() Thresholds {
	if t.FullMax == 0 {
		t.FullMax = DefaultFullMax
	}
	if t.ModerateMax == 0 {
		t.ModerateMax = DefaultModerateMax
	}
	if t.MinimalMax == 0 {
		t.MinimalMax = DefaultMinimalMax
	}
	return t
}

// SelectProfile returns the profile for the given total node count using
// the default thresholds. It is pure and deterministic; the pipeline
// re-selects on every batch that changes the node count.
func SelectProfile(nodeCount int) Profile {
	return SelectProfileWith(nodeCount, Thresholds{})
}

// SelectProfileWith is SelectProfile with explicit tier boundaries.
func SelectProfileWith(nodeCount int, th Thresholds) Profile {
	th = th.withDefaults()
	switch {
	case nodeCount <= th.FullMax:
		return fullProfile
	case nodeCount <= th.ModerateMax:
		return moderateProfile
	case nodeCount <= th.MinimalMax:
		return minimalProfile
	default:
		return disabledProfile
	}
}

// Disabled returns the profile with the simulation switched off. The
// animation driver applies it while interpolation is in flight so forces
// do not fight interpolated positions.
func Disabled() Profile { return disabledProfile }

var (
	fullProfile = Profile{
		Tier:                    TierFull,
		Enabled:                 true,
		Solver:                  "barnesHut",
		GravitationalConstant:   -8000,
		CentralGravity:          0.3,
		SpringLength:            120,
		SpringConstant:          0.04,
		Damping:                 0.09,
		StabilizationIterations: 1000,
	}

	moderateProfile = Profile{
		Tier:                    TierModerate,
		Enabled:                 true,
		Solver:                  "barnesHut",
		GravitationalConstant:   -4000,
		CentralGravity:          0.2,
		SpringLength:            150,
		SpringConstant:          0.02,
		Damping:                 0.15,
		StabilizationIterations: 200,
	}

	minimalProfile = Profile{
		Tier:                    TierMinimal,
		Enabled:                 true,
		Solver:                  "forceAtlas2Based",
		GravitationalConstant:   -50,
		CentralGravity:          0.01,
		SpringLength:            100,
		SpringConstant:          0.08,
		Damping:                 0.4,
		StabilizationIterations: 0,
	}

	disabledProfile = Profile{
		Tier:    TierDisabled,
		Enabled: false,
	}
)
