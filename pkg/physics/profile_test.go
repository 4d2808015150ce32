package physics

import "testing"

func TestSelectProfile(t *testing.T) {
	tests := []struct {
		name      string
		nodeCount int
		wantTier  Tier
	}{
		{"small graph full fidelity", 50, TierFull},
		{"at full boundary", 250, TierFull},
		{"just past full", 251, TierModerate},
		{"at moderate boundary", 1000, TierModerate},
		{"mid minimal", 1500, TierMinimal},
		{"at minimal boundary", 2500, TierMinimal},
		{"past all bounds", 5000, TierDisabled},
		{"empty graph", 0, TierFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SelectProfile(tt.nodeCount)
			if p.Tier != tt.wantTier {
				t.Errorf("SelectProfile(%d).Tier = %q, want %q", tt.nodeCount, p.Tier, tt.wantTier)
			}
			if wantEnabled := tt.wantTier != TierDisabled; p.Enabled != wantEnabled {
				t.Errorf("Enabled = %v, want %v", p.Enabled, wantEnabled)
			}
		})
	}
}

func TestSelectProfileDeterministic(t *testing.T) {
	if SelectProfile(1500) != SelectProfile(1500) {
		t.Error("same count produced different profiles")
	}
}

func TestSelectProfileSolverDowngrade(t *testing.T) {
	if s := SelectProfile(1500).Solver; s != "forceAtlas2Based" {
		t.Errorf("minimal solver = %q, want forceAtlas2Based", s)
	}
	if s := SelectProfile(50).Solver; s != "barnesHut" {
		t.Errorf("full solver = %q, want barnesHut", s)
	}
}

func TestSelectProfileWithCustomThresholds(t *testing.T) {
	th := Thresholds{FullMax: 10, ModerateMax: 20, MinimalMax: 30}

	tests := []struct {
		nodeCount int
		wantTier  Tier
	}{
		{10, TierFull},
		{11, TierModerate},
		{25, TierMinimal},
		{31, TierDisabled},
	}

	for _, tt := range tests {
		if got := SelectProfileWith(tt.nodeCount, th).Tier; got != tt.wantTier {
			t.Errorf("SelectProfileWith(%d).Tier = %q, want %q", tt.nodeCount, got, tt.wantTier)
		}
	}
}

func TestDisabled(t *testing.T) {
	p := Disabled()
	if p.Enabled || p.Tier != TierDisabled {
		t.Errorf("Disabled() = %+v, want disabled tier", p)
	}
}
