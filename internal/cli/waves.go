package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphstage/graphstage/pkg/anim"
	"github.com/graphstage/graphstage/pkg/chunk"
	gio "github.com/graphstage/graphstage/pkg/io"
	"github.com/graphstage/graphstage/pkg/physics"
	"github.com/graphstage/graphstage/pkg/stage"
)

// wavesCommand creates the waves inspection command.
func (c *CLI) wavesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waves [batch.json]",
		Short: "Print the staged reveal plan for a batch",
		Long: `Print the staged reveal plan for a batch.

The waves command normalizes a recorded batch and computes the causal
wave order its nodes would reveal in, without touching any canvas or
stored state. It also reports which physics profile a graph of that size
would select.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWaves(cmd.Context(), args[0])
		},
	}
	return cmd
}

func (c *CLI) runWaves(ctx context.Context, path string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	tuning := cfg.Tuning

	bf, err := gio.ImportBatch(path)
	if err != nil {
		return err
	}

	proc := chunk.Processor{Size: tuning.ChunkSize}
	nodes, edges, err := proc.Process(ctx, bf.Nodes, bf.Edges)
	if err != nil {
		return err
	}

	maxWaves := tuning.MaxWaves
	if maxWaves <= 0 {
		maxWaves = stage.DefaultMaxWaves
	}
	waves := stage.ComputeWaves(nodes, edges, maxWaves)
	profile := physics.SelectProfileWith(len(nodes), tuning.Physics)

	printInfo("Reveal plan for %s", path)
	printStats(len(nodes), len(edges), len(waves))
	printNewline()
	for i, w := range waves {
		printWave(i, w)
	}
	printNewline()
	printKeyValue("physics", string(profile.Tier))
	printKeyValue("solver", profile.Solver)

	animateMax := tuning.AnimateMaxNodes
	if animateMax <= 0 {
		animateMax = anim.DefaultAnimateMaxNodes
	}
	printKeyValue("animate", fmt.Sprintf("%t", len(nodes) < animateMax))
	return nil
}
