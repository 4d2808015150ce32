package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/graphstage/graphstage/pkg/anim"
	gio "github.com/graphstage/graphstage/pkg/io"
	"github.com/graphstage/graphstage/pkg/loader"
	"github.com/graphstage/graphstage/pkg/observability"
	"github.com/graphstage/graphstage/pkg/render/dot"
)

// replayCommand creates the replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		noCache   bool
		noAnimate bool
		fit       bool
		trace     bool
		pick      bool
		realTime  bool
		svgOut    string
	)

	cmd := &cobra.Command{
		Use:   "replay [batch.json|dir]",
		Short: "Replay recorded batches against a headless canvas",
		Long: `Replay recorded batches against a headless canvas.

The replay command feeds one or more recorded batch files through the full
synchronization pipeline: normalization, merge, wave staging, and the
reveal animation. A directory replays its JSON files in name order, so a
recorded session plays back as it happened.

Reveals run on an instant clock so the replay settles immediately; use
--real-time to pace the frame loop at 60Hz instead. Use --trace to print
each staged wave as it reveals, and --svg to export the final canvas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := resolveBatchPaths(args[0])
			if err != nil {
				return err
			}
			if pick {
				chosen, err := pickBatch(paths)
				if err != nil {
					return err
				}
				if chosen == "" {
					printInfo("No batch selected")
					return nil
				}
				paths = []string{chosen}
			}
			return c.runReplay(cmd.Context(), paths, replayOptions{
				noCache:   noCache,
				noAnimate: noAnimate,
				fit:       fit,
				trace:     trace,
				realTime:  realTime,
				svgOut:    svgOut,
			})
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the snapshot cache")
	cmd.Flags().BoolVar(&noAnimate, "no-animate", false, "skip the reveal animation")
	cmd.Flags().BoolVar(&fit, "fit", false, "request a view fit after each batch")
	cmd.Flags().BoolVar(&trace, "trace", false, "print each staged wave as it reveals")
	cmd.Flags().BoolVar(&pick, "pick", false, "interactively select one batch from a directory")
	cmd.Flags().BoolVar(&realTime, "real-time", false, "pace the reveal at 60Hz instead of settling instantly")
	cmd.Flags().StringVar(&svgOut, "svg", "", "write the final canvas as SVG to this file")

	return cmd
}

type replayOptions struct {
	noCache   bool
	noAnimate bool
	fit       bool
	trace     bool
	realTime  bool
	svgOut    string
}

// runReplay plays the batches through a fresh loader and prints a summary
// per batch.
func (c *CLI) runReplay(ctx context.Context, paths []string, ro replayOptions) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var clock anim.Clock = anim.InstantClock{}
	if ro.realTime {
		clock = anim.RealClock{}
	}

	substrate := dot.New()
	defer substrate.Close()
	ld, err := c.newLoader(ctx, cfg, substrate, ro.noCache, clock)
	if err != nil {
		return err
	}
	defer ld.Close()

	if ro.trace {
		observability.SetSyncHooks(waveTraceHooks{})
		defer observability.Reset()
	}

	for _, path := range paths {
		bf, err := gio.ImportBatch(path)
		if err != nil {
			return err
		}

		opts := loader.Options{
			Replace: bf.Replace(),
			Fit:     ro.fit,
		}
		if ro.noAnimate {
			opts.Animate = loader.Bool(false)
		}

		prog := newProgress(c.Logger)
		res, err := ld.LoadData(ctx, bf.Nodes, bf.Edges, opts)
		if err != nil {
			printError("Batch %s failed: %v", filepath.Base(path), err)
			return err
		}

		var spin *Spinner
		if ro.realTime && !ro.trace {
			spin = newSpinnerWithContext(ctx, fmt.Sprintf("Revealing %s", filepath.Base(path)))
			spin.Start()
		}

		// Let the reveal settle before the next batch, as a live canvas
		// would sequence it.
		select {
		case <-res.Run.Done():
			if spin != nil {
				spin.Stop()
			}
		case <-ctx.Done():
			if spin != nil {
				spin.StopWithError("Reveal interrupted")
			}
			res.Run.Cancel()
			return ctx.Err()
		}
		prog.done(fmt.Sprintf("Merged %s: +%d nodes, +%d edges", filepath.Base(path), res.NodesAdded, res.EdgesAdded))
		printStats(res.TotalNodes, res.TotalEdges, res.Waves)
	}

	printNewline()
	printSuccess("Replayed %d batch(es)", len(paths))
	printKeyValue("nodes", fmt.Sprintf("%d", substrate.NodeCount()))
	printKeyValue("edges", fmt.Sprintf("%d", substrate.EdgeCount()))
	printKeyValue("physics", string(substrate.Profile().Tier))

	if ro.svgOut != "" {
		svg, err := substrate.SVG(ctx)
		if err != nil {
			return fmt.Errorf("export svg: %w", err)
		}
		if err := os.WriteFile(ro.svgOut, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", ro.svgOut, err)
		}
		printFile(ro.svgOut)
	}
	return nil
}

// waveTraceHooks prints wave staging events as the reveal runs.
type waveTraceHooks struct {
	observability.NoopSyncHooks
}

func (waveTraceHooks) OnWavePlanned(_ context.Context, waves, nodes int) {
	printDetail("planned %d wave(s) over %d node(s)", waves, nodes)
}

func (waveTraceHooks) OnWaveRevealed(_ context.Context, wave, nodes int) {
	printDetail("revealed wave %d (%d node(s))", wave, nodes)
}
