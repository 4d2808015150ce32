package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphstage/graphstage/pkg/cache"
	"github.com/graphstage/graphstage/pkg/graph"
	"github.com/graphstage/graphstage/pkg/loader"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	var graphID string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect and manage stored graph snapshots",
	}
	cmd.PersistentFlags().StringVar(&graphID, "graph", loader.DefaultGraphID, "graph surface the snapshot belongs to")

	cmd.AddCommand(c.snapshotShowCommand(&graphID))
	cmd.AddCommand(c.snapshotClearCommand(&graphID))

	return cmd
}

// snapshotShowCommand creates the "snapshot show" subcommand.
func (c *CLI) snapshotShowCommand(graphID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print statistics for the stored snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snapCache, err := c.snapshotCache(ctx)
			if err != nil {
				return err
			}
			defer snapCache.Close()

			key := cache.NewDefaultKeyer().SnapshotKey(*graphID)
			data, hit, err := snapCache.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			if !hit {
				printInfo("No snapshot stored for %q", *graphID)
				return nil
			}

			var batch graph.Batch
			if err := json.Unmarshal(data, &batch); err != nil {
				printError("Snapshot for %q is corrupt: %v", *graphID, err)
				return nil
			}

			printSuccess("Snapshot for %q", *graphID)
			printKeyValue("nodes", fmt.Sprintf("%d", len(batch.Nodes)))
			printKeyValue("edges", fmt.Sprintf("%d", len(batch.Edges)))
			printKeyValue("size", fmt.Sprintf("%d bytes", len(data)))
			return nil
		},
	}
}

// snapshotClearCommand creates the "snapshot clear" subcommand.
func (c *CLI) snapshotClearCommand(graphID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snapCache, err := c.snapshotCache(ctx)
			if err != nil {
				return err
			}
			defer snapCache.Close()

			key := cache.NewDefaultKeyer().SnapshotKey(*graphID)
			if err := snapCache.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete snapshot: %w", err)
			}
			printSuccess("Cleared snapshot for %q", *graphID)
			return nil
		},
	}
}

// snapshotCache opens the configured snapshot cache backend.
func (c *CLI) snapshotCache(ctx context.Context) (cache.Cache, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return c.openCache(ctx, cfg, false)
}
