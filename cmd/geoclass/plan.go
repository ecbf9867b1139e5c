package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/geoclass"
)

func newPlanCmd(root *rootOptions) *cobra.Command {
	var (
		batchSize int
		memoryGiB float64
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the batch plan without classifying",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.Batch.Size = batchSize
			}
			if cmd.Flags().Changed("memory-gib") {
				cfg.Batch.MemoryGiB = memoryGiB
			}

			params, err := cfg.Params()
			if err != nil {
				return err
			}
			c, err := geoclass.New(cmd.Context(), params, cfg.Options()...)
			if err != nil {
				return err
			}
			defer c.Close()

			p := c.Plan()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "classes:     %d\n", p.Classes)
			fmt.Fprintf(out, "features:    %d\n", p.Features)
			fmt.Fprintf(out, "memory:      %d bytes\n", p.MemoryBytes)
			fmt.Fprintf(out, "batch size:  %d\n", p.BatchSize)
			fmt.Fprintf(out, "batches:     %d\n", len(p.Batches))
			fmt.Fprintf(out, "table bytes: %d\n", p.TableBytes)
			fmt.Fprintf(out, "train bytes: %d\n", p.TrainBytes)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "classes per batch (0 plans from the memory budget)")
	cmd.Flags().Float64Var(&memoryGiB, "memory-gib", 0, "training memory budget in GiB (0 uses host memory)")
	return cmd
}
