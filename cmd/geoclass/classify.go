package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/geoclass"
	"github.com/hupe1980/geoclass/codec"
	"github.com/hupe1980/geoclass/metrics/prom"
)

type classifyOptions struct {
	batchSize       int
	memoryGiB       float64
	workers         int
	keepBatchFiles  bool
	metricsTextfile string
	json            bool
}

func newClassifyCmd(root *rootOptions) *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify the test set",
		Long: `Classify trains and evaluates every batch, then merges the batch results
into the classification file. Batches whose result file exists are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("batch-size") {
				cfg.Batch.Size = opts.batchSize
			}
			if flags.Changed("memory-gib") {
				cfg.Batch.MemoryGiB = opts.memoryGiB
			}
			if flags.Changed("workers") {
				cfg.Runtime.Workers = opts.workers
			}
			if opts.keepBatchFiles {
				cfg.Output.KeepBatchFiles = true
			}
			if opts.metricsTextfile != "" {
				cfg.Metrics.Textfile = opts.metricsTextfile
			}

			params, err := cfg.Params()
			if err != nil {
				return err
			}

			collector := prom.New()
			c, err := geoclass.New(cmd.Context(), params,
				append(cfg.Options(), geoclass.WithMetricsCollector(collector))...)
			if err != nil {
				return err
			}
			defer c.Close()

			report, runErr := c.Run(cmd.Context())
			if cfg.Metrics.Textfile != "" {
				if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil && runErr == nil {
					runErr = err
				}
			}
			if runErr != nil {
				return runErr
			}
			return printReport(cmd, report, opts.json)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.batchSize, "batch-size", 0, "classes per batch (0 plans from the memory budget)")
	f.Float64Var(&opts.memoryGiB, "memory-gib", 0, "training memory budget in GiB (0 uses host memory)")
	f.IntVar(&opts.workers, "workers", 0, "worker goroutines (0 uses GOMAXPROCS)")
	f.BoolVar(&opts.keepBatchFiles, "keep-batch-files", false, "keep batch files and manifest after merging")
	f.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	f.BoolVar(&opts.json, "json", false, "print the report as JSON")
	return cmd
}

func printReport(cmd *cobra.Command, r *geoclass.Report, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		data, err := codec.Default.Marshal(r)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	_, err := fmt.Fprintf(out,
		"run %s: %d batches run, %d skipped, %d test items, %d records -> %s (%s)\n",
		r.RunID, r.BatchesRun, r.BatchesSkipped, r.TestItems, r.Merge.Records, r.Output, r.Duration.Round(time.Millisecond))
	return err
}
