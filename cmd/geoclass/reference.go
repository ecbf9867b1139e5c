package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/geoclass"
	"github.com/hupe1980/geoclass/internal/fs"
	"github.com/hupe1980/geoclass/reference"
)

func newReferenceCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Write the medoid coordinates of every classified item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Output.Locations = output
			}
			if cfg.Output.Locations == "" {
				return fmt.Errorf("%w: no locations file (set output.locations or --output)", geoclass.ErrConfig)
			}

			logger := cfg.Logger()
			assigner, stats, err := geoclass.LoadAssigner(cmd.Context(), fs.Default, cfg.Inputs.Medoids, cfg.Model.Classes)
			logger.LogLoad(cmd.Context(), "medoids", cfg.Inputs.Medoids, stats, err)
			if err != nil {
				return err
			}

			r := reference.NewMedoidReferencer(assigner, reference.WithLogger(logger.Logger))
			st, err := r.Run(cmd.Context(), cfg.Output.Classification, cfg.Output.Locations)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d locations -> %s\n", st.Records, cfg.Output.Locations)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "locations file (overrides output.locations)")
	return cmd
}
