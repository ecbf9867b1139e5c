package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/geoclass/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "geoclass",
		Short: "Geotag media items from their tags",
		Long: `geoclass predicts the location of media items from their textual tags.

A multinomial Naive Bayes model is trained over a fixed set of medoid
classes, in batches that fit the memory budget, and every test item is
assigned the class with the highest score.

Examples:
  geoclass plan -c geoclass.yaml           # Show the batch plan
  geoclass classify -c geoclass.yaml       # Classify (resumes if interrupted)
  geoclass reference -c geoclass.yaml      # Write medoid coordinates`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "parameter file (default geoclass.yaml if present)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(
		newClassifyCmd(opts),
		newPlanCmd(opts),
		newReferenceCmd(opts),
	)
	return cmd
}

// load reads the configuration and applies the persistent flag overrides.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
