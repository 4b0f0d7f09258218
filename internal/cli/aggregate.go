package cli

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmgolembiowski/datalad/internal/config"
	"github.com/dmgolembiowski/datalad/internal/tui"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [dataset_path]",
	Short: "Extract and persist metadata under the dataset",
	Long: `Aggregate runs content extraction and writes the results into the
dataset's aggregate store (default: ` + datalad.AggregateDirName + `):

  dataset.json      the dataset-level record
  files.jsonl       one line per content file
  metadata.sqlite   the same records, queryable by path
  manifest.json     store manifest with SHA-256 artifact checksums

An existing store is only replaced after approval: interactively by
typing "replace", or with --force after a countdown.

Examples:
  # First aggregation
  datalad-meta aggregate ./study

  # Replace an existing store without a prompt (CI/CD)
  datalad-meta aggregate ./study --force

  # Store in a custom location inside the dataset
  datalad-meta aggregate ./study --output .meta/store`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAggregate,
}

type aggregateFlagValues struct {
	extractor       string
	strict          bool
	skipDerivatives bool
	output          string
	force           bool
}

var aggregateFlags aggregateFlagValues

func init() {
	rootCmd.AddCommand(aggregateCmd)

	aggregateCmd.Flags().StringVarP(&aggregateFlags.extractor, "extractor", "e", "",
		"Extractor to run\n"+
			"Precedence: --extractor > $"+config.EnvExtractor+" > datalad.yaml > "+datalad.DefaultExtractor)
	aggregateCmd.Flags().BoolVar(&aggregateFlags.strict, "strict", false,
		"Abort on the first failed metadata query\n"+
			"Precedence: --strict > $"+config.EnvRaiseOnError+" > datalad.yaml > off")
	aggregateCmd.Flags().BoolVar(&aggregateFlags.skipDerivatives, "skip-derivatives", false,
		"Exclude the derivatives/ subtree from content extraction")
	aggregateCmd.Flags().StringVarP(&aggregateFlags.output, "output", "o", "",
		"Store directory, resolved relative to the dataset root\n"+
			"(default: "+datalad.AggregateDirName+", or datalad.yaml's aggregate.output)")
	aggregateCmd.Flags().BoolVar(&aggregateFlags.force, "force", false,
		"Replace an existing store after a countdown instead of prompting\n"+
			"Use with caution - intended for CI/CD pipelines")

	_ = aggregateCmd.RegisterFlagCompletionFunc("extractor", completeExtractorNames)
	_ = aggregateCmd.RegisterFlagCompletionFunc("output", completeDirectories)
}

// buildAggregateConfig resolves flags, environment, and datalad.yaml into
// an AggregateConfig, with the same precedence as extraction.
func buildAggregateConfig(cmd *cobra.Command, sourcePath string, verbose bool) (datalad.AggregateConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := config.Load(sourcePath)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return datalad.AggregateConfig{}, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	cfg := datalad.AggregateConfig{
		SourcePath:      sourcePath,
		Extractor:       aggregateFlags.extractor,
		Strict:          aggregateFlags.strict,
		SkipDerivatives: aggregateFlags.skipDerivatives,
		OutputDir:       aggregateFlags.output,
		Verbose:         verbose,
	}

	if cfg.Extractor == "" {
		if name, ok := config.ExtractorFromEnv(); ok {
			cfg.Extractor = name
		} else if projectCfg != nil {
			cfg.Extractor = projectCfg.Extraction.Extractor
		}
	}

	if !cmd.Flags().Changed("strict") {
		if strict, present := config.StrictFromEnv(); present {
			cfg.Strict = strict
		} else if projectCfg != nil {
			cfg.Strict = projectCfg.Extraction.Strict
		}
	}

	if !cmd.Flags().Changed("skip-derivatives") && projectCfg != nil {
		cfg.SkipDerivatives = projectCfg.Extraction.SkipDerivatives
	}

	if cfg.OutputDir == "" && projectCfg != nil {
		cfg.OutputDir = projectCfg.Aggregate.Output
	}

	return cfg, nil
}

func runAggregate(cmd *cobra.Command, args []string) error {
	sourcePath := datasetPathFromArgs(args)
	verbose := getVerboseFlag(cmd)

	cfg, err := buildAggregateConfig(cmd, sourcePath, verbose)
	if err != nil {
		return err
	}

	service := newExtractionService(aggregateFlags.force, verbose)

	ctx, cancel := signalContext()
	defer cancel()

	progress := tui.NewProgressDisplay()
	progress.Start(fmt.Sprintf("Aggregating metadata for %s", sourcePath))

	// The service logs the completion summary itself.
	if _, err := service.Aggregate(ctx, cfg); err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	return nil
}
