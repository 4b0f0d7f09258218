package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmgolembiowski/datalad/internal/aggregate"
	"github.com/dmgolembiowski/datalad/internal/checksum"
	"github.com/dmgolembiowski/datalad/internal/config"
	"github.com/dmgolembiowski/datalad/internal/extract"
	"github.com/dmgolembiowski/datalad/internal/extract/audio"
	"github.com/dmgolembiowski/datalad/internal/extract/bids"
	"github.com/dmgolembiowski/datalad/internal/files/filesystem"
	"github.com/dmgolembiowski/datalad/internal/files/scanner"
	"github.com/dmgolembiowski/datalad/internal/logging"
	"github.com/dmgolembiowski/datalad/internal/services"
	"github.com/dmgolembiowski/datalad/internal/ui"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

var extractCmd = &cobra.Command{
	Use:   "extract [dataset_path]",
	Short: "Extract dataset metadata to stdout",
	Long: `Extract reads the dataset at the given path (default: current
directory) and prints its metadata to stdout.

Without --content only the dataset-level record is produced. With
--content each recognized file additionally yields one flattened record,
with subject-table properties overlaid on files under the matching
subject directory.

Extraction is lenient by default: unreadable metadata sources degrade to
empty records. --strict aborts on the first failed metadata query.

Output formats:
  json   One document: {"dataset": {...}, "files": [...]}
  jsonl  One record per line: the dataset record, then file records
  text   Human-readable summary

Examples:
  # Dataset-level record only
  datalad-meta extract ./study

  # Per-file records, strict, restricted to two paths
  datalad-meta extract ./study --content --strict \
    --paths sub-01/anat/sub-01_T1w.nii.gz --paths README

  # Select the author list out of the dataset record
  datalad-meta extract ./study --query '$.dataset.author'

Settings resolve in precedence order:
flags > environment > datalad.yaml > built-in defaults`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

type extractFlagValues struct {
	extractor       string
	content         bool
	strict          bool
	skipDerivatives bool
	paths           []string
	format          string
	query           string
}

var extractFlags extractFlagValues

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFlags.extractor, "extractor", "e", "",
		"Extractor to run\n"+
			"Precedence: --extractor > $"+config.EnvExtractor+" > datalad.yaml > "+datalad.DefaultExtractor)
	extractCmd.Flags().BoolVar(&extractFlags.content, "content", false,
		"Also emit one record per content file")
	extractCmd.Flags().BoolVar(&extractFlags.strict, "strict", false,
		"Abort on the first failed metadata query\n"+
			"Precedence: --strict > $"+config.EnvRaiseOnError+" > datalad.yaml > off")
	extractCmd.Flags().BoolVar(&extractFlags.skipDerivatives, "skip-derivatives", false,
		"Exclude the derivatives/ subtree from content extraction")
	extractCmd.Flags().StringSliceVar(&extractFlags.paths, "paths", nil,
		"Restrict content extraction to these dataset-relative paths\n"+
			"(can be specified multiple times)")
	extractCmd.Flags().StringVar(&extractFlags.format, "format", "json",
		"Output format: json, jsonl, or text")
	extractCmd.Flags().StringVar(&extractFlags.query, "query", "",
		"JSONPath expression applied to the json document before printing\n"+
			"Example: --query '$.files[*].path'")

	_ = extractCmd.RegisterFlagCompletionFunc("extractor", completeExtractorNames)
	_ = extractCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

// newExtractorRegistry returns the registry with all built-in extractors.
func newExtractorRegistry() *extract.Registry {
	registry := extract.NewRegistry()
	registry.Register(bids.New())
	registry.Register(audio.New())
	return registry
}

// newExtractionService wires the production dependency graph. The approver
// implementation follows --force: forced approvals run a countdown instead
// of prompting, for CI/CD pipelines.
func newExtractionService(force, verbose bool) *services.ExtractionService {
	var approver datalad.Approver
	if force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}

	logger := logging.NewConsoleLogger(verbose)

	return services.NewExtractionService(
		newExtractorRegistry(),
		filesystem.NewOSFileSystem(),
		scanner.NewScanner(),
		approver,
		aggregate.NewBuilder(checksum.New(), logger),
		logger,
	)
}

// buildExtractionConfig resolves flags, environment, and datalad.yaml into
// an ExtractionConfig. Flags win over environment, environment over the
// config file.
func buildExtractionConfig(cmd *cobra.Command, sourcePath string, verbose bool) (datalad.ExtractionConfig, error) {
	// Load .env if present (ignore errors - file is optional)
	_ = godotenv.Load()

	projectCfg, err := config.Load(sourcePath)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return datalad.ExtractionConfig{}, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	cfg := datalad.ExtractionConfig{
		SourcePath:      sourcePath,
		Extractor:       extractFlags.extractor,
		Content:         extractFlags.content,
		Strict:          extractFlags.strict,
		SkipDerivatives: extractFlags.skipDerivatives,
		Paths:           extractFlags.paths,
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

	return cfg, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	sourcePath := datasetPathFromArgs(args)
	verbose := getVerboseFlag(cmd)

	format := strings.ToLower(extractFlags.format)
	switch format {
	case "json", "jsonl", "text":
	default:
		return fmt.Errorf("unknown format '%s' (expected json, jsonl, or text)", extractFlags.format)
	}
	if extractFlags.query != "" && format != "json" {
		return fmt.Errorf("--query requires --format json")
	}

	cfg, err := buildExtractionConfig(cmd, sourcePath, verbose)
	if err != nil {
		return err
	}

	service := newExtractionService(false, verbose)

	ctx, cancel := signalContext()
	defer cancel()

	result, err := service.Extract(ctx, cfg)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	return printExtraction(os.Stdout, result, format, extractFlags.query)
}
