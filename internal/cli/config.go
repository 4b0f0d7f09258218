package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmgolembiowski/datalad/internal/config"
	"github.com/dmgolembiowski/datalad/internal/tui"
	"github.com/dmgolembiowski/datalad/internal/tui/wizards"
)

var configCmd = &cobra.Command{
	Use:   "config [dataset_path]",
	Short: "Interactively create or edit " + config.ConfigFileName,
	Long: `Launches an interactive wizard to create or edit the dataset's
` + config.ConfigFileName + `.

The wizard walks through:
  1. Default extractor selection
  2. Strict and derivative-skipping modes
  3. Aggregate store location

An existing ` + config.ConfigFileName + ` seeds the wizard's answers.

This command requires an interactive terminal. For non-interactive use,
write ` + config.ConfigFileName + ` by hand or rely on the environment
variables (see 'datalad-meta extract --help').

Examples:
  # Configure the dataset in the current directory
  datalad-meta config

  # Configure a specific dataset
  datalad-meta config ./study`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	targetDir := datasetPathFromArgs(args)

	if !tui.IsInteractive() {
		return fmt.Errorf("config command requires an interactive terminal\n"+
			"For non-interactive use, create %s manually or use environment variables", config.ConfigFileName)
	}

	existingCfg, err := config.Load(targetDir)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	if existingCfg != nil {
		fmt.Printf("Found existing %s\n", config.ConfigFileName)
		if !tui.PromptContinue("Edit the existing configuration?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	result, err := wizards.RunConfigWizard(existingCfg)
	if err != nil {
		return fmt.Errorf("config wizard failed: %w", err)
	}
	if result.Cancelled {
		fmt.Println("Cancelled.")
		return nil
	}

	data, err := yaml.Marshal(result.Config)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration: %w", err)
	}
	configPath := filepath.Join(targetDir, config.ConfigFileName)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	progress := tui.NewProgressDisplay()
	progress.Success(fmt.Sprintf("Configuration saved to %s", configPath))
	return nil
}
