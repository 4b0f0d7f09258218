package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmgolembiowski/datalad/internal/config"
	"github.com/dmgolembiowski/datalad/internal/logging"
	"github.com/dmgolembiowski/datalad/internal/scaffold"
	"github.com/dmgolembiowski/datalad/internal/tui"
	"github.com/dmgolembiowski/datalad/internal/tui/wizards"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

var initCmd = &cobra.Command{
	Use:   "init <target_path>",
	Short: "Initialize a new dataset skeleton",
	Long: `Initialize a dataset directory with a descriptor, README, and subject
table that the ` + datalad.DefaultExtractor + ` extractor immediately recognizes.

On an interactive terminal init launches a wizard for template, dataset
name, license, and authors. With --no-input (or when any of those flags
is given, or outside a terminal) the flags are used directly.

The target directory must be empty or not yet exist.

Examples:
  # Wizard on a TTY
  datalad-meta init ./study

  # Fully scripted
  datalad-meta init ./study --no-input --name "My Study" \
    -t longitudinal --license CC0-1.0 \
    --authors "A. Author" --authors "B. Author"

Use 'datalad-meta init --list' to see available templates.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if initFlags.list {
			return nil
		}
		return RequireTargetPath(cmd, args)
	},
	RunE: runInit,
}

type initFlagValues struct {
	template string
	name     string
	license  string
	authors  []string
	noInput  bool
	list     bool
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVarP(&initFlags.template, "template", "t", "",
		"Template to use (default: basic)")
	initCmd.Flags().StringVar(&initFlags.name, "name", "",
		"Dataset name (default: target directory name)")
	initCmd.Flags().StringVar(&initFlags.license, "license", "",
		"License identifier written to the descriptor (e.g. CC0-1.0)")
	initCmd.Flags().StringSliceVar(&initFlags.authors, "authors", nil,
		"Author name (can be specified multiple times)")
	initCmd.Flags().BoolVar(&initFlags.noInput, "no-input", false,
		"Never launch the wizard; use flags and defaults")
	initCmd.Flags().BoolVar(&initFlags.list, "list", false,
		"List available templates and exit")

	_ = initCmd.RegisterFlagCompletionFunc("template", completeTemplateNames)
}

func runInit(cmd *cobra.Command, args []string) error {
	if initFlags.list {
		return runTemplateList()
	}

	targetPath := args[0]
	verbose := getVerboseFlag(cmd)

	// Any answer given as a flag skips the wizard: mixing flag answers
	// with wizard answers would be ambiguous.
	flagsAnswered := cmd.Flags().Changed("name") ||
		cmd.Flags().Changed("template") ||
		cmd.Flags().Changed("license") ||
		cmd.Flags().Changed("authors")

	if tui.IsInteractive() && !initFlags.noInput && !flagsAnswered {
		return runInitWizardFlow(targetPath, verbose)
	}

	cfg := datalad.InitConfig{
		TargetPath: targetPath,
		Name:       initFlags.name,
		License:    initFlags.license,
		Authors:    initFlags.authors,
		Template:   initFlags.template,
		Verbose:    verbose,
	}
	if cfg.Name == "" {
		cfg.Name = datasetNameFromPath(targetPath)
	}
	if cfg.Template == "" {
		cfg.Template = datalad.DefaultTemplate
	}

	if err := createDataset(cfg, nil, verbose); err != nil {
		return err
	}

	displayInitResult(cfg.TargetPath, cfg.Template)
	return nil
}

// runInitWizardFlow collects the init answers interactively, scaffolds the
// dataset, and writes datalad.yaml when the embedded config wizard ran.
func runInitWizardFlow(targetPath string, verbose bool) error {
	result, err := wizards.RunInitWizard(targetPath)
	if err != nil {
		return fmt.Errorf("init wizard failed: %w", err)
	}
	if result.Cancelled {
		fmt.Println("Cancelled.")
		return nil
	}

	cfg := datalad.InitConfig{
		TargetPath: result.TargetDir,
		Name:       result.Name,
		License:    result.License,
		Authors:    result.Authors,
		Template:   result.Template,
		Verbose:    verbose,
	}

	var projectCfg *config.ProjectConfig
	if result.SetupConfig && !result.ConfigResult.Cancelled {
		projectCfg = &result.ConfigResult.Config
	}

	if err := createDataset(cfg, projectCfg, verbose); err != nil {
		return err
	}

	wizards.ShowInitComplete(cfg.TargetPath, cfg.Template, createdFiles(cfg.TargetPath))
	return nil
}

// createDataset validates the template, scaffolds the dataset, and
// optionally writes the project configuration into it.
func createDataset(cfg datalad.InitConfig, projectCfg *config.ProjectConfig, verbose bool) error {
	if !scaffold.IsValidTemplate(cfg.Template) {
		templates, lerr := scaffold.ListTemplates()
		if lerr != nil {
			return fmt.Errorf("failed to list templates: %w", lerr)
		}
		return fmt.Errorf("invalid template '%s'. Available templates: %v\n\nUse 'datalad-meta init --list' for descriptions", cfg.Template, templates)
	}

	progress := tui.NewProgressDisplay()
	progress.Start(fmt.Sprintf("Creating dataset '%s' from template '%s'", cfg.Name, cfg.Template))

	scaffolder := scaffold.NewScaffolder(logging.NewConsoleLogger(verbose))
	if err := scaffolder.CreateDataset(cfg); err != nil {
		progress.Error("dataset creation failed")
		return fmt.Errorf("failed to create dataset: %w", err)
	}

	if projectCfg != nil {
		data, merr := yaml.Marshal(projectCfg)
		if merr != nil {
			return fmt.Errorf("failed to serialize configuration: %w", merr)
		}
		configPath := filepath.Join(cfg.TargetPath, config.ConfigFileName)
		if werr := os.WriteFile(configPath, data, 0644); werr != nil {
			return fmt.Errorf("failed to write configuration: %w", werr)
		}
	}

	return nil
}

// displayInitResult shows the created structure and next steps on stderr,
// keeping stdout clean for pipelines.
func displayInitResult(targetPath, template string) {
	tree, err := scaffold.BuildFileTree(targetPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n✓ Dataset initialized in '%s' using template '%s'\n", targetPath, template)
	} else {
		fmt.Fprintf(os.Stderr, "\n✓ Dataset initialized using template '%s'\n\n", template)
		fmt.Fprintln(os.Stderr, "Created structure:")
		fmt.Fprint(os.Stderr, tree)
	}

	fmt.Fprintln(os.Stderr, "\nNext steps:")
	if targetPath != "." {
		fmt.Fprintf(os.Stderr, "  cd %s\n", targetPath)
	}
	fmt.Fprintln(os.Stderr, "  datalad-meta extract . --content")
	fmt.Fprintln(os.Stderr, "  datalad-meta aggregate .")
}

// createdFiles lists the scaffolded files for the wizard completion screen.
func createdFiles(targetPath string) []string {
	var files []string
	_ = filepath.WalkDir(targetPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		files = append(files, path)
		return nil
	})
	return files
}

// datasetNameFromPath derives a dataset name from the target path.
func datasetNameFromPath(targetPath string) string {
	name := filepath.Base(targetPath)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		if cwd, err := os.Getwd(); err == nil {
			return filepath.Base(cwd)
		}
		return "dataset"
	}
	return name
}

func runTemplateList() error {
	fmt.Println("Available templates:")
	for _, t := range wizards.DefaultTemplates() {
		fmt.Printf("  %-14s %s\n", t.Name, t.Description)
	}
	return nil
}
