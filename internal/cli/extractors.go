package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmgolembiowski/datalad/internal/config"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

var extractorsCmd = &cobra.Command{
	Use:   "extractors",
	Short: "List registered metadata extractors",
	Long: `List the metadata extractors this build knows about. The default
extractor is marked with an asterisk; select another one with
--extractor on extract and aggregate, with $` + config.EnvExtractor + `,
or in ` + config.ConfigFileName + `.`,
	Args: cobra.NoArgs,
	RunE: runExtractors,
}

func init() {
	rootCmd.AddCommand(extractorsCmd)
}

func runExtractors(cmd *cobra.Command, args []string) error {
	registry := newExtractorRegistry()

	fmt.Println("Registered extractors:")
	for _, name := range registry.Names() {
		marker := " "
		if name == datalad.DefaultExtractor {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, name)
	}
	fmt.Println()
	fmt.Println("* default")
	return nil
}
