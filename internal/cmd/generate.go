package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modelinghub/hubcat/internal/pipeline"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate JSON-LD catalog documents from a hub data tree",
	Long: `Generate walks every round directory (YYYY-MM-DD) under the data root,
reconciles each team's model metadata against its submitted output files,
and writes one JSON-LD document per model plus one consolidated document
per round. A broken model or round is logged and skipped; the rest of the
batch continues.`,
	Example: `  hubcat generate
  hubcat generate --data-dir ./data --output-dir ./catalog
  hubcat generate --workers 8`,
	PreRunE: bindGenerateFlags,
	RunE:    runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("data-dir", "d", pipeline.DefaultDataDir, "Hub data root holding round directories")
	generateCmd.Flags().StringP("output-dir", "o", pipeline.DefaultOutputDir, "Directory the catalog documents are written under")
	generateCmd.Flags().String("metadata-subdir", pipeline.DefaultMetadataSubdir, "Per-round directory of model descriptors")
	generateCmd.Flags().IntP("workers", "w", pipeline.DefaultWorkers, "Parallel model enrichment workers")
}

// bindGenerateFlags binds this command's flags to viper. Binding happens at
// run time, not init, so sibling commands sharing key names do not clobber
// each other.
func bindGenerateFlags(cmd *cobra.Command, _ []string) error {
	for _, name := range []string{"data-dir", "output-dir", "metadata-subdir", "workers"} {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	p := pipeline.New(pipeline.Config{
		DataDir:        viper.GetString("data-dir"),
		OutputDir:      viper.GetString("output-dir"),
		MetadataSubdir: viper.GetString("metadata-subdir"),
		Workers:        viper.GetInt("workers"),
	})
	return p.Run(cmd.Context())
}
