package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modelinghub/hubcat/internal/pipeline"
	"github.com/modelinghub/hubcat/pkg/hubdata"
	"github.com/modelinghub/hubcat/pkg/tasks"
)

var inspectModel string

// inspectCmd represents the inspect command.
var inspectCmd = &cobra.Command{
	Use:   "inspect <round-dir>",
	Short: "Inspect a round's task schema or a model's output values",
	Long: `Inspect prints what the pipeline would work from, without writing any
documents. By default it summarizes the round directory's task schema:
round ids, declared targets, and the declared values per task dimension.
With --model it instead scans the model's output files and prints the
distinct values found per column.`,
	Example: `  hubcat inspect 2024-07-28
  hubcat inspect 2024-07-28 --model hubA-alpha`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return viper.BindPFlag("data-dir", cmd.Flags().Lookup("data-dir"))
	},
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("data-dir", "d", pipeline.DefaultDataDir, "Hub data root holding round directories")
	inspectCmd.Flags().StringVarP(&inspectModel, "model", "m", "", "Model id to scan output files for")
}

func runInspect(cmd *cobra.Command, args []string) error {
	dataDir := viper.GetString("data-dir")
	roundDir := args[0]

	if inspectModel != "" {
		return inspectOutput(cmd, dataDir, roundDir)
	}
	return inspectSchema(cmd, dataDir, roundDir)
}

// schemaSummary is the printable digest of one round in a task schema.
type schemaSummary struct {
	RoundID    string              `json:"round_id"`
	IDDerived  bool                `json:"round_id_from_variable,omitempty"`
	Diseases   []tasks.Disease     `json:"diseases,omitempty"`
	Targets    []string            `json:"targets"`
	Dimensions map[string][]string `json:"dimensions"`
}

func inspectSchema(cmd *cobra.Command, dataDir, roundDir string) error {
	schema, err := tasks.Load(filepath.Join(dataDir, roundDir, "hub-config", "tasks.json"))
	if err != nil {
		return err
	}

	var out []schemaSummary
	for _, round := range schema.AllRounds() {
		summary := schemaSummary{
			RoundID:    round.RoundID,
			IDDerived:  round.IDDerived,
			Diseases:   round.Diseases,
			Targets:    schema.AllValuesForDimension(round.RoundID, tasks.DimTarget),
			Dimensions: make(map[string][]string),
		}
		for _, task := range round.ModelTasks {
			for dim := range task.TaskIDs {
				if _, ok := summary.Dimensions[dim]; !ok {
					summary.Dimensions[dim] = schema.AllValuesForDimension(round.RoundID, dim)
				}
			}
		}
		out = append(out, summary)
	}
	return printJSON(cmd, out)
}

func inspectOutput(cmd *cobra.Command, dataDir, roundDir string) error {
	schema, err := tasks.Load(filepath.Join(dataDir, roundDir, "hub-config", "tasks.json"))
	if err != nil {
		return err
	}

	out := make(map[string]map[string][]string)
	for _, round := range schema.AllRounds() {
		fieldMap, err := hubdata.DistinctFieldValues(cmd.Context(), dataDir, round.RoundID, inspectModel)
		if err != nil {
			return err
		}
		out[round.RoundID] = fieldMap.AsMap()
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
