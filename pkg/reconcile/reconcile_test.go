package reconcile

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelinghub/hubcat/pkg/fields"
	"github.com/modelinghub/hubcat/pkg/logging"
	"github.com/modelinghub/hubcat/pkg/tasks"
)

const reconcileTasksJSON = `{
  "rounds": [
    {
      "round_id": "2024-07-28",
      "model_tasks": [
        {
          "task_ids": {
            "location": {"required": ["06"], "optional": ["36"]},
            "target": {"required": ["inc hosp", "inc death"], "optional": null},
            "age_group": {"required": null, "optional": ["0-130"]}
          },
          "output_type": {"sample": {"output_type_id": {"required": null}, "value": {}}},
          "target_metadata": []
        }
      ]
    }
  ]
}`

func testSchema(t *testing.T) *tasks.Schema {
	t.Helper()
	schema, err := tasks.Parse([]byte(reconcileTasksJSON))
	require.NoError(t, err)
	return schema
}

func TestReconcileAllDeclared(t *testing.T) {
	observed := fields.New()
	observed.AddAll("location", []string{"06", "36"})
	observed.AddAll("target", []string{"inc hosp"})

	got, mismatches := Reconcile(context.Background(), "2024-07-28", testSchema(t), observed)

	assert.Empty(t, mismatches)
	assert.Equal(t, observed.AsMap(), got.AsMap())
}

func TestReconcileFlagsUndeclaredValues(t *testing.T) {
	observed := fields.New()
	observed.AddAll("target", []string{"inc hosp", "inc case"})
	observed.AddAll("age_group", []string{"0-130", "65-130"})

	got, mismatches := Reconcile(context.Background(), "2024-07-28", testSchema(t), observed)

	require.Len(t, mismatches, 2)
	assert.Equal(t, Mismatch{Dimension: "target", Value: "inc case", Severity: SeverityRequired}, mismatches[0])
	assert.Equal(t, Mismatch{Dimension: "age_group", Value: "65-130", Severity: SeverityOptional}, mismatches[1])

	// Mismatched values stay in the map: the catalog reports what exists.
	assert.Equal(t, []string{"inc hosp", "inc case"}, got.Values("target"))
}

func TestReconcileUnknownDimensionIsOptionalMismatch(t *testing.T) {
	observed := fields.New()
	observed.AddAll("race_ethnicity", []string{"overall"})

	_, mismatches := Reconcile(context.Background(), "2024-07-28", testSchema(t), observed)

	require.Len(t, mismatches, 1)
	assert.Equal(t, SeverityOptional, mismatches[0].Severity)
}

// Reconciliation completeness: every observed value is either declared in
// the schema or covered by a recorded mismatch.
func TestReconcileCompleteness(t *testing.T) {
	schema := testSchema(t)

	observed := fields.New()
	observed.AddAll("location", []string{"06", "36", "48"})
	observed.AddAll("target", []string{"inc death", "inc case"})

	_, mismatches := Reconcile(context.Background(), "2024-07-28", schema, observed)

	flagged := make(map[[2]string]bool)
	for _, mm := range mismatches {
		flagged[[2]string{mm.Dimension, mm.Value}] = true
	}
	for _, dim := range observed.Dimensions() {
		declared := make(map[string]bool)
		for _, v := range schema.AllValuesForDimension("2024-07-28", dim) {
			declared[v] = true
		}
		for _, v := range observed.Values(dim) {
			assert.True(t, declared[v] || flagged[[2]string{dim, v}],
				"value %s=%s neither declared nor flagged", dim, v)
		}
	}
}

func TestReconcileLogsWithContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf)
	ctx := logging.WithLogger(context.Background(), &logger)
	ctx = logging.WithRound(ctx, "2024-07-28")
	ctx = logging.WithModel(ctx, "team-model")

	observed := fields.New()
	observed.AddAll("target", []string{"inc case"})

	Reconcile(ctx, "2024-07-28", testSchema(t), observed)

	out := buf.String()
	assert.Contains(t, out, `"round":"2024-07-28"`)
	assert.Contains(t, out, `"model":"team-model"`)
	assert.Contains(t, out, `"value":"inc case"`)
}
