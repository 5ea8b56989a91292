package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *Schema {
	t.Helper()
	schema, err := Parse([]byte(sampleTasksJSON))
	require.NoError(t, err)
	return schema
}

func TestGetRound(t *testing.T) {
	schema := loadSample(t)

	assert.NotNil(t, schema.GetRound("2024-07-28"))
	assert.Nil(t, schema.GetRound("2099-01-01"))
}

func TestAllValuesForDimension(t *testing.T) {
	schema := loadSample(t)

	// Union across both model tasks, required before optional per task,
	// first-seen order, no duplicates.
	assert.Equal(t, []string{"06", "36", "48", "11"},
		schema.AllValuesForDimension("2024-07-28", DimLocation))
	assert.Equal(t, []string{"inc hosp", "inc death"},
		schema.AllValuesForDimension("2024-07-28", DimTarget))
	assert.Equal(t, []string{"0", "1", "2"},
		schema.AllValuesForDimension("2024-07-28", DimHorizon))

	assert.Nil(t, schema.AllValuesForDimension("2024-07-28", "no_such_dimension"))
	assert.Nil(t, schema.AllValuesForDimension("2099-01-01", DimLocation))
}

func TestDimensionRequired(t *testing.T) {
	schema := loadSample(t)

	assert.True(t, schema.DimensionRequired("2024-07-28", DimTarget))
	assert.True(t, schema.DimensionRequired("2024-07-28", DimLocation))
	// age_group is declared optional-only.
	assert.False(t, schema.DimensionRequired("2024-07-28", DimAgeGroup))
	assert.False(t, schema.DimensionRequired("2099-01-01", DimTarget))
}

func TestAllTargetIDs(t *testing.T) {
	schema := loadSample(t)

	assert.Equal(t, []string{"inc hosp", "inc death"}, schema.AllTargetIDs())
}

func TestTargetMetadataForRound(t *testing.T) {
	schema := loadSample(t)

	byID, order := schema.TargetMetadataForRound("2024-07-28")
	require.Equal(t, []string{"inc hosp", "inc death"}, order)

	hosp := byID["inc hosp"]
	assert.Equal(t, "Incident hospitalizations", hosp.TargetName)
	assert.True(t, hosp.IsStepAhead)
	assert.Equal(t, "week", hosp.TimeUnit)

	// First declaration wins: the richer first-task entry over the bare
	// second-task one.
	death := byID["inc death"]
	assert.Equal(t, "http://purl.obolibrary.org/obo/NCIT_C28554", death.URI)

	missing, missingOrder := schema.TargetMetadataForRound("2099-01-01")
	assert.Nil(t, missing)
	assert.Nil(t, missingOrder)
}
