package hubdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelinghub/hubcat/pkg/errors"
)

// outputRow mirrors the flat column layout of hub output files.
type outputRow struct {
	OriginDate string  `parquet:"origin_date"`
	ScenarioID string  `parquet:"scenario_id"`
	Location   string  `parquet:"location"`
	Target     string  `parquet:"target"`
	Horizon    int32   `parquet:"horizon"`
	Value      float64 `parquet:"value"`
}

func writeOutputFile(t *testing.T, path string, rows []outputRow) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := parquet.NewGenericWriter[outputRow](f)
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func sampleRows() []outputRow {
	return []outputRow{
		{"2024-07-28", "A-2024-07-28", "06", "inc hosp", 0, 12},
		{"2024-07-28", "A-2024-07-28", "06", "inc hosp", 1, 15},
		{"2024-07-28", "A-2024-07-28", "36", "inc death", 1, 3},
		{"2024-07-28", "B-2024-07-28", "36", "inc hosp", 2, 8},
	}
}

func TestOutputFilesFiltersByRoundAndModel(t *testing.T) {
	dataDir := t.TempDir()
	modelDir := OutputDir(dataDir, "2024-07-28", "team-model")
	otherDir := OutputDir(dataDir, "2024-07-28", "other-model")

	writeOutputFile(t, filepath.Join(modelDir, "2024-07-28-team-model.parquet"), sampleRows())
	writeOutputFile(t, filepath.Join(otherDir, "2024-07-28-other-model.parquet"), sampleRows())
	// A stale file from an earlier round must be ignored.
	writeOutputFile(t, filepath.Join(modelDir, "2024-06-30-team-model.parquet"), sampleRows())
	require.NoError(t, os.WriteFile(filepath.Join(modelDir, "README.md"), []byte("x"), 0o644))

	files, err := OutputFiles(dataDir, "2024-07-28", "team-model")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "team-model", files[0].Model)
	assert.Equal(t, "2024-07-28-team-model.parquet", files[0].Name)

	all, err := OutputFiles(dataDir, "2024-07-28", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDistinctFieldValues(t *testing.T) {
	dataDir := t.TempDir()
	modelDir := OutputDir(dataDir, "2024-07-28", "team-model")
	writeOutputFile(t, filepath.Join(modelDir, "2024-07-28-team-model.parquet"), sampleRows())

	m, err := DistinctFieldValues(context.Background(), dataDir, "2024-07-28", "team-model")
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-07-28"}, m.Values("origin_date"))
	assert.Equal(t, []string{"A-2024-07-28", "B-2024-07-28"}, m.Values("scenario_id"))
	assert.Equal(t, []string{"06", "36"}, m.Values("location"))
	assert.Equal(t, []string{"inc hosp", "inc death"}, m.Values("target"))
	assert.Equal(t, []string{"0", "1", "2"}, m.Values("horizon"))

	// The measurement column never enters the field map.
	assert.False(t, m.Has("value"))
}

func TestDistinctFieldValuesAccumulatesAcrossFiles(t *testing.T) {
	dataDir := t.TempDir()
	modelDir := OutputDir(dataDir, "2024-07-28", "team-model")
	writeOutputFile(t, filepath.Join(modelDir, "2024-07-28-a.parquet"), []outputRow{
		{"2024-07-28", "A-2024-07-28", "06", "inc hosp", 0, 1},
	})
	writeOutputFile(t, filepath.Join(modelDir, "2024-07-28-b.parquet"), []outputRow{
		{"2024-07-28", "B-2024-07-28", "48", "inc death", 3, 1},
	})

	m, err := DistinctFieldValues(context.Background(), dataDir, "2024-07-28", "team-model")
	require.NoError(t, err)

	assert.Equal(t, []string{"06", "48"}, m.Values("location"))
	assert.Equal(t, []string{"inc hosp", "inc death"}, m.Values("target"))
}

func TestDistinctFieldValuesNoOutput(t *testing.T) {
	_, err := DistinctFieldValues(context.Background(), t.TempDir(), "2024-07-28", "team-model")
	assert.ErrorIs(t, err, errors.ErrNoOutput)
}

func TestOutputFileFormats(t *testing.T) {
	dataDir := t.TempDir()
	modelDir := OutputDir(dataDir, "2024-07-28", "team-model")
	writeOutputFile(t, filepath.Join(modelDir, "2024-07-28-a.parquet"), sampleRows())
	writeOutputFile(t, filepath.Join(modelDir, "2024-07-28-b.gz.parquet"), sampleRows())

	formats, err := OutputFileFormats(dataDir, "2024-07-28", "team-model")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"parquet": 1, "gz.parquet": 1}, formats)
}

func TestOutputFileFormatsEmpty(t *testing.T) {
	formats, err := OutputFileFormats(t.TempDir(), "2024-07-28", "team-model")
	require.NoError(t, err)
	assert.Nil(t, formats)
}

func TestEncodingFormats(t *testing.T) {
	got := EncodingFormats(map[string]int{"parquet": 2, "gz.parquet": 0})

	require.Len(t, got, 1)
	assert.Equal(t, "Apache Parquet", got[0].Name)
	assert.Equal(t, ".parquet", got[0].FileExtension)

	assert.Empty(t, EncodingFormats(nil))
}
