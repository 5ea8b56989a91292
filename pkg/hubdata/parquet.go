package hubdata

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/modelinghub/hubcat/pkg/errors"
	"github.com/modelinghub/hubcat/pkg/fields"
	"github.com/modelinghub/hubcat/pkg/logging"
)

// rowBufferSize is the number of rows read per batch while scanning.
const rowBufferSize = 256

// DistinctFieldValues scans every output file of the model for the round
// and returns, per column, the ordered-unique non-null values observed,
// accumulated across files. The measurement column is excluded by the
// field map itself. Returns ErrNoOutput when the model has no output files.
// A file that fails to parse is skipped with a diagnostic; it does not
// abort the model.
func DistinctFieldValues(ctx context.Context, dataDir, roundID, model string) (*fields.Map, error) {
	log := logging.Ctx(ctx)

	files, err := OutputFiles(dataDir, roundID, model)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.ErrNoOutput
	}

	m := fields.New()
	for _, f := range files {
		if err := scanFile(f.Path, m); err != nil {
			log.Error().Err(err).Str("file", f.Path).Msg("Skipping unreadable output file")
		}
	}
	return m, nil
}

// column describes one leaf column of an output file.
type column struct {
	name   string
	isDate bool
}

// scanFile folds the distinct values of one parquet file into m.
func scanFile(path string, m *fields.Map) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WrapIO("open", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return errors.WrapIO("stat", path, err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return errors.WrapParse("parquet", path, err)
	}

	schemaFields := pf.Schema().Fields()
	columns := make([]column, len(schemaFields))
	for i, field := range schemaFields {
		columns[i] = column{name: field.Name(), isDate: isDateField(field)}
	}

	for _, rowGroup := range pf.RowGroups() {
		if err := scanRowGroup(rowGroup, columns, m); err != nil {
			return errors.WrapParse("parquet", path, err)
		}
	}
	return nil
}

func scanRowGroup(rowGroup parquet.RowGroup, columns []column, m *fields.Map) error {
	rows := rowGroup.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, rowBufferSize)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for _, value := range row {
				if value.IsNull() {
					continue
				}
				col := columns[value.Column()]
				m.Add(col.name, render(value, col.isDate))
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// isDateField reports whether a leaf column carries the parquet DATE
// logical type. Origin dates arrive this way and must render as calendar
// dates, not day counts.
func isDateField(field parquet.Field) bool {
	lt := field.Type().LogicalType()
	return lt != nil && lt.Date != nil
}

// epoch is the reference day of parquet DATE values.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// render stringifies a parquet value the way task-dimension values are
// compared: case-preserving, integers without decorations, dates in
// ISO-8601 calendar form.
func render(value parquet.Value, isDate bool) string {
	if isDate {
		days := int(value.Int32())
		if value.Kind() == parquet.Int64 {
			days = int(value.Int64())
		}
		return epoch.AddDate(0, 0, days).Format("2006-01-02")
	}
	switch value.Kind() {
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(value.ByteArray())
	case parquet.Boolean:
		return strconv.FormatBool(value.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(value.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(value.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(value.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(value.Double(), 'f', -1, 64)
	default:
		return value.String()
	}
}
