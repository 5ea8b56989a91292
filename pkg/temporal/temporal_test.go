package temporal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelinghub/hubcat/pkg/fields"
)

func fieldMap(originDates, horizons []string) *fields.Map {
	m := fields.New()
	m.AddAll("origin_date", originDates)
	m.AddAll("horizon", horizons)
	return m
}

func TestResolveWellFormedInterval(t *testing.T) {
	coverage := Resolve(context.Background(),
		fieldMap([]string{"2024-07-28"}, []string{"0", "1", "2"}))

	require.NotNil(t, coverage)
	assert.Equal(t, "2024-07-28", coverage.Start.Format("2006-01-02"))
	// 2024-07-28 - 1 day + 2 weeks = 2024-08-10
	assert.Equal(t, "2024-08-10", coverage.End.Format("2006-01-02"))
	assert.Equal(t, "2024-07-28/2024-08-10", coverage.Interval())
}

func TestResolveNilWhenDimensionsMissing(t *testing.T) {
	assert.Nil(t, Resolve(context.Background(), fields.New()))
	assert.Nil(t, Resolve(context.Background(), fieldMap([]string{"2024-07-28"}, nil)))
	assert.Nil(t, Resolve(context.Background(), fieldMap(nil, []string{"1"})))
}

func TestResolveLastOriginDateWins(t *testing.T) {
	coverage := Resolve(context.Background(),
		fieldMap([]string{"2024-07-28", "2024-08-04"}, []string{"1"}))

	require.NotNil(t, coverage)
	assert.Equal(t, "2024-08-04/2024-08-10", coverage.Interval())
}

func TestResolveSkipsUnparseableValues(t *testing.T) {
	coverage := Resolve(context.Background(),
		fieldMap([]string{"not-a-date", "2024-07-28"}, []string{"x", "3"}))

	require.NotNil(t, coverage)
	assert.Equal(t, "2024-07-28/2024-08-17", coverage.Interval())

	assert.Nil(t, Resolve(context.Background(),
		fieldMap([]string{"2024-07-28"}, []string{"not-a-number"})))
}

func TestResolveZeroHorizon(t *testing.T) {
	coverage := Resolve(context.Background(),
		fieldMap([]string{"2024-07-28"}, []string{"0"}))

	require.NotNil(t, coverage)
	// Zero weeks ahead ends the day before the origin date.
	assert.Equal(t, "2024-07-28/2024-07-27", coverage.Interval())
}
