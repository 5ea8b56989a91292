// Package temporal derives a coverage interval from a model's reconciled
// origin_date and horizon value sets. The rule is fixed: for an origin date
// d and maximum horizon h, coverage runs from d through d - 1 day + h weeks.
package temporal

import (
	"context"
	"strconv"
	"time"

	"github.com/modelinghub/hubcat/pkg/fields"
	"github.com/modelinghub/hubcat/pkg/logging"
	"github.com/modelinghub/hubcat/pkg/tasks"
)

// dateLayout is the calendar-date format used by hub origin dates.
const dateLayout = "2006-01-02"

// Coverage is a resolved temporal coverage window.
type Coverage struct {
	Start time.Time
	End   time.Time
}

// Interval renders the coverage as an ISO-8601 interval string.
func (c Coverage) Interval() string {
	return c.Start.Format(dateLayout) + "/" + c.End.Format(dateLayout)
}

// Resolve derives the coverage window from a field map. It returns nil when
// origin_date or horizon are absent, empty, or entirely unparseable.
//
// When a model carries several origin dates the window of the last one
// processed wins, matching the established catalog output.
func Resolve(ctx context.Context, fieldMap *fields.Map) *Coverage {
	log := logging.Ctx(ctx)

	originDates := fieldMap.Values(tasks.DimOriginDate)
	horizons := fieldMap.Values(tasks.DimHorizon)
	if len(originDates) == 0 || len(horizons) == 0 {
		return nil
	}

	maxHorizon, ok := maxIntValue(horizons)
	if !ok {
		log.Warn().Msg("No parseable horizon values, skipping temporal coverage")
		return nil
	}

	var coverage *Coverage
	for _, raw := range originDates {
		origin, err := time.Parse(dateLayout, raw)
		if err != nil {
			log.Warn().Str("origin_date", raw).Msg("Unparseable origin date, skipping")
			continue
		}
		coverage = &Coverage{
			Start: origin,
			End:   origin.AddDate(0, 0, -1+7*maxHorizon),
		}
	}
	return coverage
}

// maxIntValue parses the values as integers and returns the maximum.
// Unparseable entries are ignored; ok is false when nothing parsed.
func maxIntValue(values []string) (max int, ok bool) {
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		if !ok || n > max {
			max = n
			ok = true
		}
	}
	return max, ok
}
