// Package reconcile validates each model's observed field values against
// the round's task schema. Values outside the declared task grid are
// recorded as mismatches and logged, never raised: output files come from
// independent teams and the catalog's job is to surface what was actually
// submitted while flagging entries the schema does not trust.
package reconcile

import (
	"context"

	"github.com/modelinghub/hubcat/pkg/fields"
	"github.com/modelinghub/hubcat/pkg/logging"
	"github.com/modelinghub/hubcat/pkg/tasks"
)

// Severity classifies a mismatch after the schema's own distinction between
// mandatory and optional value sets.
type Severity string

// Mismatch severities.
const (
	// SeverityRequired marks a value outside a dimension that carries a
	// required value set; logged at error level.
	SeverityRequired Severity = "required"

	// SeverityOptional marks a value outside an optional-only dimension;
	// logged at warning level.
	SeverityOptional Severity = "optional"
)

// Mismatch records one observed value that the round's task schema does not
// declare for its dimension.
type Mismatch struct {
	Dimension string
	Value     string
	Severity  Severity
}

// Reconcile checks every value of the observed map for membership in the
// round's declared value sets. The returned map keeps mismatched values
// (the hub catalogs what was submitted); every mismatch is also returned
// and logged with round/model fields taken from the context logger.
func Reconcile(ctx context.Context, roundID string, schema *tasks.Schema, observed *fields.Map) (*fields.Map, []Mismatch) {
	log := logging.Ctx(ctx)

	var mismatches []Mismatch
	for _, dim := range observed.Dimensions() {
		declared := make(map[string]struct{})
		for _, v := range schema.AllValuesForDimension(roundID, dim) {
			declared[v] = struct{}{}
		}
		severity := SeverityOptional
		if schema.DimensionRequired(roundID, dim) {
			severity = SeverityRequired
		}
		for _, v := range observed.Values(dim) {
			if _, ok := declared[v]; ok {
				continue
			}
			mismatches = append(mismatches, Mismatch{Dimension: dim, Value: v, Severity: severity})

			event := log.Warn()
			if severity == SeverityRequired {
				event = log.Error()
			}
			event.
				Str("dimension", dim).
				Str("value", v).
				Str("severity", string(severity)).
				Msg("Observed value not declared in task schema")
		}
	}

	return observed.Clone(), mismatches
}
