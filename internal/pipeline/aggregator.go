package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelinghub/hubcat/pkg/fields"
	"github.com/modelinghub/hubcat/pkg/geo"
	"github.com/modelinghub/hubcat/pkg/jsonld"
	"github.com/modelinghub/hubcat/pkg/logging"
	"github.com/modelinghub/hubcat/pkg/targets"
	"github.com/modelinghub/hubcat/pkg/tasks"
	"github.com/modelinghub/hubcat/pkg/temporal"
)

// aggregator folds per-model field maps into the round-scoped global map
// and collects model records in processing order. It is the only owner of
// the global map; callers hand over maps, never mutate them afterwards.
type aggregator struct {
	roundID string
	schema  *tasks.Schema
	global  *fields.Map
	records []*jsonld.ModelRecord
}

func newAggregator(roundID string, schema *tasks.Schema) *aggregator {
	return &aggregator{
		roundID: roundID,
		schema:  schema,
		global:  fields.New(),
	}
}

// add folds one model's reconciled field map into the global map and
// appends its record. Order of calls defines hasPart order.
func (a *aggregator) add(record *jsonld.ModelRecord, fieldMap *fields.Map) {
	a.global.Fold(fieldMap)
	a.records = append(a.records, record)
}

// roundRecord assembles the consolidated round document once every model
// of the round has been added.
func (a *aggregator) roundRecord(ctx context.Context) *jsonld.RoundRecord {
	log := logging.Ctx(ctx)

	record := &jsonld.RoundRecord{
		Ctx:           jsonld.Context,
		Type:          jsonld.TypeDataset,
		Name:          fmt.Sprintf("Round %s Scenario Projection Models Collection", a.roundID),
		Description:   fmt.Sprintf("Collection of model output from round %s", a.roundID),
		Identifier:    a.roundID,
		RoundID:       a.roundID,
		HasPart:       a.records,
		NumberOfItems: len(a.records),
	}

	round := a.schema.GetRound(a.roundID)
	disease := ""
	if round != nil {
		// The last declared disease wins, matching the established output.
		for _, d := range round.Diseases {
			record.HealthCondition = &jsonld.MedicalCondition{
				Type: "MedicalCondition",
				Name: d.Name,
				URI:  d.URI,
			}
			disease = d.Name
		}
	}

	work := &jsonld.WorkExample{
		Type: []string{
			jsonld.TypeDataset,
			jsonld.OntologyModelOutput,
			jsonld.OntologyScenarioAnalysis,
		},
		Description: workDescription(disease),
	}

	work.VariableMeasured = targets.Enrich(ctx, a.roundID, a.schema, a.global)

	for _, code := range a.declaredAndObserved(ctx, tasks.DimLocation, true) {
		work.SpatialCoverage = append(work.SpatialCoverage, jsonld.NewLocationFeature(geo.Resolve(code)))
	}

	work.AgeGroups = a.declaredAndObserved(ctx, tasks.DimAgeGroup, true)

	if coverage := temporal.Resolve(ctx, a.temporalMap(ctx)); coverage != nil {
		work.TemporalCoverage = coverage.Interval()
	}

	work.OutputType = a.outputTypes()

	record.WorkExample = work
	log.Info().
		Int("models", len(a.records)).
		Int("targets", len(work.VariableMeasured)).
		Int("locations", len(work.SpatialCoverage)).
		Msg("Consolidated round record assembled")
	return record
}

// declaredAndObserved returns the schema-declared values of a dimension
// restricted to those any model in the round actually used. Declared
// values never observed are skipped with a diagnostic; observed values
// never declared were already flagged during reconciliation.
func (a *aggregator) declaredAndObserved(ctx context.Context, dimension string, sorted bool) []string {
	log := logging.Ctx(ctx)

	var out []string
	for _, v := range a.schema.AllValuesForDimension(a.roundID, dimension) {
		if !a.global.Contains(dimension, v) {
			log.Debug().
				Str("dimension", dimension).
				Str("value", v).
				Msg("Declared value unused by any model in round")
			continue
		}
		out = append(out, v)
	}
	if sorted {
		sort.Strings(out)
	}
	return out
}

// temporalMap builds the input of the round-level temporal resolution:
// declared-and-observed origin dates in ascending order plus the observed
// horizons.
func (a *aggregator) temporalMap(ctx context.Context) *fields.Map {
	m := fields.New()
	m.AddAll(tasks.DimOriginDate, a.declaredAndObserved(ctx, tasks.DimOriginDate, true))
	m.AddAll(tasks.DimHorizon, a.declaredAndObserved(ctx, tasks.DimHorizon, false))
	return m
}

// outputTypes flattens every model task's output-type declarations into
// deduplicated entries, task order first, type name order within a task.
func (a *aggregator) outputTypes() []jsonld.OutputTypeEntry {
	round := a.schema.GetRound(a.roundID)
	if round == nil {
		return nil
	}

	var out []jsonld.OutputTypeEntry
	seen := make(map[string]struct{})
	for _, task := range round.ModelTasks {
		names := make([]string, 0, len(task.OutputType))
		for name := range task.OutputType {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			cfg := task.OutputType[name]
			entry := jsonld.OutputTypeEntry{
				Type:         name,
				OutputTypeID: cfg.OutputTypeID,
				Value:        cfg.Value,
			}
			key, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			if _, dup := seen[string(key)]; dup {
				continue
			}
			seen[string(key)] = struct{}{}
			out = append(out, entry)
		}
	}
	return out
}

// workDescription labels the round's outputs by disease when one is known.
func workDescription(disease string) string {
	if disease == "" {
		return "Model projection outputs"
	}
	return disease + " projection outputs"
}
