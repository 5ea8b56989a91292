package pipeline

import (
	"context"
	"fmt"

	"github.com/modelinghub/hubcat/pkg/errors"
	"github.com/modelinghub/hubcat/pkg/fields"
	"github.com/modelinghub/hubcat/pkg/geo"
	"github.com/modelinghub/hubcat/pkg/hubdata"
	"github.com/modelinghub/hubcat/pkg/jsonld"
	"github.com/modelinghub/hubcat/pkg/logging"
	"github.com/modelinghub/hubcat/pkg/metadata"
	"github.com/modelinghub/hubcat/pkg/reconcile"
	"github.com/modelinghub/hubcat/pkg/targets"
	"github.com/modelinghub/hubcat/pkg/tasks"
	"github.com/modelinghub/hubcat/pkg/temporal"
)

// fieldMapResult carries a model's reconciled field map together with the
// mismatches recorded against the task schema.
type fieldMapResult struct {
	reconciled *fields.Map
	mismatches []reconcile.Mismatch
}

// processModel runs the model-local pipeline steps: descriptor to base
// record, distinct field values from output, reconciliation against the
// schema, and workExample enrichment. It touches no shared state, so any
// number of models may run concurrently.
func (p *Pipeline) processModel(ctx context.Context, schema *tasks.Schema, roundID, descriptorPath string) modelResult {
	descriptor, err := metadata.Load(descriptorPath)
	if err != nil {
		return modelResult{modelID: descriptorPath, err: err}
	}
	modelID := descriptor.ID()

	ctx = logging.WithModel(logging.WithRound(ctx, roundID), modelID)
	log := logging.Ctx(ctx)

	record := metadata.BaseRecord(descriptor)

	observed, err := hubdata.DistinctFieldValues(ctx, p.cfg.DataDir, roundID, modelID)
	if err != nil {
		if !errors.IsNoOutput(err) {
			return modelResult{modelID: modelID, err: errors.WrapResource("enrich", "model", modelID, err)}
		}
		log.Warn().Msg("Model has no output files for round")
		observed = fields.New()
	}

	reconciled, mismatches := reconcile.Reconcile(ctx, roundID, schema, observed)
	if n := len(mismatches); n > 0 {
		log.Warn().Int("mismatches", n).Msg("Model output outside declared task grid")
	}

	record.WorkExample = p.workExample(ctx, schema, roundID, modelID, reconciled)

	return modelResult{
		modelID:  modelID,
		record:   record,
		fieldMap: &fieldMapResult{reconciled: reconciled, mismatches: mismatches},
	}
}

// workExample assembles the enrichment sub-document of one model from its
// reconciled field map.
func (p *Pipeline) workExample(ctx context.Context, schema *tasks.Schema, roundID, modelID string, fieldMap *fields.Map) *jsonld.WorkExample {
	log := logging.Ctx(ctx)

	work := &jsonld.WorkExample{
		Type:        jsonld.TypeDataset,
		Description: "Model projection outputs",
		IsPartOf: &jsonld.Event{
			Type:       "Event",
			Name:       fmt.Sprintf("Round %s", roundID),
			Identifier: roundID,
		},
	}

	work.VariableMeasured = targets.Enrich(ctx, roundID, schema, fieldMap)

	for _, code := range fieldMap.Values(tasks.DimLocation) {
		work.SpatialCoverage = append(work.SpatialCoverage, jsonld.NewLocationFeature(geo.Resolve(code)))
	}

	work.AgeGroups = fieldMap.Values(tasks.DimAgeGroup)

	if coverage := temporal.Resolve(ctx, fieldMap); coverage != nil {
		work.TemporalCoverage = coverage.Interval()
	}

	formats, err := hubdata.OutputFileFormats(p.cfg.DataDir, roundID, modelID)
	if err != nil {
		log.Warn().Err(err).Msg("Could not determine output file formats")
	} else {
		work.EncodingFormat = hubdata.EncodingFormats(formats)
	}

	return work
}
