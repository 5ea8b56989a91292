package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/modelinghub/hubcat/pkg/errors"
	"github.com/modelinghub/hubcat/pkg/jsonld"
	"github.com/modelinghub/hubcat/pkg/logging"
	"github.com/modelinghub/hubcat/pkg/metadata"
	"github.com/modelinghub/hubcat/pkg/tasks"
)

// tasksConfigPath is the round-relative location of the task schema.
var tasksConfigPath = filepath.Join("hub-config", "tasks.json")

// processRoundDir loads one round directory's task schema and processes
// every round the document declares.
func (p *Pipeline) processRoundDir(ctx context.Context, roundDir string) error {
	log := logging.Ctx(ctx)

	schemaPath := filepath.Join(p.cfg.DataDir, roundDir, tasksConfigPath)
	schema, err := tasks.Load(schemaPath)
	if err != nil {
		return errors.WrapResource("load", "round", roundDir, err)
	}

	metadataDir := filepath.Join(p.cfg.DataDir, roundDir, p.cfg.MetadataSubdir)
	descriptorPaths, err := metadata.Discover(metadataDir)
	if err != nil {
		return errors.WrapResource("load", "round", roundDir, err)
	}
	if len(descriptorPaths) == 0 {
		log.Warn().Str("dir", metadataDir).Msg("No model descriptors found, skipping round directory")
		return nil
	}

	outputDir := filepath.Join(p.cfg.OutputDir, roundDir)
	if err := resetDir(outputDir); err != nil {
		return err
	}

	for _, round := range schema.AllRounds() {
		rctx := logging.WithRound(ctx, round.RoundID)
		if err := p.processRound(rctx, schema, round.RoundID, descriptorPaths, outputDir); err != nil {
			logging.Ctx(rctx).Error().Err(err).Msg("Round skipped")
		}
	}
	return nil
}

// modelResult is the outcome of the model-local enrichment phase.
type modelResult struct {
	modelID  string
	record   *jsonld.ModelRecord
	fieldMap *fieldMapResult
	err      error
}

// processRound enriches every model of one round and writes the per-model
// documents plus the consolidated round document. Model-local work (steps
// that only read the model's own output) runs in parallel; the fold into
// the global field map is a single-writer merge phase in descriptor order,
// keeping hasPart order and first-seen value order deterministic.
func (p *Pipeline) processRound(ctx context.Context, schema *tasks.Schema, roundID string, descriptorPaths []string, outputDir string) error {
	log := logging.Ctx(ctx)
	log.Info().Int("models", len(descriptorPaths)).Msg("Processing round")

	results := make([]modelResult, len(descriptorPaths))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(p.cfg.Workers)
	for i, path := range descriptorPaths {
		group.Go(func() error {
			results[i] = p.processModel(gctx, schema, roundID, path)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	agg := newAggregator(roundID, schema)
	for _, res := range results {
		mctx := logging.WithModel(ctx, res.modelID)
		mlog := logging.Ctx(mctx)

		if res.err != nil {
			mlog.Error().Err(res.err).Msg("Model skipped")
			continue
		}

		agg.add(res.record, res.fieldMap.reconciled)

		path := filepath.Join(outputDir, jsonld.ModelFilename(res.modelID))
		if err := jsonld.WriteFile(path, res.record); err != nil {
			mlog.Error().Err(err).Msg("Failed to write model document")
			continue
		}
		mlog.Info().Str("path", path).Msg("Model document written")
	}

	if len(agg.records) == 0 {
		return errors.NewResourceError("process", "round", roundID, errors.New("no models succeeded"))
	}

	record := agg.roundRecord(ctx)
	path := filepath.Join(p.cfg.OutputDir, jsonld.RoundFilename(roundID))
	if err := jsonld.WriteFile(path, record); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("models", record.NumberOfItems).Msg("Round document written")
	return nil
}

// resetDir recreates a directory empty, the run being idempotent.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.WrapIO("delete", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	return nil
}
