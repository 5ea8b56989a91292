// Package pipeline orchestrates catalog generation: it discovers round
// directories, loads each round's task schema, enriches every model's
// metadata with the facts reconciled from its tabular output, and writes
// the per-model and consolidated per-round JSON-LD documents.
//
// Failure containment follows the hub's propagation policy: a broken model
// is skipped and its round continues; a broken round is skipped and its
// siblings continue; only an unreadable data directory aborts the batch.
package pipeline

import (
	"context"
	"os"
	"regexp"

	"github.com/modelinghub/hubcat/pkg/errors"
	"github.com/modelinghub/hubcat/pkg/logging"
)

// Config carries the directory layout and concurrency settings of a run.
type Config struct {
	// DataDir is the root holding one directory per round (YYYY-MM-DD).
	DataDir string

	// OutputDir is the root the JSON-LD documents are written under.
	OutputDir string

	// MetadataSubdir is the per-round directory of model descriptors.
	MetadataSubdir string

	// Workers bounds the parallel per-model enrichment phase.
	Workers int
}

// Defaults for Config fields left zero.
const (
	DefaultDataDir        = "data"
	DefaultOutputDir      = "output"
	DefaultMetadataSubdir = "model-metadata"
	DefaultWorkers        = 4
)

// withDefaults fills unset config fields.
func (c Config) withDefaults() Config {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.MetadataSubdir == "" {
		c.MetadataSubdir = DefaultMetadataSubdir
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

// Pipeline is a one-shot, idempotent batch run over a data tree.
type Pipeline struct {
	cfg Config
}

// New creates a Pipeline with the given config.
func New(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg.withDefaults()}
}

// roundDirPattern matches dated round directory names.
var roundDirPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DiscoverRounds lists the round directories under dataDir in name order.
func DiscoverRounds(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, errors.WrapIO("read", dataDir, err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() && roundDirPattern.MatchString(entry.Name()) {
			out = append(out, entry.Name())
		}
	}
	return out, nil
}

// Run processes every round directory sequentially. Only an unreadable
// data directory is fatal; per-round failures are logged and skipped.
func (p *Pipeline) Run(ctx context.Context) error {
	log := logging.Ctx(ctx)

	roundDirs, err := DiscoverRounds(p.cfg.DataDir)
	if err != nil {
		return err
	}
	if len(roundDirs) == 0 {
		log.Info().Str("data_dir", p.cfg.DataDir).Msg("No round directories found")
		return nil
	}
	log.Info().Strs("rounds", roundDirs).Msg("Discovered round directories")

	for _, roundDir := range roundDirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.processRoundDir(ctx, roundDir); err != nil {
			log.Error().Err(err).Str("round_dir", roundDir).Msg("Round skipped")
		}
	}
	return nil
}
