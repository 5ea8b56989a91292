// Package tasks parses a round's task-configuration document (tasks.json)
// into typed structures describing, per task dimension, the permitted
// required/optional value sets, output-type enumerations, and target
// ontology metadata. A Schema is loaded once per round directory and never
// mutated afterwards.
package tasks

// Task dimension names used throughout the pipeline.
const (
	DimLocation   = "location"
	DimAgeGroup   = "age_group"
	DimTarget     = "target"
	DimHorizon    = "horizon"
	DimOriginDate = "origin_date"
	DimScenarioID = "scenario_id"
)

// Schema is the parsed task-configuration document for one round directory.
type Schema struct {
	// SchemaVersion is the hub schema version URL declared by the document.
	SchemaVersion string

	// Rounds holds every round declared by the document, in document order.
	Rounds []Round

	// Path is the file the schema was loaded from, kept for diagnostics.
	Path string
}

// Round is one dated submission cycle inside a schema document.
type Round struct {
	// RoundID is the immutable identity key of the round. When IDDerived is
	// true it was derived from the model tasks' required value sets rather
	// than declared literally.
	RoundID string

	// IDDerived reports whether RoundID came from round_id_from_variable
	// derivation.
	IDDerived bool

	// ModelTasks holds the task grids of the round, in document order.
	ModelTasks []ModelTask

	// Diseases links the round to the health conditions it models.
	Diseases []Disease

	// SubmissionsDue carries the submission window as declared (start/end).
	SubmissionsDue map[string]string
}

// ModelTask is one task grid of a round: the value sets per dimension, the
// accepted output types, and the ontology metadata of its targets.
type ModelTask struct {
	TaskIDs        map[string]TaskIDConfig
	OutputType     map[string]OutputTypeConfig
	TargetMetadata []TargetMetadata
}

// TaskIDConfig holds the required and optional permitted values for one
// task dimension. A nil slice means the set was not declared; values are
// stringified case-preserving from the document.
type TaskIDConfig struct {
	Required []string
	Optional []string
}

// OutputTypeConfig describes one accepted output type of a model task.
type OutputTypeConfig struct {
	OutputTypeID any            `json:"output_type_id"`
	Value        map[string]any `json:"value"`
}

// TargetMetadata is the ontology metadata for one target. Optional fields
// are explicit here; absence means the document did not declare them.
type TargetMetadata struct {
	TargetID      string         `json:"target_id"`
	TargetName    string         `json:"target_name"`
	AlternateName string         `json:"alternate_name,omitempty"`
	URI           string         `json:"uri,omitempty"`
	Description   string         `json:"description,omitempty"`
	TargetUnits   string         `json:"target_units,omitempty"`
	TargetKeys    map[string]any `json:"target_keys,omitempty"`
	TargetType    string         `json:"target_type,omitempty"`
	IsStepAhead   bool           `json:"is_step_ahead,omitempty"`
	TimeUnit      string         `json:"time_unit,omitempty"`
}

// Disease links a round to a modeled health condition.
type Disease struct {
	Name string `json:"name"`
	URI  string `json:"uri,omitempty"`
}

// GetRound returns the round with the given id, or nil if absent.
func (s *Schema) GetRound(roundID string) *Round {
	for i := range s.Rounds {
		if s.Rounds[i].RoundID == roundID {
			return &s.Rounds[i]
		}
	}
	return nil
}

// AllRounds returns every round in document order.
func (s *Schema) AllRounds() []Round {
	return s.Rounds
}

// AllTargetIDs returns the union of target ids across all tasks in all
// rounds, in first-seen order.
func (s *Schema) AllTargetIDs() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, round := range s.Rounds {
		for _, task := range round.ModelTasks {
			for _, meta := range task.TargetMetadata {
				if _, ok := seen[meta.TargetID]; ok {
					continue
				}
				seen[meta.TargetID] = struct{}{}
				out = append(out, meta.TargetID)
			}
		}
	}
	return out
}

// AllValuesForDimension returns the union of required and optional values
// for a dimension across all model tasks of the round, case-preserving and
// stringified, in first-seen order. Returns nil for an unknown round.
func (s *Schema) AllValuesForDimension(roundID, dimension string) []string {
	round := s.GetRound(roundID)
	if round == nil {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	add := func(values []string) {
		for _, v := range values {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for _, task := range round.ModelTasks {
		cfg, ok := task.TaskIDs[dimension]
		if !ok {
			continue
		}
		add(cfg.Required)
		add(cfg.Optional)
	}
	return out
}

// DimensionRequired reports whether any model task of the round declares a
// non-empty required value set for the dimension. Mismatches on such
// dimensions are reported at error severity rather than warning.
func (s *Schema) DimensionRequired(roundID, dimension string) bool {
	round := s.GetRound(roundID)
	if round == nil {
		return false
	}
	for _, task := range round.ModelTasks {
		if cfg, ok := task.TaskIDs[dimension]; ok && len(cfg.Required) > 0 {
			return true
		}
	}
	return false
}

// TargetMetadataForRound returns the round's target metadata keyed by
// target id, first declaration wins, plus the ids in declaration order.
func (s *Schema) TargetMetadataForRound(roundID string) (map[string]TargetMetadata, []string) {
	round := s.GetRound(roundID)
	if round == nil {
		return nil, nil
	}
	byID := make(map[string]TargetMetadata)
	var order []string
	for _, task := range round.ModelTasks {
		for _, meta := range task.TargetMetadata {
			if _, ok := byID[meta.TargetID]; ok {
				continue
			}
			byID[meta.TargetID] = meta
			order = append(order, meta.TargetID)
		}
	}
	return byID, order
}
