package tasks

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/modelinghub/hubcat/pkg/errors"
)

// rawDocument mirrors the on-disk tasks.json shape before stringification.
type rawDocument struct {
	SchemaVersion string     `json:"schema_version"`
	Rounds        []rawRound `json:"rounds"`
}

type rawRound struct {
	// RoundID is either the literal round id or, when RoundIDFromVariable
	// is set, the name of the task dimension the id derives from.
	RoundID             string            `json:"round_id"`
	RoundIDFromVariable bool              `json:"round_id_from_variable"`
	ModelTasks          []rawModelTask    `json:"model_tasks"`
	SubmissionsDue      map[string]string `json:"submissions_due"`
	Diseases            []Disease         `json:"diseases"`
}

type rawModelTask struct {
	TaskIDs        map[string]rawTaskID `json:"task_ids"`
	OutputType     map[string]OutputTypeConfig `json:"output_type"`
	TargetMetadata []TargetMetadata     `json:"target_metadata"`
}

type rawTaskID struct {
	Required []any `json:"required"`
	Optional []any `json:"optional"`
}

// Load reads and parses a tasks.json document. It returns a NotFoundError
// when the file is absent and a ConfigError when required keys (rounds,
// per-task task_ids/output_type) are missing or malformed.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("task schema", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	schema, err := Parse(data)
	if err != nil {
		return nil, err
	}
	schema.Path = path
	return schema, nil
}

// Parse parses a tasks.json document from memory.
func Parse(data []byte) (*Schema, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapParse("json", "tasks.json", err)
	}
	if len(raw.Rounds) == 0 {
		return nil, errors.NewConfigError("tasks.json", "document declares no rounds", nil)
	}

	schema := &Schema{SchemaVersion: raw.SchemaVersion}
	for i, rr := range raw.Rounds {
		round, err := parseRound(rr, i)
		if err != nil {
			return nil, err
		}
		schema.Rounds = append(schema.Rounds, round)
	}
	return schema, nil
}

func parseRound(rr rawRound, index int) (Round, error) {
	round := Round{
		IDDerived:      rr.RoundIDFromVariable,
		SubmissionsDue: rr.SubmissionsDue,
		Diseases:       rr.Diseases,
	}
	if len(rr.ModelTasks) == 0 {
		return Round{}, errors.NewConfigError("tasks.json",
			fmt.Sprintf("round %d declares no model_tasks", index), nil)
	}

	for j, rt := range rr.ModelTasks {
		if len(rt.TaskIDs) == 0 {
			return Round{}, errors.NewConfigError("tasks.json",
				fmt.Sprintf("round %d model task %d has no task_ids", index, j), nil)
		}
		if len(rt.OutputType) == 0 {
			return Round{}, errors.NewConfigError("tasks.json",
				fmt.Sprintf("round %d model task %d has no output_type", index, j), nil)
		}
		task := ModelTask{
			TaskIDs:        make(map[string]TaskIDConfig, len(rt.TaskIDs)),
			OutputType:     rt.OutputType,
			TargetMetadata: rt.TargetMetadata,
		}
		for dim, cfg := range rt.TaskIDs {
			task.TaskIDs[dim] = TaskIDConfig{
				Required: stringifyAll(cfg.Required),
				Optional: stringifyAll(cfg.Optional),
			}
		}
		round.ModelTasks = append(round.ModelTasks, task)
	}

	if round.IDDerived {
		id, err := deriveRoundID(rr.RoundID, round.ModelTasks)
		if err != nil {
			return Round{}, err
		}
		round.RoundID = id
	} else {
		round.RoundID = rr.RoundID
	}
	if round.RoundID == "" {
		return Round{}, errors.NewConfigError("tasks.json",
			fmt.Sprintf("round %d has no resolvable round_id", index), nil)
	}
	return round, nil
}

// deriveRoundID resolves a variable round id: the first non-empty required
// list of the derivation dimension supplies the candidate, and every other
// model task declaring the dimension must agree on it.
func deriveRoundID(dimension string, modelTasks []ModelTask) (string, error) {
	candidate := ""
	for _, task := range modelTasks {
		cfg, ok := task.TaskIDs[dimension]
		if !ok || len(cfg.Required) == 0 {
			continue
		}
		first := cfg.Required[0]
		if candidate == "" {
			candidate = first
			continue
		}
		if first != candidate {
			return "", errors.NewRoundIDMismatchError(candidate, first)
		}
	}
	if candidate == "" {
		return "", errors.NewConfigError("tasks.json",
			fmt.Sprintf("no required values for round_id dimension %q", dimension), nil)
	}
	return candidate, nil
}

// stringifyAll converts raw JSON values to case-preserving strings. A nil
// input stays nil so that "not declared" remains distinguishable from an
// empty declared set.
func stringifyAll(values []any) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, stringify(v))
	}
	return out
}

// stringify renders a JSON scalar the way hub documents mean it: integral
// numbers without a decimal point, everything else verbatim.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
