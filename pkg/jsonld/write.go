package jsonld

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/modelinghub/hubcat/pkg/errors"
)

// WriteFile serializes a document to path as indented JSON, creating parent
// directories as needed.
func WriteFile(path string, doc any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// ModelFilename returns the output file name for a model document.
func ModelFilename(modelID string) string {
	return modelID + ".jsonld"
}

// RoundFilename returns the output file name for a round document.
func RoundFilename(roundID string) string {
	return "round_" + roundID + ".jsonld"
}
