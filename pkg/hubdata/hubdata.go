// Package hubdata reads a model's tabular output tree. It exposes the two
// capabilities the enrichment pipeline needs: the distinct non-null values
// per schema column of a model's output for a round, and the output file
// format counts. Row-level data never leaves this package.
package hubdata

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/modelinghub/hubcat/pkg/errors"
	"github.com/modelinghub/hubcat/pkg/jsonld"
)

// outputSubdir is the directory inside a round that holds model output.
const outputSubdir = "model-output"

// OutputFile is one discovered output file of a model.
type OutputFile struct {
	Path  string
	Model string
	Name  string
}

// OutputDir returns the output directory of a model within a round.
func OutputDir(dataDir, roundID, model string) string {
	return filepath.Join(dataDir, roundID, outputSubdir, model)
}

// OutputFiles walks the round's model-output tree and returns the parquet
// files belonging to the round (file name prefixed with the round id),
// optionally filtered to one model. The model name is the file's parent
// directory.
func OutputFiles(dataDir, roundID, model string) ([]OutputFile, error) {
	root := filepath.Join(dataDir, roundID, outputSubdir)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var out []OutputFile
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			name := de.Name()
			if !strings.HasPrefix(name, roundID) {
				return nil
			}
			if !strings.HasSuffix(name, ".parquet") {
				return nil
			}
			fileModel := filepath.Base(filepath.Dir(path))
			if model != "" && fileModel != model {
				return nil
			}
			out = append(out, OutputFile{Path: path, Model: fileModel, Name: name})
			return nil
		},
		Unsorted: false,
	})
	if err != nil {
		return nil, errors.WrapIO("walk", root, err)
	}
	return out, nil
}

// OutputFileFormats returns the output file types of a model as a mapping
// from extension to count. Parquet files may arrive plain or with
// gzip-compressed pages (.gz.parquet).
func OutputFileFormats(dataDir, roundID, model string) (map[string]int, error) {
	files, err := OutputFiles(dataDir, roundID, model)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	formats := map[string]int{"parquet": 0, "gz.parquet": 0}
	for _, f := range files {
		if strings.HasSuffix(f.Name, ".gz.parquet") {
			formats["gz.parquet"]++
		} else {
			formats["parquet"]++
		}
	}
	return formats, nil
}

// EncodingFormats maps file format counts onto encodingFormat entries,
// in stable extension order.
func EncodingFormats(formats map[string]int) []jsonld.EncodingFormat {
	names := map[string]string{
		"parquet":    "Apache Parquet",
		"gz.parquet": "Apache Parquet (gzip pages)",
	}

	exts := make([]string, 0, len(formats))
	for ext, count := range formats {
		if count > 0 {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)

	var out []jsonld.EncodingFormat
	for _, ext := range exts {
		name := names[ext]
		if name == "" {
			name = ext
		}
		out = append(out, jsonld.EncodingFormat{
			Type:          "FileFormat",
			Name:          name,
			FileExtension: "." + ext,
		})
	}
	return out
}
