// Package metadata reads a team's declarative model descriptor (the YAML
// file submitted alongside output) and maps its identity and provenance
// fields onto a base JSON-LD model record. Enrichment of workExample
// happens later in the pipeline; this package never touches it.
package metadata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/modelinghub/hubcat/pkg/errors"
	"github.com/modelinghub/hubcat/pkg/jsonld"
)

// Descriptor is the declarative model-metadata file as submitted.
type Descriptor struct {
	TeamName     string `yaml:"team_name"`
	TeamAbbr     string `yaml:"team_abbr"`
	TeamFunding  string `yaml:"team_funding"`
	ModelName    string `yaml:"model_name"`
	ModelAbbr    string `yaml:"model_abbr"`
	ModelVersion string `yaml:"model_version"`
	Methods      string `yaml:"methods"`
	MethodsLong  string `yaml:"methods_long"`
	License      string `yaml:"license"`
	WebsiteURL   string `yaml:"website_url"`
	DataInputs   string `yaml:"data_inputs"`
	Contributors []Contributor `yaml:"model_contributors"`
}

// Contributor is one entry of model_contributors.
type Contributor struct {
	Name        string `yaml:"name"`
	Affiliation string `yaml:"affiliation"`
	Email       string `yaml:"email"`
}

// ID returns the catalog identity of the model: team abbreviation and
// model abbreviation joined, or the model abbreviation alone for teams
// without one.
func (d *Descriptor) ID() string {
	if d.TeamAbbr != "" {
		return d.TeamAbbr + "-" + d.ModelAbbr
	}
	return d.ModelAbbr
}

// missingValues are the placeholder strings teams use for fields they have
// no answer for; such fields are dropped rather than cataloged.
var missingValues = map[string]struct{}{
	"NA": {}, "na": {}, "TBD": {}, "N/A": {}, "NaN": {},
}

// present reports whether a descriptor field carries a real value.
func present(v string) bool {
	if v == "" {
		return false
	}
	_, missing := missingValues[v]
	return !missing
}

// Load reads and parses one model descriptor file.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("model descriptor", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &d, nil
}

// Discover lists the model descriptor files (*.yaml, *.yml) in a metadata
// directory, sorted by name.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}

// BaseRecord maps a descriptor onto the identity and provenance fields of
// a model document. Placeholder values are dropped, empty sub-documents
// are omitted.
func BaseRecord(d *Descriptor) *jsonld.ModelRecord {
	record := &jsonld.ModelRecord{
		Ctx:         jsonld.Context,
		Type:        jsonld.TypeDataset,
		Name:        d.ID(),
		Description: firstOf(d.MethodsLong, d.Methods),
		Version:     d.ModelVersion,
	}
	if present(d.License) {
		record.License = d.License
	}
	if present(d.WebsiteURL) {
		record.Website = d.WebsiteURL
	}

	producer := &jsonld.Organization{
		Type: "Organization",
		Name: d.TeamName,
	}
	if present(d.TeamFunding) {
		producer.Funder = &jsonld.Organization{
			Type:        "Organization",
			Description: d.TeamFunding,
		}
	}
	record.Producer = producer

	for _, c := range d.Contributors {
		person := jsonld.Person{
			Type:  "Person",
			Name:  c.Name,
			Email: c.Email,
		}
		if c.Affiliation != "" {
			person.Affiliation = &jsonld.Organization{
				Type: "Organization",
				Name: c.Affiliation,
			}
		}
		record.Author = append(record.Author, person)
	}

	if d.DataInputs != "" {
		record.IsBasedOn = &jsonld.DatasetRef{
			Type:        jsonld.TypeDataset,
			Description: d.DataInputs,
		}
	}
	return record
}

// firstOf returns the first non-empty string.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
