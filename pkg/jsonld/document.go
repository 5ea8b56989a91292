// Package jsonld defines the schema.org-shaped documents the catalog
// produces: one Dataset document per model and one consolidated Dataset
// document per round. Types here are write-once value objects; they are
// serialized to storage and never read back into the pipeline.
package jsonld

import (
	"github.com/modelinghub/hubcat/pkg/geo"
)

// Context is the JSON-LD context of every produced document.
const Context = "https://schema.org/"

// TypeDataset is the schema.org type of model and round documents.
const TypeDataset = "Dataset"

// Ontology class URIs attached to round work examples.
const (
	OntologyModelOutput      = "https://midasnetwork.us/ontology/class-datasetsmidas97.html"
	OntologyScenarioAnalysis = "https://midasnetwork.us/ontology/class-oboobcs_0000267.html"
)

// Organization is a schema.org Organization.
type Organization struct {
	Type          string        `json:"@type"`
	Name          string        `json:"name,omitempty"`
	AlternateName string        `json:"alternateName,omitempty"`
	URL           string        `json:"url,omitempty"`
	Description   string        `json:"description,omitempty"`
	Funder        *Organization `json:"funder,omitempty"`
}

// Person is a schema.org Person, used for model contributors.
type Person struct {
	Type        string        `json:"@type"`
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"email,omitempty"`
	Affiliation *Organization `json:"affiliation,omitempty"`
}

// DatasetRef is a minimal schema.org Dataset reference (isBasedOn targets).
type DatasetRef struct {
	Type        string `json:"@type"`
	Description string `json:"description,omitempty"`
}

// Event identifies the round a model document belongs to.
type Event struct {
	Type       string `json:"@type"`
	Name       string `json:"name,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// TargetDescriptor is a schema.org PropertyValue enriched with target
// ontology metadata (variableMeasured entries).
type TargetDescriptor struct {
	Type          string         `json:"@type"`
	Name          string         `json:"name"`
	Identifier    string         `json:"identifier,omitempty"`
	AlternateName string         `json:"alternateName,omitempty"`
	Description   string         `json:"description,omitempty"`
	UnitText      string         `json:"unitText,omitempty"`
	TargetID      string         `json:"target_id,omitempty"`
	TargetType    string         `json:"target_type,omitempty"`
	TargetKeys    map[string]any `json:"target_keys,omitempty"`
	TemporalUnit  string         `json:"temporalUnit,omitempty"`
}

// featureContext is the linked-data context of location features.
var featureContext = map[string]string{
	"iso3166-1": "http://www.iso.org/iso-3166-1#",
	"iso3166-2": "http://www.iso.org/iso-3166-2#",
	"gn":        "http://www.geonames.org/ontology#",
	"geo":       "http://www.w3.org/2003/01/geo/wgs84_pos#",
}

// LocationFeature is a geonames-ontology feature for one FIPS code
// (spatialCoverage entries).
type LocationFeature struct {
	Ctx            map[string]string `json:"@context"`
	ID             string            `json:"@id"`
	Type           string            `json:"@type"`
	Name           string            `json:"gn:name"`
	CountryAlpha2  string            `json:"iso3166-1:alpha2"`
	CountryAlpha3  string            `json:"iso3166-1:alpha3"`
	CountryNumeric string            `json:"iso3166-1:numeric"`
	FIPSCode       string            `json:"gn:fipsCode"`
	Subdivision    string            `json:"iso3166-2:code,omitempty"`
}

// NewLocationFeature builds the linked-data feature for a resolved location.
func NewLocationFeature(loc geo.Location) LocationFeature {
	return LocationFeature{
		Ctx:            featureContext,
		ID:             loc.GeonamesURI(),
		Type:           "gn:Feature",
		Name:           loc.Name,
		CountryAlpha2:  geo.CountryAlpha2,
		CountryAlpha3:  geo.CountryAlpha3,
		CountryNumeric: geo.CountryNumeric,
		FIPSCode:       loc.FIPS,
		Subdivision:    loc.ISOSubdivision(),
	}
}

// EncodingFormat describes one output file format of a model.
type EncodingFormat struct {
	Type          string `json:"@type"`
	Name          string `json:"name"`
	FileExtension string `json:"fileExtension,omitempty"`
}

// OutputTypeEntry is a flattened output-type declaration on a round record.
type OutputTypeEntry struct {
	Type         string         `json:"type"`
	OutputTypeID any            `json:"output_type_id,omitempty"`
	Value        map[string]any `json:"value,omitempty"`
}

// MedicalCondition links a round to the disease it models.
type MedicalCondition struct {
	Type          string `json:"@type"`
	Name          string `json:"name"`
	AlternateName string `json:"alternateName,omitempty"`
	URI           string `json:"uri,omitempty"`
}

// WorkExample holds the enriched facts of a model or round document.
type WorkExample struct {
	// Type is a single type string on model documents and a list of type
	// and ontology class URIs on round documents.
	Type             any                `json:"@type"`
	Description      string             `json:"description,omitempty"`
	IsPartOf         *Event             `json:"isPartOf,omitempty"`
	VariableMeasured []TargetDescriptor `json:"variableMeasured,omitempty"`
	SpatialCoverage  []LocationFeature  `json:"spatialCoverage,omitempty"`
	AgeGroups        []string           `json:"ageGroups,omitempty"`
	TemporalCoverage string             `json:"temporalCoverage,omitempty"`
	OutputType       []OutputTypeEntry  `json:"output_type,omitempty"`
	EncodingFormat   []EncodingFormat   `json:"encodingFormat,omitempty"`
}

// ModelRecord is the per-model JSON-LD document.
type ModelRecord struct {
	Ctx         string        `json:"@context"`
	Type        string        `json:"@type"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Version     string        `json:"version,omitempty"`
	License     string        `json:"license,omitempty"`
	Website     string        `json:"website,omitempty"`
	Producer    *Organization `json:"producer,omitempty"`
	Author      []Person      `json:"author,omitempty"`
	IsBasedOn   *DatasetRef   `json:"isBasedOn,omitempty"`
	WorkExample *WorkExample  `json:"workExample,omitempty"`
}

// RoundRecord is the consolidated per-round JSON-LD document. HasPart
// embeds the full model documents in processing order.
type RoundRecord struct {
	Ctx             string            `json:"@context"`
	Type            string            `json:"@type"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Identifier      string            `json:"identifier"`
	RoundID         string            `json:"roundId"`
	HealthCondition *MedicalCondition `json:"healthCondition,omitempty"`
	WorkExample     *WorkExample      `json:"workExample,omitempty"`
	HasPart         []*ModelRecord    `json:"hasPart"`
	NumberOfItems   int               `json:"numberOfItems"`
}
