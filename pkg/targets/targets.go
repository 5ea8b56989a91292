// Package targets cross-references reconciled target values against the
// round's target ontology metadata and builds enriched target descriptors
// for the variableMeasured section of catalog documents.
package targets

import (
	"context"

	"github.com/modelinghub/hubcat/pkg/fields"
	"github.com/modelinghub/hubcat/pkg/jsonld"
	"github.com/modelinghub/hubcat/pkg/logging"
	"github.com/modelinghub/hubcat/pkg/tasks"
)

// Enrich builds a descriptor for every target the schema knows for the
// round, in metadata declaration order. A target is emitted only when the
// field map's target dimension contains it and holds more than one value;
// single-target maps suppress emission entirely, matching the established
// catalog output.
func Enrich(ctx context.Context, roundID string, schema *tasks.Schema, fieldMap *fields.Map) []jsonld.TargetDescriptor {
	log := logging.Ctx(ctx)

	byID, order := schema.TargetMetadataForRound(roundID)

	var out []jsonld.TargetDescriptor
	for _, targetID := range order {
		if !fieldMap.Contains(tasks.DimTarget, targetID) || fieldMap.Len(tasks.DimTarget) <= 1 {
			log.Debug().
				Str("target", targetID).
				Msg("Skipping target descriptor")
			continue
		}
		out = append(out, descriptor(targetID, byID[targetID]))
	}
	return out
}

// descriptor maps one target's ontology metadata onto a PropertyValue.
// Missing metadata fields are omitted; the raw id is the display-name
// fallback.
func descriptor(targetID string, meta tasks.TargetMetadata) jsonld.TargetDescriptor {
	desc := jsonld.TargetDescriptor{
		Type: "PropertyValue",
		Name: targetID,
	}
	if meta.TargetName != "" {
		desc.Name = meta.TargetName
	}
	desc.Identifier = meta.URI
	desc.AlternateName = meta.AlternateName
	desc.Description = meta.Description
	desc.UnitText = meta.TargetUnits
	desc.TargetID = meta.TargetID
	desc.TargetType = meta.TargetType
	desc.TargetKeys = meta.TargetKeys
	if meta.IsStepAhead {
		desc.TemporalUnit = meta.TimeUnit
	}
	return desc
}
