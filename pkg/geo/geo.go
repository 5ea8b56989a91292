// Package geo maps US Census FIPS location codes to geographic-ontology
// records: display name, ISO-3166 codes, and a stable geonames-style URI.
// Resolution is advisory, not load-bearing: an unknown code still yields a
// usable record with the unresolvable fields omitted.
package geo

import "fmt"

// ISO-3166-1 country constants. Hub locations are US-only.
const (
	CountryAlpha2  = "US"
	CountryAlpha3  = "USA"
	CountryNumeric = "840"
)

// Level classifies the granularity of a FIPS code.
type Level int

// FIPS code granularity levels.
const (
	// LevelState covers 2-digit codes and 5-digit state equivalents
	// (suffix 000).
	LevelState Level = iota

	// LevelCounty covers other 5-digit codes. No county gazetteer is
	// embedded, so county names are best-effort labels.
	LevelCounty

	// LevelInvalid covers codes of unexpected shape.
	LevelInvalid
)

// Location is a resolved geographic record for one FIPS code.
type Location struct {
	// FIPS is the code as given, unpadded.
	FIPS string

	// Name is the display name: the state name for state-level codes, a
	// "County code NNN, State" label for county codes.
	Name string

	// StateName is the name of the containing state, empty when the state
	// prefix is unknown.
	StateName string

	// Level is the granularity of the code.
	Level Level
}

// Resolve maps a FIPS code to a Location. It never fails; unknown or
// malformed codes produce a record whose Name says so.
func Resolve(code string) Location {
	loc := Location{FIPS: code, Level: level(code)}

	switch loc.Level {
	case LevelState:
		prefix := code[:2]
		if name, ok := stateFIPS[prefix]; ok {
			loc.Name = name
			loc.StateName = name
		} else {
			loc.Name = fmt.Sprintf("Unknown state code: %s", prefix)
		}
	case LevelCounty:
		prefix, suffix := code[:2], code[2:]
		if name, ok := stateFIPS[prefix]; ok {
			loc.StateName = name
			loc.Name = fmt.Sprintf("County code %s, %s", suffix, name)
		} else {
			loc.Name = fmt.Sprintf("County code %s, Unknown state (%s)", suffix, prefix)
		}
	default:
		loc.Name = fmt.Sprintf("Invalid FIPS code: %s", code)
	}
	return loc
}

// level classifies a FIPS code by shape.
func level(code string) Level {
	switch {
	case len(code) == 2:
		return LevelState
	case len(code) == 5 && code[2:] == "000":
		return LevelState
	case len(code) == 5:
		return LevelCounty
	default:
		return LevelInvalid
	}
}

// GeonamesURI returns the synthesized geographic-ontology URI for the code.
func (l Location) GeonamesURI() string {
	return fmt.Sprintf("http://sws.geonames.org/fips_%s/", l.FIPS)
}

// ISOSubdivision returns the ISO-3166-2 code (US-CA style) for state-level
// locations. County-level and unresolvable codes return the empty string:
// a sub-state record must not carry a state-level subdivision code.
func (l Location) ISOSubdivision() string {
	if l.Level != LevelState {
		return ""
	}
	abbr, ok := stateAbbr[l.StateName]
	if !ok {
		return ""
	}
	return CountryAlpha2 + "-" + abbr
}
