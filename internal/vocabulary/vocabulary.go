// Package vocabulary defines the static metadata vocabularies attached to
// dataset records under "@context". Terms are fixed at load time and never
// mutated; builders hand out fresh copies so callers cannot corrupt the
// definitions.
package vocabulary

// VocabularyID tags a context entry as a vocabulary identifier rather than
// an ordinary term definition.
const VocabularyID = "http://docs.datalad.org/schema_v2.0.json"

// Ontology term identifiers used by the static vocabularies.
const (
	AgeIRI          = "pato:0000011"
	YearUnitIRI     = "uo:0000036"
	SecondUnitIRI   = "uo:0000010"
	DurationIRI     = "time:Duration"
	MusicOntologyID = "http://purl.org/ontology/mo/"
)

// Term is a single vocabulary definition for a metadata key.
type Term struct {
	ID          string `json:"@id"`
	Unit        string `json:"unit,omitempty"`
	UnitLabel   string `json:"unit_label,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

// asMap renders a Term the way records carry context entries.
func (t Term) asMap() map[string]any {
	m := map[string]any{"@id": t.ID}
	if t.Unit != "" {
		m["unit"] = t.Unit
	}
	if t.UnitLabel != "" {
		m["unit_label"] = t.UnitLabel
	}
	if t.Description != "" {
		m["description"] = t.Description
	}
	if t.Type != "" {
		m["type"] = t.Type
	}
	return m
}

// bidsTerms are the static characteristics reported for subject attributes.
var bidsTerms = map[string]Term{
	"bids:age(years)": {
		ID:          AgeIRI,
		Unit:        YearUnitIRI,
		UnitLabel:   "year",
		Description: "age of a sample (organism) at the time of data acquisition in years",
	},
}

// BIDSContext builds the @context block for a dataset record. The defURL is
// the conformsto reference URL, version suffix included when one was
// derived; the vocabulary entry points at its fragment anchor.
func BIDSContext(defURL string) map[string]any {
	context := map[string]any{
		"bids": map[string]any{
			// not really a working URL, but the convention does not provide
			// term definitions in any accessible way
			"@id":         defURL + "#",
			"description": "ad-hoc vocabulary for the Brain Imaging Data Structure (BIDS) standard",
			"type":        VocabularyID,
		},
	}
	for key, term := range bidsTerms {
		context[key] = term.asMap()
	}
	return context
}

// MusicContext builds the @context block for audio metadata records.
func MusicContext() map[string]any {
	return map[string]any{
		"music": map[string]any{
			"@id":         MusicOntologyID,
			"description": "Music Ontology with main concepts and properties for describing music",
			"type":        VocabularyID,
		},
		"duration(s)": Term{
			ID:        DurationIRI,
			Unit:      SecondUnitIRI,
			UnitLabel: "second",
		}.asMap(),
	}
}
