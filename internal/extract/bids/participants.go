package bids

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dmgolembiowski/datalad/internal/extract"
	"github.com/dmgolembiowski/datalad/internal/tabular"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// contentMetaKeyMap maps lowercased subject table columns onto vocabulary
// keys. Columns without a mapping are preserved under
// comment<participant#column>.
var contentMetaKeyMap = map[string]string{
	"participant_id": "bids:participant_id",
	"age":            "bids:age(years)",
}

// sexLabelMap expands the common single-letter sex labels. Unlisted values
// pass through lowercased.
var sexLabelMap = map[string]string{
	"f": "female",
	"m": "male",
}

// SubjectRule attaches auxiliary properties to every file whose
// dataset-relative path matches the pattern.
type SubjectRule struct {
	Pattern *regexp.Regexp
	Props   map[string]any
}

// LoadSubjectRules parses the participants table into per-subject overlay
// rules, in table row order. A dataset without the table yields no rules
// and no error. When parsing stops early the rules collected so far are
// returned together with the error that stopped it; a row without a
// participant_id cell stops with datalad.ErrSubjectTableStop since the
// remaining rows share the same header.
func LoadSubjectRules(ds *extract.Dataset) ([]SubjectRule, error) {
	tablePath := filepath.Join(ds.Root, datalad.ParticipantsFilename)
	if _, err := ds.FS.Stat(tablePath); err != nil {
		return nil, nil
	}

	content, err := ds.FS.ReadFile(tablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read subject table: %w", err)
	}

	sample := content
	if len(sample) > tabular.SniffLimit {
		sample = sample[:tabular.SniffLimit]
	}
	dialect, err := tabular.Sniff(sample)
	if err != nil {
		ds.Log.Warn("Could not determine file-format, assuming TSV")
		dialect = tabular.TabDialect
	}

	reader, err := tabular.NewReader(bytes.NewReader(content), dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject table: %w", err)
	}

	var rules []SubjectRule
	for {
		row, err := reader.Next()
		if err == io.EOF {
			return rules, nil
		}
		if err != nil {
			return rules, fmt.Errorf("failed to read subject table row: %w", err)
		}

		id, ok := row["participant_id"]
		if !ok {
			return rules, fmt.Errorf("%w: row lacks a participant_id cell", datalad.ErrSubjectTableStop)
		}

		props := rowProps(reader.Header(), row)
		if len(props) == 0 {
			continue
		}

		pattern, err := regexp.Compile("^" + id + "/.*")
		if err != nil {
			return rules, fmt.Errorf("failed to compile path pattern for subject %q: %w", id, err)
		}
		rules = append(rules, SubjectRule{Pattern: pattern, Props: props})
	}
}

// rowProps builds the overlay properties for one table row, visiting cells
// in header order so records stay deterministic.
func rowProps(header []string, row map[string]string) map[string]any {
	props := make(map[string]any)
	for _, column := range header {
		value, ok := row[column]
		if !ok {
			continue
		}

		normalized := strings.ToLower(column)
		key, ok := contentMetaKeyMap[normalized]
		if !ok {
			key = fmt.Sprintf("comment<participant#%s>", normalized)
		}

		if key == "comment<participant#sex>" || key == "comment<participant#gender>" {
			lowered := strings.ToLower(value)
			if expanded, ok := sexLabelMap[lowered]; ok {
				value = expanded
			} else {
				value = lowered
			}
		}

		if value == "" {
			continue
		}
		props[key] = value
	}
	return props
}
