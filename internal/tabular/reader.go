package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Reader parses header-driven tabular content into per-row column maps.
// Rows shorter than the header simply omit the trailing columns from the
// map; extra cells beyond the header are dropped.
type Reader struct {
	cr     *csv.Reader
	header []string
}

// NewReader constructs a Reader for the given dialect and consumes the
// header row. An empty input yields an error.
func NewReader(r io.Reader, dialect Dialect) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = dialect.Delimiter
	// Subject tables are frequently ragged; length checks happen per
	// column during row mapping instead.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty table: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table header: %w", err)
	}

	return &Reader{cr: cr, header: header}, nil
}

// Header returns the column names in file order.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next row keyed by column name, or io.EOF after the last
// row. Malformed rows (for example bad quoting) surface the csv error.
func (r *Reader) Next() (map[string]string, error) {
	record, err := r.cr.Read()
	if err != nil {
		return nil, err
	}

	row := make(map[string]string, len(r.header))
	for i, name := range r.header {
		if i >= len(record) {
			break
		}
		row[name] = record[i]
	}
	return row, nil
}
