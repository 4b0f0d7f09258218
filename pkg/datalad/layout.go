package datalad

// Layout is the convention-aware capability an extractor queries for raw
// metadata. Implementations understand the dataset's directory and file
// naming convention; the extractor itself only normalizes what the layout
// returns.
//
// Metadata answers the raw key/value metadata for a dataset-relative path.
// Querying the descriptor file returns dataset-wide metadata; querying a
// data file returns whatever per-file metadata the convention associates
// with it. Implementations return an empty mapping, not an error, for paths
// that simply carry no metadata.
type Layout interface {
	Metadata(relpath string) (map[string]any, error)
}

// LayoutFunc adapts a plain function to the Layout interface.
type LayoutFunc func(relpath string) (map[string]any, error)

// Metadata implements Layout.
func (f LayoutFunc) Metadata(relpath string) (map[string]any, error) {
	return f(relpath)
}
