// Package aggregate persists extraction results as the dataset's aggregate
// metadata store.
//
// One aggregation run produces four artifacts in the output directory:
//
//   - dataset.json: the dataset-level metadata record, canonically sorted
//   - files.jsonl: one canonical JSON line per file record
//   - metadata.sqlite: the same records in a queryable SQLite database
//   - manifest.json: dataset identity, record count, and artifact checksums
//
// The manifest ties the artifacts together: consumers verify integrity
// against its checksums and track dataset identity across re-aggregations
// through the deterministic dataset identifier.
package aggregate
