// Package checksum provides content hashing for aggregate artifacts and
// metadata records.
//
// The package implements a dual checksum strategy:
//
//   - Raw checksum: Hash of the exact byte content (detects all changes)
//   - Record checksum: Hash of a metadata record in canonical JSON form
//     (key order and formatting do not affect identity)
//
// Record checksums let the aggregate store recognize unchanged metadata
// across re-extractions even when serialization details differ.
//
// # Example Usage
//
//	calculator := checksum.New()
//	rawChecksum := calculator.CalculateRaw(artifactContent)
//	recordChecksum := calculator.CalculateRecord(record)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
