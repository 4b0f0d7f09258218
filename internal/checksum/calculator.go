package checksum

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ohler55/ojg/oj"
)

// Calculator is an interface for computing content checksums.
// This abstraction allows for different checksum strategies and algorithms.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateRecord computes a checksum of a metadata record in canonical
	// JSON form. Records with equal keys and values hash equal regardless of
	// map iteration order.
	CalculateRecord(record map[string]any) string
}

// SHA256 implements checksum calculation using SHA-256.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple
// goroutines. Using value semantics (pass by value) eliminates heap
// allocations.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
// Returns by value to avoid heap allocation (SHA256 is a zero-size type).
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateRecord computes SHA-256 of the record's canonical JSON form,
// with object members sorted at every nesting level.
func (c SHA256) CalculateRecord(record map[string]any) string {
	canonical := oj.JSON(record, &oj.Options{Sort: true})
	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:])
}
