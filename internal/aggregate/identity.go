package aggregate

import (
	"strings"

	"github.com/google/uuid"
)

// NamespaceDatasetIdentity is the fixed UUID namespace for generating
// deterministic dataset identities from dataset names. The namespace is
// derived from the string "datalad.org/dataset-identity/v1" using UUID v5
// with the URL namespace.
//
// This ensures that:
//   - A named dataset keeps the same identity across re-aggregations
//   - The namespace is unique to this tool (no collisions with other systems)
//   - Users can independently verify deterministic ID generation
var NamespaceDatasetIdentity = uuid.NewSHA1(uuid.NameSpaceURL, []byte("datalad.org/dataset-identity/v1"))

// DatasetID derives the stable dataset identifier recorded in the manifest.
//
// Named datasets get a deterministic UUID v5 from the normalized name and
// version pair, so repeated aggregation of the same dataset produces the
// same identity. Datasets without a name get a random identifier per run.
//
// Normalization:
//  1. Trim surrounding whitespace
//  2. Convert to lowercase (case-insensitive identity)
func DatasetID(name, version string) uuid.UUID {
	name = normalizeIdentity(name)
	if name == "" {
		return uuid.New()
	}
	return uuid.NewSHA1(NamespaceDatasetIdentity, []byte(name+"/"+normalizeIdentity(version)))
}

// normalizeIdentity converts an identity component to canonical form for
// deterministic UUID generation.
func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
