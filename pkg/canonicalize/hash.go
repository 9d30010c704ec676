package canonicalize

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/icl-run/icl-core/pkg/ast"
)

// SemanticHash computes SHA-256 over the canonical text of a normalized
// contract with Identity.semantic_hash blanked, returned as 64 lowercase
// hex characters (§4.3).
func SemanticHash(normalized *ast.Contract) string {
	text := RenderCanonical(normalized, true)
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// HashBytes is the shared SHA-256 primitive used pipeline-wide for
// provenance state fingerprints, mirroring the "hash the canonical bytes"
// shape used for the semantic hash itself.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
