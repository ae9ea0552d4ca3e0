package nets

import (
	"crypto/sha256"
	"encoding/base64"
)

// DocIDLength is the truncation length of derived document ids. 22 base64url
// characters carry 132 bits of the SHA-256 digest, which keeps collision
// probability negligible at any realistic transaction volume. Do not shorten
// without re-deriving that bound.
const DocIDLength = 22

// DeriveDocID maps a gateway txn_identifier (up to 170 chars) to a compact
// storage- and URL-safe key. Deterministic: both the order flow and the
// callback flow must derive the same key from the same identifier.
func DeriveDocID(txnIdentifier string) string {
	sum := sha256.Sum256([]byte(txnIdentifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:DocIDLength]
}
