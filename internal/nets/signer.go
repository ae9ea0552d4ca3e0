package nets

import (
	"crypto/sha256"
	"encoding/base64"
)

// Sign computes the gateway request signature: base64(SHA-256(payload || secret)).
// It must be fed the exact bytes that go on the wire; re-serializing the
// request after signing would invalidate the signature at the switch.
func Sign(payload []byte, secret string) string {
	h := sha256.New()
	h.Write(payload)
	h.Write([]byte(secret))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
