package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainSession separates session digests from any other hash brine computes.
const DomainSession = "brine/session/v1"

// Digest returns a stable SHA-256 identity of the session contents.
// Format: hex(SHA256(domain + 0x00 + canonical JSON)).
func (s Session) Digest() (string, error) {
	canonical, err := s.Canonical()
	if err != nil {
		return "", fmt.Errorf("session digest: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(DomainSession))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
