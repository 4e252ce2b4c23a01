// Package id mints the identifiers that name show sessions.
//
// An identifier is a UUIDv4 re-encoded as unpadded lowercase base32,
// which keeps the full 122 bits of randomness while staying readable
// in logs and usable in URLs without escaping. Every id is exactly 26
// characters from the RFC 4648 alphabet.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// encoding is the RFC 4648 base32 alphabet without padding characters.
var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a fresh 26-character session identifier.
func NewID() (string, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(raw[:])), nil
}
