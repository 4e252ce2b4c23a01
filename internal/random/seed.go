// Package random seeds math/rand generators from the operating system
// entropy pool. Scenario picks only need statistical randomness, but
// the seed itself must differ across shows, so it is drawn from
// crypto/rand rather than the clock.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed draws eight bytes of OS entropy and folds them into an int64
// suitable for rand.NewSource.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("draw seed entropy: %w", err)
	}

	return int64(binary.BigEndian.Uint64(buf[:])), nil
}
