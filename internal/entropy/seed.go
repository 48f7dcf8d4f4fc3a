// Package entropy derives seeds for simulations that were not given one
// explicitly. Seeded runs never touch this package, keeping reproducible
// experiments fully deterministic.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// Seed returns a fresh random seed from crypto/rand, falling back to the
// wall clock if the system source fails.
func Seed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(buf[:])
}
