package objutil

import (
	"strings"

	"github.com/google/uuid"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultIDLength is the RandomID length used when n <= 0.
const DefaultIDLength = 12

// RandomID returns a random lowercase base36 token of length n.
// Entropy comes from the random bytes of version 4 UUIDs.
func RandomID(n int) string {
	if n <= 0 {
		n = DefaultIDLength
	}
	var b strings.Builder
	b.Grow(n)
	for b.Len() < n {
		u := uuid.New()
		for i, c := range u {
			if b.Len() == n {
				break
			}
			// Bytes 6 and 8 carry the version and variant bits.
			if i == 6 || i == 8 {
				continue
			}
			// 252 is the largest multiple of 36 below 256; skip the tail to avoid bias.
			if c >= 252 {
				continue
			}
			b.WriteByte(idAlphabet[int(c)%len(idAlphabet)])
		}
	}
	return b.String()
}

// NewID returns a canonical UUID string.
func NewID() string {
	return uuid.NewString()
}
