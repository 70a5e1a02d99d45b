// Package secret issues the per-booking door credential.
package secret

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	"meeting-room-booking/internal/pkg/errs"
)

// ByteLength is the amount of randomness behind each credential; the
// encoded form is twice as long.
const ByteLength = 4

type Generator interface {
	Generate() (string, error)
}

type RandomGenerator struct {
	reader io.Reader
}

func NewRandomGenerator() Generator {
	return &RandomGenerator{reader: rand.Reader}
}

// NewGeneratorFromReader is used by tests to make output deterministic.
func NewGeneratorFromReader(r io.Reader) *RandomGenerator {
	return &RandomGenerator{reader: r}
}

// Generate returns 8 upper-case hex characters. Values are not unique across
// bookings; a secret is only ever checked together with its booking id.
func (g *RandomGenerator) Generate() (string, error) {
	buf := make([]byte, ByteLength)
	if _, err := io.ReadFull(g.reader, buf); err != nil {
		return "", errs.Wrap(err, "failed to read random bytes for booking secret")
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
