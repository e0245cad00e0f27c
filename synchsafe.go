package id3

import (
	"github.com/pkg/errors"
)

// maxSynchsafeWidth is the widest synchsafe integer that still fits
// into a uint64 (9 * 7 = 63 bits).
const maxSynchsafeWidth = 9

// Widths of the synchsafe fields used by the tag.
const (
	sizeWidth = 4
	crcWidth  = 5
)

// DecodeSynchsafe interprets b as a big-endian base-128 number, one
// digit per byte. Bytes with the top bit set are rejected.
func DecodeSynchsafe(b []byte) (uint64, error) {
	if len(b) > maxSynchsafeWidth {
		return 0, errors.Wrapf(ErrValueOutOfRange, "synchsafe width %d", len(b))
	}

	var v uint64
	for i, c := range b {
		if c&0x80 != 0 {
			return 0, MalformedSynchsafe{Index: i, Byte: c}
		}
		v = v<<7 | uint64(c)
	}

	return v, nil
}

// EncodeSynchsafe encodes v into n bytes with 7 usable bits each. It
// fails if v needs more than 7*n bits.
func EncodeSynchsafe(v uint64, n int) ([]byte, error) {
	if n <= 0 || n > maxSynchsafeWidth {
		return nil, errors.Wrapf(ErrValueOutOfRange, "synchsafe width %d", n)
	}
	if v>>(7*uint(n)) != 0 {
		return nil, errors.Wrapf(ErrValueOutOfRange, "%d does not fit into %d synchsafe bytes", v, n)
	}

	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		b[i] = byte(v & 0x7f)
		v >>= 7
	}

	return b, nil
}

func desynchsafeInt(b []byte) (uint32, error) {
	v, err := DecodeSynchsafe(b)
	return uint32(v), err
}

func synchsafeInt(i uint32) []byte {
	// Callers check against maxTagSize first.
	b, err := EncodeSynchsafe(uint64(i), sizeWidth)
	if err != nil {
		panic(err)
	}
	return b
}
