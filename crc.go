package id3

import (
	"hash/crc32"

	"github.com/pkg/errors"
)

// frameData returns the part of the tag the CRC is computed over:
// everything after the extended header up to the end of the tag.
func frameData(buf []byte) ([]byte, *ExtendedHeader, error) {
	h, err := parseBounded(buf)
	if err != nil {
		return nil, nil, err
	}
	if !h.Flags.ExtendedHeader() {
		return buf[tagHeaderSize:h.end()], nil, nil
	}

	x, err := parseExtendedHeader(buf[tagHeaderSize:h.end()])
	if err != nil {
		return nil, nil, err
	}
	return buf[tagHeaderSize+int(x.Size) : h.end()], &x, nil
}

// ComputeCRC returns the CRC-32 of the frames and padding of the tag.
func ComputeCRC(buf []byte) (uint32, error) {
	data, _, err := frameData(buf)
	if err != nil {
		return 0, err
	}
	return crc32.ChecksumIEEE(data), nil
}

// VerifyCRC compares the CRC data of the extended header with the
// tag's contents.
func VerifyCRC(buf []byte) (bool, error) {
	data, x, err := frameData(buf)
	if err != nil {
		return false, err
	}
	if x == nil || !x.Flags.CRC() {
		return false, errors.Wrap(ErrExtendedHeaderAbsent, "no CRC data")
	}
	return x.CRC == uint64(crc32.ChecksumIEEE(data)), nil
}

// updateCRC recomputes the CRC data in place. Tags without CRC data
// are left alone.
func updateCRC(buf []byte) error {
	data, x, err := frameData(buf)
	if err != nil {
		return err
	}
	if x == nil || !x.Flags.CRC() {
		return nil
	}

	crc, err := EncodeSynchsafe(uint64(crc32.ChecksumIEEE(data)), crcWidth)
	if err != nil {
		return err
	}
	off := tagHeaderSize + layoutFor(x.Flags).offsets[sectionCRC]
	copy(buf[off:], crc)
	return nil
}
