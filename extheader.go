package id3

import (
	"github.com/pkg/errors"
)

// ExtendedFlags is the flags byte of the extended header, laid out
// as %0bcd0000.
type ExtendedFlags byte

const (
	ExtUpdate ExtendedFlags = 0x40 >> iota
	ExtCRC
	ExtRestrictions
)

func (f ExtendedFlags) Update() bool       { return f&ExtUpdate != 0 }
func (f ExtendedFlags) CRC() bool          { return f&ExtCRC != 0 }
func (f ExtendedFlags) Restrictions() bool { return f&ExtRestrictions != 0 }

// Restrictions is the raw restrictions byte, %ppqrrstt.
type Restrictions byte

func (r Restrictions) TagSize() byte        { return byte(r) >> 6 }
func (r Restrictions) TextEncoding() bool   { return r&0x20 != 0 }
func (r Restrictions) TextFieldsSize() byte { return byte(r) >> 3 & 0x03 }
func (r Restrictions) ImageEncoding() bool  { return r&0x04 != 0 }
func (r Restrictions) ImageSize() byte      { return byte(r) & 0x03 }

// ExtendedHeader is the optional block between the header and the
// first frame.
type ExtendedHeader struct {
	// Total length of the extended header, including the size field.
	Size         uint32
	NumFlagBytes byte
	Flags        ExtendedFlags
	// Only meaningful if Flags.CRC() is set. The value is ignored when
	// writing: WriteExtendedHeader and Tag.Bytes compute it from the
	// frames, and every later edit keeps it current.
	CRC uint64
	// Only meaningful if Flags.Restrictions() is set.
	Restrictions Restrictions
}

// The fixed part: size, number of flag bytes, flags.
const (
	extendedHeaderBase = sizeWidth + 2
	extendedFlagBytes  = 1
)

type optionalSection struct {
	flag   ExtendedFlags
	length int
}

// Optional sections in the order they appear on the wire. Each one
// starts where the previous present one ended.
var extendedSections = [...]optionalSection{
	{ExtCRC, crcWidth},
	{ExtRestrictions, 1},
}

const (
	sectionCRC = iota
	sectionRestrictions
)

// extendedLayout holds the offset of every optional section relative
// to the start of the extended header, -1 for absent ones.
type extendedLayout struct {
	offsets [len(extendedSections)]int
	length  int
}

func layoutFor(flags ExtendedFlags) extendedLayout {
	l := extendedLayout{length: extendedHeaderBase}
	for i, s := range extendedSections {
		if flags&s.flag == 0 {
			l.offsets[i] = -1
			continue
		}
		l.offsets[i] = l.length
		l.length += s.length
	}
	return l
}

// Len returns the number of bytes x occupies on the wire.
func (x ExtendedHeader) Len() int {
	return layoutFor(x.Flags).length
}

// Bytes serializes x. The size and flag byte count are derived from
// the flags, not taken from x.
func (x ExtendedHeader) Bytes() ([]byte, error) {
	l := layoutFor(x.Flags)
	out := make([]byte, l.length)
	copy(out, synchsafeInt(uint32(l.length)))
	out[4] = extendedFlagBytes
	out[5] = byte(x.Flags)

	if off := l.offsets[sectionCRC]; off >= 0 {
		crc, err := EncodeSynchsafe(x.CRC, crcWidth)
		if err != nil {
			return nil, errors.Wrap(err, "CRC data")
		}
		copy(out[off:], crc)
	}
	if off := l.offsets[sectionRestrictions]; off >= 0 {
		out[off] = byte(x.Restrictions)
	}

	return out, nil
}

// ParseExtendedHeader parses the extended header that follows the
// tag header. It fails with ErrExtendedHeaderAbsent if the header
// doesn't advertise one.
func ParseExtendedHeader(buf []byte) (ExtendedHeader, error) {
	h, err := parseBounded(buf)
	if err != nil {
		return ExtendedHeader{}, err
	}
	if !h.Flags.ExtendedHeader() {
		return ExtendedHeader{}, ErrExtendedHeaderAbsent
	}
	return parseExtendedHeader(buf[tagHeaderSize:h.end()])
}

// parseExtendedHeader parses the extended header at the start of b,
// which must not extend past the tag.
func parseExtendedHeader(b []byte) (ExtendedHeader, error) {
	if len(b) < extendedHeaderBase {
		return ExtendedHeader{}, errors.Wrapf(ErrTruncatedTag, "extended header needs %d bytes, have %d",
			extendedHeaderBase, len(b))
	}

	size, err := desynchsafeInt(b[:sizeWidth])
	if err != nil {
		return ExtendedHeader{}, errors.Wrap(err, "extended header size")
	}

	x := ExtendedHeader{
		Size:         size,
		NumFlagBytes: b[4],
		Flags:        ExtendedFlags(b[5]),
	}
	if x.NumFlagBytes != extendedFlagBytes {
		return ExtendedHeader{}, errors.Wrapf(ErrValueOutOfRange, "extended header has %d flag bytes, want %d",
			x.NumFlagBytes, extendedFlagBytes)
	}

	l := layoutFor(x.Flags)
	if int(size) < l.length || int(size) > len(b) {
		return ExtendedHeader{}, errors.Wrapf(ErrTruncatedTag, "extended header size %d, layout needs %d, tag has %d",
			size, l.length, len(b))
	}

	if off := l.offsets[sectionCRC]; off >= 0 {
		x.CRC, err = DecodeSynchsafe(b[off : off+crcWidth])
		if err != nil {
			return ExtendedHeader{}, errors.Wrap(err, "CRC data")
		}
	}
	if off := l.offsets[sectionRestrictions]; off >= 0 {
		x.Restrictions = Restrictions(b[off])
	}

	return x, nil
}

// WriteExtendedHeader installs x directly after the tag header,
// replacing an existing extended header if there is one. The header
// flag (and the footer, if present) is updated and the tag size grows
// by the difference in length. If x carries CRC data, its value is
// computed from the tag rather than taken from x.
func WriteExtendedHeader(x ExtendedHeader, buf []byte) ([]byte, error) {
	h, err := parseBounded(buf)
	if err != nil {
		return buf, err
	}

	x.CRC = 0
	data, err := x.Bytes()
	if err != nil {
		return buf, err
	}

	var old int
	if h.Flags.ExtendedHeader() {
		prev, err := ParseExtendedHeader(buf)
		if err != nil {
			return buf, err
		}
		old = int(prev.Size)
		Logging.Println("Replacing extended header of", old, "bytes")
	} else {
		Logging.Println("Installing extended header")
	}

	if err := h.grow(len(data) - old); err != nil {
		return buf, err
	}
	h.Flags |= FlagExtendedHeader

	out := splice(buf, tagHeaderSize, tagHeaderSize+old, data)
	if err := finish(h, out); err != nil {
		return buf, err
	}
	return out, nil
}
