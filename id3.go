package id3

import (
	"fmt"
	"log"
	"strings"
)

// Enables logging if set to true.
var Logging LogFlag

type LogFlag bool

func (l LogFlag) Println(args ...interface{}) {
	if l {
		log.Println(args...)
	}
}

func (l LogFlag) Printf(format string, args ...interface{}) {
	if l {
		log.Printf(format, args...)
	}
}

var (
	Magic       = [3]byte{'I', 'D', '3'}
	FooterMagic = [3]byte{'3', 'D', 'I'}
)

const (
	tagHeaderSize     = 10
	footerSize        = 10
	frameHeaderLength = 10
	frameFlagsLength  = 2

	// maxTagSize is the largest size a 4 byte synchsafe field can hold.
	maxTagSize = 1<<28 - 1
)

// Version holds the major version in the high byte and the revision
// in the low byte, e.g. 0x0400 for ID3v2.4.0.
type Version uint16

const (
	Version23 Version = 0x0300
	Version24 Version = 0x0400
)

func NewVersion(major, revision byte) Version {
	return Version(uint16(major)<<8 | uint16(revision))
}

func (v Version) Major() byte    { return byte(v >> 8) }
func (v Version) Revision() byte { return byte(v) }

func (v Version) String() string {
	return fmt.Sprintf("ID3v2.%d.%d", v.Major(), v.Revision())
}

// HeaderFlags is the flags byte shared by header and footer, laid
// out as %abcd0000.
type HeaderFlags byte

const (
	FlagUnsynchronisation HeaderFlags = 1 << (7 - iota)
	FlagExtendedHeader
	FlagExperimental
	FlagFooter
)

func (f HeaderFlags) Unsynchronisation() bool {
	return f&FlagUnsynchronisation != 0
}

func (f HeaderFlags) ExtendedHeader() bool {
	return f&FlagExtendedHeader != 0
}

func (f HeaderFlags) Experimental() bool {
	return f&FlagExperimental != 0
}

func (f HeaderFlags) Footer() bool {
	return f&FlagFooter != 0
}

func (f HeaderFlags) UndefinedSet() bool {
	return f&0x0f != 0
}

func (f HeaderFlags) String() string {
	var s []byte
	for i, c := range "uxef" {
		if f&(0x80>>uint(i)) != 0 {
			s = append(s, byte(c))
		} else {
			s = append(s, '-')
		}
	}
	return string(s)
}

// FrameFlags are the two status/format bytes of a frame header. This
// package carries them through unchanged.
type FrameFlags uint16

func (f FrameFlags) PreserveTagAlteration() bool {
	return (f & 0x4000) == 0
}

func (f FrameFlags) PreserveFileAlteration() bool {
	return (f & 0x2000) == 0
}

func (f FrameFlags) ReadOnly() bool {
	return (f & 0x1000) > 0
}

func (f FrameFlags) Grouped() bool {
	return (f & 0x40) > 0
}

func (f FrameFlags) Compressed() bool {
	return (f & 0x08) > 0
}

func (f FrameFlags) Encrypted() bool {
	return (f & 0x04) > 0
}

// String lists the set status and format flags, e.g.
// "discard-on-tag-alteration,read-only", or "-" if there are none.
func (f FrameFlags) String() string {
	var s []string
	if !f.PreserveTagAlteration() {
		s = append(s, "discard-on-tag-alteration")
	}
	if !f.PreserveFileAlteration() {
		s = append(s, "discard-on-file-alteration")
	}
	if f.ReadOnly() {
		s = append(s, "read-only")
	}
	if f.Grouped() {
		s = append(s, "grouped")
	}
	if f.Compressed() {
		s = append(s, "compressed")
	}
	if f.Encrypted() {
		s = append(s, "encrypted")
	}
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}

func concat(bs ...[]byte) []byte {
	n := 0
	for _, b := range bs {
		n += len(b)
	}
	out := make([]byte, 0, n)
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}

// splice returns a new buffer with buf[from:to] replaced by data.
// buf itself is never modified.
func splice(buf []byte, from, to int, data []byte) []byte {
	return concat(buf[:from], data, buf[to:])
}
