// Package frametext converts frame contents to and from display text.
package frametext

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"honnef.co/go/id3"
)

// Text encodings as stored in the first byte of text frames.
const (
	iso88591 = 0
	utf16bom = 1
	utf16be  = 2
	utf8     = 3
)

func decoderFor(enc byte) *encoding.Decoder {
	switch enc {
	case iso88591:
		return charmap.ISO8859_1.NewDecoder()
	case utf16bom:
		// ID3v2 allows UTF-16 with a BOM or as Big Endian, so without
		// a BOM it has to be Big Endian.
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case utf16be:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case utf8:
		return unicode.UTF8.NewDecoder()
	default:
		return nil
	}
}

// Decode converts the content of a text frame to UTF-8. Multiple
// values, separated by null characters, are joined with ", ".
func Decode(content []byte) (string, error) {
	if len(content) == 0 {
		return "", nil
	}

	dec := decoderFor(content[0])
	if dec == nil {
		return "", fmt.Errorf("unknown text encoding %d", content[0])
	}

	out, err := dec.Bytes(content[1:])
	if err != nil {
		return "", err
	}
	out = bytes.TrimRight(out, "\x00")
	return strings.Join(strings.Split(string(out), "\x00"), ", "), nil
}

// Encode returns the content of a UTF-8 text frame holding the given
// values.
func Encode(values ...string) []byte {
	return append([]byte{utf8}, strings.Join(values, "\x00")...)
}

// Value renders f for display. Text and URL frames are decoded, other
// frames are summarized by their length.
func Value(f id3.Frame) string {
	switch {
	case f.ID[0] == 'T' && f.ID != "TXXX":
		s, err := Decode(f.Content)
		if err != nil {
			return fmt.Sprintf("<%v>", err)
		}
		return s
	case f.ID[0] == 'W' && f.ID != "WXXX":
		s, err := charmap.ISO8859_1.NewDecoder().String(string(f.Content))
		if err != nil {
			return fmt.Sprintf("<%v>", err)
		}
		return strings.TrimRight(s, "\x00")
	default:
		return fmt.Sprintf("<%d bytes>", len(f.Content))
	}
}
