package id3

import (
	"github.com/pkg/errors"
)

// Tag is a fully parsed tag. It shares no memory with the buffer it
// was parsed from.
type Tag struct {
	Header   Header
	Extended *ExtendedHeader
	Footer   *Footer
	Frames   []Frame
	// Number of bytes between the last frame and the end of the tag.
	// Bytes writes them as zeros, even if the parsed tag held a stray
	// tail too short to be a frame.
	Padding int
}

// ParseTag parses the header, extended header, frames and footer of
// the tag at the start of buf.
func ParseTag(buf []byte) (*Tag, error) {
	t := &Tag{}
	c := NewCursor(buf)
	end := 0
	for c.Next() {
		t.Frames = append(t.Frames, c.Frame())
		end = c.Offset() + c.Frame().Len()
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	t.Header = c.Header()
	if x, ok := c.ExtendedHeader(); ok {
		t.Extended = &x
	}
	if end == 0 {
		end = c.first
	}
	t.Padding = t.Header.end() - end

	if t.Header.Flags.Footer() {
		f, err := ParseFooter(buf)
		if err != nil {
			return nil, err
		}
		t.Footer = &f
	}

	return t, nil
}

// HasFrame reports whether t holds a frame with the given ID.
func (t *Tag) HasFrame(id FrameID) bool {
	for _, f := range t.Frames {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Bytes serializes t. Header size and flags are derived from the
// contents, and the footer, if any, mirrors the resulting header.
// Padding is always written as zero bytes.
func (t *Tag) Bytes() ([]byte, error) {
	if t.Padding < 0 {
		return nil, errors.Wrapf(ErrValueOutOfRange, "padding %d", t.Padding)
	}

	h := t.Header
	h.Flags &^= FlagExtendedHeader | FlagFooter
	parts := [][]byte{nil}

	if t.Extended != nil {
		x := *t.Extended
		x.CRC = 0
		data, err := x.Bytes()
		if err != nil {
			return nil, err
		}
		h.Flags |= FlagExtendedHeader
		parts = append(parts, data)
	}

	for _, f := range t.Frames {
		if err := f.validate(); err != nil {
			return nil, err
		}
		parts = append(parts, f.Bytes())
	}
	parts = append(parts, make([]byte, t.Padding))

	size := 0
	for _, p := range parts {
		size += len(p)
	}
	h.Size = 0
	if err := h.grow(size); err != nil {
		return nil, err
	}

	if t.Footer != nil {
		h.Flags |= FlagFooter
		parts = append(parts, FooterFromHeader(h).Bytes())
	}
	parts[0] = h.Bytes()

	buf := concat(parts...)
	if err := updateCRC(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
