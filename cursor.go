package id3

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Cursor walks the frames of a tag, one at a time. A Cursor is
// created per traversal; to walk a tag again create a new one.
//
//	c := id3.NewCursor(buf)
//	for c.Next() {
//		f := c.Frame()
//		...
//	}
//	if err := c.Err(); err != nil {
//		...
//	}
type Cursor struct {
	buf []byte

	started bool
	done    bool
	err     error

	header   Header
	extended *ExtendedHeader

	// Tag boundary, fixed when the header is read.
	end int
	// Offset of the first frame.
	first int
	pos   int

	frame Frame
	start int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// begin consumes the header and the extended header.
func (c *Cursor) begin() error {
	h, err := parseBounded(c.buf)
	if err != nil {
		return err
	}
	c.header = h
	c.end = h.end()
	c.pos = tagHeaderSize

	if h.Flags.ExtendedHeader() {
		x, err := parseExtendedHeader(c.buf[tagHeaderSize:c.end])
		if err != nil {
			return err
		}
		c.extended = &x
		c.pos += int(x.Size)
	}
	c.first = c.pos

	return nil
}

func (c *Cursor) stop(err error) bool {
	c.done = true
	c.err = err
	return false
}

// Next advances to the next frame. It returns false once padding or
// the end of the tag is reached, or on error.
func (c *Cursor) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		if err := c.begin(); err != nil {
			return c.stop(err)
		}
	}

	rest := c.buf[c.pos:c.end]
	if len(rest) < frameHeaderLength || isPadding(rest) {
		return c.stop(nil)
	}

	var id [4]byte
	copy(id[:], rest)
	if !FrameID(id[:]).Valid() {
		return c.stop(errors.Wrapf(NotAFrameHeader{ID: id}, "offset %d", c.pos))
	}

	size := binary.BigEndian.Uint32(rest[4:8])
	if size < frameFlagsLength {
		return c.stop(errors.Wrapf(ErrInvalidFrameSize, "frame %s at offset %d has size %d", id[:], c.pos, size))
	}

	remaining := len(rest) - frameHeaderLength
	n := uint64(size - frameFlagsLength)
	if n > uint64(remaining) {
		return c.stop(TruncatedFrame{ID: FrameID(id[:]), Size: size, Remaining: remaining})
	}

	c.frame = Frame{
		ID:      FrameID(id[:]),
		Size:    size,
		Flags:   FrameFlags(binary.BigEndian.Uint16(rest[8:10])),
		Content: append([]byte(nil), rest[frameHeaderLength:frameHeaderLength+int(n)]...),
	}
	c.start = c.pos
	c.pos += frameHeaderLength + int(n)

	return true
}

// Frame returns the frame read by the last successful call to Next.
func (c *Cursor) Frame() Frame {
	return c.frame
}

// Offset returns the position of the current frame in the buffer.
func (c *Cursor) Offset() int {
	return c.start
}

// Err returns the error that stopped the traversal, if any. Reaching
// padding or the end of the tag is not an error.
func (c *Cursor) Err() error {
	return c.err
}

// Header returns the tag header. It is only valid after the first
// call to Next.
func (c *Cursor) Header() Header {
	return c.header
}

// ExtendedHeader returns the extended header, if the tag has one.
func (c *Cursor) ExtendedHeader() (ExtendedHeader, bool) {
	if c.extended == nil {
		return ExtendedHeader{}, false
	}
	return *c.extended, true
}

// isPadding reports whether b starts with an all-zero frame ID. This
// also covers longer runs of zero bytes.
func isPadding(b []byte) bool {
	return len(b) >= 4 && b[0] == 0 && b[1] == 0 && b[2] == 0 && b[3] == 0
}

// EnumerateFrames returns all frames of the tag in buf, in order.
func EnumerateFrames(buf []byte) ([]Frame, error) {
	var frames []Frame
	c := NewCursor(buf)
	for c.Next() {
		frames = append(frames, c.Frame())
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

// ContainsFrameID reports whether the tag holds a frame with the
// given ID.
func ContainsFrameID(id FrameID, buf []byte) (bool, error) {
	c := NewCursor(buf)
	for c.Next() {
		if c.Frame().ID == id {
			return true, nil
		}
	}
	return false, c.Err()
}
