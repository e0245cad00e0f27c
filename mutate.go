package id3

import (
	"github.com/pkg/errors"
)

// NewTag returns a buffer holding an empty tag of the given version.
func NewTag(v Version) []byte {
	return Header{Version: v}.Bytes()
}

type span struct {
	from, to int
}

// locate walks the tag and returns the byte ranges of all frames with
// the given ID. The returned cursor has finished its traversal.
func locate(buf []byte, id FrameID) (*Cursor, []span, error) {
	var spans []span
	c := NewCursor(buf)
	for c.Next() {
		if c.Frame().ID == id {
			spans = append(spans, span{c.Offset(), c.Offset() + c.Frame().Len()})
		}
	}
	if err := c.Err(); err != nil {
		return nil, nil, err
	}
	return c, spans, nil
}

func (h *Header) grow(delta int) error {
	n := int64(h.Size) + int64(delta)
	if n < 0 || n > maxTagSize {
		return errors.Wrapf(ErrValueOutOfRange, "tag size %d", n)
	}
	h.Size = uint32(n)
	return nil
}

// finish writes h into out, syncs the footer and refreshes the CRC
// data, if any.
func finish(h Header, out []byte) error {
	commitHeader(h, out)
	return updateCRC(out)
}

// UpsertFrame writes f into the tag. If a frame with the same ID
// exists, the first one is replaced in place; otherwise f is inserted
// in front of the existing frames. The tag size is adjusted by the
// difference in length.
func UpsertFrame(f Frame, buf []byte) ([]byte, error) {
	if err := f.validate(); err != nil {
		return buf, err
	}

	c, spans, err := locate(buf, f.ID)
	if err != nil {
		return buf, err
	}

	h := c.Header()
	at := span{c.first, c.first}
	if len(spans) > 0 {
		at = spans[0]
		Logging.Println("Replacing frame", f.ID, "at offset", at.from)
	}

	data := f.Bytes()
	if err := h.grow(len(data) - (at.to - at.from)); err != nil {
		return buf, err
	}

	out := splice(buf, at.from, at.to, data)
	if err := finish(h, out); err != nil {
		return buf, err
	}
	return out, nil
}

// InsertFrame is like UpsertFrame but fails with ErrFrameIDConflict
// if the tag already holds a frame with f's ID.
func InsertFrame(f Frame, buf []byte) ([]byte, error) {
	ok, err := ContainsFrameID(f.ID, buf)
	if err != nil {
		return buf, err
	}
	if ok {
		return buf, errors.Wrapf(ErrFrameIDConflict, "frame %s", f.ID)
	}
	return UpsertFrame(f, buf)
}

// RemoveFrames removes all frames with the given ID. It returns buf
// unchanged if there are none.
func RemoveFrames(id FrameID, buf []byte) ([]byte, error) {
	c, spans, err := locate(buf, id)
	if err != nil {
		return buf, err
	}
	if len(spans) == 0 {
		return buf, nil
	}

	h := c.Header()
	parts := make([][]byte, 0, len(spans)+1)
	prev, removed := 0, 0
	for _, s := range spans {
		parts = append(parts, buf[prev:s.from])
		removed += s.to - s.from
		prev = s.to
	}
	parts = append(parts, buf[prev:])

	if err := h.grow(-removed); err != nil {
		return buf, err
	}

	Logging.Println("Removing", len(spans), "frame(s) of type", id)
	out := concat(parts...)
	if err := finish(h, out); err != nil {
		return buf, err
	}
	return out, nil
}

// Pad appends n bytes of padding to the tag, in front of the footer.
func Pad(n int, buf []byte) ([]byte, error) {
	if n < 0 {
		return buf, errors.Wrapf(ErrValueOutOfRange, "padding %d", n)
	}

	h, err := parseBounded(buf)
	if err != nil {
		return buf, err
	}

	end := h.end()
	if err := h.grow(n); err != nil {
		return buf, err
	}
	Logging.Printf("Padding tag with %d bytes at offset %d", n, end)

	out := splice(buf, end, end, make([]byte, n))
	if err := finish(h, out); err != nil {
		return buf, err
	}
	return out, nil
}
