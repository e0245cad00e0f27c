package id3

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

type Decoder struct {
	r io.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Check reports whether r starts with an ID3v2 tag, without consuming
// any input.
func Check(r *bufio.Reader) (bool, error) {
	b, err := r.Peek(len(Magic))
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(b, Magic[:]), nil
}

// ReadTag reads exactly one tag, including its footer, and leaves the
// reader positioned at the first byte after it.
func (d *Decoder) ReadTag() ([]byte, error) {
	head := make([]byte, tagHeaderSize)
	if _, err := io.ReadFull(d.r, head); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, errors.Wrap(ErrTruncatedTag, "header")
		}
		return nil, err
	}

	_, flags, size, err := unmarshalHeader(Magic, head)
	if err != nil {
		return nil, err
	}

	n := int(size)
	if flags.Footer() {
		n += footerSize
	}

	buf := make([]byte, tagHeaderSize+n)
	copy(buf, head)
	if _, err := io.ReadFull(d.r, buf[tagHeaderSize:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return nil, errors.Wrapf(ErrTruncatedTag, "tag declares %d bytes", n)
		}
		return nil, err
	}

	return buf, nil
}

// Parse reads and parses one tag.
func (d *Decoder) Parse() (*Tag, error) {
	buf, err := d.ReadTag()
	if err != nil {
		return nil, err
	}
	return ParseTag(buf)
}

// Split separates data into the leading tag, footer included, and
// whatever follows it. If data doesn't start with a tag, tag is nil
// and rest is data.
func Split(data []byte) (tag, rest []byte, err error) {
	h, err := ParseHeader(data)
	if err != nil {
		if errors.Is(err, ErrMissingSignature) {
			return nil, data, nil
		}
		return nil, nil, err
	}

	n := h.TagLength()
	if n > len(data) {
		return nil, nil, errors.Wrapf(ErrTruncatedTag, "tag declares %d bytes, have %d", n, len(data))
	}
	return data[:n:n], data[n:], nil
}
