package id3

import (
	"bytes"

	"github.com/pkg/errors"
)

// Header is the fixed 10 byte block at the start of every tag.
type Header struct {
	Version Version
	Flags   HeaderFlags
	// The size of the tag, excluding the header and the footer.
	Size uint32
}

// Footer mirrors the header at the end of the tag, with "3DI" as
// its signature.
type Footer struct {
	Version Version
	Flags   HeaderFlags
	Size    uint32
}

// TagLength returns the number of bytes the complete tag occupies,
// including header and footer.
func (h Header) TagLength() int {
	n := tagHeaderSize + int(h.Size)
	if h.Flags.Footer() {
		n += footerSize
	}
	return n
}

func (h Header) end() int {
	return tagHeaderSize + int(h.Size)
}

func (h Header) validate() error {
	if h.Size > maxTagSize {
		return errors.Wrapf(ErrValueOutOfRange, "tag size %d", h.Size)
	}
	return nil
}

// Bytes returns the 10 byte representation of h.
func (h Header) Bytes() []byte {
	return marshalHeader(Magic, h.Version, h.Flags, h.Size)
}

func (f Footer) Bytes() []byte {
	return marshalHeader(FooterMagic, f.Version, f.Flags, f.Size)
}

func marshalHeader(magic [3]byte, v Version, flags HeaderFlags, size uint32) []byte {
	return concat(magic[:], []byte{v.Major(), v.Revision(), byte(flags)}, synchsafeInt(size))
}

func unmarshalHeader(magic [3]byte, b []byte) (v Version, flags HeaderFlags, size uint32, err error) {
	var got [3]byte
	n := copy(got[:], b)
	if n == 0 || !bytes.Equal(got[:n], magic[:n]) {
		return 0, 0, 0, NotASignature{Want: string(magic[:]), Got: got}
	}
	if len(b) < tagHeaderSize {
		return 0, 0, 0, errors.Wrapf(ErrTruncatedTag, "need %d header bytes, have %d", tagHeaderSize, len(b))
	}

	size, err = desynchsafeInt(b[6:10])
	if err != nil {
		return 0, 0, 0, errors.Wrap(err, "tag size")
	}

	return NewVersion(b[3], b[4]), HeaderFlags(b[5]), size, nil
}

// ParseHeader parses the tag header at the start of buf. Only the
// first 10 bytes are looked at; the declared size isn't checked
// against the length of buf.
func ParseHeader(buf []byte) (Header, error) {
	v, flags, size, err := unmarshalHeader(Magic, buf)
	if err != nil {
		return Header{}, err
	}
	return Header{Version: v, Flags: flags, Size: size}, nil
}

// parseBounded is like ParseHeader, but also makes sure that buf holds
// as many bytes as the header declares.
func parseBounded(buf []byte) (Header, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Header{}, err
	}
	if int(h.Size) > len(buf)-tagHeaderSize {
		return Header{}, errors.Wrapf(ErrTruncatedTag, "tag size %d exceeds the %d bytes available",
			h.Size, len(buf)-tagHeaderSize)
	}
	return h, nil
}

// layoutFlags are the header flags that describe sections present in
// the buffer. They are changed by WriteExtendedHeader and WriteFooter.
const layoutFlags = FlagExtendedHeader | FlagFooter

// WriteHeader overwrites the first 10 bytes of buf with h and refreshes
// the footer, if there is one. Writing the same header twice leaves buf
// unchanged. A buffer shorter than a header is replaced by one that
// holds only the header.
//
// The extended header and footer flags of h must match the sections the
// tag holds; use WriteExtendedHeader and WriteFooter to add them.
func WriteHeader(h Header, buf []byte) ([]byte, error) {
	if err := h.validate(); err != nil {
		return buf, err
	}

	if len(buf) < tagHeaderSize {
		if h.Size != 0 {
			return buf, errors.Wrapf(ErrTruncatedTag, "tag size %d in an empty buffer", h.Size)
		}
		if h.Flags&layoutFlags != 0 {
			return buf, errors.Wrapf(ErrLayoutFlagMismatch, "flags %s in an empty buffer", h.Flags)
		}
		return h.Bytes(), nil
	}

	if int(h.Size) > len(buf)-tagHeaderSize {
		return buf, errors.Wrapf(ErrTruncatedTag, "tag size %d exceeds the %d bytes available",
			h.Size, len(buf)-tagHeaderSize)
	}

	var held HeaderFlags
	if cur, err := ParseHeader(buf); err == nil {
		held = cur.Flags & layoutFlags
	}
	if h.Flags&layoutFlags != held {
		return buf, errors.Wrapf(ErrLayoutFlagMismatch, "flags %s, tag holds %s", h.Flags&layoutFlags, held)
	}

	if h.Flags.ExtendedHeader() {
		if _, err := parseExtendedHeader(buf[tagHeaderSize:h.end()]); err != nil {
			return buf, err
		}
	}
	if h.Flags.Footer() && !hasFooterAt(buf, h.end()) {
		return buf, errors.Wrapf(ErrLayoutFlagMismatch, "no footer at offset %d", h.end())
	}

	commitHeader(h, buf)
	return buf, nil
}

// FooterFromHeader returns the footer that mirrors h.
func FooterFromHeader(h Header) Footer {
	return Footer{
		Version: h.Version,
		Flags:   h.Flags,
		Size:    h.Size,
	}
}

// ParseFooter parses the footer that follows the tag's declared size.
func ParseFooter(buf []byte) (Footer, error) {
	h, err := parseBounded(buf)
	if err != nil {
		return Footer{}, err
	}
	if !h.Flags.Footer() {
		return Footer{}, ErrFooterAbsent
	}

	v, flags, size, err := unmarshalHeader(FooterMagic, buf[h.end():])
	if err != nil {
		return Footer{}, errors.Wrap(err, "footer")
	}

	return Footer{Version: v, Flags: flags, Size: size}, nil
}

// hasFooterAt reports whether buf holds footer bytes at offset off.
func hasFooterAt(buf []byte, off int) bool {
	if off < 0 || len(buf)-off < footerSize {
		return false
	}
	return buf[off] == FooterMagic[0] && buf[off+1] == FooterMagic[1] && buf[off+2] == FooterMagic[2]
}

// WriteFooter installs a footer at the end of the tag. If the header
// doesn't advertise a footer yet, its flag is set and the header is
// rewritten first. The bytes written are always derived from the
// final header, so a footer obtained from FooterFromHeader before the
// call still ends up consistent. An existing footer is replaced, never
// duplicated.
func WriteFooter(f Footer, buf []byte) ([]byte, error) {
	h, err := parseBounded(buf)
	if err != nil {
		return buf, err
	}

	end := h.end()
	present := h.Flags.Footer() && hasFooterAt(buf, end)

	h.Flags |= FlagFooter
	footer := FooterFromHeader(h).Bytes()

	var out []byte
	if present {
		out = concat(buf)
		copy(out[end:], footer)
	} else {
		Logging.Println("Installing footer at offset", end)
		out = splice(buf, end, end, footer)
	}
	copy(out, h.Bytes())

	return out, nil
}

// commitHeader writes h to buf and refreshes the footer, if there is
// one, so that both stay in sync.
func commitHeader(h Header, buf []byte) {
	copy(buf, h.Bytes())
	if h.Flags.Footer() && hasFooterAt(buf, h.end()) {
		copy(buf[h.end():], FooterFromHeader(h).Bytes())
	}
}
