package id3

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Every error returned by this package matches exactly
// one of these with errors.Is.
var (
	ErrMissingSignature       = errors.New("id3: missing signature")
	ErrExtendedHeaderAbsent   = errors.New("id3: no extended header")
	ErrFooterAbsent           = errors.New("id3: no footer")
	ErrMalformedSynchsafeByte = errors.New("id3: malformed synchsafe byte")
	ErrValueOutOfRange        = errors.New("id3: value out of range")
	ErrTruncatedFrame         = errors.New("id3: truncated frame")
	ErrTruncatedTag           = errors.New("id3: truncated tag")
	ErrInvalidFrameID         = errors.New("id3: invalid frame ID")
	ErrInvalidFrameSize       = errors.New("id3: invalid frame size")
	ErrFrameIDConflict        = errors.New("id3: frame ID already present")
	ErrLayoutFlagMismatch     = errors.New("id3: header flags disagree with the tag layout")
)

// NotASignature is returned when a header or footer doesn't start
// with its magic bytes.
type NotASignature struct {
	Want string
	Got  [3]byte
}

func (err NotASignature) Error() string {
	return fmt.Sprintf("id3: expected signature %q, got %q", err.Want, err.Got[:])
}

func (err NotASignature) Is(target error) bool { return target == ErrMissingSignature }

// MalformedSynchsafe reports a byte of a synchsafe integer that has
// its most significant bit set.
type MalformedSynchsafe struct {
	Index int
	Byte  byte
}

func (err MalformedSynchsafe) Error() string {
	return fmt.Sprintf("id3: synchsafe byte %d is 0x%02x, top bit must be clear", err.Index, err.Byte)
}

func (err MalformedSynchsafe) Is(target error) bool { return target == ErrMalformedSynchsafeByte }

// TruncatedFrame is returned when a frame declares more content
// than the tag has left.
type TruncatedFrame struct {
	ID        FrameID
	Size      uint32
	Remaining int
}

func (err TruncatedFrame) Error() string {
	return fmt.Sprintf("id3: frame %s declares %d content bytes, only %d remain",
		err.ID, err.Size-frameFlagsLength, err.Remaining)
}

func (err TruncatedFrame) Is(target error) bool { return target == ErrTruncatedFrame }

type NotAFrameHeader struct {
	ID [4]byte
}

func (err NotAFrameHeader) Error() string {
	return fmt.Sprintf("id3: not a frame header (ID = %q)", err.ID[:])
}

func (err NotAFrameHeader) Is(target error) bool { return target == ErrInvalidFrameID }
