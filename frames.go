package id3

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// FrameID is the four character identifier of a frame, e.g. "TIT2".
type FrameID string

// Name returns the descriptive name of well-known frames, and the ID
// itself otherwise.
func (id FrameID) Name() string {
	v, ok := FrameNames[id]
	if ok {
		return v
	}

	return string(id)
}

func validIDByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Valid reports whether id consists of exactly four upper case
// letters or digits.
func (id FrameID) Valid() bool {
	if len(id) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if !validIDByte(id[i]) {
			return false
		}
	}
	return true
}

// Frame is a single frame, independent of the buffer it was read
// from.
type Frame struct {
	ID FrameID
	// Size counts the flags and the content, but not the ID and size
	// fields.
	Size    uint32
	Flags   FrameFlags
	Content []byte
}

// MakeFrame returns a frame holding a copy of content.
func MakeFrame(id FrameID, content []byte, flags FrameFlags) Frame {
	return Frame{
		ID:      id,
		Size:    uint32(frameFlagsLength + len(content)),
		Flags:   flags,
		Content: append([]byte(nil), content...),
	}
}

// Len returns the number of bytes f occupies on the wire.
func (f Frame) Len() int {
	return frameHeaderLength + len(f.Content)
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%d bytes, flags %04x)", f.ID, len(f.Content), uint16(f.Flags))
}

func (f Frame) validate() error {
	if !f.ID.Valid() {
		var id [4]byte
		copy(id[:], f.ID)
		return NotAFrameHeader{ID: id}
	}
	if int64(f.Size) != int64(frameFlagsLength+len(f.Content)) {
		return errors.Wrapf(ErrInvalidFrameSize, "frame %s has size %d but %d content bytes", f.ID, f.Size, len(f.Content))
	}
	if f.Len() > maxTagSize {
		return errors.Wrapf(ErrValueOutOfRange, "frame %s is %d bytes long", f.ID, f.Len())
	}
	return nil
}

// Bytes serializes f: ID, big-endian size, flags, content.
func (f Frame) Bytes() []byte {
	out := make([]byte, f.Len())
	copy(out, f.ID)
	binary.BigEndian.PutUint32(out[4:], f.Size)
	binary.BigEndian.PutUint16(out[8:], uint16(f.Flags))
	copy(out[frameHeaderLength:], f.Content)
	return out
}

var FrameNames = map[FrameID]string{
	"AENC": "Audio encryption",
	"APIC": "Attached picture",
	"ASPI": "Audio seek point index",
	"COMM": "Comments",
	"COMR": "Commercial frame",

	"ENCR": "Encryption method registration",
	"EQU2": "Equalisation (2)",
	"ETCO": "Event timing codes",

	"GEOB": "General encapsulated object",
	"GRID": "Group identification registration",

	"LINK": "Linked information",

	"MCDI": "Music CD identifier",
	"MLLT": "MPEG location lookup table",

	"OWNE": "Ownership frame",

	"PRIV": "Private frame",
	"PCNT": "Play counter",
	"POPM": "Popularimeter",
	"POSS": "Position synchronisation frame",

	"RBUF": "Recommended buffer size",
	"RVA2": "Relative volume adjustment (2)",
	"RVRB": "Reverb",

	"SEEK": "Seek frame",
	"SIGN": "Signature frame",
	"SYLT": "Synchronised lyric/text",
	"SYTC": "Synchronised tempo codes",

	"TALB": "Album/Movie/Show title",
	"TBPM": "BPM (beats per minute)",
	"TCOM": "Composer",
	"TCON": "Content type",
	"TCOP": "Copyright message",
	"TDEN": "Encoding time",
	"TDLY": "Playlist delay",
	"TDOR": "Original release time",
	"TDRC": "Recording time",
	"TDRL": "Release time",
	"TDTG": "Tagging time",
	"TENC": "Encoded by",
	"TEXT": "Lyricist/Text writer",
	"TFLT": "File type",
	"TIPL": "Involved people list",
	"TIT1": "Content group description",
	"TIT2": "Title/songname/content description",
	"TIT3": "Subtitle/Description refinement",
	"TKEY": "Initial key",
	"TLAN": "Language(s)",
	"TLEN": "Length",
	"TMCL": "Musician credits list",
	"TMED": "Media type",
	"TMOO": "Mood",
	"TOAL": "Original album/movie/show title",
	"TOFN": "Original filename",
	"TOLY": "Original lyricist(s)/text writer(s)",
	"TORY": "Original release year",
	"TOPE": "Original artist(s)/performer(s)",
	"TOWN": "File owner/licensee",
	"TPE1": "Lead performer(s)/Soloist(s)",
	"TPE2": "Band/orchestra/accompaniment",
	"TPE3": "Conductor/performer refinement",
	"TPE4": "Interpreted, remixed, or otherwise modified by",
	"TPOS": "Part of a set",
	"TPRO": "Produced notice",
	"TPUB": "Publisher",
	"TRCK": "Track number/Position in set",
	"TRSN": "Internet radio station name",
	"TRSO": "Internet radio station owner",
	"TSOA": "Album sort order",
	"TSOP": "Performer sort order",
	"TSOT": "Title sort order",
	"TSO2": "Album Artist sort order", // iTunes extension
	"TSOC": "Composer sort order",      // iTunes extension
	"TSRC": "ISRC (international standard recording code)",
	"TSSE": "Software/Hardware and settings used for encoding",
	"TSST": "Set subtitle",
	"TYER": "Year",
	"TXXX": "User defined text information frame",

	"UFID": "Unique file identifier",
	"USER": "Terms of use",
	"USLT": "Unsynchronised lyric/text transcription",

	"WCOM": "Commercial information",
	"WCOP": "Copyright/Legal information",
	"WOAF": "Official audio file webpage",
	"WOAR": "Official artist/performer webpage",
	"WOAS": "Official audio source webpage",
	"WORS": "Official Internet radio station homepage",
	"WPAY": "Payment",
	"WPUB": "Publishers official webpage",
	"WXXX": "User defined URL link frame",
}
