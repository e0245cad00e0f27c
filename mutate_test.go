package id3

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func frameIDs(frames []Frame) []FrameID {
	ids := make([]FrameID, len(frames))
	for i, f := range frames {
		ids[i] = f.ID
	}
	return ids
}

func sameIDs(a, b []FrameID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMakeFrame(t *testing.T) {
	content := []byte("\x03Title")
	f := MakeFrame("TIT2", content, 0x0040)
	if f.Size != uint32(2+len(content)) {
		t.Errorf("Expected size %d, got %d", 2+len(content), f.Size)
	}
	if f.Len() != 10+len(content) {
		t.Errorf("Expected on-wire length %d, got %d", 10+len(content), f.Len())
	}

	content[0] = 0
	if f.Content[0] != 3 {
		t.Errorf("MakeFrame didn't copy its content")
	}

	want := []byte{'T', 'I', 'T', '2', 0, 0, 0, 8, 0x00, 0x40, 3, 'T', 'i', 't', 'l', 'e'}
	if !bytes.Equal(f.Bytes(), want) {
		t.Errorf("Expected: %v - Got: %v", want, f.Bytes())
	}
}

func TestUpsertFrameIdempotent(t *testing.T) {
	for _, withExt := range []bool{false, true} {
		buf := NewTag(Version24)
		extLen := 0
		if withExt {
			var err error
			buf, err = WriteExtendedHeader(ExtendedHeader{Flags: ExtRestrictions}, buf)
			if err != nil {
				t.Fatal(err)
			}
			extLen = 7
		}

		other := MakeFrame("TALB", []byte("\x03Album"), 0)
		f := MakeFrame("TIT2", []byte("\x03Title"), 0)

		var err error
		if buf, err = UpsertFrame(other, buf); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			if buf, err = UpsertFrame(f, buf); err != nil {
				t.Fatal(err)
			}
		}

		frames := checkConsistent(t, buf)
		n := 0
		for _, fr := range frames {
			if fr.ID == "TIT2" {
				n++
			}
		}
		if n != 1 {
			t.Errorf("Expected exactly one TIT2 frame, got %d", n)
		}

		h, _ := ParseHeader(buf)
		want := uint32(extLen + f.Len() + other.Len())
		if h.Size != want {
			t.Errorf("Expected size %d, got %d", want, h.Size)
		}
	}
}

func TestUpsertFrameReplacesInPlace(t *testing.T) {
	buf := makeTag(0, frameBytes("TIT2", "a"), frameBytes("TALB", "b"), frameBytes("TPE1", "c"))
	h, _ := ParseHeader(buf)

	f := MakeFrame("TALB", []byte("a much longer album"), 0)
	out, err := UpsertFrame(f, buf)
	if err != nil {
		t.Fatal(err)
	}

	frames := checkConsistent(t, out)
	if ids := frameIDs(frames); !sameIDs(ids, []FrameID{"TIT2", "TALB", "TPE1"}) {
		t.Errorf("Unexpected frame order %v", ids)
	}
	if string(frames[1].Content) != "a much longer album" {
		t.Errorf("Frame wasn't replaced: %q", frames[1].Content)
	}

	nh, _ := ParseHeader(out)
	if delta := int(nh.Size) - int(h.Size); delta != len("a much longer album")-1 {
		t.Errorf("Size grew by %d", delta)
	}

	// And shrink it again.
	out, err = UpsertFrame(MakeFrame("TALB", nil, 0), out)
	if err != nil {
		t.Fatal(err)
	}
	frames = checkConsistent(t, out)
	if len(frames[1].Content) != 0 {
		t.Errorf("Expected empty content, got %q", frames[1].Content)
	}
}

func TestUpsertFrameInsertsAfterExtendedHeader(t *testing.T) {
	buf := makeTag(FlagExtendedHeader, []byte{0, 0, 0, 6, 1, 0}, frameBytes("TIT2", "a"))

	out, err := UpsertFrame(MakeFrame("TPE1", []byte("b"), 0), buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(out[16:20]) != "TPE1" {
		t.Errorf("Expected the new frame at offset 16, got %q", out[16:20])
	}
	frames := checkConsistent(t, out)
	if ids := frameIDs(frames); !sameIDs(ids, []FrameID{"TPE1", "TIT2"}) {
		t.Errorf("Unexpected frame order %v", ids)
	}
	if _, err := ParseExtendedHeader(out); err != nil {
		t.Errorf("Extended header got damaged: %s", err)
	}
}

func TestUpsertFrameKeepsFooterInSync(t *testing.T) {
	buf := makeTag(0, frameBytes("TIT2", "a"))
	buf, err := WriteFooter(Footer{}, buf)
	if err != nil {
		t.Fatal(err)
	}

	buf, err = UpsertFrame(MakeFrame("TALB", []byte("album"), 0), buf)
	if err != nil {
		t.Fatal(err)
	}
	checkConsistent(t, buf)

	buf, err = RemoveFrames("TIT2", buf)
	if err != nil {
		t.Fatal(err)
	}
	frames := checkConsistent(t, buf)
	if len(frames) != 1 || frames[0].ID != "TALB" {
		t.Errorf("Expected only TALB, got %v", frameIDs(frames))
	}
}

func TestMutationsFailAtomically(t *testing.T) {
	good := makeTag(0, frameBytes("TIT2", "a"))
	broken := makeTag(0, frameBytes("TIT2", "a"), []byte("tit2\x00\x00\x00\x02\x00\x00"))

	tests := []struct {
		name string
		buf  []byte
		fn   func([]byte) ([]byte, error)
		err  error
	}{
		{"invalid ID", good, func(b []byte) ([]byte, error) {
			return UpsertFrame(MakeFrame("ti", nil, 0), b)
		}, ErrInvalidFrameID},
		{"inconsistent size", good, func(b []byte) ([]byte, error) {
			return UpsertFrame(Frame{ID: "TIT2", Size: 40, Content: []byte("x")}, b)
		}, ErrInvalidFrameSize},
		{"broken frame", broken, func(b []byte) ([]byte, error) {
			return UpsertFrame(MakeFrame("TALB", nil, 0), b)
		}, ErrInvalidFrameID},
		{"remove from broken", broken, func(b []byte) ([]byte, error) {
			return RemoveFrames("TIT2", b)
		}, ErrInvalidFrameID},
		{"negative padding", good, func(b []byte) ([]byte, error) {
			return Pad(-1, b)
		}, ErrValueOutOfRange},
		{"truncated tag", good[:12], func(b []byte) ([]byte, error) {
			return WriteExtendedHeader(ExtendedHeader{}, b)
		}, ErrTruncatedTag},
		{"conflict", good, func(b []byte) ([]byte, error) {
			return InsertFrame(MakeFrame("TIT2", []byte("b"), 0), b)
		}, ErrFrameIDConflict},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			orig := clone(test.buf)
			out, err := test.fn(test.buf)
			if !errors.Is(err, test.err) {
				t.Fatalf("Expected %v, got %v", test.err, err)
			}
			if !bytes.Equal(test.buf, orig) || !bytes.Equal(out, orig) {
				t.Errorf("Failed mutation changed the buffer")
			}
		})
	}
}

func TestInsertFrame(t *testing.T) {
	buf := makeTag(0, frameBytes("TIT2", "a"))
	out, err := InsertFrame(MakeFrame("TALB", []byte("b"), 0), buf)
	if err != nil {
		t.Fatal(err)
	}
	frames := checkConsistent(t, out)
	if ids := frameIDs(frames); !sameIDs(ids, []FrameID{"TALB", "TIT2"}) {
		t.Errorf("Unexpected frames %v", ids)
	}
}

func TestRemoveFrames(t *testing.T) {
	buf := makeTag(0,
		frameBytes("COMM", "one"),
		frameBytes("TIT2", "a"),
		frameBytes("COMM", "two"),
		make([]byte, 8),
	)

	out, err := RemoveFrames("COMM", buf)
	if err != nil {
		t.Fatal(err)
	}
	frames := checkConsistent(t, out)
	if ids := frameIDs(frames); !sameIDs(ids, []FrameID{"TIT2"}) {
		t.Errorf("Unexpected frames %v", ids)
	}
	if len(out) != len(buf)-2*13 {
		t.Errorf("Expected %d bytes, got %d", len(buf)-2*13, len(out))
	}

	same, err := RemoveFrames("TPE1", out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(same, out) {
		t.Errorf("Removing a missing frame changed the buffer")
	}
}

func TestPad(t *testing.T) {
	var logs bytes.Buffer
	log.SetOutput(&logs)
	Logging = true
	defer func() {
		log.SetOutput(os.Stderr)
		Logging = false
	}()

	buf := makeTag(0, frameBytes("TIT2", "a"))
	out, err := Pad(64, buf)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "Padding tag with 64 bytes at offset 21") {
		t.Errorf("Unexpected log output %q", logs.String())
	}
	frames := checkConsistent(t, out)
	if len(frames) != 1 {
		t.Errorf("Expected one frame, got %d", len(frames))
	}

	tag, err := ParseTag(out)
	if err != nil {
		t.Fatal(err)
	}
	if tag.Padding != 64 {
		t.Errorf("Expected 64 bytes of padding, got %d", tag.Padding)
	}

	// New frames go in front of the padding.
	out, err = UpsertFrame(MakeFrame("TALB", []byte("b"), 0), out)
	if err != nil {
		t.Fatal(err)
	}
	if frames := checkConsistent(t, out); len(frames) != 2 {
		t.Errorf("Expected two frames, got %d", len(frames))
	}
}
