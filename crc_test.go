package id3

import (
	"hash/crc32"
	"testing"

	"github.com/pkg/errors"
)

func TestCRCFollowsEdits(t *testing.T) {
	buf := makeTag(0, frameBytes("TIT2", "a"))
	buf, err := WriteExtendedHeader(ExtendedHeader{Flags: ExtCRC | ExtRestrictions, Restrictions: 0x20}, buf)
	if err != nil {
		t.Fatal(err)
	}

	verify := func(step string) {
		t.Helper()
		ok, err := VerifyCRC(buf)
		if err != nil {
			t.Fatalf("%s: %s", step, err)
		}
		if !ok {
			t.Errorf("%s: CRC doesn't match the frames", step)
		}
	}
	verify("write extended header")

	x, err := ParseExtendedHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	want := crc32.ChecksumIEEE(buf[10+x.Len() : len(buf)])
	if uint32(x.CRC) != want {
		t.Errorf("Expected CRC %#x, got %#x", want, x.CRC)
	}
	if x.Restrictions != 0x20 {
		t.Errorf("Restrictions got lost: %#x", x.Restrictions)
	}

	if buf, err = UpsertFrame(MakeFrame("TALB", []byte("album"), 0), buf); err != nil {
		t.Fatal(err)
	}
	verify("upsert")

	if buf, err = RemoveFrames("TIT2", buf); err != nil {
		t.Fatal(err)
	}
	verify("remove")

	if buf, err = Pad(16, buf); err != nil {
		t.Fatal(err)
	}
	verify("pad")

	buf[len(buf)-1] = 1
	ok, err := VerifyCRC(buf)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Errorf("Tampered tag passed verification")
	}
}

func TestVerifyCRCWithoutCRC(t *testing.T) {
	buf := makeTag(FlagExtendedHeader, []byte{0, 0, 0, 6, 1, 0}, frameBytes("TIT2", "a"))
	if _, err := VerifyCRC(buf); !errors.Is(err, ErrExtendedHeaderAbsent) {
		t.Errorf("Expected ErrExtendedHeaderAbsent, got %v", err)
	}

	crc, err := ComputeCRC(buf)
	if err != nil {
		t.Fatal(err)
	}
	if want := crc32.ChecksumIEEE(buf[16:]); crc != want {
		t.Errorf("Expected %#x, got %#x", want, crc)
	}
}
