package frametext

import (
	"bytes"
	"testing"

	"honnef.co/go/id3"
)

var isoTestString = []byte("\x00Ein etwas k\xFCrzerer Text mit wenigen Umlauten: \xE4\xF6\xFC\xDF \xE4\xF6\xFC\xDF")

func TestDecode(t *testing.T) {
	const want = "Just a test: äüö 日本語"

	tests := []struct {
		name string
		in   []byte
		out  string
	}{
		{"ISO-8859-1", isoTestString, "Ein etwas kürzerer Text mit wenigen Umlauten: äöüß äöüß"},
		{"UTF-16 BE with BOM", []byte{utf16bom, 254, 255, 0, 74, 0,
			117, 0, 115, 0, 116, 0, 32, 0, 97, 0, 32, 0, 116, 0, 101, 0, 115,
			0, 116, 0, 58, 0, 32, 0, 228, 0, 252, 0, 246, 0, 32, 101, 229,
			103, 44, 138, 158}, want},
		{"UTF-16 LE with BOM", []byte{utf16bom, 255, 254, 74, 0, 117, 0, 115, 0, 116, 0, 32, 0, 97,
			0, 32, 0, 116, 0, 101, 0, 115, 0, 116, 0, 58, 0, 32, 0, 228, 0,
			252, 0, 246, 0, 32, 0, 229, 101, 44, 103, 158, 138}, want},
		{"UTF-16 BE", []byte{utf16be, 0, 74, 0,
			117, 0, 115, 0, 116, 0, 32, 0, 97, 0, 32, 0, 116, 0, 101, 0, 115,
			0, 116, 0, 58, 0, 32, 0, 228, 0, 252, 0, 246, 0, 32, 101, 229,
			103, 44, 138, 158}, want},
		{"UTF-8", append([]byte{utf8}, want...), want},
		{"multiple values", []byte("\x03Rock\x00Pop\x00"), "Rock, Pop"},
		{"empty", nil, ""},
	}

	for _, test := range tests {
		res, err := Decode(test.in)
		if err != nil {
			t.Fatalf("%s: %s", test.name, err)
		}
		if res != test.out {
			t.Errorf("%s: Expected: %s - Got: %s", test.name, test.out, res)
		}
	}

	if _, err := Decode([]byte{7, 'x'}); err == nil {
		t.Errorf("Unknown encoding wasn't rejected")
	}
}

func TestEncode(t *testing.T) {
	b := Encode("Rock", "Pop")
	if !bytes.Equal(b, []byte("\x03Rock\x00Pop")) {
		t.Errorf("Unexpected encoding %q", b)
	}

	s, err := Decode(b)
	if err != nil || s != "Rock, Pop" {
		t.Errorf("Expected: Rock, Pop - Got: %q (%v)", s, err)
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		frame id3.Frame
		out   string
	}{
		{id3.MakeFrame("TIT2", Encode("Title"), 0), "Title"},
		{id3.MakeFrame("WOAR", []byte("http://example.com\x00"), 0), "http://example.com"},
		{id3.MakeFrame("APIC", make([]byte, 32), 0), "<32 bytes>"},
		{id3.MakeFrame("TXXX", make([]byte, 4), 0), "<4 bytes>"},
	}

	for _, test := range tests {
		if res := Value(test.frame); res != test.out {
			t.Errorf("%s: Expected: %s - Got: %s", test.frame.ID, test.out, res)
		}
	}
}

func BenchmarkDecodeISO88591(b *testing.B) {
	b.SetBytes(int64(len(isoTestString)))
	for i := 0; i < b.N; i++ {
		_, _ = Decode(isoTestString)
	}
}
