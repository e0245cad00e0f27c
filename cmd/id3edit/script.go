package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"honnef.co/go/id3"
	"honnef.co/go/id3/internal/frametext"
)

// Script describes the edits applied to a tag.
type Script struct {
	// Version of the tag created for files that don't have one yet.
	Version string `yaml:"version,omitempty"`
	// Reject frames whose ID already exists instead of replacing them.
	Strict         bool            `yaml:"strict,omitempty"`
	Remove         []string        `yaml:"remove,omitempty"`
	Frames         []FrameEdit     `yaml:"frames,omitempty"`
	ExtendedHeader *ExtendedConfig `yaml:"extended_header,omitempty"`
	Footer         bool            `yaml:"footer,omitempty"`
	Padding        int             `yaml:"padding,omitempty"`
}

// FrameEdit sets one frame. Exactly one of Text and Hex is used as
// content.
type FrameEdit struct {
	ID    string   `yaml:"id"`
	Text  []string `yaml:"text,omitempty"`
	Hex   string   `yaml:"hex,omitempty"`
	Flags uint16   `yaml:"flags,omitempty"`
}

type ExtendedConfig struct {
	Update       bool  `yaml:"update,omitempty"`
	CRC          bool  `yaml:"crc,omitempty"`
	Restrictions *byte `yaml:"restrictions,omitempty"`
}

// LoadScript reads a script from a YAML file. Unknown fields are
// rejected.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	s.setDefaults()
	return &s, nil
}

func (s *Script) setDefaults() {
	if s.Version == "" {
		s.Version = "2.4"
	}
}

func (s *Script) version() (id3.Version, error) {
	switch s.Version {
	case "2.3":
		return id3.Version23, nil
	case "2.4":
		return id3.Version24, nil
	default:
		return 0, fmt.Errorf("version must be 2.3 or 2.4, got %q", s.Version)
	}
}

// Validate checks the script without touching any tag.
func (s *Script) Validate() error {
	if _, err := s.version(); err != nil {
		return err
	}
	if s.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %d", s.Padding)
	}
	for _, id := range s.Remove {
		if !id3.FrameID(id).Valid() {
			return fmt.Errorf("remove: invalid frame ID %q", id)
		}
	}
	for i, f := range s.Frames {
		if _, err := f.frame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

func (e FrameEdit) frame() (id3.Frame, error) {
	if !id3.FrameID(e.ID).Valid() {
		return id3.Frame{}, fmt.Errorf("invalid frame ID %q", e.ID)
	}
	if len(e.Text) > 0 && e.Hex != "" {
		return id3.Frame{}, fmt.Errorf("%s: text and hex are mutually exclusive", e.ID)
	}

	content := frametext.Encode(e.Text...)
	if e.Hex != "" {
		var err error
		content, err = hex.DecodeString(e.Hex)
		if err != nil {
			return id3.Frame{}, fmt.Errorf("%s: %w", e.ID, err)
		}
	}
	return id3.MakeFrame(id3.FrameID(e.ID), content, id3.FrameFlags(e.Flags)), nil
}

// Apply runs the script against tag, which may be nil for files
// without a tag, and returns the new tag.
func (s *Script) Apply(tag []byte) ([]byte, error) {
	if tag == nil {
		v, err := s.version()
		if err != nil {
			return nil, err
		}
		tag = id3.NewTag(v)
	}

	var err error
	for _, id := range s.Remove {
		if tag, err = id3.RemoveFrames(id3.FrameID(id), tag); err != nil {
			return nil, err
		}
	}

	// Upserts insert in front of the existing frames; go backwards so
	// the new frames end up in script order.
	for i := len(s.Frames) - 1; i >= 0; i-- {
		f, err := s.Frames[i].frame()
		if err != nil {
			return nil, err
		}
		if s.Strict {
			tag, err = id3.InsertFrame(f, tag)
		} else {
			tag, err = id3.UpsertFrame(f, tag)
		}
		if err != nil {
			return nil, err
		}
	}

	if s.Padding > 0 {
		if tag, err = id3.Pad(s.Padding, tag); err != nil {
			return nil, err
		}
	}

	if x := s.ExtendedHeader; x != nil {
		var ext id3.ExtendedHeader
		if x.Update {
			ext.Flags |= id3.ExtUpdate
		}
		if x.CRC {
			ext.Flags |= id3.ExtCRC
		}
		if x.Restrictions != nil {
			ext.Flags |= id3.ExtRestrictions
			ext.Restrictions = id3.Restrictions(*x.Restrictions)
		}
		if tag, err = id3.WriteExtendedHeader(ext, tag); err != nil {
			return nil, err
		}
	}

	if s.Footer {
		h, err := id3.ParseHeader(tag)
		if err != nil {
			return nil, err
		}
		if tag, err = id3.WriteFooter(id3.FooterFromHeader(h), tag); err != nil {
			return nil, err
		}
	}

	return tag, nil
}
