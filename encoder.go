package id3

import (
	"io"
)

type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the serialized form of t.
func (e *Encoder) Encode(t *Tag) error {
	b, err := t.Bytes()
	if err != nil {
		return err
	}
	_, err = e.w.Write(b)
	return err
}

func (t *Tag) Encode(w io.Writer) error {
	return NewEncoder(w).Encode(t)
}
