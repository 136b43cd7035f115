package lexer

import (
	"io"
	"unicode/utf8"
)

const readChunkSize = 4096

// Decoder turns a raw byte stream into Unicode scalar values, one at a
// time. A multi-byte sequence split across Feed calls (or reads) is
// retained until its remaining bytes arrive, so the byte source may
// deliver arbitrarily small chunks.
//
// A Decoder runs in one of two modes. In push mode (NewDecoder) the caller
// supplies bytes with Feed and signals end of input with Close; Peek and
// Next return ErrMoreInput when the buffered bytes end mid-character. In
// reader mode (NewReaderDecoder) the Decoder refills itself from the
// reader, blocking as needed, and ErrMoreInput never surfaces.
type Decoder struct {
	r   io.Reader
	buf []byte
	off int
	eof bool
	err error
}

// NewDecoder returns a push-mode Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// NewReaderDecoder returns a Decoder that pulls bytes from r on demand.
func NewReaderDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Feed appends raw bytes to the decoder's input.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Close marks the byte source as exhausted. Buffered bytes remain
// decodable; a trailing partial character becomes a DecodeError.
func (d *Decoder) Close() {
	d.eof = true
}

// Offset returns the byte offset of the next undecoded byte.
func (d *Decoder) Offset() int {
	return d.off
}

// Peek decodes the next character without consuming it.
func (d *Decoder) Peek() (rune, error) {
	r, _, err := d.decode()
	return r, err
}

// Next decodes and consumes the next character.
func (d *Decoder) Next() (rune, error) {
	r, size, err := d.decode()
	if err != nil {
		return 0, err
	}
	d.buf = d.buf[size:]
	d.off += size
	return r, nil
}

func (d *Decoder) decode() (rune, int, error) {
	if d.err != nil {
		return 0, 0, d.err
	}
	for {
		if len(d.buf) > 0 && utf8.FullRune(d.buf) {
			r, size := utf8.DecodeRune(d.buf)
			if r == utf8.RuneError && size == 1 {
				d.err = &DecodeError{Offset: d.off}
				return 0, 0, d.err
			}
			return r, size, nil
		}
		if d.eof {
			if len(d.buf) == 0 {
				return 0, 0, io.EOF
			}
			// partial character at end of input
			d.err = &DecodeError{Offset: d.off}
			return 0, 0, d.err
		}
		if d.r == nil {
			return 0, 0, ErrMoreInput
		}
		if err := d.fill(); err != nil {
			return 0, 0, err
		}
	}
}

func (d *Decoder) fill() error {
	if cap(d.buf)-len(d.buf) < readChunkSize {
		grown := make([]byte, len(d.buf), len(d.buf)+readChunkSize)
		copy(grown, d.buf)
		d.buf = grown
	}
	n, err := d.r.Read(d.buf[len(d.buf):cap(d.buf)])
	d.buf = d.buf[:len(d.buf)+n]
	if err == io.EOF {
		d.eof = true
		return nil
	}
	if err != nil {
		d.err = &IOError{Err: err}
		return d.err
	}
	return nil
}
