package lexer

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecoderSplitAcrossFeeds(t *testing.T) {
	// é is 0xC3 0xA9; the first byte alone must not decode
	d := NewDecoder()
	d.Feed([]byte{0xC3})

	_, err := d.Next()
	assert.Equal(t, ErrMoreInput, err)

	d.Feed([]byte{0xA9})
	r, err := d.Next()
	assert.NoError(t, err)
	assert.Equal(t, 'é', r)

	_, err = d.Next()
	assert.Equal(t, ErrMoreInput, err)

	d.Close()
	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecoderInvalidByte(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte{'a', 0xFF, 'b'})

	r, err := d.Next()
	assert.NoError(t, err)
	assert.Equal(t, 'a', r)

	_, err = d.Next()
	decErr, ok := err.(*DecodeError)
	if assert.True(t, ok, "got %T", err) {
		assert.Equal(t, 1, decErr.Offset)
	}

	// the error is sticky
	_, err2 := d.Next()
	assert.Equal(t, err, err2)
}

func TestDecoderTruncatedAtClose(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte{'a', 0xC3})
	d.Close()

	_, err := d.Next()
	assert.NoError(t, err)

	_, err = d.Next()
	decErr, ok := err.(*DecodeError)
	if assert.True(t, ok, "got %T", err) {
		assert.Equal(t, 1, decErr.Offset)
	}
}

func TestDecoderPeekDoesNotConsume(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("ab"))

	r, err := d.Peek()
	assert.NoError(t, err)
	assert.Equal(t, 'a', r)
	assert.Equal(t, 0, d.Offset())

	r, err = d.Next()
	assert.NoError(t, err)
	assert.Equal(t, 'a', r)
	assert.Equal(t, 1, d.Offset())
}

func TestReaderDecoder(t *testing.T) {
	d := NewReaderDecoder(strings.NewReader("héllo"))

	var got []rune
	for {
		r, err := d.Next()
		if err == io.EOF {
			break
		}
		assert.NoError(t, err)
		got = append(got, r)
	}
	assert.Equal(t, []rune("héllo"), got)
	assert.Equal(t, len("héllo"), d.Offset())
}

// byteAtATime delivers one byte per Read call.
type byteAtATime struct {
	s string
	i int
}

func (r *byteAtATime) Read(p []byte) (int, error) {
	if r.i >= len(r.s) {
		return 0, io.EOF
	}
	p[0] = r.s[r.i]
	r.i++
	return 1, nil
}

func TestReaderDecoderTinyReads(t *testing.T) {
	d := NewReaderDecoder(&byteAtATime{s: "é😀"})

	r, err := d.Next()
	assert.NoError(t, err)
	assert.Equal(t, 'é', r)

	r, err = d.Next()
	assert.NoError(t, err)
	assert.Equal(t, '😀', r)

	_, err = d.Next()
	assert.Equal(t, io.EOF, err)
}
