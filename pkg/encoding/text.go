// Package encoding provides text helpers for the game's fixed-width strings.
//
// Game text stores printable ASCII shifted down by 0x20, so 0x00 is a space
// and 0x21 is 'A'. 0xFF terminates a string.
package encoding

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	// Terminator ends a game string.
	Terminator = 0xFF

	textShift = 0x20
)

// shifter undoes the 0x20 shift of game text, byte for byte.
type shifter struct{ transform.NopResetter }

func (shifter) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	n := len(src)
	if n > len(dst) {
		n = len(dst)
		err = transform.ErrShortDst
	}
	for i := 0; i < n; i++ {
		dst[i] = src[i] + textShift
	}
	return n, n, err
}

// NewDecoder returns a transformer from game text to UTF-8. Bytes above the
// ASCII range decode through Latin-1.
func NewDecoder() transform.Transformer {
	return transform.Chain(shifter{}, charmap.ISO8859_1.NewDecoder())
}

// ToUTF8 decodes game text. Returns the raw bytes as a string if decoding fails.
func ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// FromASCII encodes printable ASCII as game text. Anything outside the
// printable range becomes '?'.
func FromASCII(s string) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c > 0x7E {
			c = '?'
		}
		out[i] = c - textShift
	}
	return out
}

// FixedToUTF8 decodes a fixed-size game string up to its terminator and
// trims the trailing spaces left by zero padding.
func FixedToUTF8(data []byte) string {
	if idx := bytes.IndexByte(data, Terminator); idx >= 0 {
		data = data[:idx]
	}
	return strings.TrimRight(ToUTF8(data), " ")
}

// FixedString lays text into a field of size bytes: the text, then pad up
// to the last byte, which is always Terminator. Text longer than size-1 is
// cut.
func FixedString(text []byte, size int, pad byte) []byte {
	if size <= 0 {
		return nil
	}
	result := make([]byte, size)
	n := copy(result[:size-1], text)
	for i := n; i < size-1; i++ {
		result[i] = pad
	}
	result[size-1] = Terminator
	return result
}
