// Package convert holds the byte, word and text conversions used by the
// digest engine. All words are 32-bit big-endian.
package convert

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	fasthex "github.com/tmthrgd/go-hex"
)

// ErrInvalidHex is returned by BytesFromHex for non hexadecimal input.
var ErrInvalidHex = errors.New("invalid hex string")

// BytesFromText maps every code unit of s to one byte, keeping only its low
// 8 bits. A string holding valid UTF-8 is read as UTF-16 code units, so a
// character outside the BMP yields the low bytes of both surrogate halves.
// Any other string is a binary string with one code unit per byte, which
// lets binary digests be passed back in as text. Binary data that happens to
// be valid UTF-8 must be passed as bytes.
func BytesFromText(s string) []byte {
	out := make([]byte, 0, len(s))
	if !utf8.ValidString(s) {
		return append(out, s...)
	}
	for _, r := range s {
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = append(out, byte(r1&0xff), byte(r2&0xff))
			continue
		}
		out = append(out, byte(r&0xff))
	}
	return out
}

// WordFromBytes packs four bytes into a word, most significant byte first.
func WordFromBytes(b0, b1, b2, b3 byte) uint32 {
	return uint32(b0)<<24 | uint32(b1)<<16 | uint32(b2)<<8 | uint32(b3)
}

// BytesFromWord splits w into four bytes, most significant byte first.
func BytesFromWord(w uint32) [4]byte {
	return [4]byte{byte(w >> 24), byte(w >> 16), byte(w >> 8), byte(w)}
}

// AppendWord appends the four big-endian bytes of w to dst.
func AppendWord(dst []byte, w uint32) []byte {
	b := BytesFromWord(w)
	return append(dst, b[:]...)
}

// PutWords decodes src into dst four bytes at a time and returns the number
// of words written. Trailing bytes that do not form a whole word are ignored,
// as are words that do not fit into dst.
func PutWords(dst []uint32, src []byte) int {
	n := min(len(src)/4, len(dst))
	for i := 0; i < n; i++ {
		j := i * 4
		dst[i] = WordFromBytes(src[j], src[j+1], src[j+2], src[j+3])
	}
	return n
}

// WordsFromBytes groups b into big-endian words. len(b) is expected to be a
// multiple of 4; a trailing partial word is dropped.
func WordsFromBytes(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	PutWords(words, b)
	return words
}

// AppendWords appends the big-endian bytes of every word to dst, in order.
func AppendWords(dst []byte, words []uint32) []byte {
	for _, w := range words {
		dst = AppendWord(dst, w)
	}
	return dst
}

// BinaryTextFromWords concatenates the big-endian bytes of words into a
// binary string.
func BinaryTextFromWords(words []uint32) string {
	return string(AppendWords(make([]byte, 0, len(words)*4), words))
}

// HexFromBytes returns the lowercase hex form of b, two characters per byte.
func HexFromBytes(b []byte) string {
	return fasthex.EncodeToString(b)
}

// BytesFromHex decodes s. Odd length input is treated as if it had a leading
// zero nibble.
func BytesFromHex(s string) ([]byte, error) {
	if len(s)%2 == 1 {
		s = "0" + s
	}
	buf, err := fasthex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return buf, nil
}
