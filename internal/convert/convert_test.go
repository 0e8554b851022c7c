package convert

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesFromText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"empty", "", []byte{}},
		{"ascii", "abc", []byte{'a', 'b', 'c'}},
		{"latin1", "ÿ\u0080", []byte{0xff, 0x80}},
		{"masked", "šĀ", []byte{0x61, 0x00}},
		{"surrogate pair", "\U0001F600", []byte{0x3d, 0x00}},
		{"astral after ascii", "a\U0001F600b", []byte{'a', 0x3d, 0x00, 'b'}},
		{"binary byte", "\xff", []byte{0xff}},
		{"binary string", "\x00\xc3(\xa9", []byte{0x00, 0xc3, '(', 0xa9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BytesFromText(tt.input))
		})
	}
}

func TestWordPacking(t *testing.T) {
	assert.Equal(t, uint32(0x01020304), WordFromBytes(1, 2, 3, 4))
	assert.Equal(t, uint32(0xffffffff), WordFromBytes(0xff, 0xff, 0xff, 0xff))
	assert.Equal(t, [4]byte{0x67, 0x45, 0x23, 0x01}, BytesFromWord(0x67452301))
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef, 0, 0, 0, 1}, AppendWord(AppendWord(nil, 0xdeadbeef), 1))

	for i := 0; i < 1000; i++ {
		w := rand.Uint32()
		b := BytesFromWord(w)
		require.Equal(t, w, WordFromBytes(b[0], b[1], b[2], b[3]))
	}
}

func TestWordsFromBytes(t *testing.T) {
	in := []byte{0, 0, 0, 1, 0x80, 0, 0, 0, 0xca, 0xfe, 0xba, 0xbe}
	assert.Equal(t, []uint32{1, 0x80000000, 0xcafebabe}, WordsFromBytes(in))

	// a trailing partial word is dropped
	assert.Equal(t, []uint32{1}, WordsFromBytes(in[:6]))
	assert.Empty(t, WordsFromBytes(nil))

	var dst [2]uint32
	assert.Equal(t, 2, PutWords(dst[:], in))
	assert.Equal(t, [2]uint32{1, 0x80000000}, dst)
}

func TestBinaryTextFromWords(t *testing.T) {
	words := []uint32{0x61626364, 0x00ff0102}
	assert.Equal(t, "abcd\x00\xff\x01\x02", BinaryTextFromWords(words))
	assert.Equal(t, "", BinaryTextFromWords(nil))
	assert.Equal(t, words, WordsFromBytes([]byte(BinaryTextFromWords(words))))
}

func TestHex(t *testing.T) {
	assert.Equal(t, "00010aff", HexFromBytes([]byte{0x00, 0x01, 0x0a, 0xff}))
	assert.Equal(t, "", HexFromBytes(nil))

	b, err := BytesFromHex("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0xbc}, b)

	b, err = BytesFromHex("DEADbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)

	_, err = BytesFromHex("zz")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidHex))
}

func TestHexRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for n := 0; n < 300; n++ {
		b := make([]byte, n)
		r.Read(b)

		h := HexFromBytes(b)
		if len(h) != 2*n {
			t.Fatalf("hex length %d for %d bytes", len(h), n)
		}
		got, err := BytesFromHex(h)
		if err != nil {
			t.Fatalf("BytesFromHex(%q): %v", h, err)
		}
		if !bytes.Equal(got, b) {
			t.Fatalf("round trip mismatch:\ngot  %x\nwant %x", got, b)
		}
	}
}

func TestBase64(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"f", "Zg=="},
		{"fo", "Zm8="},
		{"foo", "Zm9v"},
		{"foobar", "Zm9vYmFy"},
	}

	for _, tt := range tests {
		got := Base64Encode([]byte(tt.input))
		assert.Equal(t, tt.want, got)

		decoded, err := Base64Decode(got)
		require.NoError(t, err)
		assert.Equal(t, tt.input, string(decoded))
	}

	_, err := Base64Decode("not base64!")
	assert.Error(t, err)
}
