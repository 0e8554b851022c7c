package sha1

import (
	"math/bits"

	"github.com/autobrr/mksha1/internal/convert"
)

const (
	_K0 = 0x5A827999
	_K1 = 0x6ED9EBA1
	_K2 = 0x8F1BBCDC
	_K3 = 0xCA62C1D6
)

// block compresses every full 64 byte block of p into d.h. All arithmetic is
// on uint32 and wraps modulo 2^32.
func block(d *Digest, p []byte) {
	var w [80]uint32

	for len(p) >= BlockSize {
		convert.PutWords(w[:16], p[:BlockSize])
		for t := 16; t < 80; t++ {
			w[t] = bits.RotateLeft32(w[t-3]^w[t-8]^w[t-14]^w[t-16], 1)
		}

		a, b, c, dd, e := d.h[0], d.h[1], d.h[2], d.h[3], d.h[4]

		t := 0
		for ; t < 20; t++ {
			f := b&c | (^b)&dd
			temp := bits.RotateLeft32(a, 5) + e + w[t] + _K0 + f
			a, b, c, dd, e = temp, a, bits.RotateLeft32(b, 30), c, dd
		}
		for ; t < 40; t++ {
			f := b ^ c ^ dd
			temp := bits.RotateLeft32(a, 5) + e + w[t] + _K1 + f
			a, b, c, dd, e = temp, a, bits.RotateLeft32(b, 30), c, dd
		}
		for ; t < 60; t++ {
			f := b&c | b&dd | c&dd
			temp := bits.RotateLeft32(a, 5) + e + w[t] + _K2 + f
			a, b, c, dd, e = temp, a, bits.RotateLeft32(b, 30), c, dd
		}
		for ; t < 80; t++ {
			f := b ^ c ^ dd
			temp := bits.RotateLeft32(a, 5) + e + w[t] + _K3 + f
			a, b, c, dd, e = temp, a, bits.RotateLeft32(b, 30), c, dd
		}

		d.h[0] += a
		d.h[1] += b
		d.h[2] += c
		d.h[3] += dd
		d.h[4] += e
		d.bits += BlockSize * 8

		p = p[BlockSize:]
	}
}
