// Package sha1 implements a streaming SHA-1 digest.
//
// A Digest is fed with Update (or Write) any number of times and closed with
// Finalize. Data is consumed in 64 byte blocks as soon as they are complete,
// so only a partial block is ever buffered between calls.
package sha1

import (
	"errors"

	"github.com/autobrr/mksha1/internal/convert"
	"github.com/autobrr/mksha1/internal/types"
)

// size of a SHA1 checksum in bytes
const Size = types.SumSize

// size of a SHA1 block in bytes
const BlockSize = 64

const (
	init0 = 0x67452301
	init1 = 0xEFCDAB89
	init2 = 0x98BADCFE
	init3 = 0x10325476
	init4 = 0xC3D2E1F0
)

var (
	// ErrInvalidInput is returned for an Input that was not built with Text or Bytes.
	ErrInvalidInput = errors.New("sha1: invalid input")
	// ErrInvalidState is returned when a finalized Digest is used without Reset.
	ErrInvalidState = errors.New("sha1: digest already finalized")
)

// Options controls Hash and Finalize.
type Options struct {
	// Stream keeps the digest open after Hash so more data can follow.
	Stream bool
	// Binary returns the raw 20 byte digest instead of lowercase hex.
	Binary bool
}

// Digest is the running state of one SHA-1 computation. It is not safe for
// concurrent use; independent Digests share nothing.
type Digest struct {
	h    [5]uint32       // running hash registers
	x    [BlockSize]byte // bytes not yet forming a full block
	nx   int             // number of bytes in x
	bits uint64          // bits consumed by completed blocks

	finalized bool
	sum       types.Sum
}

// New returns a reset Digest.
func New() *Digest {
	d := new(Digest)
	d.Reset()
	return d
}

func (d *Digest) Reset() {
	d.h[0] = init0
	d.h[1] = init1
	d.h[2] = init2
	d.h[3] = init3
	d.h[4] = init4
	d.nx = 0
	d.bits = 0
	d.finalized = false
	d.sum = types.ZeroSum
}

func (d *Digest) Size() int { return Size }

func (d *Digest) BlockSize() int { return BlockSize }

// Update appends in to the message without finalizing it.
func (d *Digest) Update(in Input) error {
	p, err := in.resolve()
	if err != nil {
		return err
	}
	if d.finalized {
		return ErrInvalidState
	}
	d.write(p)
	return nil
}

// Hash appends in to the message. Unless opts.Stream is set the digest is
// finalized and returned in the form selected by opts.Binary; in stream mode
// the returned string is empty.
func (d *Digest) Hash(in Input, opts Options) (string, error) {
	if err := d.Update(in); err != nil {
		return "", err
	}
	if opts.Stream {
		return "", nil
	}
	return d.Finalize(opts)
}

// Finalize pads the message and returns its digest, as lowercase hex or, with
// opts.Binary, as a 20 byte binary string. The Digest has to be Reset before
// it can take new data.
func (d *Digest) Finalize(opts Options) (string, error) {
	sum, err := d.Final()
	if err != nil {
		return "", err
	}
	if opts.Binary {
		return string(sum[:]), nil
	}
	return convert.HexFromBytes(sum[:]), nil
}

// Final is Finalize returning the digest as a Sum.
func (d *Digest) Final() (types.Sum, error) {
	if d.finalized {
		return types.ZeroSum, ErrInvalidState
	}
	d.sum = d.checkSum()
	d.finalized = true
	return d.sum, nil
}

// Finalized reports whether Finalize was called since the last Reset.
func (d *Digest) Finalized() bool {
	return d.finalized
}

// Write implements io.Writer for streaming data from readers.
func (d *Digest) Write(p []byte) (nn int, err error) {
	if d.finalized {
		return 0, ErrInvalidState
	}
	d.write(p)
	return len(p), nil
}

// Sum appends the digest of the data written so far to in. Unlike Finalize
// it leaves the Digest open.
func (d *Digest) Sum(in []byte) []byte {
	if d.finalized {
		return append(in, d.sum[:]...)
	}
	// Make a copy of d so that caller can keep writing and summing.
	d0 := *d
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

func (d *Digest) write(p []byte) {
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			block(d, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		block(d, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
}

func (d *Digest) checkSum() (sum types.Sum) {
	// message length in bits, taken before any padding is added
	length := d.bits + uint64(d.nx)<<3

	// a 1 bit, zeros up to 8 bytes short of a block boundary, then the
	// length as two big-endian words
	var tmp [2 * BlockSize]byte
	pad := append(tmp[:0], 0x80)
	for (d.nx+len(pad)+8)%BlockSize != 0 {
		pad = append(pad, 0)
	}
	pad = convert.AppendWord(pad, uint32(length>>32))
	pad = convert.AppendWord(pad, uint32(length))
	d.write(pad)

	if d.nx != 0 {
		panic("d.nx != 0")
	}

	convert.AppendWords(sum[:0], d.h[:])
	return sum
}

// Sum returns the SHA-1 digest of data.
func Sum(data []byte) types.Sum {
	var d Digest
	d.Reset()
	d.write(data)
	return d.checkSum()
}

// SumText returns the SHA-1 digest of s, converted with convert.BytesFromText.
func SumText(s string) types.Sum {
	return Sum(convert.BytesFromText(s))
}
