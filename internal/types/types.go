package types

import (
	"errors"
	"time"

	fasthex "github.com/tmthrgd/go-hex"
)

// SumSize is the size of a SHA-1 digest in bytes
const SumSize = 20

// Sum is a finished SHA-1 digest
type Sum [SumSize]byte

var ZeroSum Sum

func (s Sum) String() string {
	return fasthex.EncodeToString(s[:])
}

func (s Sum) Slice() []byte {
	return s[:]
}

func (s Sum) MarshalJSON() ([]byte, error) {
	var buf [SumSize*2 + 2]byte
	buf[0] = '"'
	buf[SumSize*2+1] = '"'
	fasthex.Encode(buf[1:], s[:])
	return buf[:], nil
}

func (s *Sum) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if len(b) != SumSize*2+2 || b[0] != '"' || b[len(b)-1] != '"' {
		return errors.New("invalid sha1 sum length")
	}
	if _, err := fasthex.Decode(s[:], b[1:len(b)-1]); err != nil {
		return err
	}
	return nil
}

// SumFromString parses a 40 character hex digest
func SumFromString(s string) (Sum, error) {
	var sum Sum
	if len(s) != SumSize*2 {
		return sum, errors.New("wrong size")
	}
	if _, err := fasthex.Decode(sum[:], []byte(s)); err != nil {
		return sum, err
	}
	return sum, nil
}

func MustSumFromString(s string) Sum {
	if sum, err := SumFromString(s); err != nil {
		panic(err)
	} else {
		return sum
	}
}

// SumFromBytes returns ZeroSum when buf has the wrong length
func SumFromBytes(buf []byte) (s Sum) {
	if len(buf) != SumSize {
		return
	}
	copy(s[:], buf)
	return
}

// HashOptions contains all options for hashing a set of paths
type HashOptions struct {
	Paths     []string
	Text      *string
	Format    string
	Workers   int
	ChunkSize int
	Readahead int
	Include   []string
	Exclude   []string
	Verbose   bool
	Quiet     bool
}

// FileEntry is a file queued for hashing. Path "-" is standard input.
type FileEntry struct {
	Path    string
	Length  int64
	ModTime time.Time
}

// FileResult is the outcome of hashing a single FileEntry
type FileResult struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	Sum    Sum    `json:"sha1"`
	Cached bool   `json:"cached,omitempty"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"`
}

func (r *FileResult) Success() bool {
	return r.Err == nil
}

// Finish records the outcome of hashing and returns the completed result.
// A non-nil err clears the sum.
func (r *FileResult) Finish(sum Sum, err error) FileResult {
	if err != nil {
		r.Sum = ZeroSum
		r.Err = err
		r.Error = err.Error()
		return *r
	}
	r.Sum = sum
	return *r
}

// VerificationResult summarizes a checksum list verification
type VerificationResult struct {
	Total     int          `json:"total"`
	OK        int          `json:"ok"`
	Failed    []string     `json:"failed,omitempty"`
	Missing   []string     `json:"missing,omitempty"`
	Malformed int          `json:"malformed"`
	Bytes     int64        `json:"bytes"`
	Results   []FileResult `json:"-"`
}

func (v *VerificationResult) Passed() bool {
	return len(v.Failed) == 0 && len(v.Missing) == 0
}
