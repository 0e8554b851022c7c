package hasher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/mksha1/internal/types"
)

const (
	abcSum   = "a9993e364706816aba3e25717850c26c9cd0d89d"
	emptySum = "da39a3ee5e6b4b0d3255bfef95601890afd80709"
)

func TestParseChecksums(t *testing.T) {
	input := strings.Join([]string{
		"# generated by mksha1",
		abcSum + "  abc.txt",
		strings.ToUpper(emptySum) + " *empty.bin",
		"SHA1 (with space.txt) = " + abcSum,
		"",
		"not a checksum line",
		abcSum + "\tabc.txt",
		"\\" + abcSum + "  new\\nline\\\\name",
		emptySum + "  abc.txt",
		"deadbeef  short.txt",
		"SHA1 () = " + abcSum,
	}, "\r\n")

	list, err := ParseChecksums(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, list.Entries, 5)
	assert.Equal(t, 4, list.Malformed)

	assert.Equal(t, "abc.txt", list.Entries[0].Path)
	assert.Equal(t, abcSum, list.Entries[0].Sum.String())
	assert.False(t, list.Entries[0].Binary)
	assert.Equal(t, 2, list.Entries[0].Line)

	assert.Equal(t, "empty.bin", list.Entries[1].Path)
	assert.Equal(t, emptySum, list.Entries[1].Sum.String())
	assert.True(t, list.Entries[1].Binary)

	assert.Equal(t, "with space.txt", list.Entries[2].Path)
	assert.Equal(t, "new\nline\\name", list.Entries[3].Path)

	// the first entry for a path is the one looked up
	sum, ok := list.Lookup("abc.txt")
	assert.True(t, ok)
	assert.Equal(t, abcSum, sum.String())
	_, ok = list.Lookup("nope")
	assert.False(t, ok)

	assert.Equal(t, []string{"abc.txt", "empty.bin", "with space.txt", "new\nline\\name"}, list.Paths())
}

func TestParseChecksums_Empty(t *testing.T) {
	_, err := ParseChecksums(strings.NewReader("# nothing\n\ngarbage\n"))
	assert.ErrorIs(t, err, ErrNoChecksums)
}

func TestHasher_Verify(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	good := write("good.txt", "abc")
	empty := write("empty.txt", "")
	bad := write("bad.txt", "abd")
	missing := filepath.Join(dir, "missing.txt")

	lines := []string{
		abcSum + "  " + good,
		"SHA1 (" + empty + ") = " + emptySum,
		abcSum + "  " + bad,
		abcSum + "  " + missing,
		abcSum + "  " + good,
		"broken",
	}
	listPath := write("SHA1SUMS", strings.Join(lines, "\n")+"\n")

	list, err := LoadChecksums(listPath)
	require.NoError(t, err)

	display := &mockDisplay{}
	res, err := New(Options{Workers: 2}, display).Verify(context.Background(), list)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 3, res.OK)
	assert.Equal(t, []string{bad}, res.Failed)
	assert.Equal(t, []string{missing}, res.Missing)
	assert.Equal(t, 1, res.Malformed)
	assert.Equal(t, int64(6), res.Bytes)
	assert.Len(t, res.Results, 4)
	assert.False(t, res.Passed())

	// the duplicate path is read once
	assert.Equal(t, 3, display.shown)

	var zero types.VerificationResult
	assert.True(t, zero.Passed())
}

func TestLoadChecksums_Missing(t *testing.T) {
	_, err := LoadChecksums(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}
