package display

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/autobrr/mksha1/internal/types"
)

func init() {
	color.NoColor = true
}

func results() []types.FileResult {
	ok := types.FileResult{Path: "dir/abc.txt", Size: 3}
	ok.Finish(types.MustSumFromString("a9993e364706816aba3e25717850c26c9cd0d89d"), nil)
	bad := types.FileResult{Path: "dir/gone.txt"}
	bad.Finish(types.ZeroSum, errors.New("could not open file"))
	return []types.FileResult{ok, bad}
}

func TestDisplay_ShowResults(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplayTo(NewFormatter(true), &buf)

	d.ShowResults(results(), 1500*time.Millisecond)
	out := buf.String()

	assert.Contains(t, out, "dir/gone.txt: could not open file")
	assert.Contains(t, out, "Hashing results:")
	assert.Contains(t, out, "1.50s")
	assert.Contains(t, out, "a9993e364706816aba3e25717850c26c9cd0d89d")
	assert.Contains(t, out, "FAILED")
}

func TestDisplay_Quiet(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplayTo(NewFormatter(true), &buf)
	d.SetQuiet(true)

	d.ShowProgress(100)
	d.UpdateProgress(50, 10)
	d.FinishProgress()
	d.ShowFiles([]types.FileEntry{{Path: "a", Length: 1}}, 1)
	d.ShowMessage("hidden")
	d.ShowResults(results(), time.Second)
	d.ShowWarning("SHA1SUMS: 2 lines are improperly formatted")

	// errors and warnings are still reported
	assert.Equal(t, "dir/gone.txt: could not open file\n"+
		"Warning: SHA1SUMS: 2 lines are improperly formatted\n", buf.String())
}

func TestDisplay_ShowVerificationResult(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplayTo(NewFormatter(false), &buf)

	d.ShowVerificationResult(&types.VerificationResult{
		Total:     3,
		OK:        1,
		Failed:    []string{"bad.txt"},
		Missing:   []string{"missing.txt"},
		Malformed: 2,
		Bytes:     2048,
	}, 20*time.Millisecond)
	out := buf.String()

	assert.Contains(t, out, "bad.txt: FAILED\n")
	assert.Contains(t, out, "missing.txt: FAILED open or read\n")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "20ms")
	assert.Contains(t, out, "Status: FAILED")
}

func TestDisplay_ShowFiles(t *testing.T) {
	var buf bytes.Buffer
	d := NewDisplayTo(NewFormatter(true), &buf)

	d.ShowFiles([]types.FileEntry{
		{Path: "/data/one.bin", Length: 1 << 20},
		{Path: "-"},
	}, 2)
	out := buf.String()

	assert.Contains(t, out, "(2 workers)")
	assert.Contains(t, out, "├─ one.bin (1.0 MiB)")
	assert.Contains(t, out, "└─ - (0 B)")
}

func TestFormatter(t *testing.T) {
	f := NewFormatter(false)
	assert.Equal(t, "1.0 KiB", f.FormatBytes(1024))
	assert.Equal(t, "4.0 MiB/s", f.FormatRate(4<<20))
	assert.Equal(t, "999ms", f.FormatDuration(999*time.Millisecond))
	assert.Equal(t, "2.25s", f.FormatDuration(2250*time.Millisecond))
}
