package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/autobrr/mksha1/internal/convert"
	"github.com/autobrr/mksha1/internal/types"
	"github.com/autobrr/mksha1/internal/utils"
)

const (
	formatHex    = "hex"
	formatBase64 = "base64"
	formatRaw    = "raw"
	formatJSON   = "json"
)

func validFormat(format string) error {
	switch format {
	case formatHex, formatBase64, formatRaw, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q (use hex, base64, raw or json)", format)
}

// openOutput returns stdout for an empty path and a created file otherwise.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeResults writes the successful results in the requested format. Hex
// and base64 lines use the sha1sum layout "<sum>  <path>"; raw writes the
// bare 20 byte sums back to back.
func writeResults(w io.Writer, results []types.FileResult, format string) error {
	if format == formatJSON {
		data, err := utils.MarshalJSONIndent(results, "  ")
		if err != nil {
			return fmt.Errorf("could not encode results: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}

	bw := bufio.NewWriter(w)
	for _, r := range results {
		if !r.Success() {
			continue
		}
		switch format {
		case formatRaw:
			bw.Write(r.Sum.Slice())
		case formatBase64:
			writeLine(bw, convert.Base64Encode(r.Sum.Slice()), r.Path)
		default:
			writeLine(bw, convert.HexFromBytes(r.Sum.Slice()), r.Path)
		}
	}
	return bw.Flush()
}

// writeLine escapes paths holding a newline or backslash the way GNU
// coreutils does: the line gets a leading backslash.
func writeLine(w *bufio.Writer, sum, path string) {
	if strings.ContainsAny(path, "\n\\") {
		w.WriteByte('\\')
		path = strings.NewReplacer("\\", "\\\\", "\n", "\\n").Replace(path)
	}
	w.WriteString(sum)
	w.WriteString("  ")
	w.WriteString(path)
	w.WriteByte('\n')
}
