package hasher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dolthub/swiss"

	"github.com/autobrr/mksha1/internal/types"
)

var ErrNoChecksums = errors.New("no properly formatted SHA1 checksum lines found")

// Checksum is one line of a checksum list
type Checksum struct {
	Path string
	Sum  types.Sum
	// Binary is set for GNU lines using the "*path" form
	Binary bool
	Line   int
}

// ChecksumList is a parsed sha1sum style checksum file
type ChecksumList struct {
	Entries   []Checksum
	Malformed int

	// path -> first entry for that path
	index *swiss.Map[string, int]
}

// Lookup returns the expected sum of the first entry for path.
func (l *ChecksumList) Lookup(path string) (types.Sum, bool) {
	if l.index == nil {
		return types.ZeroSum, false
	}
	i, ok := l.index.Get(path)
	if !ok {
		return types.ZeroSum, false
	}
	return l.Entries[i].Sum, true
}

// Paths returns every listed path once, in order of first appearance.
func (l *ChecksumList) Paths() []string {
	paths := make([]string, 0, l.index.Count())
	for i, e := range l.Entries {
		if first, _ := l.index.Get(e.Path); first == i {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// ParseChecksums reads GNU ("<hex>  path", "<hex> *path") and BSD
// ("SHA1 (path) = <hex>") checksum lines. Blank lines and lines starting
// with '#' are skipped; lines in neither form are counted as malformed.
func ParseChecksums(r io.Reader) (*ChecksumList, error) {
	list := &ChecksumList{index: swiss.NewMap[string, int](64)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		c, ok := parseLine(line)
		if !ok {
			list.Malformed++
			continue
		}
		c.Line = lineNo

		if !list.index.Has(c.Path) {
			list.index.Put(c.Path, len(list.Entries))
		}
		list.Entries = append(list.Entries, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read checksum list: %w", err)
	}

	if len(list.Entries) == 0 {
		return nil, ErrNoChecksums
	}
	return list, nil
}

// LoadChecksums parses the checksum file at path.
func LoadChecksums(path string) (*ChecksumList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open checksum list: %w", err)
	}
	defer f.Close()

	return ParseChecksums(f)
}

func parseLine(line string) (Checksum, bool) {
	// GNU tools prefix lines whose path needed escaping with a backslash
	escaped := strings.HasPrefix(line, "\\")
	if escaped {
		line = line[1:]
	}

	var c Checksum
	var hexSum string
	switch {
	case strings.HasPrefix(line, "SHA1 ("):
		end := strings.LastIndex(line, ") = ")
		if end < len("SHA1 (") {
			return c, false
		}
		c.Path = line[len("SHA1 ("):end]
		hexSum = line[end+len(") = "):]
	case len(line) > 2*types.SumSize+2 && line[2*types.SumSize] == ' ':
		hexSum = line[:2*types.SumSize]
		switch line[2*types.SumSize+1] {
		case ' ':
		case '*':
			c.Binary = true
		default:
			return c, false
		}
		c.Path = line[2*types.SumSize+2:]
	default:
		return c, false
	}

	sum, err := types.SumFromString(strings.ToLower(hexSum))
	if err != nil || c.Path == "" {
		return c, false
	}
	c.Sum = sum

	if escaped {
		c.Path = unescapePath(c.Path)
	}
	return c, true
}

func unescapePath(p string) string {
	var b strings.Builder
	for i := 0; i < len(p); i++ {
		if p[i] == '\\' && i+1 < len(p) {
			switch p[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(p[i])
	}
	return b.String()
}

// Verify hashes every file of list and compares it with the listed sum.
// Each path is read once even when it is listed more than once. Files that
// do not exist are reported as missing, unreadable files as failed.
func (h *Hasher) Verify(ctx context.Context, list *ChecksumList) (*types.VerificationResult, error) {
	result := &types.VerificationResult{
		Total:     len(list.Entries),
		Malformed: list.Malformed,
	}

	paths := list.Paths()
	files := make([]types.FileEntry, 0, len(paths))
	missing := swiss.NewMap[string, struct{}](uint32(len(paths) + 1))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			missing.Put(path, struct{}{})
			continue
		}
		files = append(files, entryFromInfo(path, info))
	}

	h.display.ShowFiles(files, h.Workers(files))

	hashed, err := h.HashFiles(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("verification interrupted: %w", err)
	}

	byPath := swiss.NewMap[string, types.FileResult](uint32(len(hashed) + 1))
	for _, r := range hashed {
		byPath.Put(r.Path, r)
		result.Bytes += r.Size
	}

	result.Results = make([]types.FileResult, 0, len(list.Entries))
	for _, e := range list.Entries {
		if missing.Has(e.Path) {
			result.Missing = append(result.Missing, e.Path)
			continue
		}

		r, _ := byPath.Get(e.Path)
		result.Results = append(result.Results, r)
		if r.Success() && r.Sum == e.Sum {
			result.OK++
			continue
		}
		result.Failed = append(result.Failed, e.Path)
	}

	return result, nil
}
