package utils

import (
	"fmt"
	"math"
	"strings"

	humanize "github.com/dustin/go-humanize"
)

// ParseSize parses a byte size such as "65536", "64KiB" or "4 MB". The
// result must be positive and fit in an int32.
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n == 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("size %q out of range", s)
	}
	return int(n), nil
}

// FormatSize returns a human readable size using binary units,
// e.g. "64 KiB" or "4.0 MiB"
func FormatSize(n int) string {
	if n >= 1<<10 && n%(1<<10) == 0 && n < 1<<20 {
		return fmt.Sprintf("%d KiB", n>>10)
	}
	return humanize.IBytes(uint64(n))
}
