package hasher

import (
	"runtime"

	"github.com/autobrr/mksha1/internal/types"
)

// optimizeForWorkload picks the number of files hashed in parallel from the
// file count and the average file size. Many small files favour more
// workers, a few large ones favour sequential reads.
func optimizeForWorkload(files []types.FileEntry) int {
	if len(files) == 0 {
		return 0
	}

	var totalSize int64
	for _, f := range files {
		totalSize += f.Length
	}
	avgFileSize := totalSize / int64(len(files))

	var numWorkers int
	switch {
	case len(files) == 1:
		numWorkers = 1
	case avgFileSize < 1<<20:
		numWorkers = min(8, runtime.NumCPU())
	case avgFileSize < 10<<20:
		numWorkers = min(4, runtime.NumCPU())
	default:
		numWorkers = min(2, runtime.NumCPU())
	}

	// never more workers than files
	return min(numWorkers, len(files))
}

// Workers returns the worker count HashFiles would use for files.
func (h *Hasher) Workers(files []types.FileEntry) int {
	if h.opts.Workers > 0 {
		return min(h.opts.Workers, len(files))
	}
	return optimizeForWorkload(files)
}
