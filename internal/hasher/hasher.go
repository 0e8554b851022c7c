// Package hasher computes SHA-1 sums of files and streams with a pool of
// workers, reporting progress to a Displayer.
package hasher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/autobrr/mksha1/internal/ringbuffer"
	"github.com/autobrr/mksha1/internal/sha1"
	"github.com/autobrr/mksha1/internal/types"
)

const (
	DefaultChunkSize = 64 << 10
	DefaultCacheSize = 256

	// StdinPath names standard input in a file list
	StdinPath = "-"
)

type Options struct {
	// Workers is the number of files hashed at once. Zero picks a value
	// from the sizes of the files.
	Workers int
	// ChunkSize is the read size used to feed a digest.
	ChunkSize int
	// Readahead is the size of a ring buffer filled by a separate reader
	// goroutine. Zero reads and hashes in turn.
	Readahead int
	// CacheSize bounds the number of remembered file sums. Negative
	// disables the cache.
	CacheSize int
}

type Hasher struct {
	opts     Options
	display  Displayer
	cache    *sumCache
	inflight singleflight.Group
	stdin    io.Reader

	bufferPool sync.Pool
	ringPool   sync.Pool
	hashed     atomic.Int64
}

func New(opts Options, display Displayer) *Hasher {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.CacheSize == 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if display == nil {
		display = nopDisplay{}
	}

	h := &Hasher{
		opts:    opts,
		display: display,
		stdin:   os.Stdin,
	}
	if opts.CacheSize > 0 {
		h.cache = newSumCache(opts.CacheSize)
	}
	chunk := opts.ChunkSize
	h.bufferPool.New = func() interface{} {
		buf := make([]byte, chunk)
		return &buf
	}
	readahead := opts.Readahead
	h.ringPool.New = func() interface{} {
		return ringbuffer.New(readahead)
	}
	return h
}

// HashFiles hashes every entry and returns one result per entry, in the
// same order. A file that cannot be read fails only its own result; the
// returned error is set only when ctx ends the run early.
func (h *Hasher) HashFiles(ctx context.Context, files []types.FileEntry) ([]types.FileResult, error) {
	results := make([]types.FileResult, len(files))

	numWorkers := h.opts.Workers
	if numWorkers <= 0 {
		numWorkers = optimizeForWorkload(files)
	}
	numWorkers = min(numWorkers, len(files))

	var totalSize int64
	for _, f := range files {
		totalSize += f.Length
	}

	h.hashed.Store(0)
	h.display.ShowProgress(totalSize)
	if numWorkers == 0 {
		h.display.FinishProgress()
		return results, nil
	}

	stop := h.trackProgress()
	defer h.display.FinishProgress()
	defer stop()

	var next atomic.Uint64
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for {
				i := next.Add(1) - 1
				if i >= uint64(len(files)) {
					return nil
				}
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = h.hashEntry(gctx, files[i])
			}
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	// a worker that saw the cancellation only through a read keeps the
	// error in its result
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// HashReader hashes r until io.EOF and returns the sum and the number of
// bytes read.
func (h *Hasher) HashReader(ctx context.Context, r io.Reader) (types.Sum, int64, error) {
	d := sha1.Get()
	defer sha1.Put(d)

	n, err := h.digest(ctx, d, r)
	if err != nil {
		return types.ZeroSum, n, err
	}
	sum, err := d.Final()
	if err != nil {
		return types.ZeroSum, n, err
	}
	return sum, n, nil
}

func (h *Hasher) hashEntry(ctx context.Context, f types.FileEntry) types.FileResult {
	res := types.FileResult{Path: f.Path, Size: f.Length}

	if f.Path == StdinPath {
		sum, n, err := h.HashReader(ctx, h.stdin)
		res.Size = n
		return res.Finish(sum, err)
	}

	key := cacheKey{path: f.Path, size: f.Length, modTime: f.ModTime.UnixNano()}
	if sum, ok := h.cache.get(key); ok {
		h.hashed.Add(f.Length)
		res.Sum = sum
		res.Cached = true
		return res
	}

	// a file listed more than once is read by one worker, the others wait
	// for its sum
	var ran bool
	ch := h.inflight.DoChan(key.String(), func() (interface{}, error) {
		ran = true
		return h.hashFile(ctx, f, key)
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return res.Finish(types.ZeroSum, r.Err)
		}
		fs := r.Val.(fileSum)
		res.Size = fs.size
		res.Cached = fs.cached || !ran
		if res.Cached {
			h.hashed.Add(fs.size)
		}
		return res.Finish(fs.sum, nil)
	case <-ctx.Done():
		return res.Finish(types.ZeroSum, ctx.Err())
	}
}

type fileSum struct {
	sum    types.Sum
	size   int64
	cached bool
}

func (h *Hasher) hashFile(ctx context.Context, f types.FileEntry, key cacheKey) (fileSum, error) {
	// the previous hash of this key may have finished after our lookup
	if sum, ok := h.cache.get(key); ok {
		return fileSum{sum: sum, size: f.Length, cached: true}, nil
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return fileSum{}, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	sum, n, err := h.HashReader(ctx, file)
	if err != nil {
		return fileSum{}, fmt.Errorf("could not read file: %w", err)
	}
	if n == f.Length {
		h.cache.set(key, sum)
	}
	// otherwise the file changed since it was listed, do not remember this sum
	return fileSum{sum: sum, size: n}, nil
}

// digest feeds r into d, either in ChunkSize reads or through a read-ahead
// ring buffer.
func (h *Hasher) digest(ctx context.Context, d *sha1.Digest, r io.Reader) (int64, error) {
	w := &digestWriter{ctx: ctx, d: d, hashed: &h.hashed}

	if h.opts.Readahead > 0 {
		rb := h.ringPool.Get().(*ringbuffer.RingBuffer)
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, err := rb.ReadFrom(r)
			rb.CloseWithError(err)
		}()
		watched := make(chan struct{})
		go func() {
			defer close(watched)
			select {
			case <-ctx.Done():
				rb.CloseWithError(ctx.Err())
			case <-done:
			}
		}()

		n, err := rb.WriteTo(w)
		if err != nil {
			// r.Read may still be blocked. Files are closed by hashFile,
			// which ends the read; a blocked stdin read keeps the reader
			// goroutine until the next read returns, so rb is not reused.
			rb.CloseWithError(err)
			return n, err
		}
		<-done
		<-watched
		rb.Reset()
		h.ringPool.Put(rb)
		return n, nil
	}

	bufPtr := h.bufferPool.Get().(*[]byte)
	defer h.bufferPool.Put(bufPtr)
	buf := *bufPtr

	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
	}
}

// digestWriter hands written data to a digest and counts it for progress.
type digestWriter struct {
	ctx    context.Context
	d      *sha1.Digest
	hashed *atomic.Int64
}

func (w *digestWriter) Write(p []byte) (int, error) {
	if err := w.ctx.Err(); err != nil {
		return 0, err
	}
	if err := w.d.Update(sha1.Bytes(p)); err != nil {
		return 0, err
	}
	w.hashed.Add(int64(len(p)))
	return len(p), nil
}

// trackProgress reports the hashed byte count and rate until the returned
// func is called.
func (h *Hasher) trackProgress() (stop func()) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()

		start := time.Now()
		for {
			select {
			case <-ticker.C:
				h.reportProgress(start)
			case <-done:
				h.reportProgress(start)
				return
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

func (h *Hasher) reportProgress(start time.Time) {
	completed := h.hashed.Load()
	var rate float64
	if elapsed := time.Since(start).Seconds(); elapsed > 0 {
		rate = float64(completed) / elapsed
	}
	h.display.UpdateProgress(completed, rate)
}
