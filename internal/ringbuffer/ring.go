// Package ringbuffer is a bounded byte pipe between one producer and one
// consumer. The hasher uses it to read a file ahead while the previous
// chunk is being hashed.
package ringbuffer

import (
	"io"
	"sync"
)

type RingBuffer struct {
	m        sync.Mutex
	readable *sync.Cond
	writable *sync.Cond
	buf      []byte

	start int // first buffered byte
	end   int // first free byte
	n     int // buffered bytes

	// set once by CloseWithError or a failing consumer
	err error
}

func New(size int) *RingBuffer {
	if size <= 0 {
		size = 1
	}
	r := &RingBuffer{buf: make([]byte, size)}
	r.readable = sync.NewCond(&r.m)
	r.writable = sync.NewCond(&r.m)
	return r
}

// Read blocks until data is buffered or the writer closed the buffer. Once
// drained, a closed buffer returns the close error (io.EOF for CloseWriter).
func (r *RingBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	r.m.Lock()
	defer r.m.Unlock()
	for r.n == 0 && r.err == nil {
		r.readable.Wait()
	}
	if r.n == 0 {
		return 0, r.err
	}

	w := 0
	for w < len(p) && r.n > 0 {
		k := min(len(p)-w, r.n, len(r.buf)-r.start)
		copy(p[w:w+k], r.buf[r.start:r.start+k])
		r.advanceRead(k)
		w += k
	}
	r.writable.Broadcast()
	return w, nil
}

// Write blocks until all of p is buffered. It fails with io.ErrClosedPipe
// once the buffer is closed.
func (r *RingBuffer) Write(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()

	w := 0
	for w < len(p) {
		for r.n == len(r.buf) && r.err == nil {
			r.writable.Wait()
		}
		if r.err != nil {
			return w, io.ErrClosedPipe
		}

		k := min(len(p)-w, len(r.buf)-r.n, len(r.buf)-r.end)
		copy(r.buf[r.end:r.end+k], p[w:w+k])
		r.advanceWrite(k)
		w += k
		r.readable.Broadcast()
	}
	return w, nil
}

// ReadFrom fills the buffer from src until src returns io.EOF. The read into
// free space happens without holding the lock so the consumer keeps going.
// It does not close the buffer; call CloseWriter or CloseWithError after.
func (r *RingBuffer) ReadFrom(src io.Reader) (int64, error) {
	var total int64
	for {
		r.m.Lock()
		for r.n == len(r.buf) && r.err == nil {
			r.writable.Wait()
		}
		if r.err != nil {
			r.m.Unlock()
			return total, io.ErrClosedPipe
		}
		end := r.end
		k := min(len(r.buf)-r.n, len(r.buf)-end)
		r.m.Unlock()

		nn, err := src.Read(r.buf[end : end+k])
		if nn > 0 {
			r.m.Lock()
			r.advanceWrite(nn)
			r.readable.Broadcast()
			r.m.Unlock()
			total += int64(nn)
		}

		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}

// WriteTo drains the buffer into dst until the writer closes it. A close
// with io.EOF ends with a nil error; any other close error is returned. A
// failing dst closes the buffer so the producer stops.
func (r *RingBuffer) WriteTo(dst io.Writer) (int64, error) {
	var total int64
	for {
		r.m.Lock()
		for r.n == 0 && r.err == nil {
			r.readable.Wait()
		}
		if r.n == 0 {
			err := r.err
			r.m.Unlock()
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
		start := r.start
		k := min(r.n, len(r.buf)-start)
		r.m.Unlock()

		nn, err := dst.Write(r.buf[start : start+k])
		if err == nil && nn < k {
			err = io.ErrShortWrite
		}

		r.m.Lock()
		r.advanceRead(nn)
		if err != nil && r.err == nil {
			r.err = err
		}
		r.writable.Broadcast()
		r.m.Unlock()

		total += int64(nn)
		if err != nil {
			return total, err
		}
	}
}

func (r *RingBuffer) Len() int {
	r.m.Lock()
	defer r.m.Unlock()
	return r.n
}

func (r *RingBuffer) Size() int {
	return len(r.buf)
}

func (r *RingBuffer) CloseWriter() {
	r.CloseWithError(io.EOF)
}

// CloseWithError marks the end of the stream. Readers drain what is left and
// then receive err. The first close wins.
func (r *RingBuffer) CloseWithError(err error) {
	if err == nil {
		err = io.EOF
	}
	r.m.Lock()
	defer r.m.Unlock()
	if r.err == nil {
		r.err = err
	}
	r.readable.Broadcast()
	r.writable.Broadcast()
}

// Reset empties the buffer and reopens it for reuse. It must not race with
// an active producer or consumer.
func (r *RingBuffer) Reset() {
	r.m.Lock()
	defer r.m.Unlock()
	r.start, r.end, r.n = 0, 0, 0
	r.err = nil
}

func (r *RingBuffer) advanceRead(n int) {
	r.start = (r.start + n) % len(r.buf)
	r.n -= n
}

func (r *RingBuffer) advanceWrite(n int) {
	r.end = (r.end + n) % len(r.buf)
	r.n += n
}
