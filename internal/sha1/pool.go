package sha1

import "sync"

// digestPool is a pool of digests to reduce allocations
var digestPool = sync.Pool{
	New: func() interface{} {
		return new(Digest)
	},
}

// Get returns a reset Digest from the pool.
func Get() *Digest {
	d := digestPool.Get().(*Digest)
	d.Reset()
	return d
}

// Put returns d to the pool. d must not be used afterwards.
func Put(d *Digest) {
	if d == nil {
		return
	}
	digestPool.Put(d)
}
