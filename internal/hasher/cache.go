package hasher

import (
	"strconv"
	"sync"

	"github.com/floatdrop/lru"

	"github.com/autobrr/mksha1/internal/types"
)

// cacheKey identifies one version of a file. A changed size or modification
// time makes an old sum unreachable.
type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

// String is the key of an in-flight hash of this file version.
func (k cacheKey) String() string {
	return strconv.FormatInt(k.size, 10) + ":" + strconv.FormatInt(k.modTime, 10) + ":" + k.path
}

type sumCache struct {
	mu  sync.Mutex
	lru *lru.LRU[cacheKey, types.Sum]
}

func newSumCache(size int) *sumCache {
	return &sumCache{lru: lru.New[cacheKey, types.Sum](size)}
}

func (c *sumCache) get(key cacheKey) (types.Sum, bool) {
	if c == nil {
		return types.ZeroSum, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v := c.lru.Get(key); v != nil {
		return *v, true
	}
	return types.ZeroSum, false
}

func (c *sumCache) set(key cacheKey, sum types.Sum) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Set(key, sum)
}

func (c *sumCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
