package zone

import "github.com/standardbeagle/zonescan/internal/alloc"

// rdataCache is the ring of reusable RDATA blocks from spec §3/§4.7,
// backed by the teacher-derived tiered slab allocator (internal/alloc)
// instead of a bare slice-of-slices: each slot's backing array comes from
// the RDATA-tiered pool and is returned to it when the slot is reused for
// a larger record than its current capacity.
//
// Sink return-index semantics (Open Question c, resolved in SPEC_FULL.md):
// "next writable" — the index a Sink returns names the slot the parser
// may overwrite for the record *after* the one just delivered, giving the
// sink a guaranteed one-record look-behind on the slot it just received.
type rdataCache struct {
	slots   [][]byte
	current int
	pool    *alloc.SlabAllocator[byte]
}

func newRDataCache(size int, pool *alloc.SlabAllocator[byte]) (*rdataCache, error) {
	if size < 1 {
		return nil, &codedError{code: OutOfMemory, msg: "cache size must be >= 1"}
	}
	return &rdataCache{
		slots: make([][]byte, size),
		pool:  pool,
	}, nil
}

// slot returns the buffer for the current writable index, truncated to
// zero length and grown from the pool if its prior capacity is too small.
func (c *rdataCache) slot(minCapacity int) []byte {
	b := c.slots[c.current]
	if cap(b) < minCapacity {
		if b != nil {
			c.pool.Put(b)
		}
		b = c.pool.Get(minCapacity)
	}
	return b[:0]
}

// commit stores the finished buffer back into the current slot.
func (c *rdataCache) commit(buf []byte) {
	c.slots[c.current] = buf
}

// advance moves the ring to the sink-selected next-writable index,
// validating it against spec §4.8's "0 <= result < cache.size" success
// range. It returns false, leaving the ring unchanged, for an index
// outside that range; negative sink results abort before reaching here.
func (c *rdataCache) advance(next int) bool {
	if next < 0 || next >= len(c.slots) {
		return false
	}
	c.current = next
	return true
}

func (c *rdataCache) size() int { return len(c.slots) }

// release returns every slot's backing array to the pool, run on parser
// close (spec §5's "resource lifetimes", including after an unwind).
func (c *rdataCache) release() {
	for i, b := range c.slots {
		if b != nil {
			c.pool.Put(b)
			c.slots[i] = nil
		}
	}
}
