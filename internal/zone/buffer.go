package zone

import (
	"io"

	"github.com/standardbeagle/zonescan/internal/alloc"
)

// byteSource is the sliding window over an input stream from spec §4.1.
// It compacts unread bytes to the front and refills from the underlying
// reader on demand. After a successful refill, at least `want` bytes are
// available unless EOF was reached, in which case a trailing NUL sentinel
// marks the end of valid data at data[length].
type byteSource struct {
	r        io.Reader
	data     []byte
	length   int // valid bytes in data[0:length]
	read     int // data[0:read] already consumed by the indexer
	eof      bool
	pool     *alloc.SlabAllocator[byte]
	capacity int
}

// newByteSource wraps r with a window of the given capacity, drawn from a
// shared window-buffer pool (spec §4.1's WINDOW_SIZE, backed by the
// teacher-derived tiered allocator; see internal/alloc).
func newByteSource(r io.Reader, capacity int, pool *alloc.SlabAllocator[byte]) *byteSource {
	return &byteSource{
		r:        r,
		data:     pool.Get(capacity)[:0],
		pool:     pool,
		capacity: capacity,
	}
}

// close returns the window buffer to its pool.
func (b *byteSource) close() {
	if b.pool != nil && b.data != nil {
		b.pool.Put(b.data)
		b.data = nil
	}
}

// window returns the currently unread bytes.
func (b *byteSource) window() []byte {
	return b.data[b.read:b.length]
}

// advance marks n bytes of the window as consumed.
func (b *byteSource) advance(n int) {
	b.read += n
	if b.read > b.length {
		b.read = b.length
	}
}

// atEOF reports whether the unread window is the final one (no more
// bytes will ever follow it).
func (b *byteSource) atEOF() bool {
	return b.eof && b.read >= b.length
}

// refill ensures at least `want` bytes are available past the current read
// index, compacting and reading from the underlying stream as needed.
// Returns IOError on an unrecoverable read error.
func (b *byteSource) refill(want int) error {
	if b.length-b.read >= want || b.eof {
		return nil
	}

	// Compact: slide unread bytes to the front.
	unread := b.length - b.read
	copy(b.data[:unread], b.data[b.read:b.length])
	b.length = unread
	b.read = 0

	for b.length-b.read < want && !b.eof {
		if b.length >= cap(b.data) {
			grown := b.pool.GrowSlice(b.data[:b.length], cap(b.data))
			b.data = grown[:cap(grown)]
			b.data = b.data[:b.length]
		}
		n, err := b.r.Read(b.data[b.length:cap(b.data)])
		if n > 0 {
			b.length += n
		}
		if err == io.EOF {
			b.eof = true
			// Place the NUL sentinel just past valid data (spec §4.1).
			if b.length < cap(b.data) {
				b.data = b.data[:b.length+1]
				b.data[b.length] = 0
			}
			break
		}
		if err != nil {
			return err
		}
		if n == 0 {
			// A reader returning (0, nil) is a contract violation but
			// must not spin forever.
			return io.ErrNoProgress
		}
	}
	return nil
}
