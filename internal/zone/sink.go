package zone

import "errors"

var (
	errRequired         = errors.New("required field is empty")
	errOutOfRange       = errors.New("value out of range")
	errPartialAllocator = errors.New("allocator quadruple must be all four hooks or none")
	errWindowTooSmall   = errors.New("window size too small for the indexer stride plus longest legal token")
	errCacheTooSmall    = errors.New("cache size must be >= 1")
)

// Record is the finished RR handed to a Sink (spec §4.8, §6 "Output
// format"). Owner and RData are valid only for the duration of the Accept
// call unless the sink retains the slot by returning its index again later
// than the cache allows — callers that need to keep bytes must copy them.
type Record struct {
	Owner Name
	Type  uint16
	Class Class
	TTL   uint32
	RData []byte
}

// Sink is the "accept.add" callback from spec §4.8. It is invoked once per
// complete RR, in input order. The return value selects the next-writable
// RDATA cache slot (Open Question c, resolved in cache.go) on success, or
// a negative Code to abort the parse immediately with that code.
//
//   - 0 <= result < cache size: success, result names the slot the parser
//     may overwrite for the next record.
//   - result < 0: fatal; ParseFile/ParseString return that Code.
type Sink func(p *Parser, rec Record) int
