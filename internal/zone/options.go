package zone

import (
	"strconv"

	zerrors "github.com/standardbeagle/zonescan/internal/errors"
)

// Category names a log channel a caller can selectively enable (spec §3's
// "log.categories"). Defined here, not in the logging package, so the
// parser core never imports its own ambient logger implementation.
type Category string

const (
	CategoryScan      Category = "scan"
	CategoryLex       Category = "lex"
	CategoryRData     Category = "rdata"
	CategoryDirective Category = "directive"
	CategoryMCP       Category = "mcp"
)

// Logger is the "log.write" collaborator from spec §3. A nil Logger inside
// Options means no logging occurs; the default implementation lives in
// internal/zlog and is wired in by the CLI/MCP layers.
type Logger interface {
	Log(category Category, format string, args ...any)
}

// Class is a DNS class value (spec glossary: IN, CS, CH, HS).
type Class uint16

const (
	ClassIN Class = 1
	ClassCS Class = 2
	ClassCH Class = 3
	ClassHS Class = 4
)

func (c Class) String() string {
	switch c {
	case ClassIN:
		return "IN"
	case ClassCS:
		return "CS"
	case ClassCH:
		return "CH"
	case ClassHS:
		return "HS"
	default:
		return "CLASS" + strconv.Itoa(int(c))
	}
}

// ParseClass maps a class mnemonic to its numeric value.
func ParseClass(s string) (Class, bool) {
	switch s {
	case "IN":
		return ClassIN, true
	case "CS":
		return ClassCS, true
	case "CH":
		return ClassCH, true
	case "HS":
		return ClassHS, true
	default:
		return 0, false
	}
}

// AllocatorHooks is the optional custom allocator quadruple from spec §3.
// Implementations SHOULD route parser allocations through it when set, and
// MUST validate that either all four hooks are provided or none (spec §9).
type AllocatorHooks struct {
	Malloc  func(size int) []byte
	Realloc func(buf []byte, size int) []byte
	Free    func(buf []byte)
	Arena   any
}

func (h AllocatorHooks) isZero() bool {
	return h.Malloc == nil && h.Realloc == nil && h.Free == nil && h.Arena == nil
}

func (h AllocatorHooks) isComplete() bool {
	return h.Malloc != nil && h.Realloc != nil && h.Free != nil && h.Arena != nil
}

// Options is the recognized-knobs surface from spec §3.
type Options struct {
	// Origin is the required syntactic name new files start with when no
	// includer origin is in effect.
	Origin string

	// DefaultTTL seeds last_ttl before any record or $TTL sets it.
	// Range 1..2^31-1 per spec §3.
	DefaultTTL uint32

	// DefaultClass seeds last_class before any record sets it.
	DefaultClass Class

	// Accept is the required sink callback (spec §4.8).
	Accept Sink

	// UserData is passed through to Accept on every call, uninterpreted.
	UserData any

	// Log is optional; nil disables logging entirely.
	Log Logger

	// LogCategories restricts which categories reach Log. Empty means "all".
	LogCategories []Category

	// Allocator is optional; the zero value means "use Go's allocator".
	Allocator AllocatorHooks

	// WindowSize is the byte-stream source's sliding-window capacity.
	// Must exceed the indexer's stride plus the longest legal token;
	// spec §4.1 recommends >= 64 KiB.
	WindowSize int

	// CacheSize is the RDATA ring's slot count (spec §4.7). Must be >= 1.
	CacheSize int

	// AllowGenerate changes only the error message for $GENERATE (spec
	// §4.4, Open Question b): the directive fails with NotImplemented
	// whether or not it is set, and no expansion is performed.
	AllowGenerate bool

	// Variant overrides indexer-variant selection, equivalent to setting
	// ZONE_TARGET (spec §4.10, §6). Empty defers to feature detection.
	Variant string
}

const (
	minWindowSize = 4096
	defaultWindow = 64 * 1024
	defaultCache  = 4
)

// Validate checks Options against spec §3's required fields and ranges,
// filling in defaults for optional sizing knobs. Returns a *errors.ConfigError
// wrapping BadParameter semantics on failure.
func (o *Options) Validate() error {
	if o.Origin == "" {
		return zerrors.NewConfigError("origin", o.Origin, errRequired)
	}
	if o.DefaultTTL == 0 || o.DefaultTTL > 1<<31-1 {
		return zerrors.NewConfigError("default_ttl", strconv.Itoa(int(o.DefaultTTL)), errOutOfRange)
	}
	if o.DefaultClass == 0 {
		return zerrors.NewConfigError("default_class", "0", errRequired)
	}
	if o.Accept == nil {
		return zerrors.NewConfigError("accept.add", "", errRequired)
	}
	if !o.Allocator.isZero() && !o.Allocator.isComplete() {
		return zerrors.NewConfigError("allocator", "", errPartialAllocator)
	}
	if o.WindowSize == 0 {
		o.WindowSize = defaultWindow
	}
	if o.WindowSize < minWindowSize {
		return zerrors.NewConfigError("window_size", strconv.Itoa(o.WindowSize), errWindowTooSmall)
	}
	if o.CacheSize == 0 {
		o.CacheSize = defaultCache
	}
	if o.CacheSize < 1 {
		return zerrors.NewConfigError("cache_size", strconv.Itoa(o.CacheSize), errCacheTooSmall)
	}
	return nil
}

func (o *Options) logEnabled(c Category) bool {
	if len(o.LogCategories) == 0 {
		return true
	}
	for _, want := range o.LogCategories {
		if want == c {
			return true
		}
	}
	return false
}

func (o *Options) log(c Category, format string, args ...any) {
	if o.Log == nil || !o.logEnabled(c) {
		return
	}
	o.Log.Log(c, format, args...)
}

