package zone

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/zonescan/internal/alloc"
)

// Parser is the top-level parse context (spec §3). One Parser serves
// exactly one parse invocation (ParseFile or ParseString); callers
// running independent parses concurrently must use separate Parsers and
// caches (spec §5).
type Parser struct {
	opts     Options
	bottom   file
	stack    fileStack
	cur      *file
	lx       *lexer
	idx      structuralIndexer
	cache    *rdataCache
	bytePool *alloc.SlabAllocator[byte]

	// lastSOAMinimum caches the most recently parsed SOA record's
	// MINIMUM field (Open Question a, resolved in SPEC_FULL.md): it does
	// not retroactively change TTL defaulting, but callers doing negative
	// caching can read it here.
	lastSOAMinimum *uint32
}

// SOAMinimum returns the MINIMUM field of the most recently parsed SOA
// record, if any has been seen yet in this parse.
func (p *Parser) SOAMinimum() (uint32, bool) {
	if p.lastSOAMinimum == nil {
		return 0, false
	}
	return *p.lastSOAMinimum, true
}

// ParseFile opens path and parses it to completion or the first fatal
// error (spec §6's "parse_file").
func ParseFile(opts Options, path string) (Code, error) {
	if err := opts.Validate(); err != nil {
		return BadParameter, err
	}

	r, err := os.Open(path)
	if err != nil {
		return IOError, err
	}

	p, err := newParser(opts)
	if err != nil {
		return OutOfMemory, err
	}

	p.bottom = file{
		name:      path,
		path:      absOrSelf(path),
		pathHash:  hashPath(absOrSelf(path)),
		src:       newByteSource(r, opts.WindowSize, p.bytePool),
		closer:    r,
		t:         newTape(opts.WindowSize),
		line:      1,
		lastClass: opts.DefaultClass,
		lastTTL:   opts.DefaultTTL,
		origin:    encodedOrigin(opts.Origin),
	}
	p.stack.top = &p.bottom
	p.cur = &p.bottom
	p.lx = newLexer(p.cur, p.idx)

	return p.run()
}

// ParseString parses an in-memory buffer (spec §6's "parse_string"). The
// parser does not take ownership of data and never writes past its end.
func ParseString(opts Options, data []byte) (Code, error) {
	if err := opts.Validate(); err != nil {
		return BadParameter, err
	}

	p, err := newParser(opts)
	if err != nil {
		return OutOfMemory, err
	}

	p.bottom = file{
		name:      inlineSentinel,
		path:      inlineSentinel,
		pathHash:  hashPath(inlineSentinel),
		src:       newByteSource(newByteReader(data), opts.WindowSize, p.bytePool),
		t:         newTape(opts.WindowSize),
		line:      1,
		lastClass: opts.DefaultClass,
		lastTTL:   opts.DefaultTTL,
		origin:    encodedOrigin(opts.Origin),
	}
	p.stack.top = &p.bottom
	p.cur = &p.bottom
	p.lx = newLexer(p.cur, p.idx)

	return p.run()
}

func newParser(opts Options) (*Parser, error) {
	return &Parser{
		opts:     opts,
		idx:      selectIndexer(opts.Variant),
		bytePool: alloc.NewWindowAllocator[byte](),
	}, nil
}

func encodedOrigin(presentation string) Name {
	n, err := encodeName([]byte(presentation), nil)
	if err != nil {
		// Options.Validate already required a non-empty Origin; a
		// malformed one surfaces here as an immediate semantic error
		// the caller sees via the returned Code from run().
		return nil
	}
	return n
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// run drives the read-record/assemble/deliver loop until EOF of the
// bottom frame or a fatal error, with the non-local unwind (spec §4.9)
// installed exactly once here.
func (p *Parser) run() (code Code, err error) {
	rdataPool := alloc.NewRDATAAllocator[byte]()
	cache, cerr := newRDataCache(p.opts.CacheSize, rdataPool)
	if cerr != nil {
		return OutOfMemory, cerr
	}
	p.cache = cache

	defer p.closeAll()
	defer recoverAbort(&code, &err)

	if p.bottom.origin == nil {
		return SemanticError, errSemantic("malformed origin %q", p.opts.Origin)
	}

	for {
		ownerTok, ownerOmitted, rest, eof, rerr := p.readRecord()
		if rerr != nil {
			c := codeOf(rerr)
			if isLexicalFatal(rerr) {
				abort(c, rerr)
			}
			p.opts.log(CategoryDirective, "recoverable error: %v", rerr)
			continue
		}
		if eof {
			if p.cur.includer == nil {
				return Success, nil
			}
			p.popInclude()
			continue
		}
		if ownerTok == nil && !ownerOmitted && len(rest) == 0 {
			// Directive-only line already handled inside readRecord.
			continue
		}

		if aerr := p.assembleRecord(ownerTok, ownerOmitted, rest); aerr != nil {
			p.opts.log(CategoryRData, "record skipped: %v", aerr)
			continue
		}
	}
}

// isLexicalFatal reports whether err must unwind immediately rather than
// simply skip the current record (spec §7: syntax errors that desync the
// lexer are always fatal, as are I/O errors).
func isLexicalFatal(err error) bool {
	switch codeOf(err) {
	case SyntaxError, IOError, OutOfMemory:
		return true
	default:
		return false
	}
}

// popInclude returns control to the includer with its defaults intact
// (spec §4.4: "On EOF of the included frame, control returns to the
// includer with the includer's defaults intact").
func (p *Parser) popInclude() {
	done := p.stack.pop()
	if done.closer != nil {
		done.closer.Close()
	}
	done.src.close()
	p.cur = p.stack.top
	p.lx = newLexer(p.cur, p.idx)
	// Resume just past the includer's last consumed tape entry (the
	// newline ending the $INCLUDE line), not at the start of its window.
	if t := p.cur.t; t.tail > 0 {
		p.lx.cursor = t.entries[t.tail-1].BytePointer + 1
		p.lx.nextOwnerOmitted = p.lx.peekBlankAtCursor()
	}
}

// closeAll releases every open frame and the RDATA cache (spec §5's
// resource-lifetime guarantee, including after an unwind).
func (p *Parser) closeAll() {
	for f := p.stack.top; f != nil; f = f.includer {
		if f.closer != nil {
			f.closer.Close()
		}
		if f.src != nil {
			f.src.close()
		}
	}
	if p.cache != nil {
		p.cache.release()
	}
}
