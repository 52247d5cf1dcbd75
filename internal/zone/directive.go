package zone

import (
	"os"
	"strings"
)

// handleDirective dispatches a line beginning with '$' (spec §4.4). The
// directive keyword itself (without rdata-style trailing tokens) has
// already been identified by readRecord; this re-reads the rest of the
// line as plain tokens since directives don't share the RR grammar.
func (p *Parser) handleDirective(keyword string) error {
	var args [][]byte
	for {
		tok, err := p.lx.next()
		if err != nil {
			return err
		}
		if tok.kind == tokEOF || tok.kind == tokDelimiter {
			break
		}
		args = append(args, tok.text)
	}

	switch strings.ToUpper(keyword) {
	case "$ORIGIN":
		return p.directiveOrigin(args)
	case "$TTL":
		return p.directiveTTL(args)
	case "$INCLUDE":
		return p.directiveInclude(args)
	case "$GENERATE":
		return p.directiveGenerate(args)
	default:
		return errSemantic("unknown directive %q", keyword)
	}
}

func (p *Parser) directiveOrigin(args [][]byte) error {
	if len(args) != 1 {
		return errSyntax("$ORIGIN requires exactly one name")
	}
	n, err := encodeName(args[0], p.cur.origin)
	if err != nil {
		return directiveErr("$ORIGIN", err)
	}
	p.cur.origin = n
	return nil
}

func (p *Parser) directiveTTL(args [][]byte) error {
	if len(args) != 1 {
		return errSyntax("$TTL requires exactly one value")
	}
	ttl, err := ParseTTL(string(args[0]))
	if err != nil {
		return directiveErr("$TTL", err)
	}
	p.cur.lastTTL = ttl
	return nil
}

// directiveInclude pushes a new file frame (spec §4.4, §3, §9's cycle
// rejection). The included file inherits class and TTL defaults but
// starts with the specified origin, or the includer's origin if absent.
func (p *Parser) directiveInclude(args [][]byte) error {
	if len(args) < 1 || len(args) > 2 {
		return errSyntax("$INCLUDE requires a path and an optional origin")
	}

	path, err := resolvePath(p.cur.path, string(args[0]))
	if err != nil {
		return directiveErr("$INCLUDE", &codedError{code: IOError, msg: err.Error()})
	}

	hash := hashPath(path)
	if p.stack.contains(hash) {
		return directiveErr("$INCLUDE", errSemantic("include cycle: %s is already open", path))
	}

	origin := p.cur.origin
	if len(args) == 2 {
		origin, err = encodeName(args[1], p.cur.origin)
		if err != nil {
			return directiveErr("$INCLUDE", err)
		}
	}

	r, err := os.Open(path)
	if err != nil {
		return directiveErr("$INCLUDE", &codedError{code: IOError, msg: err.Error()})
	}

	child := &file{
		name:      string(args[0]),
		path:      path,
		pathHash:  hash,
		src:       newByteSource(r, p.opts.WindowSize, p.bytePool),
		closer:    r,
		t:         newTape(p.opts.WindowSize),
		line:      1,
		lastClass: p.cur.lastClass,
		lastTTL:   p.cur.lastTTL,
		origin:    origin,
	}
	p.stack.push(child)
	p.cur = child
	p.lx = newLexer(child, p.idx)
	return nil
}

// directiveGenerate is NOT_IMPLEMENTED (spec §4.4, Open Question b): the
// taxonomy bit is reserved but no expansion is attempted.
func (p *Parser) directiveGenerate(args [][]byte) error {
	if !p.opts.AllowGenerate {
		return directiveErr("$GENERATE", errNotImplemented("$GENERATE is not implemented"))
	}
	return directiveErr("$GENERATE", errNotImplemented("$GENERATE support was requested but is not yet implemented"))
}

func directiveErr(name string, err error) error {
	return &codedError{code: codeOf(err), msg: name + ": " + err.Error()}
}
