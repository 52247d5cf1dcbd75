package zone

import (
	"encoding/binary"
	"strconv"
)

// readRecord assembles one record line into its raw tokens: the owner
// token (nil if omitted) and the remaining tokens up to the terminating
// delimiter or EOF (spec §4.5's "[owner] [ttl] [class] type rdata…").
// Directive lines ($ORIGIN etc.) are recognized here and dispatched
// separately; at end of input readRecord returns eof=true and no tokens.
func (p *Parser) readRecord() (owner []byte, ownerOmitted bool, rest [][]byte, eof bool, err error) {
	f := p.cur

	// Skip blank lines.
	var first token
	for {
		first, err = p.lx.next()
		if err != nil {
			return nil, false, nil, false, err
		}
		if first.kind == tokEOF {
			return nil, false, nil, true, nil
		}
		if first.kind == tokDelimiter {
			continue
		}
		break
	}

	if !first.ownerOmitted && len(first.text) > 0 && first.text[0] == '$' {
		// Directive failures unwind immediately rather than skip-and-
		// continue: a bad $ORIGIN/$TTL/$INCLUDE/$GENERATE leaves every
		// subsequent record's defaults in an unknown state, so there is no
		// safe "next line" to resynchronize at.
		if err := p.handleDirective(string(first.text)); err != nil {
			abort(codeOf(err), err)
		}
		return p.readRecord()
	}

	if !first.ownerOmitted {
		owner = first.text
	} else {
		ownerOmitted = true
		rest = append(rest, first.text)
	}

	for {
		tok, err := p.lx.next()
		if err != nil {
			return nil, false, nil, false, err
		}
		if tok.kind == tokEOF || tok.kind == tokDelimiter {
			break
		}
		rest = append(rest, tok.text)
	}

	_ = f
	return owner, ownerOmitted, rest, false, nil
}

// assembleRecord applies spec §4.5's owner/class/TTL defaulting to one
// record's raw tokens and, on success, builds and delivers its RDATA to
// the sink. Any error it returns is recoverable: the caller logs it and
// resynchronizes at the next line. Fatal conditions (a negative sink
// result, an out-of-range cache index) unwind through abort instead.
func (p *Parser) assembleRecord(ownerTok []byte, ownerOmitted bool, rest [][]byte) error {
	f := p.cur

	var owner Name
	var err error
	if ownerOmitted {
		if f.lastOwner == nil {
			return errSemantic("owner omitted with no previous owner in scope")
		}
		owner = f.lastOwner
	} else {
		owner, err = encodeName(ownerTok, f.origin)
		if err != nil {
			return err
		}
	}

	ttl, class, typeTok, rdataToks, err := splitLinePrefix(rest, f)
	if err != nil {
		return err
	}

	typeCode, known, err := typeNumber(typeTok)
	if err != nil {
		return err
	}

	cur := p.cache.slot(512)
	cursor := &tokenCursor{toks: rdataToks}
	cur, err = buildRData(cur, typeTok, known, cursor, f.origin)
	if err != nil {
		return err
	}
	p.cache.commit(cur)

	if typeCode == 6 && len(cur) >= 4 { // SOA: RFC 2308 MINIMUM is the trailing uint32
		min := binary.BigEndian.Uint32(cur[len(cur)-4:])
		p.lastSOAMinimum = &min
	}

	rec := Record{Owner: owner, Type: typeCode, Class: class, TTL: ttl, RData: cur}
	next := p.opts.Accept(p, rec)
	if next < 0 {
		abort(Code(next), errSemantic("sink aborted with code %d", next))
	}
	if !p.cache.advance(next) {
		abort(BadParameter, errSemantic("sink returned out-of-range cache index %d", next))
	}

	f.lastOwner = owner
	f.lastType = typeCode
	f.lastClass = class
	f.lastTTL = ttl
	return nil
}

// splitLinePrefix peels an optional TTL and an optional class, in either
// order, off the front of toks (spec §4.5), then requires a type mnemonic.
func splitLinePrefix(toks [][]byte, f *file) (ttl uint32, class Class, typeTok string, rdata [][]byte, err error) {
	ttlSet, classSet := false, false
	i := 0
	for i < len(toks) && i < 2 {
		s := string(toks[i])
		if !classSet {
			if c, ok := ParseClass(s); ok {
				class = c
				classSet = true
				i++
				continue
			}
		}
		if !ttlSet {
			if looksLikeTTL(s) {
				ttl, err = ParseTTL(s)
				if err != nil {
					return 0, 0, "", nil, err
				}
				ttlSet = true
				i++
				continue
			}
		}
		break
	}

	if i >= len(toks) {
		return 0, 0, "", nil, errSyntax("record missing type field")
	}
	typeTok = string(toks[i])
	rdata = toks[i+1:]

	if !classSet {
		class = f.lastClass
	}
	if !ttlSet {
		ttl = f.lastTTL
	}
	return ttl, class, typeTok, rdata, nil
}

func looksLikeTTL(s string) bool {
	if s == "" {
		return false
	}
	digits := s
	last := s[len(s)-1]
	switch last {
	case 's', 'S', 'm', 'M', 'h', 'H', 'd', 'D', 'w', 'W':
		digits = s[:len(s)-1]
	}
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	_, err := strconv.ParseUint(digits, 10, 32)
	return err == nil
}
