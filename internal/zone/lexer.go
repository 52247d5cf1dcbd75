package zone

// tokenKind identifies one of the four lexical token shapes from spec §4.3.
type tokenKind uint8

const (
	tokContiguous tokenKind = iota
	tokQuoted
	tokDelimiter
	tokEOF
)

// token is one assembled lexical unit. OwnerOmitted is only meaningful on
// the first token of a record and reports whether the line began with a
// blank (spec §4.3's "line-start arms the owner slot").
type token struct {
	kind         tokenKind
	text         []byte
	line         int
	ownerOmitted bool
}

// lexer assembles tape entries and raw window bytes into tokens (spec
// §4.3). It owns the paren-depth/quote/comment state machine; the
// structural indexer only supplies candidate byte offsets.
type lexer struct {
	f      *file
	idx    structuralIndexer
	cursor int // bytes of the current window already turned into output

	parenDepth int
	nextOwnerOmitted bool // computed when crossing a newline, consumed by the next contiguous token
	sawAnyToken      bool
}

func newLexer(f *file, idx structuralIndexer) *lexer {
	return &lexer{f: f, idx: idx, nextOwnerOmitted: false}
}

// ensure guarantees the tape has entries for the remainder of the current
// window, or reports that no more input exists. It advances the
// byte-stream source past bytes already turned into tokens before
// refilling, implementing the indexer-writes-ahead/lexer-reads-behind
// handoff from spec §3.
func (lx *lexer) ensure() error {
	f := lx.f
	if !f.t.drained() {
		return nil
	}
	if lx.cursor > 0 {
		f.src.advance(lx.cursor)
		lx.cursor = 0
	}
	if f.src.atEOF() && len(f.src.window()) == 0 {
		return nil
	}
	if err := f.src.refill(f.src.capacity); err != nil {
		return &codedError{code: IOError, msg: err.Error()}
	}
	window := f.src.window()
	f.t.reset()
	lx.idx.index(window, f.src.atEOF(), f.t)
	return nil
}

// next returns the next token. EOF is returned as a tokEOF token, never
// an error; unterminated quotes/parens at EOF surface as errors instead.
func (lx *lexer) next() (token, error) {
	f := lx.f
	var content []byte
	building := false
	var kind tokenKind
	inQuote := false
	ownerOmitted := lx.nextOwnerOmitted
	lx.nextOwnerOmitted = false

	for {
		if err := lx.ensure(); err != nil {
			return token{}, err
		}
		entry, ok := f.t.next()
		if !ok {
			// Tape drained with nothing more to index: EOF.
			if building {
				if inQuote {
					return token{}, errSyntax("unterminated quoted string at EOF")
				}
				return token{kind: kind, text: content, line: f.line, ownerOmitted: ownerOmitted}, nil
			}
			if lx.parenDepth > 0 {
				return token{}, errSyntax("unbalanced '(' at EOF")
			}
			return token{kind: tokEOF, line: f.line}, nil
		}

		window := f.src.window()

		// Copy the ordinary run between the last position and this
		// structural byte into the token under construction. The indexer
		// never emits a marker for a token's own first byte unless that
		// byte follows a blank run (IndexWordStart); a non-blank run
		// reaching any other marker while not yet building is therefore
		// unmarked plain content — the start of input, or a token that
		// immediately follows a non-blank structural byte with no
		// intervening blank — and must be captured, not discarded. Blank
		// bytes at the front of such a run are the rest of a blank run and
		// are dropped; a run ending in IndexWordStart is all filler.
		if entry.BytePointer > lx.cursor {
			if building {
				content = append(content, window[lx.cursor:entry.BytePointer]...)
			} else if entry.Code != IndexWordStart {
				gap := window[lx.cursor:entry.BytePointer]
				for len(gap) > 0 && isBlank(gap[0]) {
					gap = gap[1:]
				}
				if len(gap) > 0 {
					content = append(content, gap...)
					building = true
					kind = tokContiguous
				}
			}
		}
		lx.cursor = entry.BytePointer

		switch entry.Code {
		case IndexWhitespace:
			if inQuote {
				// Inside quotes, blanks are ordinary content: the cursor
				// stays on this byte so the next run copy includes it.
				continue
			}
			if building {
				return token{kind: kind, text: content, line: f.line, ownerOmitted: ownerOmitted}, nil
			}
			lx.cursor++
			continue

		case IndexWordStart:
			if inQuote {
				continue
			}
			if building {
				// A word-start marker can't occur mid-token; treat it the
				// same as a delimiting blank defensively.
				return token{kind: kind, text: content, line: f.line, ownerOmitted: ownerOmitted}, nil
			}
			// This marker's own byte is the token's first content byte:
			// start building here without consuming it, so the bulk copy
			// on the next loop iteration picks it up along with the rest
			// of the run.
			building = true
			kind = tokContiguous
			continue

		case IndexEscape:
			// The lexer only validates escape shape and copies the raw
			// "\DDD"/"\X" sequence through; what it decodes to (a literal
			// byte, or a label separator left un-split) depends on the
			// field consuming the token, so decoding happens downstream
			// (name.go's splitLabels, rdata.go's decodeCharString).
			_, n, err := decodeEscape(window[entry.BytePointer:])
			if err != nil {
				return token{}, err
			}
			content = append(content, window[entry.BytePointer:entry.BytePointer+n]...)
			building = true
			kind = tokContiguous
			if inQuote {
				kind = tokQuoted
			}
			lx.cursor += n
			continue

		case IndexQuote:
			lx.cursor++
			if !inQuote {
				if building {
					// A quote starting mid-token is malformed: report it
					// as a syntax error.
					return token{}, errSyntax("quote may not begin inside an unquoted token")
				}
				inQuote = true
				building = true
				kind = tokQuoted
				continue
			}
			// Closing quote: done.
			inQuote = false
			return token{kind: tokQuoted, text: content, line: f.line, ownerOmitted: ownerOmitted}, nil

		case IndexParenOpen:
			if inQuote {
				content = append(content, '(')
				lx.cursor++
				continue
			}
			if building {
				f.t.tail--
				return token{kind: kind, text: content, line: f.line, ownerOmitted: ownerOmitted}, nil
			}
			lx.cursor++
			lx.parenDepth++
			continue

		case IndexParenClose:
			if inQuote {
				content = append(content, ')')
				lx.cursor++
				continue
			}
			if building {
				f.t.tail--
				return token{kind: kind, text: content, line: f.line, ownerOmitted: ownerOmitted}, nil
			}
			lx.cursor++
			lx.parenDepth--
			if lx.parenDepth < 0 {
				return token{}, errSyntax("unbalanced ')'")
			}
			continue

		case IndexComment:
			if inQuote {
				content = append(content, ';')
				lx.cursor++
				continue
			}
			if building {
				f.t.tail--
				return token{kind: kind, text: content, line: f.line, ownerOmitted: ownerOmitted}, nil
			}
			lx.cursor++
			if err := lx.skipComment(); err != nil {
				return token{}, err
			}
			continue

		case IndexNewline:
			lx.cursor++
			if inQuote {
				return token{}, errSyntax("newline inside quoted string")
			}
			f.line++
			if lx.parenDepth > 0 {
				// Masked as whitespace per spec §4.3.
				if building {
					return token{kind: kind, text: content, line: f.line - 1, ownerOmitted: ownerOmitted}, nil
				}
				continue
			}
			if building {
				// The newline ends the in-progress token; push it back
				// onto the tape so the next call reprocesses it as the
				// delimiter.
				lx.cursor--
				f.line--
				f.t.tail--
				return token{kind: kind, text: content, line: f.line, ownerOmitted: ownerOmitted}, nil
			}
			lx.nextOwnerOmitted = lx.peekBlankAtCursor()
			return token{kind: tokDelimiter, line: f.line - 1}, nil
		}
	}
}

// skipComment consumes bytes from the comment marker to the next newline
// (exclusive), re-synchronizing the cursor without emitting a token
// (spec §4.3: "; outside quotes opens comment-to-eol").
func (lx *lexer) skipComment() error {
	f := lx.f
	for {
		if err := lx.ensure(); err != nil {
			return err
		}
		entry, ok := f.t.next()
		if !ok {
			return nil // comment runs to EOF; no error
		}
		lx.cursor = entry.BytePointer
		if entry.Code == IndexNewline {
			// Leave the newline for the main loop to process as a
			// delimiter (or masked whitespace inside parens).
			f.t.tail--
			return nil
		}
		lx.cursor++
	}
}

// peekBlankAtCursor reports whether the byte at the current cursor (the
// first byte of the new line) is a blank, meaning the line omits its
// owner (spec §4.3).
func (lx *lexer) peekBlankAtCursor() bool {
	window := lx.f.src.window()
	if lx.cursor >= len(window) {
		return false
	}
	return isBlank(window[lx.cursor])
}
