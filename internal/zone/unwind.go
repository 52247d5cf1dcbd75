package zone

import "fmt"

// codedError carries a terminal Code alongside a message. Field-level
// encoders and name parsing raise these without any file/line context,
// and the RR state machine (rr.go) logs or aborts with them as they are;
// no position is attached.
type codedError struct {
	code Code
	msg  string
}

func (e *codedError) Error() string { return e.msg }

func errSemantic(format string, args ...any) error {
	return &codedError{code: SemanticError, msg: fmt.Sprintf(format, args...)}
}

func errSyntax(format string, args ...any) error {
	return &codedError{code: SyntaxError, msg: fmt.Sprintf(format, args...)}
}

func errNotImplemented(format string, args ...any) error {
	return &codedError{code: NotImplemented, msg: fmt.Sprintf(format, args...)}
}

func codeOf(err error) Code {
	if ce, ok := err.(*codedError); ok {
		return ce.code
	}
	return SemanticError
}

// scanAbort is the sentinel panicked to unwind the parser non-locally
// (spec §4.9, §9's "save-and-jump primitive", re-expressed as Go's
// panic/recover instead of C's setjmp/longjmp). It is only ever recovered
// once, at the top of Parser.run.
type scanAbort struct {
	code Code
	err  error
}

// abort performs the non-local exit: any field encoder, directive
// handler, or the lexer itself may call this to unwind straight back to
// Parser.run without threading an error return through every call frame.
func abort(code Code, err error) {
	panic(&scanAbort{code: code, err: err})
}

// recoverAbort must be deferred exactly once, at the top of Parser.run.
// It converts a scanAbort panic into (code, err); any other panic
// propagates unchanged, since it signals a genuine programming error
// rather than a modeled parse failure.
func recoverAbort(code *Code, err *error) {
	if r := recover(); r != nil {
		sa, ok := r.(*scanAbort)
		if !ok {
			panic(r)
		}
		*code = sa.code
		*err = sa.err
	}
}
