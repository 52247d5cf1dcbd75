package zone

import (
	"io"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// inlineSentinel is the logical name/path used for in-memory input (spec
// §3's "a sentinel meaning inline string input").
const inlineSentinel = "<string>"

// file is one input frame (spec §3's "File"). Frames form a stack via the
// includer back-link; the bottom frame is embedded directly in Parser.
type file struct {
	name       string // logical name, e.g. the path as given on the command line
	path       string // resolved absolute path, or inlineSentinel
	pathHash   uint64 // xxhash of path, for O(1) cycle-stack membership checks
	src        *byteSource
	closer     io.Closer // non-nil when src wraps an *os.File
	t          *tape
	line       int // 1-origin current line

	// Per-file defaults (spec §3): inherited across records within this
	// file, reset to the includer's values when this frame is popped.
	lastOwner Name
	lastType  uint16
	lastClass Class
	lastTTL   uint32
	origin    Name

	includer *file // back-link; nil for the bottom frame
}

// fileStack tracks open frames for $INCLUDE cycle detection (spec §3, §9:
// "walking the file stack comparing resolved absolute paths").
type fileStack struct {
	top *file
}

func (s *fileStack) push(f *file) {
	f.includer = s.top
	s.top = f
}

func (s *fileStack) pop() *file {
	popped := s.top
	if popped != nil {
		s.top = popped.includer
	}
	return popped
}

// contains reports whether path (by resolved-absolute-path hash) is
// already open somewhere on the stack, rejecting $INCLUDE cycles.
func (s *fileStack) contains(pathHash uint64) bool {
	for f := s.top; f != nil; f = f.includer {
		if f.pathHash == pathHash {
			return true
		}
	}
	return false
}

func hashPath(p string) uint64 {
	return xxhash.Sum64String(p)
}

func resolvePath(base, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel), nil
	}
	dir := filepath.Dir(base)
	return filepath.Abs(filepath.Join(dir, rel))
}

// byteReader adapts a []byte to io.Reader without copying, used for
// ParseString's in-memory input (spec §6: "does not take ownership of the
// buffer but must not write past its end").
type byteReader struct {
	b   []byte
	pos int
}

func newByteReader(b []byte) *byteReader { return &byteReader{b: b} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}
