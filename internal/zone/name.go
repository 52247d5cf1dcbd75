package zone

import "strings"

// MaxNameLength is the wire-format ceiling for an encoded name (spec §3).
const MaxNameLength = 255

// MaxLabelLength is the per-label ceiling (spec §3).
const MaxLabelLength = 63

// Name is a length-prefixed DNS name: concatenated labels
// <len><bytes>...<0> (spec §3's "Name" data-model entry).
type Name []byte

// String renders a Name back to presentation form, escaping bytes outside
// the printable-ASCII label-safe set the way the lexer's own escaping does.
func (n Name) String() string {
	if len(n) == 0 {
		return "."
	}
	var b strings.Builder
	i := 0
	for i < len(n) {
		l := int(n[i])
		i++
		if l == 0 {
			break
		}
		for j := 0; j < l && i < len(n); j++ {
			c := n[i]
			i++
			switch {
			case c == '.' || c == '\\':
				b.WriteByte('\\')
				b.WriteByte(c)
			case c < 0x21 || c > 0x7e:
				b.WriteByte('\\')
				b.WriteString(pad3(int(c)))
			default:
				b.WriteByte(c)
			}
		}
		b.WriteByte('.')
	}
	if b.Len() == 0 {
		return "."
	}
	return b.String()
}

func pad3(n int) string {
	digits := [3]byte{byte('0' + n/100), byte('0' + (n/10)%10), byte('0' + n%10)}
	return string(digits[:])
}

// encodeName parses a presentation-format name token into wire format,
// resolving "@" and relative names against origin (spec §4.6). The token
// arrives with its \DDD/\X escapes still raw; splitLabels splits it on
// unescaped '.' and decodes the escapes within each label.
func encodeName(token []byte, origin Name) (Name, error) {
	if len(token) == 1 && token[0] == '@' {
		if len(origin) == 0 {
			return nil, errSemantic("@ used with no origin in scope")
		}
		return origin, nil
	}

	absolute := len(token) > 0 && token[len(token)-1] == '.'

	labels, err := splitLabels(token)
	if err != nil {
		return nil, err
	}

	out := make(Name, 0, MaxNameLength)
	for _, lbl := range labels {
		if len(lbl) > MaxLabelLength {
			return nil, errSemantic("label exceeds 63 octets")
		}
		if len(lbl) == 0 {
			return nil, errSemantic("empty non-terminal label")
		}
		out = append(out, byte(len(lbl)))
		out = append(out, lbl...)
	}

	if !absolute {
		if len(origin) == 0 {
			return nil, errSemantic("relative name with no origin in scope")
		}
		out = append(out, origin...)
	} else {
		out = append(out, 0)
	}

	if len(out) > MaxNameLength {
		return nil, errSemantic("name exceeds 255 octets")
	}
	return out, nil
}

// splitLabels splits a presentation-format name on unescaped '.',
// resolving \DDD and \X escapes within each label to literal bytes.
func splitLabels(token []byte) ([][]byte, error) {
	var labels [][]byte
	var cur []byte
	i := 0
	for i < len(token) {
		c := token[i]
		switch {
		case c == '\\':
			b, n, err := decodeEscape(token[i:])
			if err != nil {
				return nil, err
			}
			cur = append(cur, b)
			i += n
		case c == '.':
			labels = append(labels, cur)
			cur = nil
			i++
		default:
			cur = append(cur, c)
			i++
		}
	}
	if len(cur) > 0 || len(labels) == 0 {
		labels = append(labels, cur)
	}
	return labels, nil
}

// decodeEscape decodes one \DDD or \X escape starting at s[0]=='\\',
// returning the literal byte and the number of input bytes consumed.
func decodeEscape(s []byte) (byte, int, error) {
	if len(s) < 2 {
		return 0, 0, errSyntax("dangling escape at end of token")
	}
	if isDigit(s[1]) {
		if len(s) < 4 || !isDigit(s[2]) || !isDigit(s[3]) {
			return 0, 0, errSyntax(`\DDD escape requires three decimal digits`)
		}
		v := (int(s[1]-'0'))*100 + (int(s[2]-'0'))*10 + int(s[3]-'0')
		if v > 255 {
			return 0, 0, errSyntax(`\DDD escape out of byte range`)
		}
		return byte(v), 4, nil
	}
	return s[1], 2, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
