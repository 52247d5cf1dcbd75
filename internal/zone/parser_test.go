package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseOptions(accept Sink) Options {
	return Options{
		Origin:       "example.com.",
		DefaultTTL:   3600,
		DefaultClass: ClassIN,
		Accept:       accept,
		CacheSize:    4,
		WindowSize:   minWindowSize,
	}
}

// Seed scenario 1 (spec §8): a single A record with everything explicit.
func TestParseStringSingleA(t *testing.T) {
	var got []Record
	accept := func(p *Parser, rec Record) int {
		cp := rec
		cp.Owner = append(Name(nil), rec.Owner...)
		cp.RData = append([]byte(nil), rec.RData...)
		got = append(got, cp)
		return 0
	}

	code, err := ParseString(baseOptions(accept), []byte("example.com. 3600 IN A 192.0.2.1\n"))
	require.NoError(t, err)
	assert.Equal(t, Success, code)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, uint16(1), rec.Type)
	assert.Equal(t, ClassIN, rec.Class)
	assert.Equal(t, uint32(3600), rec.TTL)
	assert.Equal(t, []byte{192, 0, 2, 1}, rec.RData)
	assert.Equal(t, "example.com.", rec.Owner.String())
}

// Seed scenario 2 (spec §8): SOA with parens, then TTL inherited by a
// following A record whose owner is relative to origin.
func TestParseStringSOAThenInheritedTTL(t *testing.T) {
	var got []Record
	accept := func(p *Parser, rec Record) int {
		cp := rec
		cp.Owner = append(Name(nil), rec.Owner...)
		cp.RData = append([]byte(nil), rec.RData...)
		got = append(got, cp)
		return 0
	}

	opts := baseOptions(accept)
	opts.Origin = "example."
	opts.DefaultTTL = 60

	input := "@ IN SOA ns. hostmaster. (\n  1 2 3 4 5 )\nwww A 192.0.2.2\n"
	code, err := ParseString(opts, []byte(input))
	require.NoError(t, err)
	assert.Equal(t, Success, code)
	require.Len(t, got, 2)

	assert.Equal(t, uint16(6), got[0].Type)
	assert.Equal(t, uint16(1), got[1].Type)
	assert.Equal(t, uint32(60), got[1].TTL)
	assert.Equal(t, "www.example.", got[1].Owner.String())
}

// Seed scenario 3: unterminated quote at EOF is a fatal SYNTAX_ERROR.
func TestParseStringUnterminatedQuote(t *testing.T) {
	accept := func(p *Parser, rec Record) int { return 0 }
	code, err := ParseString(baseOptions(accept), []byte(`a TXT "unterminated`))
	require.Error(t, err)
	assert.Equal(t, SyntaxError, code)
}

// Seed scenario 5: RFC 3597 generic RR form.
func TestParseStringGenericRRType(t *testing.T) {
	var got []Record
	accept := func(p *Parser, rec Record) int {
		cp := rec
		cp.RData = append([]byte(nil), rec.RData...)
		got = append(got, cp)
		return 0
	}

	code, err := ParseString(baseOptions(accept), []byte(`a TYPE65535 \# 4 AABBCCDD`+"\n"))
	require.NoError(t, err)
	assert.Equal(t, Success, code)
	require.Len(t, got, 1)
	assert.Equal(t, uint16(65535), got[0].Type)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, got[0].RData)
}

// Seed scenario 6: sink returns a negative code on the third record.
func TestParseStringSinkAbort(t *testing.T) {
	count := 0
	accept := func(p *Parser, rec Record) int {
		count++
		if count == 3 {
			return -1
		}
		return 0
	}

	input := "a A 192.0.2.1\nb A 192.0.2.2\nc A 192.0.2.3\nd A 192.0.2.4\n"
	code, err := ParseString(baseOptions(accept), []byte(input))
	require.Error(t, err)
	assert.Equal(t, Code(-1), code)
	assert.Equal(t, 3, count)
}

func TestParseStringRejectsMissingOptions(t *testing.T) {
	_, err := ParseString(Options{}, []byte("a A 1.2.3.4\n"))
	assert.Error(t, err)
}

func TestSOAMinimumSurfaced(t *testing.T) {
	var p *Parser
	accept := func(pp *Parser, rec Record) int {
		p = pp
		return 0
	}
	opts := baseOptions(accept)
	opts.Origin = "example."
	_, err := ParseString(opts, []byte("@ IN SOA ns. hostmaster. 1 2 3 4 300\n"))
	require.NoError(t, err)
	min, ok := p.SOAMinimum()
	assert.True(t, ok)
	assert.Equal(t, uint32(300), min)
}
