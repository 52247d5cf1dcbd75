package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeNameAbsolute(t *testing.T) {
	n, err := encodeName([]byte("www.example.com."), nil)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.", n.String())
}

func TestEncodeNameRelativeToOrigin(t *testing.T) {
	origin, err := encodeName([]byte("example.com."), nil)
	require.NoError(t, err)

	n, err := encodeName([]byte("www"), origin)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.", n.String())
}

func TestEncodeNameAtOrigin(t *testing.T) {
	origin, err := encodeName([]byte("example.com."), nil)
	require.NoError(t, err)

	n, err := encodeName([]byte("@"), origin)
	require.NoError(t, err)
	assert.Equal(t, origin.String(), n.String())
}

func TestEncodeNameRelativeWithNoOrigin(t *testing.T) {
	_, err := encodeName([]byte("www"), nil)
	assert.Error(t, err)
}

func TestEncodeNameEscapedDotStaysInOneLabel(t *testing.T) {
	n, err := encodeName([]byte(`a\.b.example.com.`), nil)
	require.NoError(t, err)
	// a\.b is one label containing a literal dot; rendered back it escapes again.
	assert.Equal(t, `a\.b.example.com.`, n.String())
}

func TestEncodeNameLabelTooLong(t *testing.T) {
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	long = append(long, '.')
	_, err := encodeName(long, nil)
	assert.Error(t, err)
}

func TestEncodeNameTooLong(t *testing.T) {
	// 5 * 63 + separators comfortably exceeds 255 octets.
	label := make([]byte, 63)
	for i := range label {
		label[i] = 'a'
	}
	tok := ""
	for i := 0; i < 5; i++ {
		tok += string(label) + "."
	}
	_, err := encodeName([]byte(tok), nil)
	assert.Error(t, err)
}

func TestDecodeEscapeNumeric(t *testing.T) {
	b, n, err := decodeEscape([]byte(`\065rest`))
	require.NoError(t, err)
	assert.Equal(t, byte('A'), b)
	assert.Equal(t, 4, n)
}

func TestDecodeEscapeLiteral(t *testing.T) {
	b, n, err := decodeEscape([]byte(`\.rest`))
	require.NoError(t, err)
	assert.Equal(t, byte('.'), b)
	assert.Equal(t, 2, n)
}

func TestDecodeEscapeDanglingAtEnd(t *testing.T) {
	_, _, err := decodeEscape([]byte(`\`))
	assert.Error(t, err)
}
