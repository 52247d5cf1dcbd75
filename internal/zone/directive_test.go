package zone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectiveOriginAndTTL(t *testing.T) {
	var got []Record
	accept := func(p *Parser, rec Record) int {
		cp := rec
		cp.Owner = append(Name(nil), rec.Owner...)
		got = append(got, cp)
		return 0
	}

	opts := baseOptions(accept)
	opts.Origin = "placeholder."
	input := "$ORIGIN example.net.\n$TTL 120\nwww A 192.0.2.9\n"
	code, err := ParseString(opts, []byte(input))
	require.NoError(t, err)
	assert.Equal(t, Success, code)
	require.Len(t, got, 1)
	assert.Equal(t, "www.example.net.", got[0].Owner.String())
	assert.Equal(t, uint32(120), got[0].TTL)
}

func TestDirectiveIncludeResolvesRelativePathAndInheritsDefaults(t *testing.T) {
	dir := t.TempDir()
	childPath := filepath.Join(dir, "child.zone")
	require.NoError(t, os.WriteFile(childPath, []byte("host A 192.0.2.5\n"), 0o644))

	rootPath := filepath.Join(dir, "root.zone")
	require.NoError(t, os.WriteFile(rootPath, []byte("$TTL 900\n$INCLUDE child.zone\nafter A 192.0.2.6\n"), 0o644))

	var got []Record
	accept := func(p *Parser, rec Record) int {
		cp := rec
		cp.Owner = append(Name(nil), rec.Owner...)
		got = append(got, cp)
		return 0
	}
	opts := baseOptions(accept)
	opts.Origin = "example.org."

	code, err := ParseFile(opts, rootPath)
	require.NoError(t, err)
	assert.Equal(t, Success, code)
	require.Len(t, got, 2)
	assert.Equal(t, "host.example.org.", got[0].Owner.String())
	assert.Equal(t, uint32(900), got[0].TTL)
	assert.Equal(t, "after.example.org.", got[1].Owner.String())
}

func TestDirectiveIncludeCycleRejected(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.zone")
	bPath := filepath.Join(dir, "b.zone")
	require.NoError(t, os.WriteFile(aPath, []byte("$INCLUDE b.zone\n"), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte("$INCLUDE a.zone\n"), 0o644))

	accept := func(p *Parser, rec Record) int { return 0 }
	opts := baseOptions(accept)
	opts.Origin = "example.org."

	_, err := ParseFile(opts, aPath)
	assert.Error(t, err)
}

func TestDirectiveGenerateNotImplementedByDefault(t *testing.T) {
	accept := func(p *Parser, rec Record) int { return 0 }
	opts := baseOptions(accept)
	code, err := ParseString(opts, []byte("$GENERATE 1-5 host$ A 192.0.2.1\n"))
	require.Error(t, err)
	assert.Equal(t, NotImplemented, code)
}
