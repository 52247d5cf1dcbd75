package zlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterEnabledCategory(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, CategoryScan)

	w.Log(CategoryScan, "refilled %d bytes", 64)
	assert.True(t, strings.Contains(buf.String(), "[scan] refilled 64 bytes"))

	buf.Reset()
	w.Log(CategoryLex, "token %q", "A")
	assert.Empty(t, buf.String())
}

func TestWriterAllCategoriesWhenNil(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Log(CategoryRData, "encoded %d octets", 4)
	assert.Contains(t, buf.String(), "[rdata] encoded 4 octets")
}

func TestWriterQuietSuppressesAll(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SetQuiet(true)

	w.Log(CategoryMCP, "tool invoked")
	assert.Empty(t, buf.String())
}

func TestWriterEnableAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, CategoryScan)

	w.Log(CategoryDirective, "origin set")
	assert.Empty(t, buf.String())

	w.Enable(CategoryDirective)
	w.Log(CategoryDirective, "origin set")
	assert.Contains(t, buf.String(), "[directive] origin set")
}

func TestDiscardLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard.Log(CategoryScan, "anything %d", 1)
	})
}
