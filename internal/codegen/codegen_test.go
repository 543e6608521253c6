package codegen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z]+-[0-9A-F]{6}-[0-9A-F]{4}-[0-9A-F]{6}$`)

func TestNew_Format(t *testing.T) {
	code := New("BILL")
	assert.Regexp(t, codePattern, code)
	assert.Contains(t, code, "BILL-")
}

func TestNew_NormalizesPrefix(t *testing.T) {
	assert.Contains(t, New("stock hist"), "STOCKHIST-")
	assert.Contains(t, New(""), "GEN-")
}

func TestNew_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		code := New("LEDGER")
		require.False(t, seen[code], "duplicate code generated: %s", code)
		seen[code] = true
	}
}
