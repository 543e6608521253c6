// Package codegen produces the human-legible unique codes that identify every
// entity in the system (bills, products, ledger entries, notifications, …).
// Codes are derived from crypto/rand so collisions are negligible even across
// tenants, and they are safe to expose to clients.
package codegen

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// New returns a code of the form PREFIX-XXXXXX-XXXX-XXXXXX.
// The prefix is upper-cased and stripped of whitespace; an empty prefix
// falls back to "GEN".
func New(prefix string) string {
	p := strings.ToUpper(strings.Join(strings.Fields(prefix), ""))
	if p == "" {
		p = "GEN"
	}
	return p + "-" + randHex(3) + "-" + randHex(2) + "-" + randHex(3)
}

func randHex(n int) string {
	b := make([]byte, n)
	// rand.Read never fails on supported platforms; a short read would be a
	// broken runtime, so panicking is the only sane response.
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return strings.ToUpper(hex.EncodeToString(b))
}
