package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewFITID returns a synthetic financial-institution transaction id for OFX
// records that ship without one. Prefixed so synthetic ids are recognizable
// in audit output.
func NewFITID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// timestamp id rather than returning an error nobody can act on.
		return fmt.Sprintf("gen-%d", time.Now().UnixNano())
	}
	return "gen-" + hex.EncodeToString(buf)
}

// FormatSourceRef builds a statement source reference like
// "csv_20240315_ACMECONSUL" from the row's date and description.
func FormatSourceRef(format string, date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("%s_%s_%s", format, date.Format("20060102"), prefix)
}
