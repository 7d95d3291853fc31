package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize turns a disease name into its catalog key: NFC-composed, trimmed, lower-cased.
// NFC keeps "é" typed as one rune or as e + combining accent on the same key.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}
