package slug

import (
	"strings"
	"unicode"
)

// Make lowercases input and joins runs of letters and digits with single
// dashes. Letters outside ASCII are kept so nicknames stay readable. An input
// with nothing usable yields fallback.
func Make(input, fallback string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
