package timestamp

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// confusables maps glyphs OCR commonly reads in place of digits and dashes.
var confusables = map[rune]rune{
	'O': '0', 'o': '0',
	'I': '1', 'l': '1',
	'S': '5',
	'B': '8',
	'‐': '-', '‑': '-', '‒': '-', '–': '-', '—': '-', '―': '-',
	'−': '-', '﹣': '-',
}

// slashes are dropped entirely; overlays never use them between time fields.
var slashes = map[rune]bool{
	'/': true, '\\': true, '∕': true, '⁄': true, '／': true, '＼': true,
}

// Normalize returns the cleaned form of raw OCR text. It is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := width.Fold.String(raw)

	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		if slashes[r] {
			continue
		}
		if c, ok := confusables[r]; ok {
			r = c
		}
		if unicode.IsSpace(r) {
			r = ' '
		}
		if (r == ' ' || r == ':' || r == '-') && r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.TrimSpace(b.String())
}

// RepairTriplets fixes a three-digit run bounded by a colon or space on the
// left and a colon, space or end of text on the right, when its first digit is
// 0 or 1 and the remaining two digits are a valid minute or second. The run is
// replaced with its last two digits, so ":107:" becomes ":07:" while ":299:" is
// left alone.
func RepairTriplets(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if isSep(s[i]) && i+3 < len(s) && tripletAt(s, i+1) {
			d := s[i+1 : i+4]
			b.WriteByte(s[i])
			if (d[0] == '0' || d[0] == '1') && (d[1]-'0')*10+(d[2]-'0') <= 59 {
				b.WriteString(d[1:])
			} else {
				b.WriteString(d)
			}
			i += 4
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// tripletAt reports whether s[i:i+3] is three digits followed by a separator
// or the end of s.
func tripletAt(s string, i int) bool {
	if i+3 > len(s) {
		return false
	}
	for j := i; j < i+3; j++ {
		if !isDigit(s[j]) {
			return false
		}
	}
	return i+3 == len(s) || s[i+3] == ':' || isSpace(s[i+3])
}

func isSep(c byte) bool {
	return c == ':' || isSpace(c)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ColonCount returns the number of colons in s.
func ColonCount(s string) int {
	return strings.Count(s, ":")
}

// HasTimeFieldTriplet reports whether a colon is followed by a three-digit
// run that ends at a separator or the end of s.
func HasTimeFieldTriplet(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' && tripletAt(s, i+1) {
			return true
		}
	}
	return false
}
