// Package markup turns the designer's transport-encoded page markup into an
// ordered element tree.
//
// Parsing never fails: malformed markup yields whatever tree a forgiving
// tokenizer can recover, and undecodable input yields an empty tree.
package markup

import "strings"

// DecodeMarkup decodes a page's markup string. Literal '+' is read as a space
// before percent-decoding, so an encoded "%2B" survives as '+'.
func DecodeMarkup(encoded string) string {
	return unquotePlus(strings.ReplaceAll(encoded, "+", " "))
}

// DecodeVariables decodes a page's variables string into raw JSON text.
func DecodeVariables(encoded string) string {
	return unquotePlus(encoded)
}

// unquotePlus percent-decodes s, mapping '+' to space. Invalid escapes are
// kept verbatim instead of failing like url.QueryUnescape does.
func unquotePlus(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return strings.ToValidUTF8(b.String(), "�")
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
