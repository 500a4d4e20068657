package fonts

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var winAnsi = charmap.Windows1252

// EncodeWinAnsi maps s onto WinAnsiEncoding. Runes outside the code page are
// replaced by their compatibility decomposition's base letter when it exists
// and by '?' otherwise. Control characters become spaces.
func EncodeWinAnsi(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, encodeRune(r))
	}
	return out
}

// Representable reports whether every rune of s survives EncodeWinAnsi
// unchanged.
func Representable(s string) bool {
	for _, r := range s {
		if b, ok := winAnsi.EncodeRune(r); !ok || b < 0x20 {
			return false
		}
	}
	return true
}

func encodeRune(r rune) byte {
	if r < 0x20 {
		return ' '
	}
	if b, ok := winAnsi.EncodeRune(r); ok && b >= 0x20 {
		return b
	}
	for _, base := range norm.NFKD.String(string(r)) {
		if b, ok := winAnsi.EncodeRune(base); ok && b >= 0x20 {
			return b
		}
		break
	}
	return '?'
}

// decodeWinAnsi returns the rune for a code, or 0 for unassigned codes.
func decodeWinAnsi(b byte) rune {
	r := winAnsi.DecodeByte(b)
	if r == '\ufffd' {
		return 0
	}
	return r
}
