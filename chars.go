package reqhead

import "github.com/indigo-web/utils/uf"

// tokenChars marks the tchar class of RFC 9110, 5.6.2: the bytes allowed in methods and
// header field names.
var tokenChars = [256]bool{
	'!': true, '#': true, '$': true, '%': true, '&': true, '\'': true, '*': true,
	'+': true, '-': true, '.': true, '^': true, '_': true, '`': true, '|': true, '~': true,
	'0': true, '1': true, '2': true, '3': true, '4': true, '5': true, '6': true, '7': true,
	'8': true, '9': true,
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true, 'H': true,
	'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true, 'O': true, 'P': true,
	'Q': true, 'R': true, 'S': true, 'T': true, 'U': true, 'V': true, 'W': true, 'X': true,
	'Y': true, 'Z': true,
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true, 'h': true,
	'i': true, 'j': true, 'k': true, 'l': true, 'm': true, 'n': true, 'o': true, 'p': true,
	'q': true, 'r': true, 's': true, 't': true, 'u': true, 'v': true, 'w': true, 'x': true,
	'y': true, 'z': true,
}

func isTokenChar(c byte) bool {
	return tokenChars[c]
}

// isProhibitedChar reports bytes which may not appear in a request target.
func isProhibitedChar(c byte) bool {
	return c < 0x20 || c > 0x7e
}

// isProhibitedValueChar reports control bytes, which may not appear in a header field value.
// HTAB and obs-text are tolerated.
func isProhibitedValueChar(c byte) bool {
	return (c < 0x20 && c != '\t') || c == 0x7f
}

// isHTTPVersion checks the HTTP/<digits>.<digits> shape.
func isHTTPVersion(b []byte) bool {
	const scheme = "HTTP/"

	if len(b) < len(scheme)+3 || uf.B2S(b[:len(scheme)]) != scheme {
		return false
	}

	b = b[len(scheme):]
	major := 0
	for major < len(b) && isDigit(b[major]) {
		major++
	}

	if major == 0 || major == len(b) || b[major] != '.' {
		return false
	}

	minor := b[major+1:]
	if len(minor) == 0 {
		return false
	}

	for _, c := range minor {
		if !isDigit(c) {
			return false
		}
	}

	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
