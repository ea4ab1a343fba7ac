package helpers

import (
	"math"
	"strings"
)

// AbsInt reads the leading integer of s, the way form values are coerced to
// ids: surrounding whitespace is ignored, trailing garbage is dropped, the sign
// is discarded and anything unparseable is 0. Values past int64 saturate.
func AbsInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}

	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		digit := int64(c - '0')
		if n > (math.MaxInt64-digit)/10 {
			return math.MaxInt64
		}
		n = n*10 + digit
	}
	return n
}
