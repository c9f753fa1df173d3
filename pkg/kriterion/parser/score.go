package parser

import (
	"math"
	"strconv"
	"strings"
)

// CoerceScore maps a raw score cell to {0,1,2}. Blank cells yield 0 and ok=true;
// any other value outside the set (text, negative, fractional, out of range)
// yields 0 and ok=false.
func CoerceScore(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	// raw cell values of integral numbers may come as "2" or "2.0"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > 2 {
		return 0, false
	}
	return int(f), true
}
