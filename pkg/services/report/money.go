package report

import (
	"fmt"
	"strconv"
)

// FormatKRW renders an amount the way the recipient reads money: 억원 with
// one decimal from one hundred million up, 만원 from ten thousand up, plain
// grouped won below that.
func FormatKRW(n int64) string {
	neg := ""
	if n < 0 {
		neg = "-"
		n = -n
	}
	switch {
	case n >= 100_000_000:
		return fmt.Sprintf("%s%.1f억원", neg, float64(n)/100_000_000)
	case n >= 10_000:
		return neg + groupDigits(n/10_000) + "만원"
	default:
		return neg + groupDigits(n) + "원"
	}
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
