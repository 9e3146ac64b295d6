// Package money renders integer amounts of Vietnamese dong. Dong has no
// minor unit, so amounts are whole numbers end to end.
package money

import (
	"strconv"
	"strings"
)

// Symbol prefixes every formatted amount.
const Symbol = "₫"

// FormatVND renders 1234000 as "₫1,234,000" and -500 as "-₫500".
func FormatVND(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3 + len(Symbol) + 1)
	b.WriteString(sign)
	b.WriteString(Symbol)

	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
