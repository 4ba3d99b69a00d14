package utils

import "strings"

// Input masks use '9' as a digit placeholder; every other rune is a literal.
const (
	CPFMask        = "999.999.999-99"
	PostalCodeMask = "99999-999"
)

// MatchesMask reports whether value is a complete rendition of mask
func MatchesMask(value, mask string) bool {
	if len(value) != len(mask) {
		return false
	}

	for i := 0; i < len(mask); i++ {
		if mask[i] == '9' {
			if value[i] < '0' || value[i] > '9' {
				return false
			}
			continue
		}
		if value[i] != mask[i] {
			return false
		}
	}
	return true
}

// ApplyMask lays the digits of value over mask, stopping when the digits run out.
// Extra digits beyond the mask are dropped.
func ApplyMask(value, mask string) string {
	digits := OnlyDigits(value)

	var b strings.Builder
	b.Grow(len(mask))

	d := 0
	for i := 0; i < len(mask) && d < len(digits); i++ {
		if mask[i] == '9' {
			b.WriteByte(digits[d])
			d++
			continue
		}
		b.WriteByte(mask[i])
	}
	return b.String()
}
