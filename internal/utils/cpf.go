package utils

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// OnlyDigits strips every non-digit character from s
func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// ValidateCPF validates a CPF number
// It checks if the CPF has 11 digits, rejects repeated-digit sequences
// and validates both check digits
func ValidateCPF(cpf string) bool {
	cpf = OnlyDigits(cpf)

	if len(cpf) != 11 {
		return false
	}

	// 000.000.000-00 through 999.999.999-99 satisfy the checksum but are not issued
	if strings.Count(cpf, cpf[:1]) == len(cpf) {
		return false
	}

	first, second := CPFCheckDigits(cpf[:9])
	return cpf[9] == first && cpf[10] == second
}

// CPFCheckDigits computes the two check digits for the first nine digits of a CPF.
// base must hold exactly nine ASCII digits.
func CPFCheckDigits(base string) (byte, byte) {
	first := cpfCheckDigit(base, 10)
	second := cpfCheckDigit(base+string(first), 11)
	return first, second
}

// cpfCheckDigit weights digits from startWeight down to 2 and applies the mod 11 rule
func cpfCheckDigit(digits string, startWeight int) byte {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (startWeight - i)
	}

	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + 11 - remainder)
}

// FormatCPF applies the 999.999.999-99 mask to a CPF.
// Values that do not normalize to 11 digits are returned unchanged.
func FormatCPF(cpf string) string {
	digits := OnlyDigits(cpf)
	if len(digits) != 11 {
		return cpf
	}
	return ApplyMask(digits, CPFMask)
}
