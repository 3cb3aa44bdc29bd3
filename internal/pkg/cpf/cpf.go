// Package cpf normalizes and validates Brazilian CPF numbers.
package cpf

import "strings"

// Normalize strips every non-digit character, so formatted input like
// "111.444.777-35" and raw digits compare equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether s is a well-formed CPF: 11 digits, not all
// identical, with both check digits matching. Malformed input fails
// closed: it is invalid, never "not found".
func Valid(s string) bool {
	d := Normalize(s)
	if len(d) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if d[i] != d[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	return checkDigit(d, 9) == int(d[9]-'0') && checkDigit(d, 10) == int(d[10]-'0')
}

// checkDigit computes the verification digit over the first n digits,
// weighted n+1 down to 2, mod 11. Remainders 10 and 11 map to 0.
func checkDigit(d string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(d[i]-'0') * (n + 1 - i)
	}
	digit := 11 - sum%11
	if digit >= 10 {
		digit = 0
	}
	return digit
}

// Format renders a canonical 11-digit CPF as xxx.xxx.xxx-xx. Input that is
// not 11 digits long is returned unchanged.
func Format(s string) string {
	d := Normalize(s)
	if len(d) != 11 {
		return s
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}
