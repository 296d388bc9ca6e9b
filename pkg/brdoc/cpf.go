// Package brdoc validates and formats Brazilian identity and address
// documents (CPF, CEP). All functions are pure and safe for concurrent use.
package brdoc

import "strings"

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidCPF reports whether s is a valid CPF. Input may be masked
// ("123.456.789-09") or bare digits. Sequences of 11 identical digits
// pass the mod-11 checksum but are reserved values, so they are
// rejected unconditionally.
func IsValidCPF(s string) bool {
	cpf := Digits(s)
	if len(cpf) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	if cpfCheckDigit(cpf, 9) != int(cpf[9]-'0') {
		return false
	}
	return cpfCheckDigit(cpf, 10) == int(cpf[10]-'0')
}

// cpfCheckDigit computes the mod-11 check digit over the first n digits.
func cpfCheckDigit(cpf string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(cpf[i]-'0') * (n + 1 - i)
	}
	d := (sum * 10) % 11
	if d == 10 {
		d = 0
	}
	return d
}

// FormatCPF renders the canonical "000.000.000-00" mask. Inputs that are
// not 11 digits long are returned unchanged.
func FormatCPF(s string) string {
	cpf := Digits(s)
	if len(cpf) != 11 {
		return s
	}
	return cpf[0:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:11]
}
