package brdoc

import "testing"

func TestIsValidCPF(t *testing.T) {
	tests := []struct {
		name string
		cpf  string
		want bool
	}{
		{"valid bare", "52998224725", true},
		{"valid masked", "529.982.247-25", true},
		{"valid second sample", "11144477735", true},
		{"wrong second check digit", "52998224724", false},
		{"wrong first check digit", "52998224715", false},
		{"repeated digits pass checksum but rejected", "11111111111", false},
		{"repeated zeros", "00000000000", false},
		{"repeated nines", "99999999999", false},
		{"too short", "5299822472", false},
		{"too long", "529982247251", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidCPF(tt.cpf); got != tt.want {
				t.Errorf("IsValidCPF(%q) = %v, want %v", tt.cpf, got, tt.want)
			}
		})
	}
}

func TestFormatCPF(t *testing.T) {
	if got := FormatCPF("52998224725"); got != "529.982.247-25" {
		t.Errorf("FormatCPF = %q, want 529.982.247-25", got)
	}
	if got := FormatCPF("123"); got != "123" {
		t.Errorf("FormatCPF should leave short input unchanged, got %q", got)
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("(11) 98765-4321"); got != "11987654321" {
		t.Errorf("Digits = %q", got)
	}
}
