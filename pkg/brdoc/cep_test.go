package brdoc

import "testing"

func TestIsValidCEP(t *testing.T) {
	tests := []struct {
		cep  string
		want bool
	}{
		{"01310100", true},
		{"01310-100", true},
		{"0131010", false},
		{"013101000", false},
		{"00000000", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.cep, func(t *testing.T) {
			if got := IsValidCEP(tt.cep); got != tt.want {
				t.Errorf("IsValidCEP(%q) = %v, want %v", tt.cep, got, tt.want)
			}
		})
	}
}

func TestFormatCEP(t *testing.T) {
	if got := FormatCEP("01310100"); got != "01310-100" {
		t.Errorf("FormatCEP = %q", got)
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"11987654321", "(11) 98765-4321"},
		{"1134567890", "(11) 3456-7890"},
		{"123", "123"},
	}
	for _, tt := range tests {
		if got := FormatPhone(tt.in); got != tt.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
