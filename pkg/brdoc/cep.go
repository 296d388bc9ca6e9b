package brdoc

// IsValidCEP reports whether s is a well-formed CEP (8 digits, masked or
// bare). CEP has no check digit; this is a shape check only.
func IsValidCEP(s string) bool {
	cep := Digits(s)
	if len(cep) != 8 {
		return false
	}
	// "00000000" is not an assigned code.
	for i := 0; i < 8; i++ {
		if cep[i] != '0' {
			return true
		}
	}
	return false
}

// FormatCEP renders the "00000-000" mask. Inputs that are not 8 digits
// long are returned unchanged.
func FormatCEP(s string) string {
	cep := Digits(s)
	if len(cep) != 8 {
		return s
	}
	return cep[0:5] + "-" + cep[5:8]
}

// FormatPhone renders Brazilian phone masks: "(11) 98765-4321" for
// 11-digit mobiles, "(11) 3456-7890" for 10-digit landlines. Other
// lengths are returned unchanged.
func FormatPhone(s string) string {
	p := Digits(s)
	switch len(p) {
	case 11:
		return "(" + p[0:2] + ") " + p[2:7] + "-" + p[7:11]
	case 10:
		return "(" + p[0:2] + ") " + p[2:6] + "-" + p[6:10]
	default:
		return s
	}
}
