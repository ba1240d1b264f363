package dvf

import (
	"math"
	"strconv"
	"strings"
)

// ParseDateMutation turns dd/mm/yyyy into yyyy-mm-dd; any other shape yields ""
func ParseDateMutation(s string) string {
	if len(s) != 10 || s[2] != '/' || s[5] != '/' {
		return ""
	}
	d, m, y := s[0:2], s[3:5], s[6:10]
	if !digits(d) || !digits(m) || !digits(y) {
		return ""
	}
	return y + "-" + m + "-" + d
}

// ParsePrice reads a French decimal ("1234,56") and returns its shortest decimal form.
// Blank, unparsable, non-finite and zero amounts all yield "".
// The whole field must parse: "12 000,00" or "1234,56EUR" are unparsable, not truncated.
func ParsePrice(s string) string {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if s == "" {
		return ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// JoinNonBlank joins the non-blank parts with a single space
func JoinNonBlank(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// CodeCommune builds the 5 character INSEE commune code from the department and
// commune columns. Overseas departments carry 3 characters ("971") and a commune
// number that already includes the third digit, so only "97" is kept.
func CodeCommune(departement, commune string) string {
	departement, commune = strings.TrimSpace(departement), strings.TrimSpace(commune)
	if commune == "" || departement == "" {
		return ""
	}
	if len(departement) == 3 {
		return departement[:2] + padLeft(commune, 3)
	}
	return padLeft(departement, 2) + padLeft(commune, 3)
}

// CodeDepartement derives the department from a commune code:
// 3 characters for overseas codes (97x), 2 otherwise (including 2A and 2B)
func CodeDepartement(codeCommune string) string {
	if strings.HasPrefix(codeCommune, "97") {
		if len(codeCommune) < 3 {
			return ""
		}
		return codeCommune[:3]
	}
	if len(codeCommune) < 2 {
		return ""
	}
	return codeCommune[:2]
}

// CodePostal left-pads to 5 digits; blank stays ""
func CodePostal(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return padLeft(s, 5)
}

// IDParcelle builds the 14 character cadastral parcel id:
// commune (5) + section prefix (3, "000" when blank) + section (2) + plan number (4)
func IDParcelle(codeCommune, prefixe, section, plan string) string {
	plan = strings.TrimSpace(plan)
	if codeCommune == "" || plan == "" {
		return ""
	}
	prefixe = strings.TrimSpace(prefixe)
	if prefixe == "" {
		prefixe = "000"
	}
	return codeCommune + padLeft(prefixe, 3) + padLeft(strings.TrimSpace(section), 2) + padLeft(plan, 4)
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
