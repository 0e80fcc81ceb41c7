package engine

import "strings"

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman converts n to a roman numeral with the greedy subtractive table.
// There is no upper bound: thousands simply repeat M. n <= 0 yields "".
func ToRoman(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range romanTable {
		for n >= e.value {
			b.WriteString(e.symbol)
			n -= e.value
		}
	}
	return b.String()
}

// FromRoman parses a canonical roman numeral as produced by ToRoman.
// Case is ignored; non-canonical spellings such as "IIII" are rejected.
func FromRoman(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	total := 0
	rest := s
	for _, e := range romanTable {
		for strings.HasPrefix(rest, e.symbol) {
			total += e.value
			rest = rest[len(e.symbol):]
		}
	}
	if rest != "" || ToRoman(total) != s {
		return 0, false
	}
	return total, true
}
