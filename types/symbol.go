package types

import "strings"

// BSE symbols are exchange-qualified with a ".BO" suffix, e.g. "RELIANCE.BO".
// Index symbols start with "^" and are never qualified.
const exchangeSuffix = ".BO"

// NormalizeSymbol turns user input into an exchange-qualified symbol.
func NormalizeSymbol(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	if s == "" {
		return s
	}
	if strings.HasPrefix(s, "^") || strings.Contains(s, ".") {
		return s
	}
	return s + exchangeSuffix
}

// DisplayCode strips the exchange suffix for end-user output.
func DisplayCode(symbol string) string {
	return strings.TrimSuffix(symbol, exchangeSuffix)
}
