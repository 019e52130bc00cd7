package formatting

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidCurrency is returned when a value cannot be normalized to a
// currency amount.
var ErrInvalidCurrency = errors.New("invalid currency amount")

var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

var currencyPattern = regexp.MustCompile(`^(-?\d+)(?:\.(\d{1,2}))?$`)

// ParseCurrency normalizes a monetary string to integer cents and an ISO 4217
// code. Leading symbols and ISO code prefixes/suffixes identify the code;
// thousands separators are stripped. When no code can be inferred,
// defaultCode is used.
func ParseCurrency(s, defaultCode string) (int64, string, error) {
	code := defaultCode

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("%w: empty value", ErrInvalidCurrency)
	}

	for symbol, symbolCode := range currencySymbols {
		if strings.Contains(s, symbol) {
			code = symbolCode
			s = strings.ReplaceAll(s, symbol, "")
			break
		}
	}

	fields := strings.Fields(s)
	cleaned := make([]string, 0, len(fields))
	for _, f := range fields {
		upper := strings.ToUpper(f)
		if len(upper) == 3 && isAlpha(upper) {
			code = upper
			continue
		}
		cleaned = append(cleaned, f)
	}
	s = strings.Join(cleaned, "")
	s = strings.ReplaceAll(s, ",", "")

	matches := currencyPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}

	whole, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
	}

	cents := whole * 100
	if matches[2] != "" {
		frac := matches[2]
		if len(frac) == 1 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %q", ErrInvalidCurrency, s)
		}
		if whole < 0 {
			cents -= f
		} else {
			cents += f
		}
	}

	return cents, code, nil
}

// FormatCurrency renders integer cents with the given symbol and
// comma-grouped whole digits, always carrying two decimal places.
func FormatCurrency(cents int64, symbol string) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	grouped := groupThousands(strconv.FormatInt(whole, 10))
	out := fmt.Sprintf("%s%s.%02d", symbol, grouped, frac)
	if negative {
		out = "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
