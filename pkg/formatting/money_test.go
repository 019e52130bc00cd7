package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/scrivener/pkg/formatting"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		defaultCode string
		wantCents   int64
		wantCode    string
		wantErr     bool
	}{
		{"dollar symbol", "$1,234.56", "USD", 123456, "USD", false},
		{"symbol infers code", "€99.50", "USD", 9950, "EUR", false},
		{"pound symbol", "£10", "USD", 1000, "GBP", false},
		{"bare amount uses default", "1234.56", "USD", 123456, "USD", false},
		{"iso code suffix", "1234.56 USD", "EUR", 123456, "USD", false},
		{"iso code prefix", "CAD 75.00", "USD", 7500, "CAD", false},
		{"lowercase code", "75.00 cad", "USD", 7500, "CAD", false},
		{"no decimals", "1,000", "USD", 100000, "USD", false},
		{"single decimal digit", "5.5", "USD", 550, "USD", false},
		{"negative", "-42.10", "USD", -4210, "USD", false},
		{"negative with symbol", "-$42.10", "USD", -4210, "USD", false},
		{"whitespace padded", "  $25.00  ", "USD", 2500, "USD", false},
		{"empty", "", "USD", 0, "", true},
		{"words", "about fifty", "USD", 0, "", true},
		{"three decimals", "1.234", "USD", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cents, code, err := formatting.ParseCurrency(tt.input, tt.defaultCode)
			if tt.wantErr {
				if !errors.Is(err, formatting.ErrInvalidCurrency) {
					t.Fatalf("ParseCurrency(%q) error = %v, want ErrInvalidCurrency", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCurrency(%q) error: %v", tt.input, err)
			}
			if cents != tt.wantCents {
				t.Errorf("ParseCurrency(%q) cents = %d, want %d", tt.input, cents, tt.wantCents)
			}
			if code != tt.wantCode {
				t.Errorf("ParseCurrency(%q) code = %q, want %q", tt.input, code, tt.wantCode)
			}
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		cents  int64
		symbol string
		want   string
	}{
		{"simple", 123456, "$", "$1,234.56"},
		{"zero", 0, "$", "$0.00"},
		{"under a dollar", 99, "$", "$0.99"},
		{"millions", 123456789, "$", "$1,234,567.89"},
		{"negative", -4210, "$", "-$42.10"},
		{"euro symbol", 9950, "€", "€99.50"},
		{"no symbol", 500, "", "5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatCurrency(tt.cents, tt.symbol); got != tt.want {
				t.Errorf("FormatCurrency(%d, %q) = %q, want %q", tt.cents, tt.symbol, got, tt.want)
			}
		})
	}
}
