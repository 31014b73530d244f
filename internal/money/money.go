// Package money implements fixed-point MXN amounts in integer centavos.
//
// Amounts stay integral through storage and aggregation; they are formatted
// into locale-aware strings only at the presentation boundary.
package money

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Cents is a monetary amount in MXN centavos.
type Cents int64

// ErrMalformedAmount indicates a currency string that cannot be parsed back
// into an exact amount.
var ErrMalformedAmount = errors.New("money: malformed amount")

var printer = message.NewPrinter(language.MustParse("es-MX"))

// Format renders the amount as a display string, e.g. "$1,234.50".
func (c Cents) Format() string {
	neg := c < 0
	if neg {
		c = -c
	}
	formatted := printer.Sprintf("%v", number.Decimal(
		float64(c)/100,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
	if neg {
		return "-$" + formatted
	}
	return "$" + formatted
}

// String implements fmt.Stringer.
func (c Cents) String() string {
	return c.Format()
}

// Multiply returns a unit price times a quantity.
func Multiply(unit Cents, quantity int) Cents {
	return unit * Cents(quantity)
}

// Parse converts a formatted currency string back into centavos. It accepts
// the shapes the previous system stored, e.g. "$1,234.50", "MX$200", "1500.5".
// Parsing is exact: no float arithmetic is involved.
func Parse(s string) (Cents, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	// The sign precedes the currency marker in formatted output ("-$100.00").
	neg := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "MX")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, ErrMalformedAmount
	}

	whole := cleaned
	frac := ""
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		whole, frac = cleaned[:i], cleaned[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrMalformedAmount
	}
	if len(frac) > 2 {
		return 0, ErrMalformedAmount
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, ErrMalformedAmount
		}
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100

	switch len(frac) {
	case 0:
	case 1:
		if frac[0] < '0' || frac[0] > '9' {
			return 0, ErrMalformedAmount
		}
		cents += int64(frac[0]-'0') * 10
	case 2:
		for i := 0; i < 2; i++ {
			if frac[i] < '0' || frac[i] > '9' {
				return 0, ErrMalformedAmount
			}
		}
		cents += int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	}

	if neg {
		cents = -cents
	}
	return Cents(cents), nil
}
