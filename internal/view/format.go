package view

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultLocale = "en-LK"

const digits = "0123456789"

// PriceFormatter renders prices with two fraction digits and the locale's
// thousands grouping.
type PriceFormatter struct {
	group    string
	point    string
	currency string
}

func NewPriceFormatter(locale, currency string) *PriceFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}

	printer := message.NewPrinter(tag)

	return &PriceFormatter{
		group:    strings.Trim(printer.Sprintf("%d", 1000), digits),
		point:    strings.Trim(printer.Sprintf("%.1f", 1.5), digits),
		currency: strings.TrimSpace(currency),
	}
}

// Format: 1000 -> "1,000.00", 0 -> "0.00". The locale only supplies the
// separators; the digits come from the exact decimal.
func (f *PriceFormatter) Format(price decimal.Decimal) string {
	fixed := price.StringFixed(2)

	var b strings.Builder

	if rest, ok := strings.CutPrefix(fixed, "-"); ok {
		b.WriteByte('-')
		fixed = rest
	}

	whole, frac, _ := strings.Cut(fixed, ".")

	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.group)
		}

		b.WriteByte(whole[i])
	}

	b.WriteString(f.point)
	b.WriteString(frac)

	return b.String()
}

// WithCurrency prefixes the formatted price, e.g. "Rs. 1,000.00".
func (f *PriceFormatter) WithCurrency(price decimal.Decimal) string {
	if f.currency == "" {
		return f.Format(price)
	}

	return f.currency + " " + f.Format(price)
}
