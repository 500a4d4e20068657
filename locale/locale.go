// Package locale formats money, dates and quantities in the fixed pt-BR/BRL
// conventions used by every rendered document.
package locale

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "R$"

// FormatError reports input the formatter refuses to render.
type FormatError struct {
	Kind  string // "currency" or "date"
	Input string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format %s %q: %v", e.Kind, e.Input, e.Err)
	}
	return fmt.Sprintf("format %s %q", e.Kind, e.Input)
}

func (e *FormatError) Unwrap() error { return e.Err }

// FormatCurrency renders amount as "R$ 1.234,56", rounding half-even at the
// cent. Negative amounts render as "-R$ 1.234,56".
func FormatCurrency(amount decimal.Decimal) string {
	s := amount.StringFixedBank(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	if neg && strings.Trim(intPart+frac, "0") == "" {
		neg = false
	}
	out := CurrencySymbol + " " + group(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatCurrencyFloat is FormatCurrency for float inputs; NaN and infinities
// are rejected.
func FormatCurrencyFloat(amount float64) (string, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", &FormatError{Kind: "currency", Input: fmt.Sprint(amount), Err: fmt.Errorf("non-finite amount")}
	}
	return FormatCurrency(decimal.NewFromFloat(amount)), nil
}

// FormatQuantity renders a decimal with "." grouping, "," as decimal mark and
// no trailing zeros: 1000 -> "1.000", 2.50 -> "2,5".
func FormatQuantity(q decimal.Decimal) string {
	s := q.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	out := group(intPart)
	if frac != "" {
		out += "," + frac
	}
	if neg {
		return "-" + out
	}
	return out
}

// FormatPercent renders a discount percentage as "10%" or "12,5%".
func FormatPercent(p decimal.Decimal) string {
	return FormatQuantity(p) + "%"
}

func group(digits string) string {
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
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(iso string) (time.Time, error) {
	s := strings.TrimSpace(iso)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &FormatError{Kind: "date", Input: iso, Err: err}
	}
	return t, nil
}

// FormatDate renders an ISO date as "16 de outubro de 2026". Timestamps keep
// their own calendar day; no zone conversion happens.
func FormatDate(iso string) (string, error) {
	t, err := ParseDate(iso)
	if err != nil {
		return "", err
	}
	return LongDate(t), nil
}

// LongDate is the long pt-BR form of t.
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

// ShortDate renders an ISO date as 16/10/2026.
func ShortDate(iso string) (string, error) {
	t, err := ParseDate(iso)
	if err != nil {
		return "", err
	}
	return t.Format("02/01/2006"), nil
}
