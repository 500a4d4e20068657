package quote_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wudi/quotekit/quote"
	"github.com/wudi/quotekit/quote/quotetest"
)

func TestLineSubtotal(t *testing.T) {
	cases := []struct {
		qty, price, disc, want string
	}{
		{"3", "1500", "10", "4050"},
		{"100", "12.5", "0", "1250"},
		{"1", "0.125", "0", "0.12"},
		{"1", "0.135", "0", "0.14"},
		{"2", "10", "100", "0"},
	}
	for _, c := range cases {
		got := quote.LineSubtotal(decimal.RequireFromString(c.qty), decimal.RequireFromString(c.price), decimal.RequireFromString(c.disc))
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Fatalf("LineSubtotal(%s, %s, %s) = %s, want %s", c.qty, c.price, c.disc, got, c.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := quotetest.ScenarioA().Validate(); err != nil {
		t.Fatalf("scenario A should be valid: %v", err)
	}

	q := quotetest.ScenarioA()
	q.Customer.Name = "  "
	q.Items[0].Quantity = decimal.NewFromInt(-1)
	q.Items[1].DiscountPercent = decimal.NewFromInt(101)
	err := q.Validate()
	if !errors.Is(err, quote.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var ve *quote.ValidationError
	if !errors.As(err, &ve) || len(ve.Problems) != 3 {
		t.Fatalf("expected three problems, got %v", err)
	}
	if !strings.Contains(err.Error(), "item 2: discount outside 0-100") {
		t.Fatalf("unexpected message %q", err)
	}
}
