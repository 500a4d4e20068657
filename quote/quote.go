// Package quote holds the read-only quotation records consumed by the
// rendering pipeline.
package quote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Quotation is a validated sales proposal as produced by the data-entry wizard.
type Quotation struct {
	ID           string               `json:"id,omitempty" yaml:"id,omitempty"`
	Number       string               `json:"number" yaml:"number"`
	IssueDate    string               `json:"issueDate" yaml:"issueDate"`
	ValidityDays int                  `json:"validityDays" yaml:"validityDays"`
	Customer     Customer             `json:"customer" yaml:"customer"`
	Reference    string               `json:"reference,omitempty" yaml:"reference,omitempty"`
	Items        []LineItem           `json:"items" yaml:"items"`
	Conditions   CommercialConditions `json:"conditions" yaml:"conditions"`
	Texts        DocumentTexts        `json:"texts" yaml:"texts"`
	Totals       Totals               `json:"totals" yaml:"totals"`
}

// Customer identifies the recipient of the proposal. Only Name is required.
type Customer struct {
	Name    string `json:"name" yaml:"name"`
	Company string `json:"company,omitempty" yaml:"company,omitempty"`
	TaxID   string `json:"taxId,omitempty" yaml:"taxId,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// LineItem is a single priced row. Subtotal is precomputed by the collaborator.
type LineItem struct {
	Description     string          `json:"description" yaml:"description"`
	Unit            string          `json:"unit" yaml:"unit"`
	Quantity        decimal.Decimal `json:"quantity" yaml:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice" yaml:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent" yaml:"discountPercent"`
	Subtotal        decimal.Decimal `json:"subtotal" yaml:"subtotal"`
}

// CommercialConditions are the free-text commercial terms plus freight value.
type CommercialConditions struct {
	PaymentTerms string          `json:"paymentTerms,omitempty" yaml:"paymentTerms,omitempty"`
	DeliveryTime string          `json:"deliveryTime,omitempty" yaml:"deliveryTime,omitempty"`
	FreightType  string          `json:"freightType,omitempty" yaml:"freightType,omitempty"`
	FreightValue decimal.Decimal `json:"freightValue" yaml:"freightValue"`
	Warranty     string          `json:"warranty,omitempty" yaml:"warranty,omitempty"`
}

// DocumentTexts are the six optional boilerplate sections. An empty string
// omits the section.
type DocumentTexts struct {
	Header          string `json:"headerText,omitempty" yaml:"headerText,omitempty"`
	Intro           string `json:"introNotes,omitempty" yaml:"introNotes,omitempty"`
	CommercialNotes string `json:"commercialNotes,omitempty" yaml:"commercialNotes,omitempty"`
	TechnicalNotes  string `json:"technicalNotes,omitempty" yaml:"technicalNotes,omitempty"`
	Closing         string `json:"closingNotes,omitempty" yaml:"closingNotes,omitempty"`
	Footer          string `json:"footerText,omitempty" yaml:"footerText,omitempty"`
}

// Totals are echoed verbatim by the renderers.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal" yaml:"subtotal"`
	TotalDiscount decimal.Decimal `json:"totalDiscount" yaml:"totalDiscount"`
	GrandTotal    decimal.Decimal `json:"grandTotal" yaml:"grandTotal"`
}

// CompanyBranding is the issuing company's identity, managed by settings.
type CompanyBranding struct {
	Name     string `json:"name" yaml:"name"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	LogoURL  string `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
	Address  string `json:"address,omitempty" yaml:"address,omitempty"`
	TaxID    string `json:"taxId,omitempty" yaml:"taxId,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// LineSubtotal computes quantity × price × (1 − discount/100) rounded
// half-even to cents.
func LineSubtotal(quantity, unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	factor := hundred.Sub(discountPercent).Div(hundred)
	return quantity.Mul(unitPrice).Mul(factor).RoundBank(2)
}

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid quotation: " + strings.Join(e.Problems, "; ")
}

// Validate checks the invariants the renderers rely on.
func (q *Quotation) Validate() error {
	var problems []string
	if strings.TrimSpace(q.Customer.Name) == "" {
		problems = append(problems, "customer name is required")
	}
	if q.ValidityDays < 0 {
		problems = append(problems, "validity days must not be negative")
	}
	for i, it := range q.Items {
		if it.Quantity.IsNegative() {
			problems = append(problems, fmt.Sprintf("item %d: negative quantity", i+1))
		}
		if it.UnitPrice.IsNegative() {
			problems = append(problems, fmt.Sprintf("item %d: negative unit price", i+1))
		}
		if it.DiscountPercent.IsNegative() || it.DiscountPercent.GreaterThan(hundred) {
			problems = append(problems, fmt.Sprintf("item %d: discount outside 0-100", i+1))
		}
	}
	if q.Conditions.FreightValue.IsNegative() {
		problems = append(problems, "freight value must not be negative")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ErrInvalid is matched by every *ValidationError.
var ErrInvalid = errors.New("invalid quotation")

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }
