// Package interp expands ${identifier} placeholders in document texts.
package interp

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/wudi/quotekit/locale"
	"github.com/wudi/quotekit/quote"
)

// Policy decides what happens to placeholders without a mapping entry.
type Policy int

const (
	// KeepUnknown leaves the literal placeholder in place.
	KeepUnknown Policy = iota
	// DropUnknown replaces it with the empty string.
	DropUnknown
)

var placeholder = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// Interpolate replaces every ${name} in template with vars[name]. Substituted
// values are not scanned again.
func Interpolate(template string, vars map[string]string, policy Policy) string {
	if !strings.Contains(template, "${") {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		if policy == DropUnknown {
			return ""
		}
		return m
	})
}

// Placeholders lists the distinct identifiers referenced by template in order
// of first appearance.
func Placeholders(template string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Vocabulary is the closed set of identifiers Vars always provides.
var Vocabulary = []string{
	"companyEmail", "companyName", "companyPhone", "createdAt",
	"customerAddress", "customerCNPJ", "customerCompany", "customerEmail",
	"customerName", "customerPhone", "deliveryTime", "freight", "freightType",
	"grandTotal", "paymentTerms", "quotationDate", "quotationNumber",
	"reference", "subtotal", "totalDiscount", "validityDays", "warranty",
}

// Unknown returns the placeholders in template that are outside Vocabulary,
// sorted.
func Unknown(template string) []string {
	known := make(map[string]bool, len(Vocabulary))
	for _, v := range Vocabulary {
		known[v] = true
	}
	var out []string
	for _, name := range Placeholders(template) {
		if !known[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Vars builds the substitution map for a quotation. Money values are already
// formatted as currency and the date in long form; an unparseable issue date
// is a *locale.FormatError.
func Vars(q *quote.Quotation, company quote.CompanyBranding) (map[string]string, error) {
	date, err := locale.FormatDate(q.IssueDate)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"customerName":    q.Customer.Name,
		"customerCompany": q.Customer.Company,
		"customerEmail":   q.Customer.Email,
		"customerPhone":   q.Customer.Phone,
		"customerCNPJ":    q.Customer.TaxID,
		"customerAddress": q.Customer.Address,
		"reference":       q.Reference,
		"validityDays":    strconv.Itoa(q.ValidityDays),
		"quotationDate":   date,
		"createdAt":       date,
		"quotationNumber": q.Number,
		"grandTotal":      locale.FormatCurrency(q.Totals.GrandTotal),
		"subtotal":        locale.FormatCurrency(q.Totals.Subtotal),
		"totalDiscount":   locale.FormatCurrency(q.Totals.TotalDiscount),
		"companyName":     company.Name,
		"companyPhone":    company.Phone,
		"companyEmail":    company.Email,
		"paymentTerms":    q.Conditions.PaymentTerms,
		"deliveryTime":    q.Conditions.DeliveryTime,
		"freight":         locale.FormatCurrency(q.Conditions.FreightValue),
		"freightType":     q.Conditions.FreightType,
		"warranty":        q.Conditions.Warranty,
	}, nil
}
