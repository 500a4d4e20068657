// Package quotetest provides quotation fixtures for tests.
package quotetest

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wudi/quotekit/quote"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Company is a fully populated branding record.
func Company() quote.CompanyBranding {
	return quote.CompanyBranding{
		Name:     "Eletro Forte Ltda",
		Subtitle: "Materiais elétricos industriais",
		Phone:    "(11) 4002-8922",
		Email:    "vendas@eletroforte.com.br",
		Website:  "eletroforte.com.br",
		Address:  "Rua das Indústrias, 100 - São Paulo/SP",
		TaxID:    "11.222.333/0001-44",
	}
}

// ScenarioA is the two-item quotation with discount and freight.
func ScenarioA() *quote.Quotation {
	return &quote.Quotation{
		ID:           "q-1",
		Number:       "2026-0001",
		IssueDate:    "2026-10-16",
		ValidityDays: 15,
		Customer: quote.Customer{
			Name:    "Empresa Teste Ltda",
			Company: "Grupo Teste",
			TaxID:   "12.345.678/0001-90",
			Email:   "compras@teste.com.br",
			Phone:   "(11) 98888-7777",
			Address: "Av. Paulista, 1000 - São Paulo/SP",
		},
		Reference: "Reforma da subestação",
		Items: []quote.LineItem{
			{Description: "Motor WEG 220V 5CV", Unit: "un", Quantity: dec("3"), UnitPrice: dec("1500"), DiscountPercent: dec("10"), Subtotal: dec("4050")},
			{Description: "Cabo flexível 10mm²", Unit: "m", Quantity: dec("100"), UnitPrice: dec("12.5"), DiscountPercent: dec("0"), Subtotal: dec("1250")},
		},
		Conditions: quote.CommercialConditions{
			PaymentTerms: "30/60 dias",
			DeliveryTime: "10 dias úteis",
			FreightType:  "CIF",
			FreightValue: dec("350"),
			Warranty:     "12 meses",
		},
		Texts: quote.DocumentTexts{
			Header:          "Prezado(a) ${customerName},",
			Intro:           "Conforme solicitado, segue nossa proposta.",
			CommercialNotes: "Valores válidos por ${validityDays} dias.",
			TechnicalNotes:  "Instalação não inclusa.",
			Closing:         "Atenciosamente, ${companyName}.",
			Footer:          "${companyName} | ${companyPhone}",
		},
		Totals: quote.Totals{Subtotal: dec("5300"), TotalDiscount: dec("450"), GrandTotal: dec("5200")},
	}
}

// Minimal has one item, no optional customer fields, no conditions and no
// document texts.
func Minimal() *quote.Quotation {
	return &quote.Quotation{
		Number:       "2026-0002",
		IssueDate:    "2026-10-16",
		ValidityDays: 7,
		Customer:     quote.Customer{Name: "Empresa Teste Ltda"},
		Items: []quote.LineItem{
			{Description: "Disjuntor 32A", Unit: "un", Quantity: dec("2"), UnitPrice: dec("45"), DiscountPercent: dec("0"), Subtotal: dec("90")},
		},
		Totals: quote.Totals{Subtotal: dec("90"), GrandTotal: dec("90")},
	}
}

// ManyItems returns a quotation with n priced rows.
func ManyItems(n int) *quote.Quotation {
	q := Minimal()
	q.Items = nil
	total := decimal.Zero
	for i := 0; i < n; i++ {
		sub := quote.LineSubtotal(decimal.NewFromInt(1), dec("10"), decimal.Zero)
		q.Items = append(q.Items, quote.LineItem{
			Description:     fmt.Sprintf("Item de teste %03d", i+1),
			Unit:            "un",
			Quantity:        decimal.NewFromInt(1),
			UnitPrice:       dec("10"),
			DiscountPercent: decimal.Zero,
			Subtotal:        sub,
		})
		total = total.Add(sub)
	}
	q.Totals = quote.Totals{Subtotal: total, GrandTotal: total}
	return q
}
