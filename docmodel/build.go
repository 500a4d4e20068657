package docmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/interp"
	"github.com/wudi/quotekit/locale"
	"github.com/wudi/quotekit/quote"
)

// Fixed section titles and labels (pt-BR).
const (
	TitleProposal        = "Proposta Comercial"
	TitleCustomer        = "Dados do Cliente"
	TitleConditions      = "Condições Comerciais"
	TitleCommercialNotes = "Observações Comerciais"
	TitleTechnicalNotes  = "Observações Técnicas"
	TitleClosing         = "Considerações Finais"

	LabelNumber     = "Proposta Nº"
	LabelDate       = "Data"
	LabelValidity   = "Validade"
	LabelReference  = "Referência"
	LabelCustomer   = "Cliente"
	LabelCompany    = "Empresa"
	LabelTaxID      = "CNPJ/CPF"
	LabelEmail      = "E-mail"
	LabelPhone      = "Telefone"
	LabelAddress    = "Endereço"
	LabelPayment    = "Condições de Pagamento"
	LabelDelivery   = "Prazo de Entrega"
	LabelFreightTyp = "Tipo de Frete"
	LabelWarranty   = "Garantia"
	LabelSubtotal   = "Subtotal"
	LabelDiscount   = "Desconto"
	LabelFreight    = "Frete"
	LabelGrandTotal = "TOTAL"
)

// Columns returns the item-table column set.
func Columns() []Column {
	return []Column{
		{Label: "#", Width: 24, Align: AlignCenter},
		{Label: "Descrição", Align: AlignLeft},
		{Label: "Unid.", Width: 44, Align: AlignCenter},
		{Label: "Qtd.", Width: 44, Align: AlignRight},
		{Label: "Valor Unit.", Width: 74, Align: AlignRight, Money: true},
		{Label: "Desc. %", Width: 44, Align: AlignRight},
		{Label: "Subtotal", Width: 82, Align: AlignRight, Money: true},
	}
}

// Input gathers everything Build consumes.
type Input struct {
	Quotation *quote.Quotation
	Company   quote.CompanyBranding
	Design    design.Config
	// Logo is nil when the logo is disabled or could not be fetched.
	Logo   *Logo
	Policy interp.Policy
}

// Build produces the block list. The order is fixed; optional content is
// left out rather than rendered empty. Date problems surface as
// *locale.FormatError.
func Build(in Input) (*Document, error) {
	q := in.Quotation
	if q == nil {
		return nil, fmt.Errorf("docmodel: nil quotation")
	}
	vars, err := interp.Vars(q, in.Company)
	if err != nil {
		return nil, err
	}
	expand := func(s string) string { return interp.Interpolate(s, vars, in.Policy) }

	doc := &Document{
		Title:  strings.TrimSpace("Proposta " + q.Number),
		Author: in.Company.Name,
		Design: in.Design,
	}
	add := func(c Content) { doc.Blocks = append(doc.Blocks, Block{Kind: c.kind(), Content: c}) }

	h := Header{
		CompanyName: in.Company.Name,
		Subtitle:    in.Company.Subtitle,
		Contact:     contactLines(in.Company),
		Align:       in.Design.HeaderAlign,
	}
	if in.Design.ShowLogo {
		h.Logo = in.Logo
	}
	add(h)

	info := InfoBar{Title: TitleProposal, Fields: []Field{
		{LabelNumber, q.Number},
		{LabelDate, vars["quotationDate"]},
		{LabelValidity, validity(q.ValidityDays)},
	}}
	if ref := strings.TrimSpace(q.Reference); ref != "" {
		info.Fields = append(info.Fields, Field{LabelReference, ref})
	}
	add(info)

	add(CustomerPanel{Title: TitleCustomer, Fields: populated(
		Field{LabelCustomer, q.Customer.Name},
		Field{LabelCompany, q.Customer.Company},
		Field{LabelTaxID, q.Customer.TaxID},
		Field{LabelEmail, q.Customer.Email},
		Field{LabelPhone, q.Customer.Phone},
		Field{LabelAddress, q.Customer.Address},
	)})

	if t := expand(q.Texts.Header); strings.TrimSpace(t) != "" {
		add(TextBlock{Role: RoleHeaderText, Text: t})
	}
	if t := expand(q.Texts.Intro); strings.TrimSpace(t) != "" {
		add(TextBlock{Role: RoleIntro, Text: t})
	}

	add(itemTable(q.Items))
	add(totals(q))

	if fields := populated(
		Field{LabelPayment, q.Conditions.PaymentTerms},
		Field{LabelDelivery, q.Conditions.DeliveryTime},
		Field{LabelFreightTyp, q.Conditions.FreightType},
		Field{LabelWarranty, q.Conditions.Warranty},
	); len(fields) > 0 {
		add(ConditionsPanel{Title: TitleConditions, Fields: fields})
	}

	for _, s := range []struct {
		role  TextRole
		title string
		text  string
	}{
		{RoleCommercialNotes, TitleCommercialNotes, q.Texts.CommercialNotes},
		{RoleTechnicalNotes, TitleTechnicalNotes, q.Texts.TechnicalNotes},
		{RoleClosing, TitleClosing, q.Texts.Closing},
	} {
		if t := expand(s.text); strings.TrimSpace(t) != "" {
			add(TextBlock{Role: s.role, Title: s.title, Text: t})
		}
	}

	footer := strings.TrimSpace(expand(q.Texts.Footer))
	if footer == "" {
		footer = joinNonEmpty(" | ", in.Company.Name, in.Company.Phone, in.Company.Email)
	}
	add(Footer{Text: footer})
	return doc, nil
}

func itemTable(items []quote.LineItem) ItemTable {
	t := ItemTable{Columns: Columns(), Rows: make([]Row, 0, len(items))}
	for i, it := range items {
		t.Rows = append(t.Rows, Row{Index: i, Cells: []string{
			strconv.Itoa(i + 1),
			it.Description,
			it.Unit,
			locale.FormatQuantity(it.Quantity),
			locale.FormatCurrency(it.UnitPrice),
			locale.FormatPercent(it.DiscountPercent),
			locale.FormatCurrency(it.Subtotal),
		}})
	}
	return t
}

func totals(q *quote.Quotation) TotalsPanel {
	p := TotalsPanel{Lines: []TotalLine{{Label: LabelSubtotal, Value: locale.FormatCurrency(q.Totals.Subtotal)}}}
	if q.Totals.TotalDiscount.IsPositive() {
		p.Lines = append(p.Lines, TotalLine{Label: LabelDiscount, Value: locale.FormatCurrency(q.Totals.TotalDiscount.Neg())})
	}
	if q.Conditions.FreightValue.IsPositive() {
		p.Lines = append(p.Lines, TotalLine{Label: LabelFreight, Value: locale.FormatCurrency(q.Conditions.FreightValue)})
	}
	p.Lines = append(p.Lines, TotalLine{Label: LabelGrandTotal, Value: locale.FormatCurrency(q.Totals.GrandTotal), Emphasis: true})
	return p
}

func contactLines(c quote.CompanyBranding) []string {
	var lines []string
	if l := joinNonEmpty(" | ", c.Phone, c.Email, c.Website); l != "" {
		lines = append(lines, l)
	}
	tax := ""
	if strings.TrimSpace(c.TaxID) != "" {
		tax = "CNPJ " + strings.TrimSpace(c.TaxID)
	}
	if l := joinNonEmpty(" | ", c.Address, tax); l != "" {
		lines = append(lines, l)
	}
	return lines
}

func validity(days int) string {
	if days == 1 {
		return "1 dia"
	}
	return strconv.Itoa(days) + " dias"
}

func populated(fields ...Field) []Field {
	out := fields[:0]
	for _, f := range fields {
		if v := strings.TrimSpace(f.Value); v != "" {
			out = append(out, Field{Label: f.Label, Value: v})
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}
