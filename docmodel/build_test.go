package docmodel

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wudi/quotekit/design"
	"github.com/wudi/quotekit/interp"
	"github.com/wudi/quotekit/locale"
	"github.com/wudi/quotekit/quote"
	"github.com/wudi/quotekit/quote/quotetest"
)

func kinds(d *Document) []Kind {
	out := make([]Kind, len(d.Blocks))
	for i, b := range d.Blocks {
		out[i] = b.Kind
	}
	return out
}

func allText(d *Document) string {
	var b strings.Builder
	for _, blk := range d.Blocks {
		switch c := blk.Content.(type) {
		case Header:
			b.WriteString(c.CompanyName + c.Subtitle + strings.Join(c.Contact, ""))
		case InfoBar:
			b.WriteString(c.Title)
			for _, f := range c.Fields {
				b.WriteString(f.Label + f.Value)
			}
		case CustomerPanel:
			b.WriteString(c.Title)
			for _, f := range c.Fields {
				b.WriteString(f.Label + f.Value)
			}
		case ConditionsPanel:
			b.WriteString(c.Title)
			for _, f := range c.Fields {
				b.WriteString(f.Label + f.Value)
			}
		case TextBlock:
			b.WriteString(c.Title + c.Text)
		case TotalsPanel:
			for _, l := range c.Lines {
				b.WriteString(l.Label + l.Value)
			}
		case Footer:
			b.WriteString(c.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func fieldLabels(d *Document) []string {
	var out []string
	for _, blk := range d.Blocks {
		switch c := blk.Content.(type) {
		case InfoBar:
			for _, f := range c.Fields {
				out = append(out, f.Label)
			}
		case CustomerPanel:
			for _, f := range c.Fields {
				out = append(out, f.Label)
			}
		case ConditionsPanel:
			for _, f := range c.Fields {
				out = append(out, f.Label)
			}
		case TotalsPanel:
			for _, l := range c.Lines {
				out = append(out, l.Label)
			}
		}
	}
	return out
}

func TestBuildFullOrder(t *testing.T) {
	doc, err := Build(Input{Quotation: quotetest.ScenarioA(), Company: quotetest.Company(), Design: design.Default()})
	require.NoError(t, err)
	assert.Equal(t, []Kind{
		KindHeader, KindInfoBar, KindCustomerPanel,
		KindTextBlock, KindTextBlock,
		KindItemTable, KindTotalsPanel, KindConditionsPanel,
		KindTextBlock, KindTextBlock, KindTextBlock,
		KindFooter,
	}, kinds(doc))

	hdr := doc.Blocks[3].Content.(TextBlock)
	assert.Equal(t, "Prezado(a) Empresa Teste Ltda,", hdr.Text)
	assert.Empty(t, hdr.Title)

	closing := doc.Blocks[10].Content.(TextBlock)
	assert.Equal(t, TitleClosing, closing.Title)
	assert.Equal(t, "Atenciosamente, Eletro Forte Ltda.", closing.Text)

	assert.Equal(t, "Eletro Forte Ltda | (11) 4002-8922", doc.FooterText())
	assert.Equal(t, "Proposta 2026-0001", doc.Title)
	assert.Equal(t, "Eletro Forte Ltda", doc.Author)
}

func TestBuildTotals(t *testing.T) {
	doc, err := Build(Input{Quotation: quotetest.ScenarioA(), Company: quotetest.Company(), Design: design.Default()})
	require.NoError(t, err)
	tp := doc.Blocks[6].Content.(TotalsPanel)
	assert.Equal(t, []TotalLine{
		{Label: "Subtotal", Value: "R$ 5.300,00"},
		{Label: "Desconto", Value: "-R$ 450,00"},
		{Label: "Frete", Value: "R$ 350,00"},
		{Label: "TOTAL", Value: "R$ 5.200,00", Emphasis: true},
	}, tp.Lines)

	q := quotetest.ScenarioA()
	q.Totals.TotalDiscount = decimal.Zero
	q.Conditions.FreightValue = decimal.Zero
	doc, err = Build(Input{Quotation: q, Design: design.Default()})
	require.NoError(t, err)
	tp = doc.Blocks[6].Content.(TotalsPanel)
	require.Len(t, tp.Lines, 2)
	assert.Equal(t, "Subtotal", tp.Lines[0].Label)
	assert.Equal(t, "TOTAL", tp.Lines[1].Label)
}

func TestBuildItemRows(t *testing.T) {
	doc, err := Build(Input{Quotation: quotetest.ScenarioA(), Design: design.Default()})
	require.NoError(t, err)
	table := doc.Blocks[5].Content.(ItemTable)
	require.Len(t, table.Columns, 7)
	assert.Equal(t, "Descrição", table.Columns[DescriptionColumn].Label)
	assert.Zero(t, table.Columns[DescriptionColumn].Width)
	assert.Equal(t, []string{"1", "Motor WEG 220V 5CV", "un", "3", "R$ 1.500,00", "10%", "R$ 4.050,00"}, table.Rows[0].Cells)
	assert.Equal(t, []string{"2", "Cabo flexível 10mm²", "m", "100", "R$ 12,50", "0%", "R$ 1.250,00"}, table.Rows[1].Cells)
	assert.False(t, table.Rows[0].Striped())
	assert.True(t, table.Rows[1].Striped())
}

func TestBuildEmptyItemsStillHasTable(t *testing.T) {
	q := quotetest.Minimal()
	q.Items = nil
	doc, err := Build(Input{Quotation: q, Design: design.Default()})
	require.NoError(t, err)
	assert.Contains(t, kinds(doc), KindItemTable)
}

func TestBuildFieldSkip(t *testing.T) {
	doc, err := Build(Input{Quotation: quotetest.Minimal(), Company: quotetest.Company(), Design: design.Default()})
	require.NoError(t, err)

	cp := doc.Blocks[2].Content.(CustomerPanel)
	assert.Equal(t, []Field{{Label: LabelCustomer, Value: "Empresa Teste Ltda"}}, cp.Fields)

	labels := fieldLabels(doc)
	for _, label := range []string{LabelCompany, LabelTaxID, LabelEmail, LabelPhone, LabelAddress,
		LabelPayment, LabelDelivery, LabelFreightTyp, LabelWarranty, LabelReference, LabelDiscount, LabelFreight} {
		assert.NotContains(t, labels, label)
	}
	assert.NotContains(t, allText(doc), TitleConditions)
	assert.NotContains(t, kinds(doc), KindConditionsPanel)
}

func TestBuildScenarioDNoTexts(t *testing.T) {
	q := quotetest.ScenarioA()
	q.Texts = quote.DocumentTexts{}
	doc, err := Build(Input{Quotation: q, Company: quotetest.Company(), Design: design.Default()})
	require.NoError(t, err)
	assert.NotContains(t, kinds(doc), KindTextBlock)
	text := allText(doc)
	for _, title := range []string{TitleCommercialNotes, TitleTechnicalNotes, TitleClosing} {
		assert.NotContains(t, text, title)
	}
	assert.Equal(t, "Eletro Forte Ltda | (11) 4002-8922 | vendas@eletroforte.com.br", doc.FooterText())

	company := quotetest.Company()
	company.Phone = ""
	doc, err = Build(Input{Quotation: q, Company: company, Design: design.Default()})
	require.NoError(t, err)
	assert.Equal(t, "Eletro Forte Ltda | vendas@eletroforte.com.br", doc.FooterText())
}

func TestBuildWhitespaceOnlyTextIsOmitted(t *testing.T) {
	q := quotetest.Minimal()
	q.Texts.TechnicalNotes = "   \n"
	doc, err := Build(Input{Quotation: q, Design: design.Default()})
	require.NoError(t, err)
	assert.NotContains(t, kinds(doc), KindTextBlock)
}

func TestBuildInterpolationPolicy(t *testing.T) {
	q := quotetest.Minimal()
	q.Texts.Intro = "Olá ${customerName} ${desconhecido}"

	doc, err := Build(Input{Quotation: q, Design: design.Default(), Policy: interp.KeepUnknown})
	require.NoError(t, err)
	assert.Equal(t, "Olá Empresa Teste Ltda ${desconhecido}", doc.Blocks[3].Content.(TextBlock).Text)

	doc, err = Build(Input{Quotation: q, Design: design.Default(), Policy: interp.DropUnknown})
	require.NoError(t, err)
	assert.Equal(t, "Olá Empresa Teste Ltda ", doc.Blocks[3].Content.(TextBlock).Text)
}

func TestBuildBadDate(t *testing.T) {
	q := quotetest.Minimal()
	q.IssueDate = "16-10-2026"
	_, err := Build(Input{Quotation: q, Design: design.Default()})
	var fe *locale.FormatError
	assert.True(t, errors.As(err, &fe))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestBuildLogoRespectsShowLogo(t *testing.T) {
	logo, err := NewLogo(pngBytes(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, "png", logo.Format)
	assert.Equal(t, "image/png", logo.MIME())
	assert.Equal(t, 40, logo.Width)

	cfg := design.Default()
	doc, err := Build(Input{Quotation: quotetest.Minimal(), Design: cfg, Logo: logo})
	require.NoError(t, err)
	assert.Same(t, logo, doc.Blocks[0].Content.(Header).Logo)

	cfg.ShowLogo = false
	doc, err = Build(Input{Quotation: quotetest.Minimal(), Design: cfg, Logo: logo})
	require.NoError(t, err)
	assert.Nil(t, doc.Blocks[0].Content.(Header).Logo)

	_, err = NewLogo([]byte("<svg/>"))
	assert.Error(t, err)
}

func TestNewLogoRejectsBrokenPixels(t *testing.T) {
	data := pngBytes(t, 40, 20)
	_, err := NewLogo(data[:len(data)-20])
	assert.Error(t, err, "a valid header must not hide a truncated body")

	logo, err := NewLogo(data)
	require.NoError(t, err)
	require.NotNil(t, logo.Image)
	assert.Equal(t, 40, logo.Image.Bounds().Dx())
}

func TestNewLogoRejectsOversizedImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, MaxLogoSide+1, 1))))
	_, err := NewLogo(buf.Bytes())
	assert.ErrorIs(t, err, ErrLogoTooLarge)

	_, err = NewLogo(pngBytes(t, 1, MaxLogoSide))
	assert.NoError(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "item-table", KindItemTable.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
