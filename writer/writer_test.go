package writer

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/wudi/quotekit/builder"
	"github.com/wudi/quotekit/fonts"
	"github.com/wudi/quotekit/ir/semantic"
)

func sampleDoc(t *testing.T) *semantic.Document {
	t.Helper()
	helv := fonts.StandardFamily("Helvetica", false)
	b := builder.NewBuilder().SetInfo(&semantic.DocumentInfo{Title: "Proposta Comercial 2026-0001", Author: "Eletro Forte", Producer: "quotekit"})
	b.NewPage(595.28, 841.89).
		DrawRectangle(40, 40, 100, 20, builder.RectOptions{Fill: true, FillColor: builder.Color{R: 1}}).
		DrawText("Página 1 de 2", 40, 800, builder.TextOptions{Font: helv, FontSize: 10}).
		Finish()
	b.NewPage(595.28, 841.89).
		DrawText("Página 2 de 2", 40, 800, builder.TextOptions{Font: helv, FontSize: 10})
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return doc
}

func write(t *testing.T, doc *semantic.Document, cfg Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := New().Write(context.Background(), doc, &buf, cfg); err != nil {
		t.Fatalf("write: %v", err)
	}
	return buf.Bytes()
}

var streamRE = regexp.MustCompile(`(?s)stream\n(.*?)\nendstream`)

func inflateStreams(t *testing.T, pdf []byte) []string {
	t.Helper()
	var out []string
	for _, m := range streamRE.FindAllSubmatch(pdf, -1) {
		r, err := zlib.NewReader(bytes.NewReader(m[1]))
		if err != nil {
			t.Fatalf("stream is not zlib: %v", err)
		}
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("inflate: %v", err)
		}
		out = append(out, string(data))
	}
	return out
}

func TestWrite_Structure(t *testing.T) {
	pdf := write(t, sampleDoc(t), DefaultConfig())
	s := string(pdf)
	if !strings.HasPrefix(s, "%PDF-1.7\n") {
		t.Fatalf("missing header: %q", s[:12])
	}
	if !strings.HasSuffix(s, "%%EOF\n") {
		t.Fatalf("missing EOF marker")
	}
	if got := strings.Count(s, "/MediaBox [0 0 595.28 841.89]"); got != 2 {
		t.Fatalf("expected two A4 media boxes, got %d", got)
	}
	if !strings.Contains(s, "<</Count 2 /Kids [") {
		t.Fatalf("page count missing")
	}
	if strings.Count(s, "/BaseFont /Helvetica") != 1 {
		t.Fatalf("font object should be shared across pages")
	}
	if !strings.Contains(s, "/Encoding /WinAnsiEncoding") {
		t.Fatalf("font must use WinAnsiEncoding")
	}
	if !strings.Contains(s, "/Producer (quotekit)") {
		t.Fatalf("producer missing from info dictionary")
	}
	if strings.Contains(s, "CreationDate") {
		t.Fatalf("info dictionary must not carry timestamps")
	}

	// startxref points at the xref keyword
	idx := strings.LastIndex(s, "startxref\n")
	off, err := strconv.Atoi(strings.Fields(s[idx+len("startxref\n"):])[0])
	if err != nil {
		t.Fatalf("bad startxref: %v", err)
	}
	if !strings.HasPrefix(s[off:], "xref\n") {
		t.Fatalf("startxref offset %d does not point at xref", off)
	}
	// every in-use xref entry points at its object
	lines := strings.Split(s[off:], "\n")
	for i, line := range lines[3:] {
		if !strings.HasSuffix(line, " n ") {
			break
		}
		pos, _ := strconv.Atoi(line[:10])
		want := strconv.Itoa(i+1) + " 0 obj"
		if !strings.HasPrefix(s[pos:], want) {
			t.Fatalf("xref entry %d points at %q", i+1, s[pos:pos+10])
		}
	}
}

func TestWrite_ContentStreams(t *testing.T) {
	pdf := write(t, sampleDoc(t), DefaultConfig())
	streams := inflateStreams(t, pdf)
	if len(streams) != 2 {
		t.Fatalf("expected 2 content streams, got %d", len(streams))
	}
	if !strings.Contains(streams[0], "(P\\341gina 1 de 2) Tj") {
		t.Fatalf("page 1 text not found in %q", streams[0])
	}
	if !strings.Contains(streams[0], "40 40 100 20 re") {
		t.Fatalf("rectangle not found in %q", streams[0])
	}
	if !strings.Contains(streams[1], "(P\\341gina 2 de 2) Tj") {
		t.Fatalf("page 2 text not found")
	}
}

func TestWrite_Deterministic(t *testing.T) {
	a := write(t, sampleDoc(t), DefaultConfig())
	b := write(t, sampleDoc(t), DefaultConfig())
	if !bytes.Equal(a, b) {
		t.Fatalf("identical documents produced different bytes")
	}
	if !strings.Contains(string(a), "/ID [<") {
		t.Fatalf("trailer lacks /ID")
	}
}

func TestWrite_Uncompressed(t *testing.T) {
	pdf := string(write(t, sampleDoc(t), Config{Version: PDF14}))
	if !strings.HasPrefix(pdf, "%PDF-1.4") {
		t.Fatalf("version not honored")
	}
	if strings.Contains(pdf, "FlateDecode") {
		t.Fatalf("streams should not be compressed")
	}
	if !strings.Contains(pdf, "(P\\341gina 1 de 2) Tj") {
		t.Fatalf("plain content stream missing text")
	}
}

func TestWrite_UnicodeInfo(t *testing.T) {
	doc := sampleDoc(t)
	doc.Info.Author = "Eletro Forte Ação"
	pdf := string(write(t, doc, DefaultConfig()))
	if !strings.Contains(pdf, "/Author <FEFF") {
		t.Fatalf("non-ASCII author should be UTF-16BE hex")
	}
}

func TestWrite_EmbeddedTrueTypeAndImage(t *testing.T) {
	font, err := fonts.LoadTrueType("Go", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	img := &semantic.Image{Width: 1, Height: 1, ColorSpace: "DeviceRGB", BitsPerComponent: 8, Data: []byte{255, 0, 0},
		SMask: &semantic.Image{Width: 1, Height: 1, ColorSpace: "DeviceGray", BitsPerComponent: 8, Data: []byte{128}}}
	b := builder.NewBuilder()
	b.NewPage(612, 792).
		DrawText("Olá", 10, 10, builder.TextOptions{Font: font, FontSize: 12}).
		DrawImage(img, 0, 0, 10, 10)
	doc, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	pdf := string(write(t, doc, DefaultConfig()))
	for _, want := range []string{
		"/Subtype /TrueType", "/FontFile2 ", "/FirstChar 32", "/LastChar 255", "/Type /FontDescriptor",
		"/Subtype /Image", "/SMask ", "/ColorSpace /DeviceGray", "/MediaBox [0 0 612 792]",
	} {
		if !strings.Contains(pdf, want) {
			t.Fatalf("missing %q", want)
		}
	}
}

func TestWrite_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(context.Background(), &semantic.Document{}, &buf, DefaultConfig()); !errors.Is(err, ErrNoPages) {
		t.Fatalf("expected ErrNoPages, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Write(ctx, sampleDoc(t), &buf, DefaultConfig()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type countingInterceptor struct{ objects int }

func (c *countingInterceptor) AfterWrite(_ context.Context, _ string, n int64) error {
	if n > 0 {
		c.objects++
	}
	return nil
}

func TestWrite_Interceptor(t *testing.T) {
	ic := &countingInterceptor{}
	w := (&WriterBuilder{}).WithInterceptor(ic).Build()
	var buf bytes.Buffer
	if err := w.Write(context.Background(), sampleDoc(t), &buf, DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if ic.objects == 0 {
		t.Fatalf("interceptor never called")
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{0: "0", 595.28: "595.28", 841.89: "841.89", 12: "12", -0.00001: "0", 1.23456: "1.2346"}
	for in, want := range cases {
		if got := formatNumber(in); got != want {
			t.Fatalf("formatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
