package writer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/wudi/quotekit/fonts"
	"github.com/wudi/quotekit/ir/raw"
	"github.com/wudi/quotekit/ir/semantic"
)

type impl struct{ interceptors []Interceptor }

// objectSet turns the semantic document into raw objects, sharing font and
// image objects across pages.
type objectSet struct {
	cfg    Config
	doc    *raw.Document
	fonts  map[*fonts.Font]raw.ObjectRef
	images map[*semantic.Image]raw.ObjectRef
}

func (w *impl) Write(ctx context.Context, doc *semantic.Document, out io.Writer, cfg Config) error {
	if doc == nil || len(doc.Pages) == 0 {
		return ErrNoPages
	}
	set := &objectSet{
		cfg:    cfg,
		doc:    raw.NewDocument(pdfVersion(cfg)),
		fonts:  make(map[*fonts.Font]raw.ObjectRef),
		images: make(map[*semantic.Image]raw.ObjectRef),
	}
	catalogRef, infoRef, err := set.build(ctx, doc)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	body.WriteString("%PDF-" + set.doc.Version + "\n%\xE2\xE3\xCF\xD3\n")
	refs := set.doc.Refs()
	offsets := make([]int, len(refs)+1)
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		obj := set.doc.Objects[ref]
		offsets[ref.Num] = body.Len()
		fmt.Fprintf(&body, "%d %d obj\n", ref.Num, ref.Gen)
		body.Write(serializePrimitive(obj))
		body.WriteString("\nendobj\n")
		for _, ic := range w.interceptors {
			if err := ic.AfterWrite(ctx, obj.Type(), int64(body.Len()-offsets[ref.Num])); err != nil {
				return err
			}
		}
	}

	ids := fileID(body.Bytes(), cfg)
	xrefOffset := body.Len()
	fmt.Fprintf(&body, "xref\n0 %d\n", len(refs)+1)
	body.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(refs); i++ {
		fmt.Fprintf(&body, "%010d 00000 n \n", offsets[i])
	}
	trailer := raw.Dict().
		Put("Size", raw.NumberInt(int64(len(refs)+1))).
		Put("Root", raw.RefTo(catalogRef)).
		Put("Info", raw.RefTo(infoRef)).
		Put("ID", raw.NewArray(raw.HexStr(ids[0]), raw.HexStr(ids[1])))
	set.doc.Trailer = trailer
	body.WriteString("trailer\n")
	body.Write(serializePrimitive(trailer))
	fmt.Fprintf(&body, "\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	_, err = out.Write(body.Bytes())
	return err
}

func (s *objectSet) build(ctx context.Context, doc *semantic.Document) (catalog, info raw.ObjectRef, err error) {
	catalog = s.doc.Reserve()
	pagesRef := s.doc.Reserve()

	kids := raw.NewArray()
	for _, p := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return catalog, info, err
		}
		ref, err := s.page(p, pagesRef)
		if err != nil {
			return catalog, info, err
		}
		kids.Append(raw.RefTo(ref))
	}
	s.doc.Set(pagesRef, raw.Dict().
		Put("Type", raw.NameLiteral("Pages")).
		Put("Count", raw.NumberInt(int64(len(doc.Pages)))).
		Put("Kids", kids))
	s.doc.Set(catalog, raw.Dict().
		Put("Type", raw.NameLiteral("Catalog")).
		Put("Pages", raw.RefTo(pagesRef)))

	infoDict := raw.Dict()
	if doc.Info != nil {
		for key, val := range map[string]string{
			"Title":    doc.Info.Title,
			"Author":   doc.Info.Author,
			"Subject":  doc.Info.Subject,
			"Creator":  doc.Info.Creator,
			"Producer": doc.Info.Producer,
		} {
			if val != "" {
				infoDict.Put(key, textString(val))
			}
		}
	}
	info = s.doc.Add(infoDict)
	return catalog, info, nil
}

func (s *objectSet) page(p *semantic.Page, parent raw.ObjectRef) (raw.ObjectRef, error) {
	var content []byte
	for _, cs := range p.Contents {
		content = append(content, serializeContentStream(cs)...)
	}
	contentStream, err := stream(raw.Dict(), content, s.cfg)
	if err != nil {
		return raw.ObjectRef{}, err
	}
	contentRef := s.doc.Add(contentStream)

	resources := raw.Dict().Put("ProcSet", raw.NewArray(
		raw.NameLiteral("PDF"), raw.NameLiteral("Text"), raw.NameLiteral("ImageB"), raw.NameLiteral("ImageC")))
	if p.Resources != nil && len(p.Resources.Fonts) > 0 {
		fontDict := raw.Dict()
		for _, name := range sortedKeys(p.Resources.Fonts) {
			ref, err := s.font(p.Resources.Fonts[name])
			if err != nil {
				return raw.ObjectRef{}, err
			}
			fontDict.Put(name, raw.RefTo(ref))
		}
		resources.Put("Font", fontDict)
	}
	if p.Resources != nil && len(p.Resources.XObjects) > 0 {
		xoDict := raw.Dict()
		for _, name := range sortedKeys(p.Resources.XObjects) {
			ref, err := s.image(p.Resources.XObjects[name])
			if err != nil {
				return raw.ObjectRef{}, err
			}
			xoDict.Put(name, raw.RefTo(ref))
		}
		resources.Put("XObject", xoDict)
	}

	return s.doc.Add(raw.Dict().
		Put("Type", raw.NameLiteral("Page")).
		Put("Parent", raw.RefTo(parent)).
		Put("MediaBox", rectArray(p.MediaBox)).
		Put("Resources", resources).
		Put("Contents", raw.RefTo(contentRef))), nil
}

// font writes a simple font once per *fonts.Font.
func (s *objectSet) font(f *fonts.Font) (raw.ObjectRef, error) {
	if ref, ok := s.fonts[f]; ok {
		return ref, nil
	}
	dict := raw.Dict().
		Put("Type", raw.NameLiteral("Font")).
		Put("BaseFont", raw.NameLiteral(f.Name())).
		Put("Encoding", raw.NameLiteral("WinAnsiEncoding"))

	tt := f.Embedded()
	if tt == nil {
		dict.Put("Subtype", raw.NameLiteral("Type1"))
	} else {
		dict.Put("Subtype", raw.NameLiteral("TrueType"))
		first, last, widths := f.Widths()
		arr := raw.NewArray()
		for _, w := range widths {
			arr.Append(raw.NumberInt(int64(w)))
		}
		dict.Put("FirstChar", raw.NumberInt(int64(first))).
			Put("LastChar", raw.NumberInt(int64(last))).
			Put("Widths", arr)

		file, err := stream(raw.Dict().Put("Length1", raw.NumberInt(int64(len(tt.Data)))), tt.Data, s.cfg)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		fileRef := s.doc.Add(file)
		descRef := s.doc.Add(raw.Dict().
			Put("Type", raw.NameLiteral("FontDescriptor")).
			Put("FontName", raw.NameLiteral(f.Name())).
			Put("Flags", raw.NumberInt(int64(tt.Flags))).
			Put("FontBBox", raw.NewArray(
				raw.NumberFloat(tt.BBox[0]), raw.NumberFloat(tt.BBox[1]),
				raw.NumberFloat(tt.BBox[2]), raw.NumberFloat(tt.BBox[3]))).
			Put("ItalicAngle", raw.NumberFloat(tt.ItalicAngle)).
			Put("Ascent", raw.NumberInt(int64(f.Ascent()))).
			Put("Descent", raw.NumberInt(int64(f.Descent()))).
			Put("CapHeight", raw.NumberFloat(tt.CapHeight)).
			Put("StemV", raw.NumberInt(int64(tt.StemV))).
			Put("FontFile2", raw.RefTo(fileRef)))
		dict.Put("FontDescriptor", raw.RefTo(descRef))
	}
	ref := s.doc.Add(dict)
	s.fonts[f] = ref
	return ref, nil
}

func (s *objectSet) image(img *semantic.Image) (raw.ObjectRef, error) {
	if ref, ok := s.images[img]; ok {
		return ref, nil
	}
	if img.Width <= 0 || img.Height <= 0 {
		return raw.ObjectRef{}, fmt.Errorf("writer: image has invalid size %dx%d", img.Width, img.Height)
	}
	bpc := img.BitsPerComponent
	if bpc == 0 {
		bpc = 8
	}
	cs := img.ColorSpace
	if cs == "" {
		cs = "DeviceRGB"
	}
	dict := raw.Dict().
		Put("Type", raw.NameLiteral("XObject")).
		Put("Subtype", raw.NameLiteral("Image")).
		Put("Width", raw.NumberInt(int64(img.Width))).
		Put("Height", raw.NumberInt(int64(img.Height))).
		Put("ColorSpace", raw.NameLiteral(cs)).
		Put("BitsPerComponent", raw.NumberInt(int64(bpc)))
	if img.SMask != nil {
		maskRef, err := s.image(img.SMask)
		if err != nil {
			return raw.ObjectRef{}, err
		}
		dict.Put("SMask", raw.RefTo(maskRef))
	}
	st, err := stream(dict, img.Data, s.cfg)
	if err != nil {
		return raw.ObjectRef{}, err
	}
	ref := s.doc.Add(st)
	s.images[img] = ref
	return ref, nil
}

// sortedKeys keeps object numbering independent of map order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
