package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
	"github.com/go-pdfkit/pdfcore/textenc"
)

// Encoding wraps a simple font's resolved glyph table, built by
// textenc.Resolve from the raw /Encoding entry (a bare name or a
// {BaseEncoding, Differences} dictionary).
type Encoding struct {
	Table textenc.Table
	// Raw keeps the original /Encoding primitive, and EncodeTo emits Raw,
	// never Table, so changes made to Table are not written back (an
	// Encoding with Differences round-trips through Raw rather than being
	// rebuilt from Table, since Table loses the BaseEncoding/Differences split).
	Raw objects.Primitive
}

func decodeEncoding(p objects.Primitive) (*Encoding, error) {
	if p == nil {
		return nil, nil
	}
	table, err := textenc.Resolve(p)
	if err != nil {
		return nil, err
	}
	return &Encoding{Table: table, Raw: p}, nil
}

// Font is a simple or composite font dictionary, grounded in the
// teacher's model/fonts.go field set. Descendant/embedded-program
// details (FontDescriptor, FontFile, Widths) are kept in Other rather
// than given named fields: no component in this layer needs to inspect
// glyph metrics, only Encoding (used by the content codec's text
// operators) and BaseFont (used for display/debugging).
type Font struct {
	Subtype  objects.Name // Type1, TrueType, Type0, ...
	BaseFont objects.Name
	Encoding *Encoding
	Other    objects.Dict
}

func (f *Font) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "Font: expected a dictionary")
	}
	f.Subtype, _ = objects.AsName(d["Subtype"])
	f.BaseFont, _ = objects.AsName(d["BaseFont"])

	encPrim := d["Encoding"]
	if ref, ok := refOf(encPrim); ok {
		resolved, err := s.Resolve(ref)
		if err != nil {
			return err
		}
		encPrim = resolved
	}
	enc, err := decodeEncoding(encPrim)
	if err != nil {
		return err
	}
	f.Encoding = enc

	f.Other = without(d, "Type", "Subtype", "BaseFont", "Encoding")
	return nil
}

func (f *Font) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, f.Other)
	d["Type"] = objects.Name("Font")
	if f.Subtype != "" {
		d["Subtype"] = f.Subtype
	}
	if f.BaseFont != "" {
		d["BaseFont"] = f.BaseFont
	}
	if f.Encoding != nil {
		d["Encoding"] = f.Encoding.Raw
	}
	return d, nil
}
