package model

import (
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/storage"
)

func TestFontDecodeBareEncodingName(t *testing.T) {
	s := storage.New(storage.Config{})
	d := objects.Dict{
		"Type":     objects.Name("Font"),
		"Subtype":  objects.Name("Type1"),
		"BaseFont": objects.Name("Helvetica"),
		"Encoding": objects.Name("WinAnsiEncoding"),
	}
	var f Font
	if err := f.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if f.Encoding == nil {
		t.Fatal("expected a resolved Encoding")
	}
	// WinAnsiEncoding maps code 0x93 to a left double quote, distinct
	// from StandardEncoding's mapping for the same code.
	if f.Encoding.Table[0x93] == 0 {
		t.Errorf("WinAnsiEncoding table looks empty at 0x93")
	}
}

func TestFontDecodeDifferencesEncoding(t *testing.T) {
	s := storage.New(storage.Config{})
	d := objects.Dict{
		"Subtype": objects.Name("Type1"),
		"Encoding": objects.Dict{
			"BaseEncoding": objects.Name("StandardEncoding"),
			"Differences": objects.Array{objects.Integer(65), objects.Name("A")},
		},
	}
	var f Font
	if err := f.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if f.Encoding.Table[65] != 'A' {
		t.Errorf("Differences override: got %q at code 65", f.Encoding.Table[65])
	}
}

func TestFontEncodePreservesRawEncoding(t *testing.T) {
	s := storage.New(storage.Config{})
	f := &Font{Subtype: "Type1", BaseFont: "Times-Roman"}
	enc, err := decodeEncoding(objects.Name("WinAnsiEncoding"))
	if err != nil {
		t.Fatal(err)
	}
	f.Encoding = enc

	prim, err := f.EncodeTo(s)
	if err != nil {
		t.Fatal(err)
	}
	d, _ := objects.AsDict(prim)
	if d["Encoding"] != objects.Name("WinAnsiEncoding") {
		t.Errorf("expected the raw /Encoding name preserved, got %v", d["Encoding"])
	}
}
