package model

import (
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/storage"
)

func TestAnnotRoundTrip(t *testing.T) {
	s := storage.New(storage.Config{})
	d := objects.Dict{
		"Subtype":  objects.Name("Text"),
		"Rect":     objects.Array{objects.Integer(10), objects.Integer(10), objects.Integer(50), objects.Integer(50)},
		"Contents": objects.String("a note"),
	}
	var a Annot
	if err := a.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if a.Rect.Urx != 50 {
		t.Errorf("Rect: got %+v", a.Rect)
	}
	out, err := a.EncodeTo(s)
	if err != nil {
		t.Fatal(err)
	}
	outD, _ := objects.AsDict(out)
	if outD["Contents"] != objects.String("a note") {
		t.Errorf("Contents not preserved: %v", outD["Contents"])
	}
}

func TestXObjectImageFields(t *testing.T) {
	s := storage.New(storage.Config{})
	st := objects.Stream{
		Dict: objects.Dict{
			"Subtype": objects.Name("Image"),
			"Width":   objects.Integer(100),
			"Height":  objects.Integer(200),
		},
		Content: []byte{1, 2, 3},
	}
	var x XObject
	if err := x.DecodeFrom(st, s); err != nil {
		t.Fatal(err)
	}
	if x.Width != 100 || x.Height != 200 {
		t.Errorf("Width/Height: got %d/%d", x.Width, x.Height)
	}
	prim, err := x.EncodeTo(s)
	if err != nil {
		t.Fatal(err)
	}
	outSt, ok := prim.(objects.Stream)
	if !ok {
		t.Fatalf("expected a stream, got %T", prim)
	}
	if len(outSt.Content) != 3 {
		t.Errorf("stream content not preserved: %v", outSt.Content)
	}
}

func TestXObjectRejectsNonStream(t *testing.T) {
	s := storage.New(storage.Config{})
	var x XObject
	if err := x.DecodeFrom(objects.Dict{}, s); err == nil {
		t.Fatal("expected an error decoding an XObject from a plain dict")
	}
}

func TestPatternDefaultsMatrixToIdentity(t *testing.T) {
	s := storage.New(storage.Config{})
	d := objects.Dict{"PatternType": objects.Integer(2), "Shading": objects.Dict{"ShadingType": objects.Integer(2)}}
	var p Pattern
	if err := p.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if p.Matrix != [6]float64{1, 0, 0, 1, 0, 0} {
		t.Errorf("Matrix: got %v", p.Matrix)
	}
}

func TestFieldDictionaryFlags(t *testing.T) {
	s := storage.New(storage.Config{})
	d := objects.Dict{
		"FT": objects.Name("Tx"),
		"Ff": objects.Integer(int64(Required | Multiline)),
	}
	var f FieldDictionary
	if err := f.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if f.Ff&Required == 0 || f.Ff&Multiline == 0 {
		t.Errorf("flags not preserved: %b", f.Ff)
	}
}

func TestOutlineItemPreservesCycleViaRef(t *testing.T) {
	s := storage.New(storage.Config{})
	parentRef := storage.NewRef[OutlineItem](objects.Reference{Number: 1})
	item := &OutlineItem{Title: "Chapter 1", Parent: parentRef}
	prim, err := item.EncodeTo(s)
	if err != nil {
		t.Fatal(err)
	}
	d, _ := objects.AsDict(prim)
	if d["Parent"] != (objects.Reference{Number: 1}) {
		t.Errorf("Parent not encoded: %v", d["Parent"])
	}
}
