package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// Annot is a page annotation dictionary, grounded in the teacher's
// model/annotations.go field set, trimmed to the fields common across
// subtypes; subtype-specific keys (e.g. Link's /A, Widget's /AS) stay
// in Other since dispatching on every annotation subtype is out of
// this layer's scope.
type Annot struct {
	Subtype  objects.Name
	Rect     Rectangle
	Contents string
	AP       objects.Dict // appearance streams, kept raw: {N, R, D} each a stream ref or subdict of them
	Other    objects.Dict
}

func (a *Annot) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "Annot: expected a dictionary")
	}
	a.Subtype, _ = objects.AsName(d["Subtype"])
	if r, ok := decodeRectangle(d["Rect"]); ok {
		a.Rect = r
	}
	a.Contents = textField(d, "Contents")
	a.AP, _ = objects.AsDict(d["AP"])
	a.Other = without(d, "Type", "Subtype", "Rect", "Contents", "AP")
	return nil
}

func (a *Annot) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, a.Other)
	d["Type"] = objects.Name("Annot")
	if a.Subtype != "" {
		d["Subtype"] = a.Subtype
	}
	d["Rect"] = a.Rect.encode()
	setText(d, "Contents", a.Contents)
	if a.AP != nil {
		d["AP"] = a.AP
	}
	return d, nil
}
