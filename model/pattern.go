package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// Pattern is a tagged variant over /PatternType 1 (tiling, a content
// stream) or 2 (shading, a plain dictionary) — spec.md §4.6's
// polymorphism note names Pattern alongside XObject/Action as
// discriminator-dispatched. Tiling patterns carry stream content;
// shading patterns don't, so Stream.Content is simply empty for those.
type Pattern struct {
	PatternType int
	Stream      objects.Stream // only meaningful when PatternType == 1
	Resources   *Ref[Resources]
	Matrix      [6]float64
	Shading     objects.Dict // only meaningful when PatternType == 2
	Other       objects.Dict
}

func (pt *Pattern) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "Pattern: expected a dictionary")
	}
	if st, ok := p.(objects.Stream); ok {
		pt.Stream = st
	}
	if v, ok := objects.AsInt(d["PatternType"]); ok {
		pt.PatternType = int(v)
	}
	if r, ok := refOf(d["Resources"]); ok {
		ref := storage.NewRef[Resources](r)
		pt.Resources = &ref
	}
	if arr, ok := objects.AsArray(d["Matrix"]); ok && len(arr) == 6 {
		for i, e := range arr {
			pt.Matrix[i], _ = objects.AsReal(e)
		}
	} else {
		pt.Matrix = [6]float64{1, 0, 0, 1, 0, 0}
	}
	pt.Shading, _ = objects.AsDict(d["Shading"])
	pt.Other = without(d, "Type", "PatternType", "Resources", "Matrix", "Shading", "Length", "Filter", "DecodeParms")
	return nil
}

func (pt *Pattern) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, pt.Other)
	d["Type"] = objects.Name("Pattern")
	d["PatternType"] = objects.Integer(pt.PatternType)
	if pt.Resources != nil {
		d["Resources"] = pt.Resources.Reference
	}
	arr := make(objects.Array, 6)
	for i, v := range pt.Matrix {
		arr[i] = objects.Real(v)
	}
	d["Matrix"] = arr
	if pt.Shading != nil {
		d["Shading"] = pt.Shading
	}
	if pt.PatternType == 1 {
		return objects.Stream{Dict: d, Content: pt.Stream.Content}, nil
	}
	return d, nil
}
