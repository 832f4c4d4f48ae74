package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// XObject is a tagged variant over /Subtype Form|Image (spec.md §4.6's
// polymorphism note lists XObject alongside PagesNode/Action/Pattern as
// a discriminator-dispatched type). The raw stream bytes stay on the
// Stream field rather than being re-parsed here: the content codec
// reads a Form XObject's content the same way it reads a page's, and
// image samples are a filter-package concern, not this layer's.
type XObject struct {
	Subtype   objects.Name // Form or Image
	Stream    objects.Stream
	Resources *Ref[Resources] // Form only
	BBox      *Rectangle      // Form only
	Width     int             // Image only
	Height    int             // Image only
	Other     objects.Dict
}

func (x *XObject) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	st, ok := p.(objects.Stream)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "XObject: expected a stream")
	}
	x.Stream = st
	d := st.Dict
	x.Subtype, _ = objects.AsName(d["Subtype"])
	if r, ok := refOf(d["Resources"]); ok {
		ref := storage.NewRef[Resources](r)
		x.Resources = &ref
	}
	if bb, ok := decodeRectangle(d["BBox"]); ok {
		x.BBox = &bb
	}
	if w, ok := objects.AsInt(d["Width"]); ok {
		x.Width = int(w)
	}
	if h, ok := objects.AsInt(d["Height"]); ok {
		x.Height = int(h)
	}
	x.Other = without(d, "Type", "Subtype", "Resources", "BBox", "Width", "Height", "Length", "Filter", "DecodeParms")
	return nil
}

func (x *XObject) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, x.Other)
	d["Type"] = objects.Name("XObject")
	if x.Subtype != "" {
		d["Subtype"] = x.Subtype
	}
	if x.Resources != nil {
		d["Resources"] = x.Resources.Reference
	}
	if x.BBox != nil {
		d["BBox"] = x.BBox.encode()
	}
	if x.Subtype == "Image" {
		d["Width"] = objects.Integer(x.Width)
		d["Height"] = objects.Integer(x.Height)
	}
	return objects.Stream{Dict: d, Content: x.Stream.Content}, nil
}
