package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// Resources is a page or XObject's /Resources dictionary, grounded in
// the teacher's ResourcesDict. Only the sub-dictionaries spec.md names
// as their own typed records (Font, Pattern, XObject) get typed Ref
// maps; ExtGState/ColorSpace/Shading are left as raw Dicts since
// nothing in spec.md's typed-object list names them.
type Resources struct {
	Font       map[objects.Name]Ref[Font]
	Pattern    map[objects.Name]Ref[Pattern]
	XObject    map[objects.Name]Ref[XObject]
	ExtGState  objects.Dict
	ColorSpace objects.Dict
	Shading    objects.Dict
	Other      objects.Dict
}

func (r *Resources) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "Resources: expected a dictionary")
	}
	r.Font = decodeRefMap[Font](d["Font"])
	r.Pattern = decodeRefMap[Pattern](d["Pattern"])
	r.XObject = decodeRefMap[XObject](d["XObject"])
	r.ExtGState, _ = objects.AsDict(d["ExtGState"])
	r.ColorSpace, _ = objects.AsDict(d["ColorSpace"])
	r.Shading, _ = objects.AsDict(d["Shading"])
	r.Other = without(d, "Font", "Pattern", "XObject", "ExtGState", "ColorSpace", "Shading")
	return nil
}

func (r *Resources) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, r.Other)
	if len(r.Font) > 0 {
		d["Font"] = encodeRefMap(r.Font)
	}
	if len(r.Pattern) > 0 {
		d["Pattern"] = encodeRefMap(r.Pattern)
	}
	if len(r.XObject) > 0 {
		d["XObject"] = encodeRefMap(r.XObject)
	}
	if r.ExtGState != nil {
		d["ExtGState"] = r.ExtGState
	}
	if r.ColorSpace != nil {
		d["ColorSpace"] = r.ColorSpace
	}
	if r.Shading != nil {
		d["Shading"] = r.Shading
	}
	return d, nil
}

func decodeRefMap[T any](p objects.Primitive) map[objects.Name]Ref[T] {
	d, ok := objects.AsDict(p)
	if !ok {
		return nil
	}
	out := make(map[objects.Name]Ref[T], len(d))
	for k, v := range d {
		if r, ok := refOf(v); ok {
			out[k] = storage.NewRef[T](r)
		}
	}
	return out
}

func encodeRefMap[T any](m map[objects.Name]Ref[T]) objects.Dict {
	d := make(objects.Dict, len(m))
	for k, r := range m {
		d[k] = r.Reference
	}
	return d
}
