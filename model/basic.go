// Package model implements the typed object layer (spec.md §4.6): a
// bidirectional transform between a resolved objects.Dict and a record
// with named fields, mediated by storage.Ref[T] instead of direct Go
// pointers so cyclic containment (Page <-> PageTree, OutlineItem <->
// OutlineItem) never requires unsafe aliasing tricks.
package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/storage"
)

// Ref re-exports storage.Ref so callers of this package never need to
// import storage just to name a typed handle. It intentionally has no
// Resolve method: Go forbids a method from introducing a type parameter
// its receiver doesn't already carry, so the *T constructor constraint
// storage.Get needs (PT) cannot be recovered inside a Ref[T] method.
// Use storage.Get[T, PT](s, ref) directly, the way every DecodeFrom
// below does.
type Ref[T any] = storage.Ref[T]

// Rectangle is a PDF rectangle array [llx lly urx ury], not necessarily
// normalised (PDF producers routinely emit urx < llx).
type Rectangle struct {
	Llx, Lly, Urx, Ury float64
}

func decodeRectangle(p objects.Primitive) (Rectangle, bool) {
	arr, ok := objects.AsArray(p)
	if !ok || len(arr) != 4 {
		return Rectangle{}, false
	}
	vals := make([]float64, 4)
	for i, e := range arr {
		v, ok := objects.AsReal(e)
		if !ok {
			return Rectangle{}, false
		}
		vals[i] = v
	}
	return Rectangle{Llx: vals[0], Lly: vals[1], Urx: vals[2], Ury: vals[3]}, true
}

func (r Rectangle) encode() objects.Primitive {
	return objects.Array{
		objects.Real(r.Llx), objects.Real(r.Lly), objects.Real(r.Urx), objects.Real(r.Ury),
	}
}

// Rotation is a page's /Rotate value, a multiple of 90 degrees.
type Rotation uint8

const (
	Zero Rotation = iota
	Quarter
	Half
	ThreeQuarter
)

// NewRotation normalises any multiple of 90 (including negative values)
// into one of the four canonical quadrants.
func NewRotation(degrees int) Rotation {
	d := ((degrees % 360) + 360) % 360
	return Rotation(d / 90)
}

// Degrees returns the rotation as a value in {0, 90, 180, 270}.
func (r Rotation) Degrees() int { return int(r) * 90 }

// without returns a copy of d with the given keys removed, the building
// block for every record's Other catch-all (spec.md §4.6: "everything
// else the typed fields didn't claim").
func without(d objects.Dict, used ...objects.Name) objects.Dict {
	out := make(objects.Dict, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range used {
		delete(out, k)
	}
	return out
}

// merge writes base's entries into dst, then the explicit typed fields
// (applied by the caller afterwards) take priority since Go map
// literals/assignments after this call simply overwrite these keys.
func merge(dst objects.Dict, base objects.Dict) {
	for k, v := range base {
		dst[k] = v
	}
}

func refOf(p objects.Primitive) (objects.Reference, bool) {
	r, ok := p.(objects.Reference)
	return r, ok
}
