package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// StructTreeRoot is the logical structure tree root, grounded in the
// teacher's model.StructureTree. ParentTree is a NumberTree whose leaf
// values point back into StructureElement (a struct element or an
// array of them per a page's /StructParents index), so it shares the
// same Ref-mediated generic machinery as every other tree here.
type StructTreeRoot struct {
	K          []Ref[StructureElement]
	ParentTree Ref[NumberTree[StructureElement, *StructureElement]]
	RoleMap    map[objects.Name]objects.Name
	Other      objects.Dict
}

func (s *StructTreeRoot) DecodeFrom(p objects.Primitive, st *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "StructTreeRoot: expected a dictionary")
	}
	if arr, ok := objects.AsArray(d["K"]); ok {
		for _, e := range arr {
			if r, ok := refOf(e); ok {
				s.K = append(s.K, storage.NewRef[StructureElement](r))
			}
		}
	} else if r, ok := refOf(d["K"]); ok {
		s.K = []Ref[StructureElement]{storage.NewRef[StructureElement](r)}
	}
	if r, ok := refOf(d["ParentTree"]); ok {
		s.ParentTree = storage.NewRef[NumberTree[StructureElement, *StructureElement]](r)
	}
	if rm, ok := objects.AsDict(d["RoleMap"]); ok {
		s.RoleMap = make(map[objects.Name]objects.Name, len(rm))
		for k, v := range rm {
			if n, ok := objects.AsName(v); ok {
				s.RoleMap[k] = n
			}
		}
	}
	s.Other = without(d, "Type", "K", "ParentTree", "RoleMap")
	return nil
}

func (s *StructTreeRoot) EncodeTo(st *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, s.Other)
	d["Type"] = objects.Name("StructTreeRoot")
	if len(s.K) > 0 {
		arr := make(objects.Array, len(s.K))
		for i, k := range s.K {
			arr[i] = k.Reference
		}
		d["K"] = arr
	}
	if s.ParentTree.Number != 0 {
		d["ParentTree"] = s.ParentTree.Reference
	}
	if len(s.RoleMap) > 0 {
		rm := make(objects.Dict, len(s.RoleMap))
		for k, v := range s.RoleMap {
			rm[k] = v
		}
		d["RoleMap"] = rm
	}
	return d, nil
}

// StructureElement is one node of the logical structure tree, grounded
// in the teacher's StructureElement. Parent is a Ref (not a Go pointer)
// since a struct element's own /P entry and its parent's /K array form
// the same kind of cycle as PagesNode's Parent/Kids.
type StructureElement struct {
	S      objects.Name // structure type
	Parent *Ref[StructureElement]
	K      []Ref[StructureElement] // child elements; if /K holds anything but references, the raw /K is kept in Other and written back in its place
	T      string                  // title
	Lang   string
	Alt    string
	Other  objects.Dict
}

func (e *StructureElement) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "StructureElement: expected a dictionary")
	}
	e.S, _ = objects.AsName(d["S"])
	if r, ok := refOf(d["P"]); ok {
		ref := storage.NewRef[StructureElement](r)
		e.Parent = &ref
	}
	rawK := false
	switch k := d["K"].(type) {
	case nil:
	case objects.Reference:
		e.K = []Ref[StructureElement]{storage.NewRef[StructureElement](k)}
	case objects.Array:
		for _, el := range k {
			if r, ok := refOf(el); ok {
				e.K = append(e.K, storage.NewRef[StructureElement](r))
			} else {
				rawK = true
			}
		}
	default:
		rawK = true
	}
	e.T = textField(d, "T")
	e.Lang = textField(d, "Lang")
	e.Alt = textField(d, "Alt")
	e.Other = without(d, "Type", "S", "P", "T", "Lang", "Alt")
	if !rawK {
		delete(e.Other, "K")
	}
	return nil
}

func (e *StructureElement) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, e.Other)
	d["Type"] = objects.Name("StructElem")
	if e.S != "" {
		d["S"] = e.S
	}
	if e.Parent != nil {
		d["P"] = e.Parent.Reference
	}
	if _, raw := e.Other["K"]; len(e.K) > 0 && !raw {
		arr := make(objects.Array, len(e.K))
		for i, k := range e.K {
			arr[i] = k.Reference
		}
		d["K"] = arr
	}
	setText(d, "T", e.T)
	setText(d, "Lang", e.Lang)
	setText(d, "Alt", e.Alt)
	return d, nil
}
