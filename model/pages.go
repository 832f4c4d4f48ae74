package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// PageNodeKind discriminates PagesNode's two variants, read from the
// /Type key (spec.md §4.6: "For sum-type records... the tag is read
// from a discriminator key").
type PageNodeKind uint8

const (
	PageTreeNode PageNodeKind = iota
	PageLeaf
)

// PagesNode is spec.md §3's tagged Tree|Leaf variant over the page
// tree, grounded in the teacher's PageNode interface
// (PageTree/*PageObject implementing isPageNode()) but flattened into
// one struct with a discriminator instead of a Go interface, since the
// Parent/Kids links must be storage.Ref[T] (to break the Page<->Tree
// cycle) rather than Go pointers, and a single concrete type is the
// natural shape for something DecodeFrom/EncodeTo round-trip through a
// Dict keyed on /Type.
type PagesNode struct {
	Kind   PageNodeKind
	Parent *Ref[PagesNode] // absent only for the root

	// PageTreeNode fields.
	Kids  []Ref[PagesNode]
	Count int

	// PageLeaf fields.
	MediaBox, CropBox, BleedBox, TrimBox, ArtBox *Rectangle
	Rotate                                       Rotation
	Resources                                    *Ref[Resources]
	Contents                                     []objects.Reference // content streams, decoded by the content package
	Annots                                       []Ref[Annot]

	Other objects.Dict
}

func (n *PagesNode) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "PagesNode: expected a dictionary")
	}
	typ, _ := objects.AsName(d["Type"])

	if r, ok := refOf(d["Parent"]); ok {
		ref := storage.NewRef[PagesNode](r)
		n.Parent = &ref
	}

	switch typ {
	case "Page":
		n.Kind = PageLeaf
		n.MediaBox = decodeRectPtr(d["MediaBox"])
		n.CropBox = decodeRectPtr(d["CropBox"])
		n.BleedBox = decodeRectPtr(d["BleedBox"])
		n.TrimBox = decodeRectPtr(d["TrimBox"])
		n.ArtBox = decodeRectPtr(d["ArtBox"])
		if deg, ok := objects.AsInt(d["Rotate"]); ok {
			n.Rotate = NewRotation(int(deg))
		}
		if r, ok := refOf(d["Resources"]); ok {
			ref := storage.NewRef[Resources](r)
			n.Resources = &ref
		}
		n.Contents = decodeContents(d["Contents"])
		if arr, ok := objects.AsArray(d["Annots"]); ok {
			for _, e := range arr {
				if r, ok := refOf(e); ok {
					n.Annots = append(n.Annots, storage.NewRef[Annot](r))
				}
			}
		}
		n.Other = without(d, "Type", "Parent", "MediaBox", "CropBox", "BleedBox", "TrimBox",
			"ArtBox", "Rotate", "Resources", "Contents", "Annots")
	default: // "Pages", or missing /Type on a malformed file: treat as a tree node
		n.Kind = PageTreeNode
		if arr, ok := objects.AsArray(d["Kids"]); ok {
			for _, e := range arr {
				if r, ok := refOf(e); ok {
					n.Kids = append(n.Kids, storage.NewRef[PagesNode](r))
				}
			}
		}
		if c, ok := objects.AsInt(d["Count"]); ok {
			n.Count = int(c)
		}
		n.Other = without(d, "Type", "Parent", "Kids", "Count")
	}
	return nil
}

func (n *PagesNode) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, n.Other)
	if n.Parent != nil {
		d["Parent"] = n.Parent.Reference
	}

	switch n.Kind {
	case PageLeaf:
		d["Type"] = objects.Name("Page")
		if n.MediaBox != nil {
			d["MediaBox"] = n.MediaBox.encode()
		}
		if n.CropBox != nil {
			d["CropBox"] = n.CropBox.encode()
		}
		if n.BleedBox != nil {
			d["BleedBox"] = n.BleedBox.encode()
		}
		if n.TrimBox != nil {
			d["TrimBox"] = n.TrimBox.encode()
		}
		if n.ArtBox != nil {
			d["ArtBox"] = n.ArtBox.encode()
		}
		if n.Rotate != Zero {
			d["Rotate"] = objects.Integer(n.Rotate.Degrees())
		}
		if n.Resources != nil {
			d["Resources"] = n.Resources.Reference
		}
		d["Contents"] = encodeContents(n.Contents)
		if len(n.Annots) > 0 {
			arr := make(objects.Array, len(n.Annots))
			for i, a := range n.Annots {
				arr[i] = a.Reference
			}
			d["Annots"] = arr
		}
	default:
		d["Type"] = objects.Name("Pages")
		kids := make(objects.Array, len(n.Kids))
		for i, k := range n.Kids {
			kids[i] = k.Reference
		}
		d["Kids"] = kids
		d["Count"] = objects.Integer(n.Count)
	}
	return d, nil
}

// Flatten walks the page tree rooted at ref and returns every leaf Page
// in document order, resolving nested PagesNode trees as needed.
// Grounded in the teacher's PageTree.Flatten.
func Flatten(s *storage.Storage, ref Ref[PagesNode]) ([]Ref[PagesNode], error) {
	node, err := storage.Get[PagesNode, *PagesNode](s, ref)
	if err != nil {
		return nil, err
	}
	if node.Kind == PageLeaf {
		return []Ref[PagesNode]{ref}, nil
	}
	var out []Ref[PagesNode]
	for _, kid := range node.Kids {
		leaves, err := Flatten(s, kid)
		if err != nil {
			return nil, err
		}
		out = append(out, leaves...)
	}
	return out, nil
}

func decodeRectPtr(p objects.Primitive) *Rectangle {
	r, ok := decodeRectangle(p)
	if !ok {
		return nil
	}
	return &r
}

func decodeContents(p objects.Primitive) []objects.Reference {
	switch v := p.(type) {
	case objects.Reference:
		return []objects.Reference{v}
	case objects.Array:
		out := make([]objects.Reference, 0, len(v))
		for _, e := range v {
			if r, ok := refOf(e); ok {
				out = append(out, r)
			}
		}
		return out
	default:
		return nil
	}
}

func encodeContents(refs []objects.Reference) objects.Primitive {
	if len(refs) == 1 {
		return refs[0]
	}
	arr := make(objects.Array, len(refs))
	for i, r := range refs {
		arr[i] = r
	}
	return arr
}
