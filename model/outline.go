package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// Outline is the document outline (bookmark) tree root, /Outlines in
// the catalog.
type Outline struct {
	First *Ref[OutlineItem]
	Last  *Ref[OutlineItem]
	Count int
	Other objects.Dict
}

func (o *Outline) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "Outline: expected a dictionary")
	}
	if r, ok := refOf(d["First"]); ok {
		ref := storage.NewRef[OutlineItem](r)
		o.First = &ref
	}
	if r, ok := refOf(d["Last"]); ok {
		ref := storage.NewRef[OutlineItem](r)
		o.Last = &ref
	}
	if c, ok := objects.AsInt(d["Count"]); ok {
		o.Count = int(c)
	}
	o.Other = without(d, "Type", "First", "Last", "Count")
	return nil
}

func (o *Outline) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, o.Other)
	d["Type"] = objects.Name("Outlines")
	if o.First != nil {
		d["First"] = o.First.Reference
	}
	if o.Last != nil {
		d["Last"] = o.Last.Reference
	}
	d["Count"] = objects.Integer(o.Count)
	return d, nil
}

// OutlineItem is one bookmark entry. Parent<->children is the teacher's
// canonical cyclic-structure example (spec.md §4.6's "OutlineItem <->
// OutlineItem" cycle): Parent, Prev, Next, First, Last all reference
// siblings/ancestors that, read top-down, form a cycle back to this
// item, hence Ref rather than a Go pointer for every link.
type OutlineItem struct {
	Title                  string
	Parent                 Ref[OutlineItem] // Outline's root is addressed via Outline, not OutlineItem, so Parent has no pointer-vs-promise ambiguity
	Prev, Next             *Ref[OutlineItem]
	First, Last            *Ref[OutlineItem]
	Count                  int
	Dest                   objects.Primitive // left opaque: named destination or explicit array
	Other                  objects.Dict
}

func (o *OutlineItem) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "OutlineItem: expected a dictionary")
	}
	o.Title = textField(d, "Title")
	if r, ok := refOf(d["Parent"]); ok {
		o.Parent = storage.NewRef[OutlineItem](r)
	}
	if r, ok := refOf(d["Prev"]); ok {
		ref := storage.NewRef[OutlineItem](r)
		o.Prev = &ref
	}
	if r, ok := refOf(d["Next"]); ok {
		ref := storage.NewRef[OutlineItem](r)
		o.Next = &ref
	}
	if r, ok := refOf(d["First"]); ok {
		ref := storage.NewRef[OutlineItem](r)
		o.First = &ref
	}
	if r, ok := refOf(d["Last"]); ok {
		ref := storage.NewRef[OutlineItem](r)
		o.Last = &ref
	}
	if c, ok := objects.AsInt(d["Count"]); ok {
		o.Count = int(c)
	}
	o.Dest = d["Dest"]
	o.Other = without(d, "Title", "Parent", "Prev", "Next", "First", "Last", "Count", "Dest")
	return nil
}

func (o *OutlineItem) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, o.Other)
	setText(d, "Title", o.Title)
	d["Parent"] = o.Parent.Reference
	if o.Prev != nil {
		d["Prev"] = o.Prev.Reference
	}
	if o.Next != nil {
		d["Next"] = o.Next.Reference
	}
	if o.First != nil {
		d["First"] = o.First.Reference
	}
	if o.Last != nil {
		d["Last"] = o.Last.Reference
	}
	if o.Count != 0 {
		d["Count"] = objects.Integer(o.Count)
	}
	if o.Dest != nil {
		d["Dest"] = o.Dest
	}
	return d, nil
}
