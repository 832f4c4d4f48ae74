package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// Catalog is the document's root dictionary, grounded in the teacher's
// model.Catalog. Fields the teacher models as nested Go structs
// (ViewerPreferences, AcroForm, Names...) are kept as Ref-mediated or
// inline sub-records; anything the teacher tracks but this layer
// doesn't give a named field to lands in Other.
type Catalog struct {
	Pages          Ref[PagesNode] // required; usually the root PageTree
	Outlines       *Ref[Outline]
	StructTreeRoot *Ref[StructTreeRoot]
	AcroForm       *Ref[FieldDictionary]
	Lang           string
	PageLayout     objects.Name
	PageMode       objects.Name
	Other          objects.Dict
}

func (c *Catalog) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "Catalog: expected a dictionary")
	}
	pagesRef, ok := refOf(d["Pages"])
	if !ok {
		return pdferr.New(pdferr.MissingRequiredKey, "Catalog missing /Pages")
	}
	c.Pages = storage.NewRef[PagesNode](pagesRef)

	if r, ok := refOf(d["Outlines"]); ok {
		ref := storage.NewRef[Outline](r)
		c.Outlines = &ref
	}
	if r, ok := refOf(d["StructTreeRoot"]); ok {
		ref := storage.NewRef[StructTreeRoot](r)
		c.StructTreeRoot = &ref
	}
	if r, ok := refOf(d["AcroForm"]); ok {
		ref := storage.NewRef[FieldDictionary](r)
		c.AcroForm = &ref
	}
	c.Lang = textField(d, "Lang")
	c.PageLayout, _ = objects.AsName(d["PageLayout"])
	c.PageMode, _ = objects.AsName(d["PageMode"])
	c.Other = without(d, "Type", "Pages", "Outlines", "StructTreeRoot", "AcroForm", "Lang", "PageLayout", "PageMode")
	return nil
}

func (c *Catalog) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, c.Other)
	d["Type"] = objects.Name("Catalog")
	d["Pages"] = c.Pages.Reference
	if c.Outlines != nil {
		d["Outlines"] = c.Outlines.Reference
	}
	if c.StructTreeRoot != nil {
		d["StructTreeRoot"] = c.StructTreeRoot.Reference
	}
	if c.AcroForm != nil {
		d["AcroForm"] = c.AcroForm.Reference
	}
	setText(d, "Lang", c.Lang)
	if c.PageLayout != "" {
		d["PageLayout"] = c.PageLayout
	}
	if c.PageMode != "" {
		d["PageMode"] = c.PageMode
	}
	return d, nil
}
