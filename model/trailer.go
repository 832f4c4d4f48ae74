package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// Trailer is a trailer record: {root, size, info?, id?,
// prev_trailer_pos?}. It has no encrypt entry: DecodeTrailer drops
// /Encrypt and /XRefStm, and Encode writes neither. Grounded in the teacher's model.Trailer
// (Info/ID fields), extended with Root/Size/PrevTrailerPos which the
// teacher's Document keeps separately (it stores Catalog directly as a
// struct field rather than through a trailer record).
type Trailer struct {
	Root  Ref[Catalog]
	Size  uint32
	Info  *Ref[Info] // optional
	ID    [2]string  // optional; must be left unencrypted on the wire
	Other objects.Dict

	// PrevTrailerPos supports the /Prev chain for incremental updates:
	// the byte offset, within the backing bytes, of the previous xref
	// section's trailer. Zero means this is the oldest (or only) section.
	PrevTrailerPos int64
}

func DecodeTrailer(d objects.Dict) (Trailer, error) {
	var t Trailer
	root, ok := refOf(d["Root"])
	if !ok {
		return t, pdferr.New(pdferr.MissingRequiredKey, "trailer missing /Root")
	}
	t.Root = storage.NewRef[Catalog](root)

	if size, ok := objects.AsInt(d["Size"]); ok {
		t.Size = uint32(size)
	}
	if info, ok := refOf(d["Info"]); ok {
		r := storage.NewRef[Info](info)
		t.Info = &r
	}
	if arr, ok := objects.AsArray(d["ID"]); ok && len(arr) == 2 {
		if s0, ok := objects.AsString(arr[0]); ok {
			t.ID[0] = string(s0)
		}
		if s1, ok := objects.AsString(arr[1]); ok {
			t.ID[1] = string(s1)
		}
	}
	if prev, ok := objects.AsInt(d["Prev"]); ok {
		t.PrevTrailerPos = prev
	}
	t.Other = without(d, "Root", "Size", "Info", "ID", "Prev", "Encrypt", "XRefStm")
	return t, nil
}

func (t Trailer) Encode() objects.Dict {
	d := objects.Dict{}
	merge(d, t.Other)
	d["Root"] = t.Root.Reference
	d["Size"] = objects.Integer(t.Size)
	if t.Info != nil {
		d["Info"] = t.Info.Reference
	}
	if t.ID[0] != "" || t.ID[1] != "" {
		d["ID"] = objects.Array{objects.String(t.ID[0]), objects.String(t.ID[1])}
	}
	if t.PrevTrailerPos != 0 {
		d["Prev"] = objects.Integer(t.PrevTrailerPos)
	}
	return d
}

// Info is the document information dictionary (trailer /Info), every
// field an optional text string (spec.md's encoding tables govern how
// these bytes decode, not this package).
type Info struct {
	Title, Author, Subject, Keywords, Creator, Producer string
	CreationDate, ModDate                               string
	Other                                                objects.Dict
}

func (i *Info) DecodeFrom(p objects.Primitive, _ *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "Info: expected a dictionary")
	}
	i.Title = textField(d, "Title")
	i.Author = textField(d, "Author")
	i.Subject = textField(d, "Subject")
	i.Keywords = textField(d, "Keywords")
	i.Creator = textField(d, "Creator")
	i.Producer = textField(d, "Producer")
	i.CreationDate = textField(d, "CreationDate")
	i.ModDate = textField(d, "ModDate")
	i.Other = without(d, "Title", "Author", "Subject", "Keywords", "Creator", "Producer", "CreationDate", "ModDate")
	return nil
}

func (i *Info) EncodeTo(_ *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, i.Other)
	setText(d, "Title", i.Title)
	setText(d, "Author", i.Author)
	setText(d, "Subject", i.Subject)
	setText(d, "Keywords", i.Keywords)
	setText(d, "Creator", i.Creator)
	setText(d, "Producer", i.Producer)
	setText(d, "CreationDate", i.CreationDate)
	setText(d, "ModDate", i.ModDate)
	return d, nil
}

func textField(d objects.Dict, key objects.Name) string {
	s, ok := objects.AsString(d[key])
	if !ok {
		return ""
	}
	return string(s)
}

func setText(d objects.Dict, key objects.Name, v string) {
	if v != "" {
		d[key] = objects.String(v)
	}
}
