package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// FormFlag mirrors the teacher's acroform.go bit layout (Table 221/226/
// 228/230 field flags), kept as a single bitmask rather than split per
// field type since this layer doesn't validate flag/subtype agreement.
type FormFlag uint32

const (
	ReadOnly   FormFlag = 1 << (1 - 1)
	Required   FormFlag = 1 << (2 - 1)
	NoExport   FormFlag = 1 << (3 - 1)
	Multiline  FormFlag = 1 << (13 - 1)
	Password   FormFlag = 1 << (14 - 1)
	Radio      FormFlag = 1 << (16 - 1)
	Pushbutton FormFlag = 1 << (17 - 1)
	Combo      FormFlag = 1 << (18 - 1)
)

// FieldDictionary is spec.md §3's typed AcroForm record: the form root
// (Fields, NeedAppearances) when decoded from the catalog's /AcroForm
// entry, and also doubles as one form field node (FT/Ff/V/Kids) since
// PDF's field tree reuses the same dictionary shape at every level,
// exactly as the teacher's FormFieldInheritable merges parent/child.
type FieldDictionary struct {
	Fields          []Ref[FieldDictionary]
	NeedAppearances bool

	FT    objects.Name // field type: Btn, Tx, Ch, Sig
	Ff    FormFlag
	V     objects.Primitive // field value, type depends on FT
	Kids  []Ref[FieldDictionary]
	Other objects.Dict
}

func (f *FieldDictionary) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "FieldDictionary: expected a dictionary")
	}
	if arr, ok := objects.AsArray(d["Fields"]); ok {
		for _, e := range arr {
			if r, ok := refOf(e); ok {
				f.Fields = append(f.Fields, storage.NewRef[FieldDictionary](r))
			}
		}
	}
	f.NeedAppearances, _ = objects.AsBool(d["NeedAppearances"])
	f.FT, _ = objects.AsName(d["FT"])
	if ff, ok := objects.AsInt(d["Ff"]); ok {
		f.Ff = FormFlag(ff)
	}
	f.V = d["V"]
	if arr, ok := objects.AsArray(d["Kids"]); ok {
		for _, e := range arr {
			if r, ok := refOf(e); ok {
				f.Kids = append(f.Kids, storage.NewRef[FieldDictionary](r))
			}
		}
	}
	f.Other = without(d, "Fields", "NeedAppearances", "FT", "Ff", "V", "Kids")
	return nil
}

func (f *FieldDictionary) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	merge(d, f.Other)
	if len(f.Fields) > 0 {
		arr := make(objects.Array, len(f.Fields))
		for i, r := range f.Fields {
			arr[i] = r.Reference
		}
		d["Fields"] = arr
	}
	if f.NeedAppearances {
		d["NeedAppearances"] = objects.Boolean(true)
	}
	if f.FT != "" {
		d["FT"] = f.FT
	}
	if f.Ff != 0 {
		d["Ff"] = objects.Integer(f.Ff)
	}
	if f.V != nil {
		d["V"] = f.V
	}
	if len(f.Kids) > 0 {
		arr := make(objects.Array, len(f.Kids))
		for i, r := range f.Kids {
			arr[i] = r.Reference
		}
		d["Kids"] = arr
	}
	return d, nil
}
