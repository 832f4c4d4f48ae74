package textenc

import (
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
)

func TestASCIIAgreesAcrossTables(t *testing.T) {
	for _, tbl := range []Table{StandardEncoding, WinAnsiEncoding} {
		for b := rune('0'); b <= '9'; b++ {
			if tbl[b] != b {
				t.Errorf("code 0x%02x: got %U want %U", b, tbl[b], b)
			}
		}
	}
}

func TestStandardVsWinAnsiQuote(t *testing.T) {
	if StandardEncoding[0x27] != 0x2019 {
		t.Errorf("StandardEncoding 0x27 should be quoteright, got %U", StandardEncoding[0x27])
	}
	if WinAnsiEncoding[0x27] != 0x0027 {
		t.Errorf("WinAnsiEncoding 0x27 should be quotesingle, got %U", WinAnsiEncoding[0x27])
	}
}

func TestResolveBareName(t *testing.T) {
	tbl, err := Resolve(objects.Name("WinAnsiEncoding"))
	if err != nil {
		t.Fatal(err)
	}
	if tbl['A'] != 'A' {
		t.Errorf("expected ASCII passthrough, got %U", tbl['A'])
	}
}

func TestResolveDifferences(t *testing.T) {
	enc := objects.Dict{
		"BaseEncoding": objects.Name("StandardEncoding"),
		"Differences": objects.Array{
			objects.Integer(0x41),
			objects.Name("bullet"),
			objects.Name("dagger"),
		},
	}
	tbl, err := Resolve(enc)
	if err != nil {
		t.Fatal(err)
	}
	if tbl[0x41] != 0x2022 {
		t.Errorf("code 0x41: got %U want bullet", tbl[0x41])
	}
	if tbl[0x42] != 0x2020 {
		t.Errorf("code 0x42: got %U want dagger", tbl[0x42])
	}
}

func TestDifferencesUnknownGlyphIsNoGlyph(t *testing.T) {
	enc := objects.Dict{
		"Differences": objects.Array{
			objects.Integer(10),
			objects.Name("totallyMadeUpGlyphName"),
		},
	}
	tbl, err := Resolve(enc)
	if err != nil {
		t.Fatal(err)
	}
	if tbl[10] != NoGlyph {
		t.Errorf("expected NoGlyph for an unrecognised name, got %U", tbl[10])
	}
}

func TestUniEscapedGlyphName(t *testing.T) {
	r, ok := RuneForGlyphName("uni00E9")
	if !ok || r != 0x00E9 {
		t.Errorf("got %U, %v; want U+00E9", r, ok)
	}
}

func TestTextStringRoundTripPDFDoc(t *testing.T) {
	want := "Hello, world!"
	enc, err := EncodeTextString(want)
	if err != nil {
		t.Fatal(err)
	}
	if isUTF16(enc) {
		t.Fatal("ASCII text should not require UTF-16 fallback")
	}
	got, err := DecodeTextString(enc)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestTextStringRoundTripUTF16Fallback(t *testing.T) {
	want := "日本語"
	enc, err := EncodeTextString(want)
	if err != nil {
		t.Fatal(err)
	}
	if !isUTF16(enc) {
		t.Fatal("non-Latin text should fall back to UTF-16BE")
	}
	got, err := DecodeTextString(enc)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
