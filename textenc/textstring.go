package textenc

import (
	"golang.org/x/text/encoding/unicode"
)

// PDFDocEncoding is the byte<->rune mapping used by "text strings"
// (7.9.2.2) that are not UTF-16BE. It agrees with Latin-1 over
// 0x20-0x7E and 0xA1-0xFF, maps 0xA0 to the Euro sign, and has a
// dedicated set of typographic characters in the 0x18-0x1F and
// 0x80-0x9F control ranges (Annex D.3).
var PDFDocEncoding = buildPDFDocEncoding()

func buildPDFDocEncoding() Table {
	t := newTable()
	asciiPrintable(&t)
	for b := rune(0xA0); b <= 0xFF; b++ {
		t[b] = b
	}
	overrides := map[byte]rune{
		0x18: 0x02D8, 0x19: 0x02C7, 0x1A: 0x02C6, 0x1B: 0x02D9,
		0x1C: 0x02DD, 0x1D: 0x02DB, 0x1E: 0x02DA, 0x1F: 0x02DC,
		0x80: 0x2022, 0x81: 0x2020, 0x82: 0x2021, 0x83: 0x2026,
		0x84: 0x2014, 0x85: 0x2013, 0x86: 0x0192, 0x87: 0x2044,
		0x88: 0x2039, 0x89: 0x203A, 0x8A: 0x2212, 0x8B: 0x2030,
		0x8C: 0x201E, 0x8D: 0x201C, 0x8E: 0x201D, 0x8F: 0x2018,
		0x90: 0x2019, 0x91: 0x201A, 0x92: 0x2122, 0x93: 0xFB01,
		0x94: 0xFB02, 0x95: 0x0141, 0x96: 0x0152, 0x97: 0x0160,
		0x98: 0x0178, 0x99: 0x017D, 0x9A: 0x0131, 0x9B: 0x0142,
		0x9C: 0x0153, 0x9D: 0x0161, 0x9E: 0x017E, 0xA0: 0x20AC,
	}
	for b, r := range overrides {
		t[b] = r
	}
	return t
}

var utf16Enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
var utf16Dec = utf16Enc.NewDecoder()

// isUTF16 reports whether b opens with the big- or little-endian BOM
// that marks a "text string" as UTF-16 rather than PDFDocEncoding.
func isUTF16(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFE && b[1] == 0xFF) || (b[0] == 0xFF && b[1] == 0xFE))
}

// DecodeTextString converts a PDF "text string" (7.9.2.2) - either
// PDFDocEncoded bytes or a BOM-prefixed UTF-16BE string - to UTF-8.
// Decryption, escaping, and hex-decoding must already have been
// applied by the caller.
func DecodeTextString(b []byte) (string, error) {
	if isUTF16(b) {
		out, err := utf16Dec.Bytes(b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return pdfDocToString(b), nil
}

// EncodeTextString converts a UTF-8 string to a PDF "text string",
// preferring the compact PDFDocEncoding when every rune is
// representable and falling back to a BOM-prefixed UTF-16BE string
// otherwise.
func EncodeTextString(s string) ([]byte, error) {
	if b, ok := stringToPDFDoc(s); ok {
		return b, nil
	}
	return utf16Enc.NewEncoder().Bytes([]byte(s))
}

func pdfDocToString(b []byte) string {
	runes := make([]rune, 0, len(b))
	for _, c := range b {
		r := PDFDocEncoding[c]
		if r == NoGlyph {
			r = rune(c)
		}
		runes = append(runes, r)
	}
	return string(runes)
}

var pdfDocReverse = buildPDFDocReverse()

func buildPDFDocReverse() map[rune]byte {
	reverse := make(map[rune]byte, 256)
	for i, r := range PDFDocEncoding {
		if r != NoGlyph {
			if _, exists := reverse[r]; !exists {
				reverse[r] = byte(i)
			}
		}
	}
	return reverse
}

func stringToPDFDoc(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := pdfDocReverse[r]
		if !ok {
			return nil, false
		}
		out = append(out, b)
	}
	return out, true
}
