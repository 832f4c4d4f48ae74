package textenc

// glyphNameToRune is a subset of the Adobe Glyph List covering the names
// that actually show up in /Differences arrays in the wild: ASCII
// punctuation/letters/digits plus the typographic punctuation used by
// StandardEncoding and WinAnsiEncoding.
var glyphNameToRune = map[string]rune{
	"space": 0x0020, "exclam": 0x0021, "quotedbl": 0x0022, "numbersign": 0x0023,
	"dollar": 0x0024, "percent": 0x0025, "ampersand": 0x0026, "quotesingle": 0x0027,
	"parenleft": 0x0028, "parenright": 0x0029, "asterisk": 0x002A, "plus": 0x002B,
	"comma": 0x002C, "hyphen": 0x002D, "period": 0x002E, "slash": 0x002F,
	"zero": 0x0030, "one": 0x0031, "two": 0x0032, "three": 0x0033, "four": 0x0034,
	"five": 0x0035, "six": 0x0036, "seven": 0x0037, "eight": 0x0038, "nine": 0x0039,
	"colon": 0x003A, "semicolon": 0x003B, "less": 0x003C, "equal": 0x003D,
	"greater": 0x003E, "question": 0x003F, "at": 0x0040,
	"bracketleft": 0x005B, "backslash": 0x005C, "bracketright": 0x005D,
	"asciicircum": 0x005E, "underscore": 0x005F, "grave": 0x0060,
	"braceleft": 0x007B, "bar": 0x007C, "braceright": 0x007D, "asciitilde": 0x007E,
	"quoteright": 0x2019, "quoteleft": 0x2018, "quotedblleft": 0x201C,
	"quotedblright": 0x201D, "quotesinglbase": 0x201A, "quotedblbase": 0x201E,
	"endash": 0x2013, "emdash": 0x2014, "ellipsis": 0x2026, "bullet": 0x2022,
	"dagger": 0x2020, "daggerdbl": 0x2021, "perthousand": 0x2030,
	"guilsinglleft": 0x2039, "guilsinglright": 0x203A,
	"guillemotleft": 0x00AB, "guillemotright": 0x00BB,
	"fi": 0xFB01, "fl": 0xFB02, "germandbls": 0x00DF,
	"AE": 0x00C6, "ae": 0x00E6, "Oslash": 0x00D8, "oslash": 0x00F8,
	"OE": 0x0152, "oe": 0x0153, "Lslash": 0x0141, "lslash": 0x0142,
	"dotlessi": 0x0131, "florin": 0x0192, "section": 0x00A7, "paragraph": 0x00B6,
	"copyright": 0x00A9, "registered": 0x00AE, "trademark": 0x2122,
	"degree": 0x00B0, "plusminus": 0x00B1, "divide": 0x00F7, "multiply": 0x00D7,
	"cent": 0x00A2, "sterling": 0x00A3, "yen": 0x00A5, "currency": 0x00A4,
	"Euro": 0x20AC, "minus": 0x2212, "periodcentered": 0x00B7,
}

// init adds the single-letter glyph names (A-Z, a-z), which are their
// own Adobe-standard glyph names.
func init() {
	for r := rune('A'); r <= 'Z'; r++ {
		glyphNameToRune[string(r)] = r
	}
	for r := rune('a'); r <= 'z'; r++ {
		glyphNameToRune[string(r)] = r
	}
}

// RuneForGlyphName resolves a /Differences glyph name to its Unicode
// scalar, per the Adobe Glyph List naming convention, including the
// uniXXXX escape form (7.9.2, note on Differences arrays built from
// font subsetting tools).
func RuneForGlyphName(name string) (rune, bool) {
	if r, ok := glyphNameToRune[name]; ok {
		return r, true
	}
	if r, ok := uniEscapedRune(name); ok {
		return r, true
	}
	return 0, false
}

func uniEscapedRune(name string) (rune, bool) {
	if len(name) != 7 || name[:3] != "uni" {
		return 0, false
	}
	var r rune
	for _, c := range name[3:] {
		d, ok := hexDigit(byte(c))
		if !ok {
			return 0, false
		}
		r = r<<4 | rune(d)
	}
	return r, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
