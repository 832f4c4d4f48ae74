package content

import (
	"bytes"

	"github.com/go-pdfkit/pdfcore/lexer"
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// InlineImage is the opaque BI...ID...EI payload of an inline image
// (spec.md §4.7): Params is the characteristics dictionary between BI
// and ID (abbreviated keys like /W, /BPC are kept verbatim, not expanded
// to /Width, /BitsPerComponent), and Data is everything between the
// single whitespace byte after ID and the whitespace byte before the
// terminating EI. Re-serialising writes its own layout (BI, the keys
// sorted one per line, "ID ", Data, " EI"), not the source bytes.
type InlineImage struct {
	Params objects.Dict
	Data   []byte
}

// parseInlineImage reads the dictionary entries following BI, then the
// opaque data between ID and EI. p's lexer is already positioned right
// after the BI keyword.
func parseInlineImage(p *objects.Parser) (InlineImage, error) {
	params := objects.Dict{}
	for {
		obj, err := p.ParseObject()
		if err != nil {
			return InlineImage{}, err
		}
		if opr, ok := obj.(objects.Operator); ok {
			if string(opr) != "ID" {
				return InlineImage{}, pdferr.New(pdferr.UnexpectedLexeme, "expected ID in inline image, found %q", opr)
			}
			break
		}
		name, ok := obj.(objects.Name)
		if !ok {
			return InlineImage{}, pdferr.New(pdferr.UnexpectedPrimitive, "expected a name key in inline image dictionary, found %T", obj)
		}
		val, err := p.ParseObject()
		if err != nil {
			return InlineImage{}, err
		}
		params[name] = val
	}

	lx := p.Lexer()
	// exactly one whitespace byte separates ID from the raw data
	// (PDF 32000-1 §8.9.7); the lexer's token scanning must not run
	// over it, hence the raw SkipBytes instead of another Next.
	lx.SkipBytes(1)

	data, err := scanInlineImageData(lx)
	if err != nil {
		return InlineImage{}, err
	}
	if err := lx.NextExpect("EI"); err != nil {
		return InlineImage{}, err
	}
	return InlineImage{Params: params, Data: data}, nil
}

// scanInlineImageData implements spec.md §4.7's terminator rule: EI may
// legitimately appear inside the binary payload, so only a
// whitespace-delimited EI (preceded by whitespace, followed by
// whitespace/delimiter/EOF) ends the image. It does not consume the EI
// itself, leaving that to the caller's ordinary token parse.
func scanInlineImageData(lx *lexer.Lexer) ([]byte, error) {
	data := lx.Bytes() // cursor-relative: data[0] is the current position
	start := lx.Pos()
	for i := 0; i+2 < len(data); i++ {
		if !isPDFWhitespace(data[i]) || data[i+1] != 'E' || data[i+2] != 'I' {
			continue
		}
		if i+3 < len(data) && !isPDFWhitespace(data[i+3]) && !isPDFDelimiter(data[i+3]) {
			continue
		}
		content := data[:i]
		lx.SetPos(start + i + 1)
		return content, nil
	}
	return nil, pdferr.New(pdferr.UnexpectedEOF, "inline image data not terminated by a whitespace-delimited EI")
}

func isPDFWhitespace(b byte) bool {
	switch b {
	case 0, 9, 10, 12, 13, 32:
		return true
	default:
		return false
	}
}

func isPDFDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	default:
		return isPDFWhitespace(b)
	}
}

func (img *InlineImage) encodeTo(buf *bytes.Buffer) {
	buf.WriteString("BI\n")
	for _, name := range img.Params.SortedKeys() {
		buf.WriteString(name.String())
		buf.WriteByte(' ')
		buf.WriteString(img.Params[name].String())
		buf.WriteByte('\n')
	}
	buf.WriteString("ID ")
	buf.Write(img.Data)
	buf.WriteString(" EI")
}
