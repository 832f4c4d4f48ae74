// Package content implements spec.md §4.7's content-stream operator
// codec: tokenising a decoded content stream (a page, form XObject, or
// pattern's payload) into operator+operand tuples, and re-serialising
// them back to bytes.
//
// Grounded in reader/parser/content.go's ParseContentElement: operands
// accumulate on a stack until a bare keyword token arrives, at which
// point the buffered operands are attached to it and the pair is
// emitted. This package builds that loop directly on top of
// objects.Parser's ContentStreamMode instead of the teacher's ~60-type
// contentstream.Operation sum type, because spec.md only requires the
// generic operator+operand record (plus canonical re-serialisation), not
// one Go type per operator.
package content

import (
	"bytes"
	"fmt"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// Operation is one operator and its operands, in source order. Image is
// non-nil exactly when Operator == "BI" (Operands is empty in that
// case; the inline image's characteristics dictionary and opaque data
// live on Image instead, since they don't tokenise as operand objects).
type Operation struct {
	Operator string
	Operands []objects.Primitive
	Image    *InlineImage
}

// Parse tokenises a full content stream into its operation sequence.
func Parse(data []byte) ([]Operation, error) {
	p := objects.New(data)
	p.ContentStreamMode = true

	var ops []Operation
	var operands []objects.Primitive
	for {
		obj, err := p.ParseObject()
		if err != nil {
			if pdferr.Is(err, pdferr.UnexpectedEOF) {
				break
			}
			return nil, err
		}
		opr, isOperator := obj.(objects.Operator)
		if !isOperator {
			operands = append(operands, obj)
			continue
		}

		if string(opr) == "BI" {
			if len(operands) != 0 {
				return nil, pdferr.New(pdferr.UnexpectedPrimitive, "BI takes no leading operands, got %d", len(operands))
			}
			img, err := parseInlineImage(p)
			if err != nil {
				return nil, err
			}
			ops = append(ops, Operation{Operator: "BI", Image: &img})
			continue
		}

		ops = append(ops, Operation{Operator: string(opr), Operands: operands})
		operands = nil
	}
	if len(operands) != 0 {
		return nil, pdferr.New(pdferr.UnexpectedEOF, "content stream ends with %d unattached operand(s)", len(operands))
	}
	return ops, nil
}

// Encode re-serialises an operation sequence to bytes: operands and the
// operator are separated by single spaces, operations by newlines,
// numbers rendered with the same canonical formatting Primitive.String
// already applies (no exponent, no unnecessary trailing zeros).
func Encode(ops []Operation) []byte {
	var buf bytes.Buffer
	for _, op := range ops {
		if op.Operator == "BI" && op.Image != nil {
			op.Image.encodeTo(&buf)
			buf.WriteByte('\n')
			continue
		}
		for _, operand := range op.Operands {
			buf.WriteString(operand.String())
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func (op Operation) String() string {
	if op.Image != nil {
		return "BI " + fmt.Sprint(op.Image.Params) + " ID ... EI"
	}
	return string(Encode([]Operation{op}))
}
