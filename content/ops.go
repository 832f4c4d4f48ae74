package content

import "github.com/go-pdfkit/pdfcore/objects"

// num renders a coordinate/parameter as the narrowest primitive that
// round-trips through Encode/Parse: a value with no fractional part
// serialises without a decimal point and so re-parses as an Integer,
// not a Real, so constructing it as Integer up front keeps a built
// Operation equal to its own parse-back.
func num(f float64) objects.Primitive {
	if i := int64(f); float64(i) == f {
		return objects.Integer(i)
	}
	return objects.Real(f)
}

func nums(fs ...float64) []objects.Primitive {
	out := make([]objects.Primitive, len(fs))
	for i, f := range fs {
		out[i] = num(f)
	}
	return out
}

// Path construction and painting (PDF 32000-1 table 59/60).

func MoveTo(x, y float64) Operation          { return Operation{Operator: "m", Operands: nums(x, y)} }
func LineTo(x, y float64) Operation          { return Operation{Operator: "l", Operands: nums(x, y)} }
func CurveTo(x1, y1, x2, y2, x3, y3 float64) Operation {
	return Operation{Operator: "c", Operands: nums(x1, y1, x2, y2, x3, y3)}
}
func Rectangle(x, y, w, h float64) Operation {
	return Operation{Operator: "re", Operands: nums(x, y, w, h)}
}

var (
	Close       = Operation{Operator: "h"}
	Stroke      = Operation{Operator: "S"}
	CloseStroke = Operation{Operator: "s"}
	Fill        = Operation{Operator: "f"}
	FillEvenOdd = Operation{Operator: "f*"}
	FillStroke  = Operation{Operator: "B"}
	EndPath     = Operation{Operator: "n"}
	SaveState   = Operation{Operator: "q"}
	RestoreState = Operation{Operator: "Q"}
	BeginText   = Operation{Operator: "BT"}
	EndText     = Operation{Operator: "ET"}
)

// Graphics state.

func ConcatMatrix(a, b, c, d, e, f float64) Operation {
	return Operation{Operator: "cm", Operands: nums(a, b, c, d, e, f)}
}

func SetExtGState(name objects.Name) Operation {
	return Operation{Operator: "gs", Operands: []objects.Primitive{name}}
}

func SetLineWidth(w float64) Operation { return Operation{Operator: "w", Operands: nums(w)} }

// Colour.

func SetFillGray(g float64) Operation  { return Operation{Operator: "g", Operands: nums(g)} }
func SetStrokeGray(g float64) Operation { return Operation{Operator: "G", Operands: nums(g)} }
func SetFillRGB(r, g, b float64) Operation {
	return Operation{Operator: "rg", Operands: nums(r, g, b)}
}
func SetStrokeRGB(r, g, b float64) Operation {
	return Operation{Operator: "RG", Operands: nums(r, g, b)}
}
func SetFillCMYK(c, m, y, k float64) Operation {
	return Operation{Operator: "k", Operands: nums(c, m, y, k)}
}
func SetStrokeCMYK(c, m, y, k float64) Operation {
	return Operation{Operator: "K", Operands: nums(c, m, y, k)}
}
func SetFillColorSpace(name objects.Name) Operation {
	return Operation{Operator: "cs", Operands: []objects.Primitive{name}}
}
func SetStrokeColorSpace(name objects.Name) Operation {
	return Operation{Operator: "CS", Operands: []objects.Primitive{name}}
}

// Text.

func SetFont(name objects.Name, size float64) Operation {
	return Operation{Operator: "Tf", Operands: []objects.Primitive{name, num(size)}}
}
func MoveText(tx, ty float64) Operation { return Operation{Operator: "Td", Operands: nums(tx, ty)} }
func SetTextMatrix(a, b, c, d, e, f float64) Operation {
	return Operation{Operator: "Tm", Operands: nums(a, b, c, d, e, f)}
}
func ShowText(s string) Operation {
	return Operation{Operator: "Tj", Operands: []objects.Primitive{objects.String([]byte(s))}}
}

// XObjects and shading.

func DoXObject(name objects.Name) Operation {
	return Operation{Operator: "Do", Operands: []objects.Primitive{name}}
}
func ShFill(name objects.Name) Operation {
	return Operation{Operator: "sh", Operands: []objects.Primitive{name}}
}
