package content

import (
	"reflect"
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
)

func TestParseSimplePath(t *testing.T) {
	src := "100 100 m 100 200 l 200 100 l 200 200 l h S"
	ops, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []Operation{
		MoveTo(100, 100),
		LineTo(100, 200),
		LineTo(200, 100),
		LineTo(200, 200),
		Close,
		Stroke,
	}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("got %v, want %v", ops, want)
	}
}

func TestEncodeThenParseIsIdempotent(t *testing.T) {
	ops := []Operation{
		SaveState,
		ConcatMatrix(1, 0, 0, 1, 10, 20),
		SetFillRGB(1, 0.5, 0),
		Rectangle(0, 0, 50, 50.5),
		Fill,
		RestoreState,
		BeginText,
		SetFont("F1", 12),
		MoveText(10, 10),
		ShowText("hello (world)"),
		EndText,
	}
	encoded := Encode(ops)
	reparsed, err := Parse(encoded)
	if err != nil {
		t.Fatalf("reparse failed: %v\n%s", err, encoded)
	}
	if !reflect.DeepEqual(ops, reparsed) {
		t.Fatalf("not idempotent:\nwant %v\ngot  %v", ops, reparsed)
	}
}

func TestParseRejectsTrailingOperands(t *testing.T) {
	_, err := Parse([]byte("1 0 0 1 0 0"))
	if err == nil {
		t.Fatal("expected an error for a content stream ending mid-operation")
	}
}

func TestParseMixedOperandTypes(t *testing.T) {
	ops, err := Parse([]byte("/GS0 gs /F1 0 1 0 rg"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Operation{
		SetExtGState("GS0"),
		{Operator: "rg", Operands: []objects.Primitive{objects.Name("F1"), objects.Integer(0), objects.Integer(1), objects.Integer(0)}},
	}
	if !reflect.DeepEqual(ops, want) {
		t.Fatalf("got %v, want %v", ops, want)
	}
}
