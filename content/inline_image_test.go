package content

import (
	"reflect"
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
)

func TestParseInlineImageOpaquePayload(t *testing.T) {
	src := "q BI /W 1 /H 1 /BPC 8 /CS /G ID \x00 EI Q"
	ops, err := Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 3 {
		t.Fatalf("expected q, BI, Q; got %d ops: %v", len(ops), ops)
	}
	img := ops[1]
	if img.Operator != "BI" || img.Image == nil {
		t.Fatalf("expected an inline image operation, got %v", img)
	}
	if string(img.Image.Data) != "\x00" {
		t.Errorf("got data %q", img.Image.Data)
	}
	want := objects.Dict{"W": objects.Integer(1), "H": objects.Integer(1), "BPC": objects.Integer(8), "CS": objects.Name("G")}
	if !reflect.DeepEqual(img.Image.Params, want) {
		t.Errorf("got params %v, want %v", img.Image.Params, want)
	}
}

// EI appears inside the raw payload here but is not preceded by
// whitespace on one side, so the scanner must not stop there.
func TestParseInlineImageDataContainingEI(t *testing.T) {
	data := []byte("BI /W 3 /H 1 /BPC 8 ID ")
	data = append(data, 'x', 'E', 'I', ' ') // "xEI " - not whitespace-delimited before 'E'
	data = append(data, ' ', 'E', 'I')      // the real terminator
	ops, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 || ops[0].Image == nil {
		t.Fatalf("expected a single inline image op, got %v", ops)
	}
	if string(ops[0].Image.Data) != "xEI " {
		t.Errorf("got data %q", ops[0].Image.Data)
	}
}

func TestEncodeInlineImageRoundTrips(t *testing.T) {
	ops := []Operation{
		{Operator: "BI", Image: &InlineImage{
			Params: objects.Dict{"W": objects.Integer(2), "H": objects.Integer(1)},
			Data:   []byte{0xAB, 0xCD},
		}},
	}
	encoded := Encode(ops)
	reparsed, err := Parse(encoded)
	if err != nil {
		t.Fatalf("reparse failed: %v\n%q", err, encoded)
	}
	if !reflect.DeepEqual(ops, reparsed) {
		t.Fatalf("not idempotent:\nwant %#v\ngot  %#v", ops, reparsed)
	}
}
