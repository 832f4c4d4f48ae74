package filter

import (
	"bytes"
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
)

func TestFlateRoundTrip(t *testing.T) {
	reg := NewRegistry()
	f, _ := reg.Lookup("FlateDecode")
	want := []byte("hello, pdfcore! hello, pdfcore!")
	enc, err := f.Encode(nil, want)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := f.Decode(nil, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, want) {
		t.Errorf("got %q want %q", dec, want)
	}
}

func TestLZWRoundTrip(t *testing.T) {
	reg := NewRegistry()
	f, _ := reg.Lookup("LZWDecode")
	want := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox")
	enc, err := f.Encode(nil, want)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := f.Decode(nil, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, want) {
		t.Errorf("got %q want %q", dec, want)
	}
}

func TestASCII85RoundTrip(t *testing.T) {
	reg := NewRegistry()
	f, _ := reg.Lookup("ASCII85Decode")
	want := []byte("Man is distinguished")
	enc, err := f.Encode(nil, want)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := f.Decode(nil, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, want) {
		t.Errorf("got %q want %q", dec, want)
	}
}

func TestASCIIHexRoundTrip(t *testing.T) {
	reg := NewRegistry()
	f, _ := reg.Lookup("ASCIIHexDecode")
	want := []byte{0x01, 0xFF, 0xA0}
	enc, err := f.Encode(nil, want)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := f.Decode(nil, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, want) {
		t.Errorf("got %x want %x", dec, want)
	}
}

func TestRunLengthRoundTrip(t *testing.T) {
	reg := NewRegistry()
	f, _ := reg.Lookup("RunLengthDecode")
	want := []byte("aaaaaaaaaaabcdefggggggggggggggg")
	enc, err := f.Encode(nil, want)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := f.Decode(nil, enc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(dec, want) {
		t.Errorf("got %q want %q", dec, want)
	}
}

func TestPNGPredictor(t *testing.T) {
	// two rows, 1 byte/pixel, predictor "Sub" (tag 1) on both rows.
	raw := []byte{1, 10, 2, 3, 1, 1, 1, 1}
	out, err := applyPredictor(objects.Dict{
		"Predictor":        objects.Integer(15),
		"Colors":           objects.Integer(1),
		"BitsPerComponent": objects.Integer(8),
		"Columns":          objects.Integer(3),
	}, raw)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{10, 12, 15, 1, 2, 3}
	if !bytes.Equal(out, want) {
		t.Errorf("got %v want %v", out, want)
	}
}

func TestUnsupportedImageCodecNamed(t *testing.T) {
	reg := NewRegistry()
	f, ok := reg.Lookup("DCTDecode")
	if !ok {
		t.Fatal("expected DCTDecode to be registered as a named stub")
	}
	_, err := f.Decode(nil, nil)
	if err == nil {
		t.Fatal("expected an error for the unimplemented image codec")
	}
}
