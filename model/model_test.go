package model

import (
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/storage"
)

func TestCatalogRoundTrip(t *testing.T) {
	s := storage.New(storage.Config{})
	src := objects.Dict{
		"Type":       objects.Name("Catalog"),
		"Pages":      objects.Reference{Number: 2},
		"PageLayout": objects.Name("SinglePage"),
		"Lang":       objects.String("en-US"),
		"CustomKey":  objects.Integer(42), // exercises the Other catch-all
	}

	var cat Catalog
	if err := cat.DecodeFrom(src, s); err != nil {
		t.Fatal(err)
	}
	if cat.Pages.Number != 2 {
		t.Errorf("Pages: got object %d, want 2", cat.Pages.Number)
	}
	if cat.Lang != "en-US" {
		t.Errorf("Lang: got %q", cat.Lang)
	}
	if cat.Other["CustomKey"] != objects.Integer(42) {
		t.Errorf("Other did not preserve CustomKey: %v", cat.Other)
	}

	out, err := cat.EncodeTo(s)
	if err != nil {
		t.Fatal(err)
	}
	d, ok := objects.AsDict(out)
	if !ok {
		t.Fatalf("expected a dict, got %T", out)
	}
	if d["CustomKey"] != objects.Integer(42) {
		t.Errorf("round trip lost CustomKey: %v", d)
	}
	if d["Pages"] != (objects.Reference{Number: 2}) {
		t.Errorf("round trip changed /Pages: %v", d["Pages"])
	}
}

func TestTrailerRequiresRoot(t *testing.T) {
	if _, err := DecodeTrailer(objects.Dict{}); err == nil {
		t.Fatal("expected an error for a trailer missing /Root")
	}
}

func TestTrailerPrevChain(t *testing.T) {
	d := objects.Dict{
		"Root": objects.Reference{Number: 1},
		"Size": objects.Integer(10),
		"Prev": objects.Integer(1234),
	}
	tr, err := DecodeTrailer(d)
	if err != nil {
		t.Fatal(err)
	}
	if tr.PrevTrailerPos != 1234 {
		t.Errorf("PrevTrailerPos: got %d, want 1234", tr.PrevTrailerPos)
	}
	out := tr.Encode()
	if out["Prev"] != objects.Integer(1234) {
		t.Errorf("Encode dropped /Prev: %v", out)
	}
}
