package model

import (
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/storage"
)

func TestPagesNodeDecodeLeaf(t *testing.T) {
	s := storage.New(storage.Config{})
	d := objects.Dict{
		"Type":      objects.Name("Page"),
		"Parent":    objects.Reference{Number: 1},
		"MediaBox":  objects.Array{objects.Integer(0), objects.Integer(0), objects.Integer(612), objects.Integer(792)},
		"Rotate":    objects.Integer(90),
		"Resources": objects.Reference{Number: 5},
		"Contents":  objects.Reference{Number: 6},
	}
	var n PagesNode
	if err := n.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if n.Kind != PageLeaf {
		t.Fatalf("expected PageLeaf")
	}
	if n.MediaBox == nil || n.MediaBox.Urx != 612 {
		t.Errorf("MediaBox: got %+v", n.MediaBox)
	}
	if n.Rotate.Degrees() != 90 {
		t.Errorf("Rotate: got %d degrees", n.Rotate.Degrees())
	}
	if n.Resources == nil || n.Resources.Number != 5 {
		t.Errorf("Resources: got %+v", n.Resources)
	}
	if len(n.Contents) != 1 || n.Contents[0].Number != 6 {
		t.Errorf("Contents: got %+v", n.Contents)
	}
}

func TestPagesNodeDecodeTree(t *testing.T) {
	s := storage.New(storage.Config{})
	d := objects.Dict{
		"Type":  objects.Name("Pages"),
		"Kids":  objects.Array{objects.Reference{Number: 2}, objects.Reference{Number: 3}},
		"Count": objects.Integer(2),
	}
	var n PagesNode
	if err := n.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if n.Kind != PageTreeNode {
		t.Fatalf("expected PageTreeNode")
	}
	if len(n.Kids) != 2 || n.Count != 2 {
		t.Errorf("Kids/Count: got %+v / %d", n.Kids, n.Count)
	}
}

func TestPagesNodeEncodeRoundTrip(t *testing.T) {
	s := storage.New(storage.Config{})
	page := &PagesNode{
		Kind:     PageLeaf,
		Rotate:   Quarter,
		MediaBox: &Rectangle{0, 0, 612, 792},
		Contents: []objects.Reference{{Number: 9}},
		Other:    objects.Dict{"UserUnit": objects.Real(1.5)},
	}
	prim, err := page.EncodeTo(s)
	if err != nil {
		t.Fatal(err)
	}
	d, ok := objects.AsDict(prim)
	if !ok {
		t.Fatalf("expected a dict, got %T", prim)
	}
	if d["Type"] != objects.Name("Page") {
		t.Errorf("Type: got %v", d["Type"])
	}
	if d["Rotate"] != objects.Integer(90) {
		t.Errorf("Rotate: got %v", d["Rotate"])
	}
	if d["UserUnit"] != objects.Real(1.5) {
		t.Errorf("Other not preserved: %v", d)
	}
}

func TestFlattenWalksTreeInOrder(t *testing.T) {
	s := storage.New(storage.Config{})

	leaf1Ref, err := storage.Create[PagesNode](s, &PagesNode{Kind: PageLeaf})
	if err != nil {
		t.Fatal(err)
	}
	leaf2Ref, err := storage.Create[PagesNode](s, &PagesNode{Kind: PageLeaf})
	if err != nil {
		t.Fatal(err)
	}
	rootRef, err := storage.Create[PagesNode](s, &PagesNode{
		Kind: PageTreeNode,
		Kids: []Ref[PagesNode]{leaf1Ref, leaf2Ref},
	})
	if err != nil {
		t.Fatal(err)
	}

	leaves, err := Flatten(s, rootRef)
	if err != nil {
		t.Fatal(err)
	}
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(leaves))
	}
	if leaves[0].Number != leaf1Ref.Number || leaves[1].Number != leaf2Ref.Number {
		t.Errorf("Flatten did not preserve order: %+v", leaves)
	}
}
