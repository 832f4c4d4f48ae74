package model

import (
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/storage"
)

func TestNumberTreeLeafDecode(t *testing.T) {
	s := storage.New(storage.Config{})
	elemDict := objects.Dict{"Type": objects.Name("StructElem"), "S": objects.Name("P")}
	d := objects.Dict{
		"Nums": objects.Array{objects.Integer(0), elemDict, objects.Integer(3), elemDict},
	}

	var tree NumberTree[StructureElement, *StructureElement]
	if err := tree.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if len(tree.Nums) != 2 {
		t.Fatalf("expected 2 leaf entries, got %d", len(tree.Nums))
	}
	if tree.Nums[0].S != "P" {
		t.Errorf("leaf 0: got S=%q", tree.Nums[0].S)
	}
	if tree.Limits != [2]int{0, 3} {
		t.Errorf("computed Limits: got %v, want [0 3]", tree.Limits)
	}
}

func TestNumberTreeEncodeSortsKeys(t *testing.T) {
	s := storage.New(storage.Config{})
	tree := NumberTree[StructureElement, *StructureElement]{
		Nums: map[int]StructureElement{5: {S: "Span"}, 1: {S: "P"}},
	}
	prim, err := tree.EncodeTo(s)
	if err != nil {
		t.Fatal(err)
	}
	d, _ := objects.AsDict(prim)
	arr, _ := objects.AsArray(d["Nums"])
	if len(arr) != 4 {
		t.Fatalf("expected 4 entries (2 keys x 2), got %d", len(arr))
	}
	if arr[0] != objects.Integer(1) {
		t.Errorf("expected keys sorted ascending, first key got %v", arr[0])
	}
}

func TestNumberTreeResolvesIndirectLeaf(t *testing.T) {
	s := storage.New(storage.Config{})
	elemRef, err := storage.Create[StructureElement](s, &StructureElement{S: "Figure"})
	if err != nil {
		t.Fatal(err)
	}
	d := objects.Dict{"Nums": objects.Array{objects.Integer(7), elemRef.Reference}}

	var tree NumberTree[StructureElement, *StructureElement]
	if err := tree.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if tree.Nums[7].S != "Figure" {
		t.Errorf("indirect leaf not resolved: %+v", tree.Nums[7])
	}
}

func TestStructTreeRootDecode(t *testing.T) {
	s := storage.New(storage.Config{})
	d := objects.Dict{
		"Type": objects.Name("StructTreeRoot"),
		"K":    objects.Reference{Number: 10},
		"RoleMap": objects.Dict{
			"Heading1": objects.Name("H1"),
		},
	}
	var root StructTreeRoot
	if err := root.DecodeFrom(d, s); err != nil {
		t.Fatal(err)
	}
	if len(root.K) != 1 || root.K[0].Number != 10 {
		t.Errorf("K: got %+v", root.K)
	}
	if root.RoleMap["Heading1"] != "H1" {
		t.Errorf("RoleMap: got %v", root.RoleMap)
	}
}
