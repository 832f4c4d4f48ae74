package model

import (
	"sort"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/storage"
)

// NumberTree[T] and NameTree[T] generalize the teacher's hand-duplicated
// internal numTree/nameTree interfaces (model/trees.go) into one generic
// pair: the teacher predates Go generics and specializes per tree kind
// (PageLabelsTree, ParentTree...); this layer needs only one
// implementation parameterized over the leaf value type.
//
// Both carry their *T constructor constraint (PT) as a second type
// parameter on the type itself, not just the constructor functions:
// Decodable/Encodable methods cannot introduce a type parameter beyond
// their receiver's (the same restriction documented on storage.Ref[T]
// in basic.go), so PT has to live on NumberTree[T, PT]/NameTree[T, PT]
// for DecodeFrom/EncodeTo to reach it.

type leaf[T any] interface {
	*T
	storage.Decodable
	storage.Encodable
}

// NumberTree is a PDF number tree (7.9.7): either an intermediate node
// (Kids, each with its own Limits) or a leaf node (Nums). Leaf values
// are resolved if stored as an indirect reference, since PDF producers
// mix direct and indirect tree entries freely.
type NumberTree[T any, PT leaf[T]] struct {
	Kids   []Ref[NumberTree[T, PT]]
	Nums   map[int]T
	Limits [2]int
}

func (t *NumberTree[T, PT]) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "NumberTree: expected a dictionary")
	}
	if arr, ok := objects.AsArray(d["Kids"]); ok {
		for _, e := range arr {
			if r, ok := refOf(e); ok {
				t.Kids = append(t.Kids, storage.NewRef[NumberTree[T, PT]](r))
			}
		}
	}
	if arr, ok := objects.AsArray(d["Nums"]); ok {
		t.Nums = make(map[int]T, len(arr)/2)
		for i := 0; i+1 < len(arr); i += 2 {
			key, ok := objects.AsInt(arr[i])
			if !ok {
				continue
			}
			val, err := decodeLeaf[T, PT](arr[i+1], s)
			if err != nil {
				return err
			}
			t.Nums[int(key)] = val
		}
	}
	if arr, ok := objects.AsArray(d["Limits"]); ok && len(arr) == 2 {
		lo, _ := objects.AsInt(arr[0])
		hi, _ := objects.AsInt(arr[1])
		t.Limits = [2]int{int(lo), int(hi)}
	} else {
		t.Limits = computeNumLimits(t.Nums)
	}
	return nil
}

func (t *NumberTree[T, PT]) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	if len(t.Kids) > 0 {
		arr := make(objects.Array, len(t.Kids))
		for i, k := range t.Kids {
			arr[i] = k.Reference
		}
		d["Kids"] = arr
	}
	if len(t.Nums) > 0 {
		keys := make([]int, 0, len(t.Nums))
		for k := range t.Nums {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		arr := make(objects.Array, 0, 2*len(keys))
		for _, k := range keys {
			v := t.Nums[k]
			prim, err := PT(&v).EncodeTo(s)
			if err != nil {
				return nil, err
			}
			arr = append(arr, objects.Integer(k), prim)
		}
		d["Nums"] = arr
	}
	lo, hi := t.Limits[0], t.Limits[1]
	d["Limits"] = objects.Array{objects.Integer(lo), objects.Integer(hi)}
	return d, nil
}

func computeNumLimits[T any](nums map[int]T) [2]int {
	first := true
	var lo, hi int
	for k := range nums {
		if first || k < lo {
			lo = k
		}
		if first || k > hi {
			hi = k
		}
		first = false
	}
	return [2]int{lo, hi}
}

// NameTree is a PDF name tree (7.9.6): string keys instead of integers,
// otherwise identical structure to NumberTree.
type NameTree[T any, PT leaf[T]] struct {
	Kids   []Ref[NameTree[T, PT]]
	Names  map[string]T
	Limits [2]string
}

func (t *NameTree[T, PT]) DecodeFrom(p objects.Primitive, s *storage.Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "NameTree: expected a dictionary")
	}
	if arr, ok := objects.AsArray(d["Kids"]); ok {
		for _, e := range arr {
			if r, ok := refOf(e); ok {
				t.Kids = append(t.Kids, storage.NewRef[NameTree[T, PT]](r))
			}
		}
	}
	if arr, ok := objects.AsArray(d["Names"]); ok {
		t.Names = make(map[string]T, len(arr)/2)
		for i := 0; i+1 < len(arr); i += 2 {
			key, ok := objects.AsString(arr[i])
			if !ok {
				continue
			}
			val, err := decodeLeaf[T, PT](arr[i+1], s)
			if err != nil {
				return err
			}
			t.Names[string(key)] = val
		}
	}
	if arr, ok := objects.AsArray(d["Limits"]); ok && len(arr) == 2 {
		lo, _ := objects.AsString(arr[0])
		hi, _ := objects.AsString(arr[1])
		t.Limits = [2]string{string(lo), string(hi)}
	} else {
		t.Limits = computeNameLimits(t.Names)
	}
	return nil
}

func (t *NameTree[T, PT]) EncodeTo(s *storage.Storage) (objects.Primitive, error) {
	d := objects.Dict{}
	if len(t.Kids) > 0 {
		arr := make(objects.Array, len(t.Kids))
		for i, k := range t.Kids {
			arr[i] = k.Reference
		}
		d["Kids"] = arr
	}
	if len(t.Names) > 0 {
		keys := make([]string, 0, len(t.Names))
		for k := range t.Names {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		arr := make(objects.Array, 0, 2*len(keys))
		for _, k := range keys {
			v := t.Names[k]
			prim, err := PT(&v).EncodeTo(s)
			if err != nil {
				return nil, err
			}
			arr = append(arr, objects.String(k), prim)
		}
		d["Names"] = arr
	}
	if t.Limits[0] != "" || t.Limits[1] != "" {
		d["Limits"] = objects.Array{objects.String(t.Limits[0]), objects.String(t.Limits[1])}
	}
	return d, nil
}

func computeNameLimits[T any](names map[string]T) [2]string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return [2]string{}
	}
	return [2]string{keys[0], keys[len(keys)-1]}
}

// decodeLeaf resolves p if it is an indirect reference, then decodes it
// as T: a number/name tree's leaf values are routinely stored as direct
// objects (e.g. a Dests array) rather than always indirect, unlike
// every other Ref-mediated field in this package.
func decodeLeaf[T any, PT leaf[T]](p objects.Primitive, s *storage.Storage) (T, error) {
	var zero T
	prim := p
	if ref, ok := refOf(p); ok {
		resolved, err := s.Resolve(ref)
		if err != nil {
			return zero, err
		}
		prim = resolved
	}
	if err := PT(&zero).DecodeFrom(prim, s); err != nil {
		return zero, err
	}
	return zero, nil
}
