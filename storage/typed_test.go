package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/xref"
)

func indexOf(data []byte, s string) int { return strings.Index(string(data), s) }

func xrefEntry(offset int64) xref.Entry { return xref.Entry{Kind: xref.Raw, Offset: offset} }

// note, a minimal typed record used only to exercise the generic
// Get/Create/Update/Promise/Fulfill contract independent of the model
// package.
type note struct {
	Text string
	Next *Ref[note] // optional link, used to exercise Promise/Fulfill cycles
}

func (n *note) DecodeFrom(p objects.Primitive, s *Storage) error {
	d, ok := objects.AsDict(p)
	if !ok {
		return pdferr.New(pdferr.WrongDictionaryType, "note: expected a dictionary")
	}
	if txt, ok := objects.AsString(d["Text"]); ok {
		n.Text = string(txt)
	}
	if next, ok := d["Next"].(objects.Reference); ok {
		r := NewRef[note](next)
		n.Next = &r
	}
	return nil
}

func (n *note) EncodeTo(s *Storage) (objects.Primitive, error) {
	d := objects.Dict{"Text": objects.String(n.Text)}
	if n.Next != nil {
		d["Next"] = n.Next.Reference
	}
	return d, nil
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	s := New(Config{})
	ref, err := Create[note](s, &note{Text: "hello"})
	if err != nil {
		t.Fatal(err)
	}

	// Create does not install into the xref table (the writer does that
	// at Save time), so Get must be served entirely from the cache.
	got, err := Get[note, *note](s, ref)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "hello" {
		t.Errorf("got %q, want %q", got.Text, "hello")
	}
}

func TestResolveFallsBackToPendingForUnsavedObject(t *testing.T) {
	s := New(Config{})
	ref, err := Create[note](s, &note{Text: "hello"})
	if err != nil {
		t.Fatal(err)
	}

	// The raw Resolve API doesn't share Get's cache entry (it's keyed
	// to a *note, not a Primitive), so this only succeeds via the
	// pending-write fallback in resolveUncached.
	prim, err := s.Resolve(ref.Reference)
	if err != nil {
		t.Fatal(err)
	}
	d, ok := objects.AsDict(prim)
	if !ok {
		t.Fatalf("expected a dict, got %T", prim)
	}
	if string(d["Text"].(objects.String)) != "hello" {
		t.Errorf("got %v", d["Text"])
	}
}

func TestUpdateBumpsGenerationAndInvalidatesOldCache(t *testing.T) {
	s := New(Config{})
	ref, err := Create[note](s, &note{Text: "v1"})
	if err != nil {
		t.Fatal(err)
	}

	newRef, err := Update[note](s, ref, &note{Text: "v2"})
	if err != nil {
		t.Fatal(err)
	}
	if newRef.Generation != ref.Generation+1 {
		t.Errorf("expected generation to bump, got %d -> %d", ref.Generation, newRef.Generation)
	}

	got, err := Get[note, *note](s, newRef)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "v2" {
		t.Errorf("got %q, want %q", got.Text, "v2")
	}
}

func TestPromiseFulfillBreaksCycle(t *testing.T) {
	s := New(Config{})

	parentPromise := NewPromise[note](s)
	promised := parentPromise.Ref()
	child := &note{Text: "child", Next: &promised}
	childRef, err := Create[note](s, child)
	if err != nil {
		t.Fatal(err)
	}

	parent := &note{Text: "parent", Next: &childRef}
	parentRef, err := Fulfill[note](s, &parentPromise, parent)
	if err != nil {
		t.Fatal(err)
	}
	if parentRef.Number != parentPromise.Ref().Number {
		t.Errorf("fulfilled ref should reuse the promised object number")
	}
}

func TestSaveFailsWithOpenPromise(t *testing.T) {
	s := New(Config{})
	NewPromise[note](s)

	if _, err := s.Save(objects.Dict{}); err == nil {
		t.Fatal("expected Save to fail with an unfulfilled promise outstanding")
	} else if !pdferr.Is(err, pdferr.UnfulfilledPromise) {
		t.Errorf("expected UnfulfilledPromise, got %v", err)
	}
}

func TestResolveAllResolvesConcurrently(t *testing.T) {
	data := []byte(
		"1 0 obj\n<< /V 1 >>\nendobj\n" +
			"2 0 obj\n<< /V 2 >>\nendobj\n" +
			"3 0 obj\n<< /V 3 >>\nendobj\n")

	s := New(Config{})
	s.data = data
	offsets := map[uint32]int64{
		1: int64(indexOf(data, "1 0 obj")),
		2: int64(indexOf(data, "2 0 obj")),
		3: int64(indexOf(data, "3 0 obj")),
	}
	var refs []objects.Reference
	for num, off := range offsets {
		s.xref.Set(num, xrefEntry(off))
		refs = append(refs, objects.Reference{Number: num})
	}

	vals, err := s.ResolveAll(context.Background(), refs)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != len(refs) {
		t.Fatalf("expected %d results, got %d", len(refs), len(vals))
	}
	for _, v := range vals {
		if _, ok := objects.AsDict(v); !ok {
			t.Errorf("expected each resolved value to be a dict, got %T", v)
		}
	}
}
