// Package xref implements the in-memory cross-reference table (spec.md §3
// "Xref entry", C3) and the parsers for both on-disk encodings — the
// classic xref table and the xref stream (C4). It is independent of the
// backend byte source so it can be unit tested against raw buffers; the
// storage package owns composing sections across a file's "Prev" chain
// and wiring the result to resolution.
package xref

// Entry is one cross-reference table slot. The zero value is the
// distinguished "unspecified" entry (neither free nor resolvable).
type Entry struct {
	Kind EntryKind

	// Raw
	Offset int64

	// Free
	NextFree uint32

	// Raw and Free share Generation
	Generation uint16

	// Compressed
	Container uint32
	Slot      int
}

type EntryKind uint8

const (
	Unspecified EntryKind = iota
	Free
	Raw
	Compressed
)

// Table is an array-like index from object number to Entry, implemented
// as a map since object numbers in a real file are sparse and may run
// into the millions range without being contiguous.
type Table struct {
	entries map[uint32]Entry
	size    uint32 // one more than the highest valid object number
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{entries: make(map[uint32]Entry)}
}

// Size returns the trailer's declared /Size (one more than the highest
// object number the table describes).
func (t *Table) Size() uint32 { return t.size }

// SetSize records the trailer's /Size, growing the table's notion of its
// own span but never shrinking it (a later, smaller /Size in an older
// section must not truncate entries already composed from a newer one).
func (t *Table) SetSize(size uint32) {
	if size > t.size {
		t.size = size
	}
}

// Get returns the entry for objNumber, or the zero Unspecified entry if
// none has been recorded.
func (t *Table) Get(objNumber uint32) Entry {
	return t.entries[objNumber]
}

// Has reports whether an entry (of any kind) has been recorded.
func (t *Table) Has(objNumber uint32) bool {
	_, ok := t.entries[objNumber]
	return ok
}

// Set installs (or overwrites) the entry for objNumber.
func (t *Table) Set(objNumber uint32, e Entry) {
	t.entries[objNumber] = e
	if objNumber+1 > t.size {
		t.size = objNumber + 1
	}
}

// Compose installs an entry only if no entry exists yet at that object
// number, implementing "newest wins" when composing sections oldest to
// newest is walked newest-first (as storage.Open does, following Prev).
// It also implements the open question in SPEC_FULL.md §9.1: resurrection
// of an object marked Free in a newer section by a Raw/Compressed entry
// in an older one is never reached here because Compose only installs
// into *empty* slots — resurrection instead happens at the Storage layer
// when an incremental Update targets a ref the composed table marks Free.
func (t *Table) Compose(objNumber uint32, e Entry) {
	if t.Has(objNumber) {
		return
	}
	t.Set(objNumber, e)
}

// ObjectNumbers returns every object number with a recorded entry, in no
// particular order.
func (t *Table) ObjectNumbers() []uint32 {
	out := make([]uint32, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	return out
}

// FreeListHead returns the entry recorded at object number 0, which by
// convention is always the head of the free list (possibly itself
// Unspecified if no xref section has been composed yet).
func (t *Table) FreeListHead() Entry { return t.entries[0] }
