package storage

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// WriterFunc renders a Storage's backing bytes plus its pending writes
// into the final document bytes, either as a fresh file or an
// incremental update section (spec.md §4.8).
type WriterFunc func(s *Storage, trailer objects.Dict) ([]byte, error)

// writerImpl is installed by the writer package's init(), not imported
// directly here: writer necessarily imports storage (it walks
// PendingWrites/Backend/Xref), so storage importing writer back would be
// a cycle. The same indirection the teacher uses between its reader and
// model packages for write-back hooks.
var writerImpl WriterFunc

// RegisterWriter installs the writer package's save implementation. Not
// meant to be called outside the writer package's init().
func RegisterWriter(fn WriterFunc) { writerImpl = fn }

// Save implements spec.md §4.4's save(trailer): fails fast if any
// promise remains unfulfilled, otherwise delegates to the registered
// writer.
func (s *Storage) Save(trailer objects.Dict) ([]byte, error) {
	if n := s.OpenPromises(); n > 0 {
		return nil, pdferr.New(pdferr.UnfulfilledPromise, "%d promise(s) remain unfulfilled", n)
	}
	if writerImpl == nil {
		return nil, pdferr.New(pdferr.Other, "no writer registered: import the writer package")
	}
	return writerImpl(s, trailer)
}

// PendingWrites exposes objects created or updated since Open/New for
// the writer package to serialize; the returned map must not be
// mutated by the caller.
func (s *Storage) PendingWrites() map[uint32]PendingWrite { return s.mu.pending }

// Backend exposes the original document bytes (nil for a fresh Storage
// built with New) so the writer package can copy them verbatim ahead of
// an incremental update section.
func (s *Storage) Backend() []byte { return s.data }

// Size returns one past the highest object number Storage knows about,
// for the writer package's xref /Size.
func (s *Storage) Size() uint32 { return s.mu.nextFree }

// PrevStartXref returns the byte offset of the most recent xref section
// already present in Backend(), so an incremental save can chain its
// new section onto it via /Prev. Zero for a Storage built with New (no
// backend to chain from).
func (s *Storage) PrevStartXref() int64 { return s.prevStartXref }
