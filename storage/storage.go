// Package storage implements the Storage/Resolver (spec.md §4.4): it
// owns the backend bytes, the composed cross-reference table, the
// decryption handler, and the decoded-object/decoded-stream caches, and
// exposes resolve/get/create/update/promise/fulfill/save over them.
package storage

import (
	"log/slog"

	"github.com/go-pdfkit/pdfcore/filter"
	"github.com/go-pdfkit/pdfcore/lexer"
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/objstm"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/xref"
)

// Storage is a read/write view over one PDF document's object graph. The
// zero value is not usable; construct one with Open or New.
type Storage struct {
	data []byte
	xref *xref.Table

	trailer objects.Dict
	cipher  objects.Cipher // nil if the document is not encrypted

	filters *filter.Registry

	cache   *objectCache
	streams *streamCache

	// mutation state: nil on a read-only clone.
	mu         *mutState
	logger     *slog.Logger
	allowFixup bool // AllowMissingEndobj / AllowLengthRecovery, mirrored here for parser wiring

	// prevStartXref is the byte offset of the most recent xref section
	// in Backend(), for the writer package's incremental mode to chain
	// a new section onto via /Prev. Zero for a Storage built with New.
	prevStartXref int64
}

type mutState struct {
	nextFree   uint32 // candidate next object number to allocate
	promises   map[uint32]bool
	generation map[uint32]uint16   // current generation per object number, for Update
	pending    map[uint32]PendingWrite

	// freeList holds object numbers reclaimed from the composed xref
	// table's free entries (spec.md §4.8: "a newly allocated object uses
	// the smallest free id from the composed table"), each paired with
	// the generation the classic format records as "to be used if this
	// object number is used again". Empty for a Storage built with New.
	freeList []freeSlot
}

type freeSlot struct {
	number     uint32
	generation uint16
}

// PendingWrite holds an object created or updated since Open/New, not yet
// part of the composed xref table: save(trailer) (spec.md §4.4) turns
// these into either a fresh document or an incremental update section.
// Exported so the writer package (which necessarily imports storage, and
// so cannot be imported back) can read them via Storage.PendingWrites.
type PendingWrite struct {
	Value      objects.Primitive
	Generation uint16
}

// allocate returns the next object number to use for a new object (the
// smallest reclaimed free id if one is available, otherwise the next
// never-used number) and its starting generation.
func (m *mutState) allocate() (uint32, uint16) {
	if n := len(m.freeList); n > 0 {
		min := 0
		for i := 1; i < n; i++ {
			if m.freeList[i].number < m.freeList[min].number {
				min = i
			}
		}
		slot := m.freeList[min]
		m.freeList = append(m.freeList[:min], m.freeList[min+1:]...)
		return slot.number, slot.generation
	}
	m.nextFree++
	return m.nextFree - 1, 0
}

// New builds an empty Storage with no backing bytes, suitable for
// building a document from scratch before a fresh Save (spec.md §4.8
// "Fresh" mode).
func New(cfg Config) *Storage {
	s := &Storage{
		xref:    xref.NewTable(),
		trailer: objects.Dict{},
		filters: filter.NewRegistry(),
		cache:   newObjectCache(cfg.Cache),
		streams: newStreamCache(cfg.Cache),
		mu: &mutState{
			nextFree:   1, // object 0 is reserved for the free-list head
			promises:   make(map[uint32]bool),
			generation: make(map[uint32]uint16),
			pending:    make(map[uint32]PendingWrite),
		},
		logger:     slog.Default(),
		allowFixup: cfg.AllowMissingEndobj,
	}
	s.xref.Set(0, xref.Entry{Kind: xref.Free, NextFree: 0})
	return s
}

// Open parses an existing PDF document from a complete in-memory byte
// buffer: it locates the final startxref, composes the xref section
// chain via Prev, sets up decryption from the trailer's /Encrypt entry,
// and falls back to repair (spec.md §4.9) if xref parsing or Root
// resolution fails and cfg.AllowInvalidXref is set.
//
// Grounded in the teacher's file_pdf.go processPDFFile /
// buildXRefTableStartingAt two-phase structure (locate xref, then
// resolve Root), generalized around this package's Storage/Resolver
// contract instead of the teacher's pointer-graph Document.
func Open(data []byte, cfg Config) (*Storage, error) {
	s := New(cfg)
	s.data = data
	s.allowFixup = cfg.AllowMissingEndobj
	if off, err := findStartXref(data); err == nil {
		s.prevStartXref = off
	}

	table, trailer, err := composeXref(data)
	if err != nil {
		if !cfg.AllowInvalidXref {
			return nil, err
		}
		s.logger.Warn("xref composition failed, falling back to repair", "error", err)
		table, trailer, err = repairXref(data)
		if err != nil {
			return nil, err
		}
	}
	s.xref = table
	s.trailer = trailer

	if root, ok := trailer["Root"]; ok {
		if ref, ok := root.(objects.Reference); ok {
			if _, err := s.Resolve(ref); err != nil {
				if !cfg.AllowInvalidXref {
					return nil, pdferr.Wrap(pdferr.MissingRequiredKey, err, "resolving trailer Root")
				}
				s.logger.Warn("Root did not resolve against composed xref, falling back to repair", "error", err)
				table, trailer, rerr := repairXref(data)
				if rerr != nil {
					return nil, rerr
				}
				s.xref = table
				s.trailer = trailer
				s.cache = newObjectCache(cfg.Cache)
				s.streams = newStreamCache(cfg.Cache)
			}
		}
	}

	if enc, ok := trailer["Encrypt"]; ok {
		handler, err := setupEncryption(trailer, enc, cfg.Password)
		if err != nil {
			return nil, err
		}
		s.cipher = handler
		// Root was resolved above without the cipher: drop that plaintext
		// parse so later reads decrypt.
		s.cache = newObjectCache(cfg.Cache)
		s.streams = newStreamCache(cfg.Cache)
	}

	for _, num := range s.xref.ObjectNumbers() {
		entry := s.xref.Get(num)
		s.mu.generation[num] = entry.Generation
		if entry.Kind == xref.Free && num != 0 {
			s.mu.freeList = append(s.mu.freeList, freeSlot{number: num, generation: entry.Generation})
		}
	}
	s.mu.nextFree = s.xref.Size()

	return s, nil
}

// Trailer returns the document's trailer dictionary (the merged result
// for a read document; the mutable one under construction for a fresh
// Storage built with New).
func (s *Storage) Trailer() objects.Dict { return s.trailer }

// Resolve implements spec.md §4.4's resolve(ref) -> Primitive: it looks
// the reference up in the composed xref table, reads either a direct
// object at a byte offset or a sub-object extracted from an object
// stream, decrypts if applicable, and caches the result.
func (s *Storage) Resolve(ref objects.Reference) (objects.Primitive, error) {
	key := cacheKey{ref.Number, ref.Generation}
	if e, ok := s.cache.get(key); ok {
		// A cache hit whose value isn't a Primitive was populated by the
		// typed Get/Create/Update/Fulfill helpers (typed.go, promise.go),
		// which share this same cache keyed by object number: fall
		// through to a fresh resolve rather than misreport it.
		if prim, ok := e.value.(objects.Primitive); ok {
			return prim, e.err
		}
	}

	val, err := s.resolveUncached(ref)
	s.cache.set(key, cacheEntry{value: val, err: err})
	return val, err
}

func (s *Storage) resolveUncached(ref objects.Reference) (objects.Primitive, error) {
	entry := s.xref.Get(ref.Number)
	switch entry.Kind {
	case xref.Free, xref.Unspecified:
		if s.mu != nil {
			if pw, ok := s.mu.pending[ref.Number]; ok && pw.Generation == ref.Generation {
				return pw.Value, nil
			}
		}
		return nil, pdferr.New(pdferr.FreeObject, "object %d is free or unknown", ref.Number)
	case xref.Raw:
		return s.resolveRaw(ref, entry)
	case xref.Compressed:
		return s.resolveCompressed(ref, entry)
	default:
		return nil, pdferr.New(pdferr.FreeObject, "unhandled xref entry kind for object %d", ref.Number)
	}
}

func (s *Storage) resolveRaw(ref objects.Reference, entry xref.Entry) (objects.Primitive, error) {
	if entry.Offset < 0 || entry.Offset >= int64(len(s.data)) {
		return nil, pdferr.New(pdferr.InvalidXref, "object %d offset %d out of bounds", ref.Number, entry.Offset)
	}
	lx := lexer.New(s.data)
	lx.SetPos(int(entry.Offset))

	gotNum, gotGen, err := parseObjHeader(lx)
	if err != nil {
		return nil, err
	}
	if gotNum != ref.Number {
		return nil, pdferr.New(pdferr.InvalidXref, "object header declares %d, xref says %d", gotNum, ref.Number)
	}

	var dec *objects.DecryptContext
	if s.cipher != nil {
		dec = &objects.DecryptContext{Cipher: s.cipher, ObjNumber: ref.Number, ObjGen: gotGen}
	}
	p := objects.FromLexer(lx, s.Resolve, dec)
	p.AllowLengthRecovery = s.allowFixup

	val, err := p.ParseObject()
	if err != nil {
		return nil, err
	}
	if p.UsedLengthRecovery {
		s.logger.Warn("recovered stream content by scanning for endstream", "object", ref.Number)
	}

	if st, ok := val.(objects.Stream); ok {
		decoded, err := s.decodeStreamBody(st)
		if err != nil {
			return nil, err
		}
		st.Content = decoded
		return st, nil
	}
	return val, nil
}

// decodeStreamBody applies the /Filter chain to a stream's raw,
// already-decrypted bytes; the Flate and LZW decoders also reverse a
// /DecodeParms predictor.
func (s *Storage) decodeStreamBody(st objects.Stream) ([]byte, error) {
	chain, err := filter.ParseChain(s.filters, st.Dict["Filter"], st.Dict["DecodeParms"])
	if err != nil {
		return nil, err
	}
	return chain.Decode(st.Content)
}

func (s *Storage) resolveCompressed(ref objects.Reference, entry xref.Entry) (objects.Primitive, error) {
	container, err := s.objectStream(entry.Container, make(map[uint32]bool))
	if err != nil {
		return nil, err
	}
	if entry.Slot >= container.NObjects() {
		return nil, pdferr.New(pdferr.PageOutOfBounds, "slot %d out of bounds for object stream %d (N=%d)", entry.Slot, entry.Container, container.NObjects())
	}
	slice, err := container.ObjectSlice(entry.Slot)
	if err != nil {
		return nil, err
	}
	// Compressed objects never themselves contain streams and are never
	// individually encrypted (the containing object stream already was).
	p := objects.New(slice)
	return p.ParseObject()
}

// objectStream resolves and caches the decoded Container for an object
// stream, guarding against an /Extends cycle (spec.md open question #3).
func (s *Storage) objectStream(containerNum uint32, visited map[uint32]bool) (*objstm.Container, error) {
	if c, ok := s.streams.get(containerNum); ok {
		return c.container, c.err
	}
	if visited[containerNum] {
		err := pdferr.New(pdferr.InvalidXref, "object stream %d participates in an Extends cycle", containerNum)
		s.streams.set(containerNum, streamCacheEntry{err: err})
		return nil, err
	}
	visited[containerNum] = true

	val, err := s.Resolve(objects.Reference{Number: containerNum})
	if err != nil {
		s.streams.set(containerNum, streamCacheEntry{err: err})
		return nil, err
	}
	st, ok := val.(objects.Stream)
	if !ok {
		err := pdferr.New(pdferr.WrongDictionaryType, "object stream %d is not a stream", containerNum)
		s.streams.set(containerNum, streamCacheEntry{err: err})
		return nil, err
	}

	container, err := objstm.Parse(st.Dict, st.Content)
	if err != nil {
		s.streams.set(containerNum, streamCacheEntry{err: err})
		return nil, err
	}

	if container.Extends != nil {
		if _, err := s.objectStream(container.Extends.Number, visited); err != nil {
			s.streams.set(containerNum, streamCacheEntry{err: err})
			return nil, err
		}
	}

	s.streams.set(containerNum, streamCacheEntry{container: container})
	return container, nil
}

func parseObjHeader(lx *lexer.Lexer) (number uint32, generation uint16, err error) {
	numTk, err := lx.Next()
	if err != nil {
		return 0, 0, err
	}
	n, err := numTk.ToUint()
	if err != nil {
		return 0, 0, pdferr.Wrap(pdferr.InvalidXref, err, "invalid object number")
	}
	genTk, err := lx.Next()
	if err != nil {
		return 0, 0, err
	}
	g, err := genTk.ToUint()
	if err != nil {
		return 0, 0, pdferr.Wrap(pdferr.InvalidXref, err, "invalid object generation")
	}
	if err := lx.NextExpect("obj"); err != nil {
		return 0, 0, err
	}
	return uint32(n), uint16(g), nil
}
