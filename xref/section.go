package xref

import (
	"github.com/go-pdfkit/pdfcore/lexer"
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// Section is one parsed xref section: the entries it declares plus the
// trailer dictionary (classic table) or stream dictionary (xref stream)
// that followed it. PrevOffset is the byte offset of the previous
// section in the Prev chain, or 0 if there is none.
type Section struct {
	Entries    map[uint32]Entry
	Trailer    objects.Dict
	PrevOffset int64
	// HybridXRefStm is the offset of a hybrid-file XRefStm entry found in
	// a classic trailer (1.5 conformant readers must process it before
	// continuing up the Prev chain).
	HybridXRefStm int64
}

// ParseClassicSection parses a classic xref table starting right after
// the "xref" keyword has already been consumed by the caller, through and
// including its trailer dictionary.
//
// Grounded in the teacher's reader/file/read.go parseXRefSection /
// parseXRefTableSubSection / parseXRefTableEntry.
func ParseClassicSection(lx *lexer.Lexer) (Section, error) {
	entries := make(map[uint32]Entry)
	for {
		tk, err := lx.Peek()
		if err != nil {
			return Section{}, err
		}
		if tk.Is("trailer") {
			_, _ = lx.Next()
			break
		}
		if err := parseClassicSubsection(lx, entries); err != nil {
			return Section{}, err
		}
	}

	p := objects.FromLexer(lx, objects.NoResolve, nil)
	obj, err := p.ParseObject()
	if err != nil {
		return Section{}, pdferr.Wrap(pdferr.InvalidXref, err, "parsing trailer dictionary")
	}
	trailer, ok := obj.(objects.Dict)
	if !ok {
		return Section{}, pdferr.New(pdferr.InvalidXref, "trailer is not a dictionary")
	}

	prev, _ := offsetFromObject(trailer["Prev"])
	hybrid, _ := objects.AsInt(trailer["XRefStm"])

	return Section{Entries: entries, Trailer: trailer, PrevOffset: prev, HybridXRefStm: hybrid}, nil
}

func parseClassicSubsection(lx *lexer.Lexer, entries map[uint32]Entry) error {
	startTk, err := lx.Next()
	if err != nil {
		return err
	}
	start, err := startTk.ToUint()
	if err != nil {
		return pdferr.Wrap(pdferr.InvalidXref, err, "invalid subsection start object number")
	}
	countTk, err := lx.Next()
	if err != nil {
		return err
	}
	count, err := countTk.ToUint()
	if err != nil {
		return pdferr.Wrap(pdferr.InvalidXref, err, "invalid subsection count")
	}

	for i := uint64(0); i < count; i++ {
		objNumber := uint32(start + i)
		offsetTk, err := lx.Next()
		if err != nil {
			return err
		}
		offset, err := offsetTk.ToInt()
		if err != nil {
			return pdferr.Wrap(pdferr.InvalidXref, err, "invalid xref entry offset")
		}
		genTk, err := lx.Next()
		if err != nil {
			return err
		}
		gen, err := genTk.ToUint()
		if err != nil {
			return pdferr.Wrap(pdferr.InvalidXref, err, "invalid xref entry generation")
		}
		typeTk, err := lx.Next()
		if err != nil {
			return err
		}
		var kind EntryKind
		switch {
		case typeTk.Is("n"):
			kind = Raw
		case typeTk.Is("f"):
			kind = Free
		default:
			return pdferr.New(pdferr.InvalidXref, "corrupt xref subsection entry for object %d", objNumber)
		}
		if kind == Raw && offset == 0 {
			// Skip entries some writers emit for in-use objects at
			// offset 0 (never valid: offset 0 is always the header).
			continue
		}
		if _, exists := entries[objNumber]; exists {
			continue // multiple subsections in one section: first wins
		}
		e := Entry{Kind: kind, Generation: uint16(gen)}
		if kind == Free {
			e.NextFree = uint32(offset) // classic format stores next-free object number here
		} else {
			e.Offset = offset
		}
		entries[objNumber] = e
	}
	return nil
}

func offsetFromObject(o objects.Primitive) (int64, bool) {
	switch v := o.(type) {
	case objects.Integer:
		return int64(v), true
	case objects.Reference:
		// Some non-conformant writers emit "/Prev NNN 0 R" instead of
		// "/Prev NNN"; accept both.
		return int64(v.Number), true
	default:
		return 0, false
	}
}

// StreamDict is the subset of an xref stream's dictionary describing its
// encoding: W/Index/Size/Prev (7.5.8).
type StreamDict struct {
	W      [3]int
	Index  [][2]int // pairs of (firstObjectNumber, count)
	Size   int
	Length int
	Prev   int64
}

// count returns the total number of entries the Index subsections
// describe.
func (d StreamDict) count() int {
	total := 0
	for _, sub := range d.Index {
		total += sub[1]
	}
	return total
}

func (d StreamDict) entrySize() int { return d.W[0] + d.W[1] + d.W[2] }

// ParseStreamDict extracts the xref-stream-specific keys from a stream's
// dictionary (the stream's raw/decoded bytes are handled by the caller,
// which owns decompression via the Filter collaborator).
func ParseStreamDict(d objects.Dict) (StreamDict, error) {
	var out StreamDict

	out.Prev, _ = offsetFromObject(d["Prev"])

	length, ok := objects.AsInt(d["Length"])
	if !ok {
		return out, pdferr.New(pdferr.InvalidXref, "xref stream missing /Length")
	}
	out.Length = int(length)

	size, ok := objects.AsInt(d["Size"])
	if !ok {
		return out, pdferr.New(pdferr.InvalidXref, "xref stream missing /Size")
	}
	out.Size = int(size)

	if indArr, ok := objects.AsArray(d["Index"]); ok && len(indArr) != 0 {
		if len(indArr)%2 != 0 {
			return out, pdferr.New(pdferr.InvalidXref, "corrupted /Index entry")
		}
		out.Index = make([][2]int, len(indArr)/2)
		for i := range out.Index {
			startObj, ok1 := objects.AsInt(indArr[i*2])
			count, ok2 := objects.AsInt(indArr[i*2+1])
			if !ok1 || !ok2 {
				return out, pdferr.New(pdferr.InvalidXref, "corrupted /Index entry")
			}
			out.Index[i] = [2]int{int(startObj), int(count)}
		}
	} else {
		out.Index = [][2]int{{0, out.Size}}
	}

	w, ok := objects.AsArray(d["W"])
	if !ok || len(w) < 3 {
		return out, pdferr.New(pdferr.XRefStreamType, "xref stream /W must be an array of 3 integers")
	}
	for i := 0; i < 3; i++ {
		v, ok := objects.AsInt(w[i])
		if !ok || v < 0 {
			return out, pdferr.New(pdferr.XRefStreamType, "xref stream /W entries must be non-negative integers")
		}
		out.W[i] = int(v)
	}
	return out, nil
}

// DecodeStreamEntries decodes an already filter-decoded xref stream
// payload into entries, per 7.5.8.2/7.5.8.3. type 0=free, 1=raw,
// 2=compressed; a missing (zero-width) field defaults per the spec: an
// absent type defaults to 1, an absent generation defaults to 0.
//
// Grounded in the teacher's extractXRefTableEntriesFromXRefStream.
func DecodeStreamEntries(buf []byte, d StreamDict) (map[uint32]Entry, error) {
	entrySize, count := d.entrySize(), d.count()
	need := count * entrySize
	if len(buf) < need {
		return nil, pdferr.New(pdferr.InvalidXref, "corrupt xref stream: have %d bytes, need %d", len(buf), need)
	}
	buf = buf[:need] // tolerate trailing padding some writers emit

	w0, w1, w2 := d.W[0], d.W[1], d.W[2]
	entries := make(map[uint32]Entry, count)

	j := 0
	for _, sub := range d.Index {
		first, n := sub[0], sub[1]
		for i := 0; i < n; i++ {
			objNumber := uint32(first + i)
			off := j * entrySize
			typ := int64(1)
			if w0 > 0 {
				typ = bufToInt64(buf[off : off+w0])
			}
			f1 := bufToInt64(buf[off+w0 : off+w0+w1])
			f2 := bufToInt64(buf[off+w0+w1 : off+w0+w1+w2])

			var e Entry
			switch typ {
			case 0:
				e = Entry{Kind: Free, NextFree: uint32(f1), Generation: uint16(f2)}
			case 1:
				e = Entry{Kind: Raw, Offset: f1, Generation: uint16(f2)}
			case 2:
				e = Entry{Kind: Compressed, Container: uint32(f1), Slot: int(f2)}
			default:
				return nil, pdferr.New(pdferr.XRefStreamType, "unknown xref stream entry type %d", typ)
			}
			entries[objNumber] = e
			j++
		}
	}
	return entries, nil
}

func bufToInt64(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}
