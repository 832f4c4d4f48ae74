package storage

import (
	"github.com/go-pdfkit/pdfcore/filter"
	"github.com/go-pdfkit/pdfcore/lexer"
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/repair"
	"github.com/go-pdfkit/pdfcore/xref"
)

// composeXref locates the final startxref, then walks the Prev chain
// (and any hybrid-file XRefStm) composing sections newest-first so the
// first (most recent) entry for any object number wins.
//
// Grounded in the teacher's file_pdf.go processPDFFile /
// buildXRefTableStartingAt loop, generalized to also merge trailer keys
// across the chain (spec.md §4.3 requires the merged trailer, not just
// the first section's).
func composeXref(data []byte) (*xref.Table, objects.Dict, error) {
	offset, err := findStartXref(data)
	if err != nil {
		return nil, nil, err
	}

	table := xref.NewTable()
	table.Set(0, xref.Entry{Kind: xref.Free, NextFree: 0})
	trailer := objects.Dict{}
	visited := map[int64]bool{}

	for offset != 0 {
		if visited[offset] {
			return nil, nil, pdferr.New(pdferr.InvalidXref, "xref Prev chain cycles back to offset %d", offset)
		}
		visited[offset] = true

		sec, isStream, err := parseSectionAt(data, offset)
		if err != nil {
			return nil, nil, err
		}
		composeSection(table, sec)
		mergeTrailerNewestWins(trailer, sec.Trailer)

		if !isStream && sec.HybridXRefStm != 0 && !visited[sec.HybridXRefStm] {
			visited[sec.HybridXRefStm] = true
			hybrid, _, err := parseSectionAt(data, sec.HybridXRefStm)
			if err != nil {
				return nil, nil, err
			}
			composeSection(table, hybrid)
		}

		offset = sec.PrevOffset
	}

	if _, ok := trailer["Root"]; !ok {
		return nil, nil, pdferr.New(pdferr.MissingRequiredKey, "composed trailer is missing /Root")
	}
	return table, trailer, nil
}

func composeSection(table *xref.Table, sec xref.Section) {
	for num, e := range sec.Entries {
		table.Compose(num, e)
	}
	if size, ok := objects.AsInt(sec.Trailer["Size"]); ok {
		table.SetSize(uint32(size))
	}
}

func mergeTrailerNewestWins(dest, src objects.Dict) {
	for k, v := range src {
		if _, exists := dest[k]; !exists {
			dest[k] = v
		}
	}
}

// parseSectionAt parses either a classic xref table or an xref stream
// located at offset, detected by whether the next keyword is "xref".
func parseSectionAt(data []byte, offset int64) (xref.Section, bool, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return xref.Section{}, false, pdferr.New(pdferr.InvalidXref, "xref section offset %d out of bounds", offset)
	}
	lx := lexer.New(data)
	lx.SetPos(int(offset))

	tk, err := lx.Peek()
	if err != nil {
		return xref.Section{}, false, err
	}
	if tk.Is("xref") {
		_, _ = lx.Next()
		sec, err := xref.ParseClassicSection(lx)
		return sec, false, err
	}

	// xref stream: "N G obj << ... >> stream ... endstream"
	if _, err := lx.Next(); err != nil { // object number
		return xref.Section{}, false, err
	}
	if _, err := lx.Next(); err != nil { // generation
		return xref.Section{}, false, err
	}
	if err := lx.NextExpect("obj"); err != nil {
		return xref.Section{}, true, err
	}
	p := objects.FromLexer(lx, objects.NoResolve, nil)
	obj, err := p.ParseObject()
	if err != nil {
		return xref.Section{}, true, err
	}
	st, ok := obj.(objects.Stream)
	if !ok {
		return xref.Section{}, true, pdferr.New(pdferr.XRefStreamType, "xref stream object is not a stream")
	}

	sd, err := xref.ParseStreamDict(st.Dict)
	if err != nil {
		return xref.Section{}, true, err
	}
	decoded, err := decodeXRefStreamContent(st)
	if err != nil {
		return xref.Section{}, true, err
	}
	entries, err := xref.DecodeStreamEntries(decoded, sd)
	if err != nil {
		return xref.Section{}, true, err
	}
	return xref.Section{Entries: entries, Trailer: st.Dict, PrevOffset: sd.Prev}, true, nil
}

// decodeXRefStreamContent decodes an xref stream's payload using a fresh
// Filter registry: at this point in Open we have no Storage yet (the
// xref table is still being composed), and xref streams are never
// themselves encrypted (7.5.8.2), so no Storage/cipher is needed.
func decodeXRefStreamContent(st objects.Stream) ([]byte, error) {
	chain, err := filter.ParseChain(filter.NewRegistry(), st.Dict["Filter"], st.Dict["DecodeParms"])
	if err != nil {
		return nil, err
	}
	return chain.Decode(st.Content)
}

func findStartXref(data []byte) (int64, error) {
	lx := lexer.New(data)
	lx.SetPos(len(data))
	if _, ok := lx.SeekSubstrBack([]byte("startxref")); !ok {
		return 0, pdferr.New(pdferr.InvalidXref, "no startxref found")
	}
	tk, err := lx.Next()
	if err != nil {
		return 0, err
	}
	off, err := tk.ToInt()
	if err != nil {
		return 0, pdferr.Wrap(pdferr.InvalidXref, err, "invalid startxref offset")
	}
	return off, nil
}

func repairXref(data []byte) (*xref.Table, objects.Dict, error) {
	return repair.Scan(data)
}
