// Package repair rebuilds a usable cross-reference table by scanning a
// PDF byte stream for "N G obj" markers, for use when xref parsing fails
// or the trailer's Root does not resolve (spec.md §4.9). It never
// succeeds silently: every caller is expected to log the warning this
// implies.
package repair

import (
	"github.com/go-pdfkit/pdfcore/lexer"
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
	"github.com/go-pdfkit/pdfcore/xref"
)

// Scan rebuilds an xref.Table and a trailer dictionary from scratch by
// tokenizing the whole input looking for indirect-object declarations
// and the "trailer" keyword.
//
// Grounded in the teacher's reader/file/read.go bypassXrefSection /
// parseObjectDeclaration, but driven off this module's own token stream
// (rather than a line reader) so scanning shares the same bounded,
// deterministic cost model as the rest of the lexer (spec.md §5
// "Cancellation/timeout": long scans must bound work by input length).
func Scan(data []byte) (*xref.Table, objects.Dict, error) {
	table := xref.NewTable()
	table.Set(0, xref.Entry{Kind: xref.Free, NextFree: 0})

	lx := lexer.New(data)
	var trailer objects.Dict

	var prevTok, prevPrevTok lexer.Token
	var prevPos, prevPrevPos int
	havePrev, havePrevPrev := false, false

	for {
		tk, err := lx.Next()
		if err != nil {
			return nil, nil, err
		}
		if tk.Kind == lexer.EOF {
			break
		}
		pos := lx.Pos() - len(tk.Value) // start of the token just read

		switch {
		case tk.Is("obj") && havePrev && havePrevPrev &&
			prevPrevTok.Kind == lexer.Integer && prevTok.Kind == lexer.Integer:
			recordObject(table, prevPrevTok, prevTok, prevPrevPos)

		case tk.Is("trailer"):
			p := objects.FromLexer(lx, objects.NoResolve, nil)
			obj, err := p.ParseObject()
			if err == nil {
				if d, ok := obj.(objects.Dict); ok {
					trailer = mergeTrailer(trailer, d)
				}
			}
		}

		prevPrevTok, prevPrevPos = prevTok, prevPos
		prevTok, prevPos = tk, pos
		havePrevPrev, havePrev = havePrev, true
	}

	if trailer == nil {
		var err error
		trailer, err = trailerFromXRefStream(data, table)
		if err != nil {
			return nil, nil, err
		}
	}
	if trailer == nil {
		return nil, nil, pdferr.New(pdferr.InvalidXref, "repair: no trailer or /Type /XRef stream found")
	}

	return table, trailer, nil
}

// recordObject installs a Raw entry for object number/generation at
// offset; a later (higher-offset) declaration for the same object number
// always overwrites an earlier one, so a forward scan naturally resolves
// duplicates to the latest revision.
func recordObject(table *xref.Table, numTok, genTok lexer.Token, offset int) {
	n, err := numTok.ToUint()
	if err != nil {
		return
	}
	g, err := genTok.ToUint()
	if err != nil {
		return
	}
	table.Set(uint32(n), xref.Entry{Kind: xref.Raw, Offset: int64(offset), Generation: uint16(g)})
}

// mergeTrailer keeps dest's existing keys but fills in anything new found
// in src, so that a later (smaller, incremental) trailer section doesn't
// erase keys only present in an earlier one within the same scan.
func mergeTrailer(dest, src objects.Dict) objects.Dict {
	if dest == nil {
		return src
	}
	for k, v := range src {
		dest[k] = v
	}
	return dest
}

// trailerFromXRefStream handles files whose only "trailer" is the
// dictionary of a cross-reference stream (/Type /XRef): scan recorded
// objects for one whose dictionary declares that type and carries /Root,
// preferring the highest offset (latest revision).
func trailerFromXRefStream(data []byte, table *xref.Table) (objects.Dict, error) {
	var best objects.Dict
	var bestOffset int64 = -1

	for _, num := range table.ObjectNumbers() {
		entry := table.Get(num)
		if entry.Kind != xref.Raw || entry.Offset <= bestOffset {
			continue
		}
		lx := lexer.New(data)
		lx.SetPos(int(entry.Offset))
		if _, err := lx.Next(); err != nil { // object number
			continue
		}
		if _, err := lx.Next(); err != nil { // generation
			continue
		}
		if err := lx.NextExpect("obj"); err != nil {
			continue
		}
		p := objects.FromLexer(lx, objects.NoResolve, nil)
		obj, err := p.ParseObject()
		if err != nil {
			continue
		}
		var d objects.Dict
		switch v := obj.(type) {
		case objects.Stream:
			d = v.Dict
		case objects.Dict:
			d = v
		default:
			continue
		}
		if d["Type"] == objects.Name("XRef") {
			if _, hasRoot := d["Root"]; hasRoot {
				best = d
				bestOffset = entry.Offset
			}
		}
	}
	return best, nil
}
