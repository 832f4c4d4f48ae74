// Package writer implements spec.md §4.8's incremental writer: it turns
// a Storage's pending writes into either a fresh PDF file or an
// incremental update section appended to the original bytes.
//
// Grounded in the teacher's writer/writer.go allocate/write-object
// bookkeeping (objOffsets, allocateObject, writeObject), generalized
// from the teacher's single from-scratch Write pass to both a fresh and
// an incremental mode, and from the teacher's classic xref table to an
// xref stream (preferred per spec.md §4.8).
package writer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/storage"
)

func init() {
	storage.RegisterWriter(save)
}

// save dispatches to fresh or incremental mode depending on whether s
// has backend bytes to preserve.
func save(s *storage.Storage, trailer objects.Dict) ([]byte, error) {
	if s.Backend() == nil {
		return writeFresh(s, trailer)
	}
	return writeIncremental(s, trailer)
}

// sortedPendingNumbers returns the object numbers in s's pending writes
// in ascending order, for deterministic output byte-for-byte across
// repeated saves of the same mutations (spec.md §8's incremental-save
// idempotence property).
func sortedPendingNumbers(pending map[uint32]storage.PendingWrite) []uint32 {
	nums := make([]uint32, 0, len(pending))
	for n := range pending {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums
}

// writeFresh implements the "Fresh" mode (spec.md §4.8): header, every
// pending object, an xref stream, then the trailer/startxref/%%EOF.
func writeFresh(s *storage.Storage, trailer objects.Dict) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	// a binary-safe comment with four high-bit bytes, so naive
	// line-oriented tools recognise the file as binary immediately.
	buf.Write([]byte{'%', 0xE2, 0xE3, 0xCF, 0xD3, '\n'})

	pending := s.PendingWrites()
	rows := make(map[uint32]xrefRow, len(pending)+1)
	// object 0 is always the free list head, conventionally generation
	// 65535 (7.5.4): it is never reused, since it terminates the chain.
	rows[0] = xrefRow{kind: rowFree, generation: 65535}

	for _, num := range sortedPendingNumbers(pending) {
		pw := pending[num]
		offset := buf.Len()
		if err := writeIndirectObject(&buf, num, pw.Generation, pw.Value); err != nil {
			return nil, err
		}
		rows[num] = xrefRow{kind: rowRaw, offset: int64(offset), generation: pw.Generation}
	}

	xrefObjNum := s.Size()

	trailer = cloneTrailer(trailer)
	trailer["Size"] = objects.Integer(xrefObjNum + 1)

	return finishWithXRefStream(&buf, rows, xrefObjNum, trailer)
}

// writeIncremental implements the "Incremental" mode (spec.md §4.8):
// the original bytes verbatim, followed by only the new/updated
// objects and a fresh xref section chained onto the previous one via
// /Prev.
func writeIncremental(s *storage.Storage, trailer objects.Dict) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(s.Backend())

	pending := s.PendingWrites()
	rows := make(map[uint32]xrefRow, len(pending)+1)

	base := buf.Len()
	for _, num := range sortedPendingNumbers(pending) {
		pw := pending[num]
		offset := buf.Len() - base
		if err := writeIndirectObject(&buf, num, pw.Generation, pw.Value); err != nil {
			return nil, err
		}
		rows[num] = xrefRow{kind: rowRaw, offset: int64(base) + int64(offset), generation: pw.Generation}
	}

	xrefObjNum := s.Size()

	trailer = cloneTrailer(trailer)
	trailer["Size"] = objects.Integer(xrefObjNum + 1)
	if prev := s.PrevStartXref(); prev != 0 {
		trailer["Prev"] = objects.Integer(prev)
	}

	return finishWithXRefStream(&buf, rows, xrefObjNum, trailer)
}

func cloneTrailer(trailer objects.Dict) objects.Dict {
	out := make(objects.Dict, len(trailer)+2)
	for k, v := range trailer {
		out[k] = v
	}
	return out
}

// writeIndirectObject renders "num gen obj\n<body>\nendobj\n" into buf.
func writeIndirectObject(buf *bytes.Buffer, num uint32, gen uint16, prim objects.Primitive) error {
	fmt.Fprintf(buf, "%d %d obj\n", num, gen)
	if err := encodePrimitive(buf, prim); err != nil {
		return err
	}
	buf.WriteString("\nendobj\n")
	return nil
}

// encodePrimitive writes prim's canonical wire form. Every Primitive
// except Stream already renders correctly via its String method (shared
// with the content package's operand formatting); Stream needs its own
// body+/Length handling since its String is a debug summary, not valid
// PDF syntax.
func encodePrimitive(buf *bytes.Buffer, prim objects.Primitive) error {
	st, ok := prim.(objects.Stream)
	if !ok {
		buf.WriteString(prim.String())
		return nil
	}

	d := make(objects.Dict, len(st.Dict)+1)
	for k, v := range st.Dict {
		d[k] = v
	}
	d["Length"] = objects.Integer(len(st.Content))

	buf.WriteString(d.String())
	buf.WriteString("\nstream\n")
	buf.Write(st.Content)
	buf.WriteString("\nendstream")
	return nil
}

func finishWithXRefStream(buf *bytes.Buffer, rows map[uint32]xrefRow, xrefObjNum uint32, trailer objects.Dict) ([]byte, error) {
	offset := buf.Len()
	rows[xrefObjNum] = xrefRow{kind: rowRaw, offset: int64(offset)}

	xrefStream := buildXRefStream(rows, trailer)
	if err := writeIndirectObject(buf, xrefObjNum, 0, xrefStream); err != nil {
		return nil, err
	}
	fmt.Fprintf(buf, "startxref\n%d\n%%%%EOF", offset)
	return buf.Bytes(), nil
}
