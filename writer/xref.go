package writer

import (
	"bytes"
	"compress/zlib"
	"sort"

	"github.com/go-pdfkit/pdfcore/objects"
)

// rowKind mirrors xref.EntryKind's three on-wire kinds (free, raw,
// compressed) for the rows this session's writer ever emits: a writer
// never compresses objects into object streams of its own (spec.md
// §4.8 only requires it to preserve existing compressed entries
// untouched across an incremental save, which is why rowCompressed
// exists without this package ever constructing one in fresh mode).
type rowKind uint8

const (
	rowFree rowKind = iota
	rowRaw
	rowCompressed
)

// xrefRow is one entry destined for the xref stream being built: either
// a free-list link, an in-use object's byte offset, or a compressed
// object's (container, slot) pair.
type xrefRow struct {
	kind rowKind
	// offset is the byte offset for rowRaw, or the next free object
	// number (0 for the chain's terminal link) for rowFree.
	offset     int64
	generation uint16
	container  uint32
	slot       int
}

// bytesFor returns the minimum number of bytes needed to hold v (0 for
// v == 0; buildXRefStream raises a 0 width to 1, so no field is omitted).
func bytesFor(v int64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 8
	}
	return n
}

// buildXRefStream renders rows into an xref stream Primitive (spec.md
// §4.8), computing W post-hoc from the actual widths needed and
// emitting the index as contiguous runs of consecutive object numbers.
//
// Grounded in xref.DecodeStreamEntries's byte-width arithmetic (7.5.8.2
// /7.5.8.3), run in reverse: here we encode big-endian fixed-width
// fields instead of decoding them.
func buildXRefStream(rows map[uint32]xrefRow, trailer objects.Dict) objects.Stream {
	nums := make([]uint32, 0, len(rows))
	for n := range rows {
		nums = append(nums, n)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	var maxField1, maxField2 int64
	for _, row := range rows {
		switch row.kind {
		case rowFree:
			if row.offset > maxField1 {
				maxField1 = row.offset
			}
			if int64(row.generation) > maxField2 {
				maxField2 = int64(row.generation)
			}
		case rowRaw:
			if row.offset > maxField1 {
				maxField1 = row.offset
			}
			if int64(row.generation) > maxField2 {
				maxField2 = int64(row.generation)
			}
		case rowCompressed:
			if int64(row.container) > maxField1 {
				maxField1 = int64(row.container)
			}
			if int64(row.slot) > maxField2 {
				maxField2 = int64(row.slot)
			}
		}
	}

	w1, w2 := bytesFor(maxField1), bytesFor(maxField2)
	if w1 == 0 {
		w1 = 1
	}
	if w2 == 0 {
		w2 = 1
	}
	w := [3]int{1, w1, w2}

	index := buildIndex(nums)

	body := make([]byte, 0, len(nums)*(w[0]+w[1]+w[2]))
	for _, num := range nums {
		row := rows[num]
		switch row.kind {
		case rowFree:
			body = appendBE(body, 0, w[0])
			body = appendBE(body, row.offset, w[1])
			body = appendBE(body, int64(row.generation), w[2])
		case rowRaw:
			body = appendBE(body, 1, w[0])
			body = appendBE(body, row.offset, w[1])
			body = appendBE(body, int64(row.generation), w[2])
		case rowCompressed:
			body = appendBE(body, 2, w[0])
			body = appendBE(body, int64(row.container), w[1])
			body = appendBE(body, int64(row.slot), w[2])
		}
	}

	d := make(objects.Dict, len(trailer)+5)
	for k, v := range trailer {
		d[k] = v
	}
	d["Type"] = objects.Name("XRef")
	d["W"] = objects.Array{objects.Integer(w[0]), objects.Integer(w[1]), objects.Integer(w[2])}
	d["Index"] = indexToArray(index)
	d["Filter"] = objects.Name("FlateDecode")

	return objects.Stream{Dict: d, Content: flateEncode(body)}
}

// flateEncode compresses body with zlib, matching the filter package's
// flateFilter.Encode (not called directly here to keep writer decoupled
// from the Filter/Registry resolution machinery that package exists for).
func flateEncode(body []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write(body)
	_ = w.Close()
	return buf.Bytes()
}

// buildIndex groups sorted object numbers into contiguous (first,
// count) runs, matching how a conformant writer emits /Index rather
// than one run per object (7.5.8.2).
func buildIndex(sortedNums []uint32) [][2]int {
	var index [][2]int
	for i := 0; i < len(sortedNums); {
		start := sortedNums[i]
		j := i + 1
		for j < len(sortedNums) && sortedNums[j] == sortedNums[j-1]+1 {
			j++
		}
		index = append(index, [2]int{int(start), j - i})
		i = j
	}
	return index
}

func indexToArray(index [][2]int) objects.Array {
	arr := make(objects.Array, 0, len(index)*2)
	for _, sub := range index {
		arr = append(arr, objects.Integer(sub[0]), objects.Integer(sub[1]))
	}
	return arr
}

func appendBE(buf []byte, v int64, width int) []byte {
	for i := width - 1; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}
