// Package objstm decodes object streams (7.5.7): regular streams with
// /Type /ObjStm whose decoded payload packs several compressed indirect
// objects behind a small "N pairs of (object number, offset)" prolog.
package objstm

import (
	"bytes"
	"strconv"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// Container is a parsed object stream: the object numbers it carries and
// the byte range, within the decoded payload, of each one's sub-object.
type Container struct {
	ObjectNumbers []uint32
	offsets       []int
	decoded       []byte
	Extends       *objects.Reference
}

// NObjects returns N, the number of sub-objects this container holds.
func (c *Container) NObjects() int {
	return len(c.ObjectNumbers)
}

// ObjectSlice returns the byte slice, within the decoded payload, that
// holds slot's sub-object. Compressed objects never themselves contain
// streams, so this is always a self-contained direct-object slice.
func (c *Container) ObjectSlice(slot int) ([]byte, error) {
	if slot < 0 || slot >= len(c.offsets) {
		return nil, pdferr.New(pdferr.PageOutOfBounds, "object stream slot %d out of bounds (N=%d)", slot, len(c.offsets))
	}
	start := c.offsets[slot]
	end := len(c.decoded)
	if slot+1 < len(c.offsets) {
		end = c.offsets[slot+1]
	}
	if start > len(c.decoded) || end > len(c.decoded) || start > end {
		return nil, pdferr.New(pdferr.ContentReadPastBoundary, "object stream slot %d offset out of bounds", slot)
	}
	return c.decoded[start:end], nil
}

// Parse builds a Container from an object stream's dictionary and its
// already filter-decoded payload.
func Parse(dict objects.Dict, decoded []byte) (*Container, error) {
	n, ok := objects.AsInt(dict["N"])
	if !ok {
		return nil, pdferr.New(pdferr.MissingRequiredKey, "object stream missing /N")
	}
	first, ok := objects.AsInt(dict["First"])
	if !ok {
		return nil, pdferr.New(pdferr.MissingRequiredKey, "object stream missing /First")
	}
	if int(first) > len(decoded) {
		return nil, pdferr.New(pdferr.ContentReadPastBoundary, "object stream /First %d exceeds payload length %d", first, len(decoded))
	}

	// the separator is required to be white space, but some writers emit
	// NUL bytes between prolog fields.
	prolog := bytes.ReplaceAll(decoded[:first], []byte{0x00}, []byte{0x20})
	fields := bytes.Fields(prolog)
	if len(fields) != int(n)*2 {
		return nil, pdferr.New(pdferr.InvalidXref, "object stream prolog has %d fields, expected %d for N=%d", len(fields), n*2, n)
	}

	numbers := make([]uint32, n)
	offsets := make([]int, n)
	for i := range numbers {
		num, err := strconv.ParseUint(string(fields[2*i]), 10, 32)
		if err != nil {
			return nil, pdferr.Wrap(pdferr.InvalidXref, err, "object stream prolog object number")
		}
		off, err := strconv.Atoi(string(fields[2*i+1]))
		if err != nil {
			return nil, pdferr.Wrap(pdferr.InvalidXref, err, "object stream prolog offset")
		}
		numbers[i] = uint32(num)
		offsets[i] = off + int(first)
		if offsets[i] > len(decoded) {
			return nil, pdferr.New(pdferr.ContentReadPastBoundary, "object stream slot %d offset %d exceeds payload length %d", i, offsets[i], len(decoded))
		}
	}

	c := &Container{ObjectNumbers: numbers, offsets: offsets, decoded: decoded}
	if ext, ok := dict["Extends"].(objects.Reference); ok {
		c.Extends = &ext
	}
	return c, nil
}
