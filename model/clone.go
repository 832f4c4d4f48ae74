package model

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/storage"
)

// pageCloner implements spec.md §4.6's deep-clone across storages for
// the "extract one page" case: walk the typed record, recursively copy
// referenced objects, map each previously-seen source object number to
// a promise in the destination, and fulfill it once its value has been
// copied. Grounded in the teacher's model.Document.Clone, generalized
// from a same-storage pointer clone (map[*T]*T) to a cross-storage
// promise/fulfill clone (map[uint32]storage.Ref[T]-shaped bookkeeping,
// one map per concrete type since Go generics can't key a single map
// by "any T").
type pageCloner struct {
	src, dst *storage.Storage

	pages     map[uint32]Ref[PagesNode]
	resources map[uint32]Ref[Resources]
	fonts     map[uint32]Ref[Font]
	xobjects  map[uint32]Ref[XObject]
	patterns  map[uint32]Ref[Pattern]
}

// ClonePage copies the page at ref (and everything it references: its
// Resources, the fonts/XObjects/patterns named there, recursively for
// Form XObjects) from src into dst, returning the corresponding ref in
// dst. The page's Parent link is dropped: the caller is expected to
// attach the cloned page under a PagesNode tree of its own in dst
// (spec.md's deep-clone note only promises "preserves sharing and
// breaks no cycles" for the subgraph being copied, not reinsertion).
func ClonePage(src, dst *storage.Storage, ref Ref[PagesNode]) (Ref[PagesNode], error) {
	c := &pageCloner{
		src: src, dst: dst,
		pages:     map[uint32]Ref[PagesNode]{},
		resources: map[uint32]Ref[Resources]{},
		fonts:     map[uint32]Ref[Font]{},
		xobjects:  map[uint32]Ref[XObject]{},
		patterns:  map[uint32]Ref[Pattern]{},
	}
	return c.clonePage(ref)
}

func (c *pageCloner) clonePage(ref Ref[PagesNode]) (Ref[PagesNode], error) {
	if r, ok := c.pages[ref.Number]; ok {
		return r, nil
	}
	promise := storage.NewPromise[PagesNode](c.dst)
	c.pages[ref.Number] = promise.Ref()

	page, err := storage.Get[PagesNode, *PagesNode](c.src, ref)
	if err != nil {
		return Ref[PagesNode]{}, err
	}

	clone := *page
	clone.Parent = nil
	clone.Annots = nil // annotation widgets are page-specific UI state, not copied by a content extraction

	if len(page.Contents) > 0 {
		contents, err := c.cloneContents(page.Contents)
		if err != nil {
			return Ref[PagesNode]{}, err
		}
		clone.Contents = contents
	}

	if page.Resources != nil {
		r, err := c.cloneResources(*page.Resources)
		if err != nil {
			return Ref[PagesNode]{}, err
		}
		clone.Resources = &r
	}

	fulfilled, err := storage.Fulfill[PagesNode](c.dst, &promise, &clone)
	if err != nil {
		return Ref[PagesNode]{}, err
	}
	c.pages[ref.Number] = fulfilled
	return fulfilled, nil
}

func (c *pageCloner) cloneResources(ref Ref[Resources]) (Ref[Resources], error) {
	if r, ok := c.resources[ref.Number]; ok {
		return r, nil
	}
	res, err := storage.Get[Resources, *Resources](c.src, ref)
	if err != nil {
		return Ref[Resources]{}, err
	}
	promise := storage.NewPromise[Resources](c.dst)
	c.resources[ref.Number] = promise.Ref()

	clone := Resources{
		ExtGState:  res.ExtGState,
		ColorSpace: res.ColorSpace,
		Shading:    res.Shading,
		Other:      res.Other,
	}
	if len(res.Font) > 0 {
		clone.Font = make(map[objects.Name]Ref[Font], len(res.Font))
		for name, fref := range res.Font {
			cr, err := c.cloneFont(fref)
			if err != nil {
				return Ref[Resources]{}, err
			}
			clone.Font[name] = cr
		}
	}
	if len(res.XObject) > 0 {
		clone.XObject = make(map[objects.Name]Ref[XObject], len(res.XObject))
		for name, xref := range res.XObject {
			cr, err := c.cloneXObject(xref)
			if err != nil {
				return Ref[Resources]{}, err
			}
			clone.XObject[name] = cr
		}
	}
	if len(res.Pattern) > 0 {
		clone.Pattern = make(map[objects.Name]Ref[Pattern], len(res.Pattern))
		for name, pref := range res.Pattern {
			cr, err := c.clonePattern(pref)
			if err != nil {
				return Ref[Resources]{}, err
			}
			clone.Pattern[name] = cr
		}
	}

	fulfilled, err := storage.Fulfill[Resources](c.dst, &promise, &clone)
	if err != nil {
		return Ref[Resources]{}, err
	}
	c.resources[ref.Number] = fulfilled
	return fulfilled, nil
}

func (c *pageCloner) cloneFont(ref Ref[Font]) (Ref[Font], error) {
	if r, ok := c.fonts[ref.Number]; ok {
		return r, nil
	}
	f, err := storage.Get[Font, *Font](c.src, ref)
	if err != nil {
		return Ref[Font]{}, err
	}
	clone := *f
	newRef, err := storage.Create[Font](c.dst, &clone)
	if err != nil {
		return Ref[Font]{}, err
	}
	c.fonts[ref.Number] = newRef
	return newRef, nil
}

func (c *pageCloner) cloneXObject(ref Ref[XObject]) (Ref[XObject], error) {
	if r, ok := c.xobjects[ref.Number]; ok {
		return r, nil
	}
	x, err := storage.Get[XObject, *XObject](c.src, ref)
	if err != nil {
		return Ref[XObject]{}, err
	}
	clone := *x
	if x.Resources != nil {
		r, err := c.cloneResources(*x.Resources)
		if err != nil {
			return Ref[XObject]{}, err
		}
		clone.Resources = &r
	}
	newRef, err := storage.Create[XObject](c.dst, &clone)
	if err != nil {
		return Ref[XObject]{}, err
	}
	c.xobjects[ref.Number] = newRef
	return newRef, nil
}

func (c *pageCloner) clonePattern(ref Ref[Pattern]) (Ref[Pattern], error) {
	if r, ok := c.patterns[ref.Number]; ok {
		return r, nil
	}
	p, err := storage.Get[Pattern, *Pattern](c.src, ref)
	if err != nil {
		return Ref[Pattern]{}, err
	}
	clone := *p
	if p.Resources != nil {
		r, err := c.cloneResources(*p.Resources)
		if err != nil {
			return Ref[Pattern]{}, err
		}
		clone.Resources = &r
	}
	newRef, err := storage.Create[Pattern](c.dst, &clone)
	if err != nil {
		return Ref[Pattern]{}, err
	}
	c.patterns[ref.Number] = newRef
	return newRef, nil
}

// rawObject passes a resolved Primitive through Create unchanged: the
// content codec (not yet wired here) owns re-encoding a content
// stream's filter chain, so cloning a page's Contents only needs to
// copy the already-decoded bytes into a fresh object in dst, not
// reinterpret them.
type rawObject struct {
	Prim objects.Primitive
}

func (r *rawObject) DecodeFrom(p objects.Primitive, _ *storage.Storage) error {
	r.Prim = p
	return nil
}

func (r *rawObject) EncodeTo(_ *storage.Storage) (objects.Primitive, error) {
	return r.Prim, nil
}

func (c *pageCloner) cloneContents(refs []objects.Reference) ([]objects.Reference, error) {
	out := make([]objects.Reference, len(refs))
	for i, ref := range refs {
		prim, err := c.src.Resolve(ref)
		if err != nil {
			return nil, err
		}
		newRef, err := storage.Create[rawObject](c.dst, &rawObject{Prim: prim})
		if err != nil {
			return nil, err
		}
		out[i] = newRef.Reference
	}
	return out, nil
}
