package storage

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/go-pdfkit/pdfcore/objects"
)

// ResolveAll resolves many references concurrently against a read-only
// Clone of s, useful for warming the decoded-object cache before a
// page-tree walk or a content-stream scan touches every object on its
// own. The decoded-object cache is shared with s (spec.md §5), so the
// work done here is visible to subsequent calls on s itself.
//
// Grounded on benoitkugler-pdf's reader package using a worker-pool
// shape for bulk page resolution (its reader/parser.go resolveObject
// concurrency comment), adapted here to x/sync/errgroup's simpler
// "first error cancels the rest" contract.
func (s *Storage) ResolveAll(ctx context.Context, refs []objects.Reference) ([]objects.Primitive, error) {
	clone := s.Clone()
	out := make([]objects.Primitive, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			val, err := clone.Resolve(ref)
			if err != nil {
				return err
			}
			out[i] = val
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
